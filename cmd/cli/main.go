package main

import (
	"context"

	"github.com/mberzins/discnote/internal/client/cli"
	"github.com/mberzins/discnote/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)

}

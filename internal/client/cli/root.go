package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Root runs the interactive command loop until EOF or "exit".
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to discnote CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("discnote> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if err := a.dispatch(ctx, cmd, args); err != nil {
			if err == errExit {
				return
			}
			log.Printf("Error: %s", err.Error())
		}
	}
}

var errExit = fmt.Errorf("exit")

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Println("Available commands: album <id> [page], user <name> [page], show <id>, add, edit <id>, delete <id>, logout, exit")
		} else {
			fmt.Println("Available commands: register, login, album <id> [page], user <name> [page], show <id>, exit")
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		a.Logout()
		return nil
	case "album":
		if len(args) < 1 {
			return fmt.Errorf("usage: album <id> [page]")
		}
		return a.listByAlbum(ctx, args[0], pageArg(args, 1))
	case "user":
		if len(args) < 1 {
			return fmt.Errorf("usage: user <name> [page]")
		}
		return a.listByUser(ctx, args[0], pageArg(args, 1))
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: show <id>")
		}
		return a.showReview(ctx, args[0])
	case "add":
		return a.addReview(ctx)
	case "edit":
		if len(args) != 1 {
			return fmt.Errorf("usage: edit <id>")
		}
		return a.editReview(ctx, args[0])
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete <id>")
		}
		return a.deleteReview(ctx, args[0])
	case "exit", "quit":
		return errExit
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

// pageArg reads an optional 1-indexed page number argument, defaulting to 1.
func pageArg(args []string, idx int) int {
	if len(args) <= idx {
		return 1
	}
	if n, err := strconv.Atoi(args[idx]); err == nil && n > 0 {
		return n
	}
	return 1
}

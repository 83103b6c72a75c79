// Package repomanager vends repository implementations bound to a database
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mberzins/discnote/internal/dbx"
	"github.com/mberzins/discnote/internal/server/repositories/reviews"
	"github.com/mberzins/discnote/internal/server/repositories/users"
)

// RepositoryManager constructs store implementations for a given DBTX
// (either *sql.DB or a transaction handle) and runs schema migrations.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Reviews(db dbx.DBTX) reviews.Repository
}

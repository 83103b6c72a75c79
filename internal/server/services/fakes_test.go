package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mberzins/discnote/internal/common"
	"github.com/mberzins/discnote/internal/dbx"
	"github.com/mberzins/discnote/internal/logging"
	"github.com/mberzins/discnote/internal/server/models"
	reviewsrepo "github.com/mberzins/discnote/internal/server/repositories/reviews"
	usersrepo "github.com/mberzins/discnote/internal/server/repositories/users"
)

// --- in-memory fakes ---

type memUsersRepo struct {
	byName map[string]*models.User
	nextID int

	createErr error
	getErr    error
	existsErr error
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byName: map[string]*models.User{}}
}

func (f *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u.ID = fmt.Sprintf("u-%d", f.nextID)
	f.byName[u.Username] = u
	return u, nil
}

func (f *memUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *memUsersRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byName[username]
	return ok, nil
}

type memReviewsRepo struct {
	byID   map[string]*models.Review
	nextID int

	createErr error
	getErr    error
	updateErr error
	deleteErr error
	listErr   error
}

func newMemReviewsRepo() *memReviewsRepo {
	return &memReviewsRepo{byID: map[string]*models.Review{}}
}

func (f *memReviewsRepo) Create(ctx context.Context, r *models.Review) (*models.Review, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	r.ID = fmt.Sprintf("r-%d", f.nextID)
	stored := *r
	f.byID[r.ID] = &stored
	return r, nil
}

func (f *memReviewsRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *memReviewsRepo) Update(ctx context.Context, r *models.Review) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.byID[r.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Title = r.Title
	stored.Content = r.Content
	stored.Score = r.Score
	return nil
}

func (f *memReviewsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *memReviewsRepo) list(match func(*models.Review) bool, offset, limit int) ([]*models.Review, int64) {
	var all []*models.Review
	for _, r := range f.byID {
		if match(r) {
			cp := *r
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total
}

func (f *memReviewsRepo) ListByAlbumID(ctx context.Context, albumID string, offset, limit int) ([]*models.Review, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	items, total := f.list(func(r *models.Review) bool { return r.AlbumID == albumID }, offset, limit)
	return items, total, nil
}

func (f *memReviewsRepo) ListByUserID(ctx context.Context, userID string, offset, limit int) ([]*models.Review, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	items, total := f.list(func(r *models.Review) bool { return r.UserID == userID }, offset, limit)
	return items, total, nil
}

type fakeRepoManager struct {
	u *memUsersRepo
	r *memReviewsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Reviews(db dbx.DBTX) reviewsrepo.Repository         { return m.r }

type fakeGateway struct {
	albums map[string]*models.Album
	err    error
	calls  int
}

func (f *fakeGateway) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	album, ok := f.albums[albumID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return album, nil
}

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mberzins/discnote/internal/common"
	"github.com/mberzins/discnote/internal/logging"
	"github.com/mberzins/discnote/internal/server/models"
	"github.com/mberzins/discnote/internal/server/services"
)

type fakeAuth struct {
	registerErr error
	loginToken  string
	loginErr    error
	user        *models.User
	authErr     error
}

func (f *fakeAuth) Register(ctx context.Context, username, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u-1", Username: username}, nil
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeAuth) Authorize(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.user, nil
}

type fakeReviews struct {
	page      *models.ReviewPage
	review    *models.Review
	err       error
	deleteErr error

	gotAlbumID  string
	gotUsername string
	gotPageNo   int
	gotPageSize int
	gotCaller   *models.User
	gotInput    services.ReviewInput
	gotUpdate   services.ReviewUpdate
}

func (f *fakeReviews) ListByAlbum(ctx context.Context, albumID string, pageNo, pageSize int) (*models.ReviewPage, error) {
	f.gotAlbumID, f.gotPageNo, f.gotPageSize = albumID, pageNo, pageSize
	return f.page, f.err
}

func (f *fakeReviews) ListByUsername(ctx context.Context, username string, pageNo, pageSize int) (*models.ReviewPage, error) {
	f.gotUsername, f.gotPageNo, f.gotPageSize = username, pageNo, pageSize
	return f.page, f.err
}

func (f *fakeReviews) GetByID(ctx context.Context, reviewID string) (*models.Review, error) {
	return f.review, f.err
}

func (f *fakeReviews) Create(ctx context.Context, caller *models.User, input services.ReviewInput) (*models.Review, error) {
	f.gotCaller, f.gotInput = caller, input
	return f.review, f.err
}

func (f *fakeReviews) Update(ctx context.Context, caller *models.User, reviewID string, input services.ReviewUpdate) (*models.Review, error) {
	f.gotCaller, f.gotUpdate = caller, input
	return f.review, f.err
}

func (f *fakeReviews) Delete(ctx context.Context, caller *models.User, reviewID string) error {
	f.gotCaller = caller
	return f.deleteErr
}

type fakePinger struct{ err error }

func (f *fakePinger) PingContext(ctx context.Context) error { return f.err }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func newTestHandler(auth *fakeAuth, reviews *fakeReviews, ping *fakePinger) http.Handler {
	if auth == nil {
		auth = &fakeAuth{}
	}
	if reviews == nil {
		reviews = &fakeReviews{}
	}
	if ping == nil {
		ping = &fakePinger{}
	}
	return NewHandler(auth, reviews, ping, testLogger()).Routes()
}

func doRequest(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRegister(t *testing.T) {
	h := newTestHandler(nil, nil, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/auth/register", "", `{"username":"alice","password":"password1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["message"] != "User registered successfully" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	h := newTestHandler(&fakeAuth{registerErr: common.ErrUsernameTaken}, nil, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/auth/register", "", `{"username":"alice","password":"password1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["error"] != "Username is already taken!" {
		t.Fatalf(`error = %q, want "Username is already taken!"`, body["error"])
	}
}

func TestRegister_UnknownField(t *testing.T) {
	h := newTestHandler(nil, nil, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/auth/register", "", `{"username":"alice","password":"pw","admin":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLogin(t *testing.T) {
	h := newTestHandler(&fakeAuth{loginToken: "tok123"}, nil, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"password1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Authorization"); got != "Bearer tok123" {
		t.Fatalf("Authorization header = %q", got)
	}
	var body loginResponse
	decodeBody(t, rec, &body)
	if body.AccessToken != "tok123" || body.TokenType != "Bearer" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Message != "Successful login" {
		t.Fatalf(`message = %q, want "Successful login"`, body.Message)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newTestHandler(&fakeAuth{loginErr: common.ErrAuthentication}, nil, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestListByAlbum_DefaultPaging(t *testing.T) {
	reviews := &fakeReviews{page: models.NewReviewPage(nil, 1, 10, 0)}
	h := newTestHandler(nil, reviews, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/reviews/album/A1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if reviews.gotAlbumID != "A1" || reviews.gotPageNo != 1 || reviews.gotPageSize != 10 {
		t.Fatalf("service saw albumID=%q pageNo=%d pageSize=%d", reviews.gotAlbumID, reviews.gotPageNo, reviews.gotPageSize)
	}

	var body reviewPageResponse
	decodeBody(t, rec, &body)
	if body.Content == nil {
		t.Fatalf("content must serialize as [] for an empty page")
	}
	if !body.Last {
		t.Fatalf("empty result must be the last page")
	}
}

func TestListByAlbum_ExplicitPaging(t *testing.T) {
	reviews := &fakeReviews{page: models.NewReviewPage(nil, 3, 5, 20)}
	h := newTestHandler(nil, reviews, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/reviews/album/A1?pageNo=3&pageSize=5", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if reviews.gotPageNo != 3 || reviews.gotPageSize != 5 {
		t.Fatalf("service saw pageNo=%d pageSize=%d", reviews.gotPageNo, reviews.gotPageSize)
	}
}

func TestListByAlbum_BadPagingValues(t *testing.T) {
	reviews := &fakeReviews{err: common.ErrValidation}
	h := newTestHandler(nil, reviews, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/reviews/album/A1?pageNo=abc", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-integer pageNo: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/reviews/album/A1?pageNo=0", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range pageNo: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListByUsername_UnknownUser(t *testing.T) {
	reviews := &fakeReviews{err: common.ErrUserNotFound}
	h := newTestHandler(nil, reviews, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/reviews/user/ghost", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListByUsername_EnrichedPayload(t *testing.T) {
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	review := &models.Review{
		ID: "r-1", AlbumID: "A1", Username: "alice", Title: "Great", Score: 9,
		PublishedAt: published,
		Album:       &models.Album{ID: "A1", Name: "In Rainbows", Artist: "Radiohead"},
	}
	reviews := &fakeReviews{page: models.NewReviewPage([]*models.Review{review}, 1, 10, 1)}
	h := newTestHandler(nil, reviews, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/reviews/user/alice", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body reviewPageResponse
	decodeBody(t, rec, &body)
	if len(body.Content) != 1 {
		t.Fatalf("expected 1 item, got %d", len(body.Content))
	}
	item := body.Content[0]
	if item.Album == nil || item.Album.Name != "In Rainbows" {
		t.Fatalf("album metadata missing: %+v", item)
	}
	if !item.PublishedDate.Equal(published) {
		t.Fatalf("publishedDate = %v, want %v", item.PublishedDate, published)
	}
}

func TestGetReview_NotFound(t *testing.T) {
	reviews := &fakeReviews{err: common.ErrReviewNotFound}
	h := newTestHandler(nil, reviews, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/reviews/ghost", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateReview_RequiresToken(t *testing.T) {
	h := newTestHandler(nil, nil, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/reviews", "", `{"albumId":"A1","title":"x","score":5}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCreateReview(t *testing.T) {
	caller := &models.User{ID: "u-1", Username: "alice"}
	reviews := &fakeReviews{review: &models.Review{ID: "r-1", AlbumID: "A1", Username: "alice", Title: "Great", Score: 9}}
	h := newTestHandler(&fakeAuth{user: caller}, reviews, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/reviews", "tok",
		`{"albumId":"A1","title":"Great","content":"superb","score":9}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if reviews.gotCaller != caller {
		t.Fatalf("caller not forwarded")
	}
	if reviews.gotInput.AlbumID != "A1" || reviews.gotInput.Score != 9 {
		t.Fatalf("input not forwarded: %+v", reviews.gotInput)
	}
}

func TestUpdateReview_PartialBody(t *testing.T) {
	caller := &models.User{ID: "u-1", Username: "alice"}
	reviews := &fakeReviews{review: &models.Review{ID: "r-1"}}
	h := newTestHandler(&fakeAuth{user: caller}, reviews, nil)

	rec := doRequest(t, h, http.MethodPut, "/api/reviews/r-1", "tok", `{"title":"Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if reviews.gotUpdate.Title == nil || *reviews.gotUpdate.Title != "Renamed" {
		t.Fatalf("title not forwarded: %+v", reviews.gotUpdate)
	}
	if reviews.gotUpdate.Content != nil || reviews.gotUpdate.Score != nil {
		t.Fatalf("absent fields must stay nil: %+v", reviews.gotUpdate)
	}
}

func TestUpdateReview_NotOwner(t *testing.T) {
	caller := &models.User{ID: "u-2", Username: "mallory"}
	reviews := &fakeReviews{err: common.ErrNotOwner}
	h := newTestHandler(&fakeAuth{user: caller}, reviews, nil)

	rec := doRequest(t, h, http.MethodPut, "/api/reviews/r-1", "tok", `{"score":1}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestUpdateReview_ExpiredToken(t *testing.T) {
	h := newTestHandler(&fakeAuth{authErr: common.ErrTokenExpired}, nil, nil)

	rec := doRequest(t, h, http.MethodPut, "/api/reviews/r-1", "stale", `{"score":5}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestDeleteReview(t *testing.T) {
	caller := &models.User{ID: "u-1", Username: "alice"}
	h := newTestHandler(&fakeAuth{user: caller}, &fakeReviews{}, nil)

	rec := doRequest(t, h, http.MethodDelete, "/api/reviews/r-1", "tok", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestDeleteReview_NotFound(t *testing.T) {
	caller := &models.User{ID: "u-1", Username: "alice"}
	h := newTestHandler(&fakeAuth{user: caller}, &fakeReviews{deleteErr: common.ErrReviewNotFound}, nil)

	rec := doRequest(t, h, http.MethodDelete, "/api/reviews/ghost", "tok", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	reviews := &fakeReviews{err: errors.New("pq: connection refused")}
	h := newTestHandler(nil, reviews, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/reviews/r-1", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(nil, nil, nil)
	rec := doRequest(t, h, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	h = newTestHandler(nil, nil, &fakePinger{err: errors.New("down")})
	rec = doRequest(t, h, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

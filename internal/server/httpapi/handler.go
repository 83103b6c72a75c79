// Package httpapi exposes the review service over JSON HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/mberzins/discnote/internal/logging"
	"github.com/mberzins/discnote/internal/server/models"
	"github.com/mberzins/discnote/internal/server/services"
)

// AuthService is the identity surface the handlers need.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authorize(ctx context.Context, token string) (*models.User, error)
}

// ReviewService is the review surface the handlers need.
type ReviewService interface {
	ListByAlbum(ctx context.Context, albumID string, pageNo, pageSize int) (*models.ReviewPage, error)
	ListByUsername(ctx context.Context, username string, pageNo, pageSize int) (*models.ReviewPage, error)
	GetByID(ctx context.Context, reviewID string) (*models.Review, error)
	Create(ctx context.Context, caller *models.User, input services.ReviewInput) (*models.Review, error)
	Update(ctx context.Context, caller *models.User, reviewID string, input services.ReviewUpdate) (*models.Review, error)
	Delete(ctx context.Context, caller *models.User, reviewID string) error
}

// Pinger reports backing-store liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler wires HTTP routes to the auth and review services.
type Handler struct {
	auth    AuthService
	reviews ReviewService
	db      Pinger
	logger  logging.Logger
}

func NewHandler(auth AuthService, reviews ReviewService, db Pinger, logger logging.Logger) *Handler {
	return &Handler{auth: auth, reviews: reviews, db: db, logger: logger}
}

// Routes returns the route table for the API.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)

	mux.HandleFunc("GET /api/reviews/album/{albumId}", h.listByAlbum)
	mux.HandleFunc("GET /api/reviews/user/{username}", h.listByUsername)
	mux.HandleFunc("GET /api/reviews/{id}", h.getReview)
	mux.HandleFunc("POST /api/reviews", h.createReview)
	mux.HandleFunc("PUT /api/reviews/{id}", h.updateReview)
	mux.HandleFunc("DELETE /api/reviews/{id}", h.deleteReview)

	mux.HandleFunc("GET /healthz", h.health)

	return mux
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error(r.Context(), "health check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

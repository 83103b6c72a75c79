package httpapi

import (
	"net/http"
	"time"

	"github.com/mberzins/discnote/internal/server/models"
	"github.com/mberzins/discnote/internal/server/services"
)

type reviewRequest struct {
	AlbumID string `json:"albumId"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Score   int    `json:"score"`
}

type reviewUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Score   *int    `json:"score"`
}

type albumResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	CoverURL    string `json:"coverUrl,omitempty"`
	TotalTracks int    `json:"totalTracks,omitempty"`
}

type reviewResponse struct {
	ID            string         `json:"id"`
	AlbumID       string         `json:"albumId"`
	Username      string         `json:"username"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Score         int            `json:"score"`
	Likes         int64          `json:"likes"`
	PublishedDate time.Time      `json:"publishedDate"`
	Album         *albumResponse `json:"album,omitempty"`
}

type reviewPageResponse struct {
	Content       []reviewResponse `json:"content"`
	PageNo        int              `json:"pageNo"`
	PageSize      int              `json:"pageSize"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	Last          bool             `json:"last"`
	Partial       bool             `json:"partial,omitempty"`
}

func toReviewResponse(r *models.Review) reviewResponse {
	resp := reviewResponse{
		ID:            r.ID,
		AlbumID:       r.AlbumID,
		Username:      r.Username,
		Title:         r.Title,
		Content:       r.Content,
		Score:         r.Score,
		Likes:         r.Likes,
		PublishedDate: r.PublishedAt,
	}
	if r.Album != nil {
		resp.Album = &albumResponse{
			ID:          r.Album.ID,
			Name:        r.Album.Name,
			Artist:      r.Album.Artist,
			ReleaseDate: r.Album.ReleaseDate,
			CoverURL:    r.Album.CoverURL,
			TotalTracks: r.Album.TotalTracks,
		}
	}
	return resp
}

func toPageResponse(p *models.ReviewPage) reviewPageResponse {
	content := make([]reviewResponse, 0, len(p.Content))
	for _, r := range p.Content {
		content = append(content, toReviewResponse(r))
	}
	return reviewPageResponse{
		Content:       content,
		PageNo:        p.PageNo,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Last:          p.Last,
		Partial:       p.Partial,
	}
}

func (h *Handler) listByAlbum(w http.ResponseWriter, r *http.Request) {
	pageNo, pageSize, err := pagingParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := h.reviews.ListByAlbum(r.Context(), r.PathValue("albumId"), pageNo, pageSize)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) listByUsername(w http.ResponseWriter, r *http.Request) {
	pageNo, pageSize, err := pagingParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := h.reviews.ListByUsername(r.Context(), r.PathValue("username"), pageNo, pageSize)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(review))
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	caller, err := h.authorize(r)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), caller, services.ReviewInput{
		AlbumID: req.AlbumID,
		Title:   req.Title,
		Content: req.Content,
		Score:   req.Score,
	})
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	caller, err := h.authorize(r)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	var req reviewUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	review, err := h.reviews.Update(r.Context(), caller, r.PathValue("id"), services.ReviewUpdate{
		Title:   req.Title,
		Content: req.Content,
		Score:   req.Score,
	})
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(review))
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	caller, err := h.authorize(r)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	if err := h.reviews.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Review deleted successfully"})
}

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"groovesync/internal/delivery/api/response"
	"groovesync/internal/domain/entity"
	"groovesync/internal/errors"
	"groovesync/internal/usecase"
)

// ReviewHandlerParams holds dependencies for ReviewHandler, injected by Fx.
type ReviewHandlerParams struct {
	fx.In

	ReviewUC usecase.ReviewUsecase
	Logger   *slog.Logger
}

// ReviewHandler serves album reviews.
type ReviewHandler struct {
	reviewUC usecase.ReviewUsecase
	logger   *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler
func NewReviewHandler(params ReviewHandlerParams) *ReviewHandler {
	return &ReviewHandler{
		reviewUC: params.ReviewUC,
		logger:   params.Logger,
	}
}

// SaveReviewRequest is the body of POST /review/save.
type SaveReviewRequest struct {
	AlbumID string   `json:"album_id" validate:"required"`
	Rate    *float64 `json:"rate" validate:"required,gte=0,lte=5"`
	Text    string   `json:"text"`
}

// UpdateReviewRequest is the body of PUT /review/update/:review_id. Absent fields are kept.
type UpdateReviewRequest struct {
	Rate *float64 `json:"rate" validate:"omitempty,gte=0,lte=5"`
	Text *string  `json:"text"`
}

// ReviewResponse is the public view of a review.
type ReviewResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AlbumID   string    `json:"album_id"`
	Rate      float64   `json:"rate"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewListResponse wraps a list of reviews.
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}

// ReviewIDResponse is returned on creation.
type ReviewIDResponse struct {
	ReviewID string `json:"review_id"`
}

func newReviewListResponse(reviews []*entity.Review) ReviewListResponse {
	out := ReviewListResponse{Reviews: make([]ReviewResponse, 0, len(reviews))}
	for _, r := range reviews {
		out.Reviews = append(out.Reviews, ReviewResponse{
			ID:        r.ID,
			Username:  r.Username,
			AlbumID:   r.AlbumID,
			Rate:      r.Rate,
			Text:      r.Text,
			CreatedAt: r.CreatedAt,
		})
	}

	return out
}

// Save stores a review written by the signed-in user.
func (h *ReviewHandler) Save(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	var req SaveReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviewUC.Save(c.Request().Context(), username, &usecase.SaveReviewInput{
		AlbumID: req.AlbumID,
		Rate:    *req.Rate,
		Text:    req.Text,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, ReviewIDResponse{ReviewID: review.ID})
}

// ListByUser returns the newest reviews of a user, one unless ?limit= says otherwise.
func (h *ReviewHandler) ListByUser(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	reviews, err := h.reviewUC.ListByUser(c.Request().Context(), c.Param("username"), limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newReviewListResponse(reviews))
}

// ListByAlbum returns every review of an album.
func (h *ReviewHandler) ListByAlbum(c echo.Context) error {
	reviews, err := h.reviewUC.ListByAlbum(c.Request().Context(), c.Param("album_id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newReviewListResponse(reviews))
}

// Update edits the rate or text of the caller's review.
func (h *ReviewHandler) Update(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	var req UpdateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.reviewUC.Update(c.Request().Context(), username, c.Param("review_id"), &usecase.UpdateReviewInput{
		Rate: req.Rate,
		Text: req.Text,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, "Review updated")
}

// Delete removes the caller's review.
func (h *ReviewHandler) Delete(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.reviewUC.Delete(c.Request().Context(), username, c.Param("review_id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, "Review deleted")
}

package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/reelrank/backend/internal/errors"
	"github.com/reelrank/backend/internal/logger"
	"github.com/reelrank/backend/internal/metrics"
)

// ratingRequest is one rating submission
type ratingRequest struct {
	UserID  int64    `json:"user_id"`
	MovieID int64    `json:"movie_id"`
	Rating  *float64 `json:"rating"`
}

// SubmitRating upserts one (user, movie) rating. A later rating for the
// same pair replaces the earlier one, which also removes the movie from
// future candidate pools for that user.
// POST /api/v1/ratings
func (h *Handlers) SubmitRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("invalid request body").WithDetails(err.Error()))
		return
	}

	userID := req.UserID
	if userID == 0 {
		userID = h.defaultUserID
	}
	if userID <= 0 {
		respondError(c, apierrors.ValidationError("user_id", "user_id must be positive"))
		return
	}

	if req.MovieID <= 0 {
		respondError(c, apierrors.ValidationError("movie_id", "movie_id must be positive"))
		return
	}

	if req.Rating == nil {
		respondError(c, apierrors.ValidationError("rating", "rating is required"))
		return
	}
	rating := *req.Rating
	if rating < 0.5 || rating > 5.0 || math.Mod(rating*2, 1) != 0 {
		respondError(c, apierrors.ValidationError("rating", "rating must be a half-star value between 0.5 and 5.0"))
		return
	}

	ctx := c.Request.Context()
	if err := h.store.EnsureUser(ctx, userID); err != nil {
		logger.Log.Error("failed to ensure user",
			logger.WithUserID(userID),
			zap.Error(err),
		)
		metrics.Get().ErrorsTotal.WithLabelValues("database", "ratings").Inc()
		respondError(c, apierrors.InternalError("failed to record rating"))
		return
	}

	if err := h.store.UpsertRating(ctx, userID, req.MovieID, rating, time.Now().UTC()); err != nil {
		logger.Log.Error("failed to upsert rating",
			logger.WithUserID(userID),
			logger.WithMovieID(req.MovieID),
			zap.Error(err),
		)
		metrics.Get().ErrorsTotal.WithLabelValues("database", "ratings").Inc()
		respondError(c, apierrors.InternalError("failed to record rating"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"movie_id": req.MovieID,
	})
}

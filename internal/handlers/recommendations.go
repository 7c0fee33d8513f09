package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/reelrank/backend/internal/errors"
	"github.com/reelrank/backend/internal/logger"
	"github.com/reelrank/backend/internal/metrics"
	"github.com/reelrank/backend/internal/recommend"
)

const (
	defaultAlpha = 0.4
	defaultLimit = 10
	maxLimit     = 100
)

// recommendRequest is the caller-supplied parameter set for one ranking
type recommendRequest struct {
	UserID        int64    `json:"user_id"`
	Genres        []string `json:"genres"`
	YearChoice    string   `json:"year_choice"`    // "after2000", "after1980" or "any"
	PopChoice     string   `json:"pop_choice"`     // "popular", "mixed" or "hidden"
	Alpha         *float64 `json:"alpha"`          // blend weight on preferences, [0, 1]
	ForeignChoice string   `json:"foreign_choice"` // "any", "exclude" or "only"
	Limit         int      `json:"limit"`
}

// GetRecommendations computes the hybrid ranked list for a user.
// POST /api/v1/recommendations
//
// Recoverable history errors (no ratings, sparse neighborhood, no positive
// signal) downgrade the response to preference-only ranking with
// history_available=false rather than failing the request.
func (h *Handlers) GetRecommendations(c *gin.Context) {
	var req recommendRequest
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

	genres := make([]recommend.Genre, 0, len(req.Genres))
	for _, raw := range req.Genres {
		g, ok := recommend.ParseGenre(raw)
		if !ok {
			respondError(c, apierrors.ValidationError("genres", fmt.Sprintf("unknown genre %q", raw)))
			return
		}
		genres = append(genres, g)
	}

	yearMin, ok := parseYearChoice(req.YearChoice)
	if !ok {
		respondError(c, apierrors.ValidationError("year_choice", fmt.Sprintf("unknown year choice %q", req.YearChoice)))
		return
	}

	popularity, ok := parsePopChoice(req.PopChoice)
	if !ok {
		respondError(c, apierrors.ValidationError("pop_choice", fmt.Sprintf("unknown popularity choice %q", req.PopChoice)))
		return
	}

	alpha := defaultAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}
	if alpha < 0 || alpha > 1 {
		respondError(c, apierrors.ValidationError("alpha", "alpha must be between 0 and 1"))
		return
	}

	foreign, ok := parseForeignChoice(req.ForeignChoice)
	if !ok {
		respondError(c, apierrors.ValidationError("foreign_choice", fmt.Sprintf("unknown foreign choice %q", req.ForeignChoice)))
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	profile := recommend.NewProfile(genres, yearMin, popularity)
	metrics.Get().RecommendationRequests.WithLabelValues(string(popularity)).Inc()

	start := time.Now()
	historyAvailable := true
	var notice string

	results, err := h.ranker.Rank(c.Request.Context(), userID, profile, alpha, foreign, limit)
	if err != nil {
		if !isRecoverable(err) {
			logger.Log.Error("recommendation ranking failed",
				logger.WithUserID(userID),
				zap.Error(err),
			)
			metrics.Get().ErrorsTotal.WithLabelValues("ranking", "recommendations").Inc()
			respondError(c, apierrors.InternalError("failed to compute recommendations"))
			return
		}

		// History signal unavailable; serve the preference signal alone.
		historyAvailable = false
		notice = err.Error()
		metrics.Get().RecommendationFallback.WithLabelValues(fallbackReason(err)).Inc()
		logger.Log.Info("falling back to preference-only ranking",
			logger.WithUserID(userID),
			zap.String("reason", notice),
		)

		results, err = h.ranker.RankPreferenceOnly(c.Request.Context(), userID, profile, foreign, limit)
		if err != nil {
			logger.Log.Error("preference-only ranking failed",
				logger.WithUserID(userID),
				zap.Error(err),
			)
			metrics.Get().ErrorsTotal.WithLabelValues("ranking", "recommendations").Inc()
			respondError(c, apierrors.InternalError("failed to compute recommendations"))
			return
		}
	}

	mode := "hybrid"
	if !historyAvailable {
		mode = "preference_only"
	}
	metrics.Get().RecommendationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.Get().RecommendationsServed.WithLabelValues(mode).Add(float64(len(results)))

	h.attachPosters(c, results)

	c.JSON(http.StatusOK, gin.H{
		"results":           results,
		"count":             len(results),
		"history_available": historyAvailable,
		"notice":            notice,
	})
}

// attachPosters resolves poster URLs for the final result set. Poster
// resolution is cosmetic: provider failures leave the field empty and
// never affect ranking.
func (h *Handlers) attachPosters(c *gin.Context, results []recommend.Recommendation) {
	if h.tmdb == nil || !h.tmdb.Enabled() {
		return
	}

	tmdbIDs := make([]int64, 0, len(results))
	for i := range results {
		if results[i].TMDBID != 0 {
			tmdbIDs = append(tmdbIDs, results[i].TMDBID)
		}
	}

	posters := h.tmdb.PosterURLs(c.Request.Context(), tmdbIDs)
	for i := range results {
		results[i].PosterURL = posters[results[i].TMDBID]
	}
}

// isRecoverable reports whether a ranking error is one of the expected
// history-signal failures the caller can downgrade around.
func isRecoverable(err error) bool {
	return errors.Is(err, recommend.ErrNoHistory) ||
		errors.Is(err, recommend.ErrInsufficientData) ||
		errors.Is(err, recommend.ErrNoSignal)
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, recommend.ErrNoHistory):
		return "no_history"
	case errors.Is(err, recommend.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, recommend.ErrNoSignal):
		return "no_signal"
	}
	return "unknown"
}

// parseYearChoice maps the recency tier to a minimum release year
func parseYearChoice(choice string) (int, bool) {
	switch choice {
	case "after2000":
		return 2000, true
	case "after1980":
		return 1980, true
	case "", "any":
		return recommend.DefaultYear, true
	}
	return 0, false
}

func parsePopChoice(choice string) (recommend.PopularityMode, bool) {
	switch choice {
	case "popular":
		return recommend.PopularityPopular, true
	case "hidden":
		return recommend.PopularityHidden, true
	case "", "mixed":
		return recommend.PopularityMixed, true
	}
	return "", false
}

func parseForeignChoice(choice string) (recommend.ForeignPolicy, bool) {
	switch choice {
	case "", "any":
		return recommend.ForeignAny, true
	case "exclude":
		return recommend.ForeignExclude, true
	case "only":
		return recommend.ForeignOnly, true
	}
	return "", false
}

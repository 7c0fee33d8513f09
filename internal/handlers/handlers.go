package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reelrank/backend/internal/catalog"
	"github.com/reelrank/backend/internal/database"
	apierrors "github.com/reelrank/backend/internal/errors"
	"github.com/reelrank/backend/internal/metadata"
	"github.com/reelrank/backend/internal/recommend"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	store         catalog.Store
	ranker        *recommend.Ranker
	tmdb          *metadata.Client
	defaultUserID int64
}

// NewHandlers creates a new handlers instance. defaultUserID is the local
// single-user id requests fall back to when they carry no user_id.
func NewHandlers(store catalog.Store, ranker *recommend.Ranker, tmdb *metadata.Client, defaultUserID int64) *Handlers {
	return &Handlers{
		store:         store,
		ranker:        ranker,
		tmdb:          tmdb,
		defaultUserID: defaultUserID,
	}
}

// Health reports service status
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if err := database.Health(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"service":   "reelrank-backend",
	})
}

// respondError writes a standardized error envelope
func respondError(c *gin.Context, apiErr *apierrors.APIError) {
	c.JSON(apiErr.Status, gin.H{"error": apiErr})
}

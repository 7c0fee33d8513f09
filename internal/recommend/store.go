package recommend

import (
	"context"

	"github.com/reelrank/backend/internal/models"
)

// Store is the slice of the catalog the scoring engine needs. The full
// catalog.Store satisfies it; tests plug in fixtures.
type Store interface {
	// Candidates returns feature rows with at least minRatings ratings.
	Candidates(ctx context.Context, minRatings int64) ([]models.MovieFeature, error)

	// UserRatings returns the current rating per movie for one user.
	UserRatings(ctx context.Context, userID int64) (map[int64]float64, error)

	// NeighborUserIDs returns up to limit distinct users who rated at
	// least one of the given movies, excluding excludeUserID.
	NeighborUserIDs(ctx context.Context, movieIDs []int64, excludeUserID int64, limit int) ([]int64, error)

	// RatingsForUsers returns all rating rows for the given user set.
	RatingsForUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error)
}

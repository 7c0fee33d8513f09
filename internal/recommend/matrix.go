package recommend

import (
	"context"
	"sort"
)

const (
	// DefaultMaxNeighbors caps how many co-rating users a neighborhood
	// pulls in. The cap is a truncation, not a ranked sample; the store
	// truncates at the lowest user ids so reruns see the same set.
	DefaultMaxNeighbors = 3000

	// DefaultMinItemSupport is the minimum rating count a movie needs
	// within the neighborhood population to stay in the matrix. This is
	// a local threshold, distinct from the catalog-wide support floor
	// applied when a movie is actually recommended.
	DefaultMinItemSupport = 5
)

// Neighborhood is a bounded user-by-movie rating matrix built around one
// target user. The sparse form preserves "unrated" as absent; the filled
// form substitutes zero so cosine similarity has dense vectors to work on.
// The two must never be conflated: a filled zero is not a low rating.
type Neighborhood struct {
	// UserIDs holds the target user plus neighbors, sorted ascending.
	UserIDs []int64

	// MovieIDs holds the support-filtered movie set, sorted ascending.
	MovieIDs []int64

	// Sparse maps user id to movie id to rating; missing means unrated.
	Sparse map[int64]map[int64]float64

	// Filled holds one vector per movie (in MovieIDs order) across
	// UserIDs order, with unrated cells as zero.
	Filled [][]float64

	movieIndex map[int64]int
}

// MovieIndex returns the position of a movie in MovieIDs order
func (n *Neighborhood) MovieIndex(movieID int64) (int, bool) {
	i, ok := n.movieIndex[movieID]
	return i, ok
}

// BuildNeighborhood assembles a rating matrix covering the target user and
// a bounded set of users who rated at least one movie in common. Keeping
// the pivot local bounds the similarity computation for large catalogs
// while preserving the structure that matters for this user.
//
// Returns ErrNoHistory when the user has no ratings, and
// ErrInsufficientData when nothing survives the local support filter.
func BuildNeighborhood(ctx context.Context, store Store, userID int64, maxNeighbors, minItemSupport int) (*Neighborhood, error) {
	own, err := store.UserRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(own) == 0 {
		return nil, ErrNoHistory
	}

	ratedIDs := make([]int64, 0, len(own))
	for movieID := range own {
		ratedIDs = append(ratedIDs, movieID)
	}
	sort.Slice(ratedIDs, func(i, j int) bool { return ratedIDs[i] < ratedIDs[j] })

	neighborIDs, err := store.NeighborUserIDs(ctx, ratedIDs, userID, maxNeighbors)
	if err != nil {
		return nil, err
	}

	allUsers := append(neighborIDs, userID)
	sort.Slice(allUsers, func(i, j int) bool { return allUsers[i] < allUsers[j] })

	rows, err := store.RatingsForUsers(ctx, allUsers)
	if err != nil {
		return nil, err
	}

	// Local support filter: only movies rated often enough within this
	// restricted population are statistically safe for similarity.
	counts := make(map[int64]int)
	for _, r := range rows {
		counts[r.MovieID]++
	}

	movieIDs := make([]int64, 0, len(counts))
	for movieID, count := range counts {
		if count >= minItemSupport {
			movieIDs = append(movieIDs, movieID)
		}
	}
	if len(movieIDs) == 0 {
		return nil, ErrInsufficientData
	}
	sort.Slice(movieIDs, func(i, j int) bool { return movieIDs[i] < movieIDs[j] })

	movieIndex := make(map[int64]int, len(movieIDs))
	for i, movieID := range movieIDs {
		movieIndex[movieID] = i
	}
	userIndex := make(map[int64]int, len(allUsers))
	for i, uid := range allUsers {
		userIndex[uid] = i
	}

	sparse := make(map[int64]map[int64]float64, len(allUsers))
	filled := make([][]float64, len(movieIDs))
	for i := range filled {
		filled[i] = make([]float64, len(allUsers))
	}

	for _, r := range rows {
		mi, ok := movieIndex[r.MovieID]
		if !ok {
			continue
		}
		if sparse[r.UserID] == nil {
			sparse[r.UserID] = make(map[int64]float64)
		}
		sparse[r.UserID][r.MovieID] = r.Rating
		filled[mi][userIndex[r.UserID]] = r.Rating
	}

	return &Neighborhood{
		UserIDs:    allUsers,
		MovieIDs:   movieIDs,
		Sparse:     sparse,
		Filled:     filled,
		movieIndex: movieIndex,
	}, nil
}

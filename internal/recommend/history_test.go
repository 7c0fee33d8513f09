package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrank/backend/internal/models"
)

func TestPropagateScores(t *testing.T) {
	// Movies: 1 and 2 rated, 3 and 4 unrated. The user loved 1 and hated
	// 2, so 3 (similar to 1) should score positive and 4 (similar to 2)
	// should mirror it negative.
	nb := &Neighborhood{
		MovieIDs:   []int64{1, 2, 3, 4},
		movieIndex: map[int64]int{1: 0, 2: 1, 3: 2, 4: 3},
	}
	sim := [][]float64{
		{1.0, 0.0, 0.8, 0.1},
		{0.0, 1.0, 0.1, 0.8},
		{0.8, 0.1, 1.0, 0.0},
		{0.1, 0.8, 0.0, 1.0},
	}
	rated := map[int64]float64{1: 5.0, 2: 1.0}

	scores := propagateScores(nb, sim, rated)
	require.Len(t, scores, 4)

	// 0.8*(+2) + 0.1*(-2) = 1.4
	assert.InDelta(t, 1.4, scores[2], 1e-12)
	// 0.1*(+2) + 0.8*(-2) = -1.4
	assert.InDelta(t, -1.4, scores[3], 1e-12)
}

func TestPropagateScoresNeutralRatingIsSilent(t *testing.T) {
	nb := &Neighborhood{
		MovieIDs:   []int64{1, 2},
		movieIndex: map[int64]int{1: 0, 2: 1},
	}
	sim := [][]float64{
		{1.0, 0.9},
		{0.9, 1.0},
	}

	scores := propagateScores(nb, sim, map[int64]float64{1: NeutralRating})

	assert.Equal(t, 0.0, scores[0], "A neutral rating carries no signal")
	assert.Equal(t, 0.0, scores[1])
}

func TestPropagateScoresSkipsFilteredRatedMovie(t *testing.T) {
	// Movie 99 was rated but fell below local support, so it has no row
	// in the matrix and contributes nothing
	nb := &Neighborhood{
		MovieIDs:   []int64{1},
		movieIndex: map[int64]int{1: 0},
	}
	sim := [][]float64{{1.0}}

	scores := propagateScores(nb, sim, map[int64]float64{99: 5.0})

	assert.Equal(t, 0.0, scores[0])
}

func newTestScorer(store Store) *HistoryScorer {
	return &HistoryScorer{
		store:            store,
		maxNeighbors:     10,
		minItemSupport:   2,
		minGlobalSupport: 1,
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestHistoryScorerScore(t *testing.T) {
	store := &stubStore{
		features: []models.MovieFeature{
			{MovieID: 10, Title: "Seen It", AvgRating: floatPtr(4.5), NumRatings: 200, Year: intPtr(1999)},
			{MovieID: 20, Title: "Unseen Gem", AvgRating: floatPtr(4.0), NumRatings: 100, Year: intPtr(2005)},
		},
		ratings: map[int64]map[int64]float64{
			1: {10: 5.0},
			2: {10: 5.0, 20: 5.0},
			3: {10: 5.0, 20: 5.0},
		},
		neighbors: []int64{2, 3},
	}

	ranked, err := newTestScorer(store).Score(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1, "Only the unrated, positively scored movie survives")

	assert.Equal(t, int64(20), ranked[0].MovieID)
	assert.Equal(t, "Unseen Gem", ranked[0].Title)
	assert.Greater(t, ranked[0].Score, 0.0)
	assert.Equal(t, 2005, ranked[0].Year)
}

func TestHistoryScorerNoPositiveSignal(t *testing.T) {
	// The user hated their only rated movie, so everything similar to it
	// propagates negative
	store := &stubStore{
		features: []models.MovieFeature{
			{MovieID: 20, Title: "Similar To Hated", AvgRating: floatPtr(3.0), NumRatings: 50},
		},
		ratings: map[int64]map[int64]float64{
			1: {10: 1.0},
			2: {10: 5.0, 20: 5.0},
			3: {10: 5.0, 20: 5.0},
		},
		neighbors: []int64{2, 3},
	}

	_, err := newTestScorer(store).Score(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrNoSignal)
}

func TestHistoryScorerGlobalSupportFloor(t *testing.T) {
	// Movie 20 scores positive locally but has too few catalog-wide
	// ratings to be recommended
	store := &stubStore{
		features: []models.MovieFeature{
			{MovieID: 20, Title: "Too Obscure", AvgRating: floatPtr(4.8), NumRatings: 3},
		},
		ratings: map[int64]map[int64]float64{
			1: {10: 5.0},
			2: {10: 5.0, 20: 5.0},
			3: {10: 5.0, 20: 5.0},
		},
		neighbors: []int64{2, 3},
	}

	scorer := newTestScorer(store)
	scorer.minGlobalSupport = 30

	_, err := scorer.Score(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrNoSignal)
}

func TestHistoryScorerNoHistory(t *testing.T) {
	store := &stubStore{
		ratings:   map[int64]map[int64]float64{},
		neighbors: []int64{2},
	}

	_, err := NewHistoryScorer(store).Score(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestHistoryScorerTopNTruncation(t *testing.T) {
	store := &stubStore{
		features: []models.MovieFeature{
			{MovieID: 20, Title: "A", AvgRating: floatPtr(4.0), NumRatings: 50},
			{MovieID: 30, Title: "B", AvgRating: floatPtr(4.0), NumRatings: 50},
			{MovieID: 40, Title: "C", AvgRating: floatPtr(4.0), NumRatings: 50},
		},
		ratings: map[int64]map[int64]float64{
			1: {10: 5.0},
			2: {10: 5.0, 20: 5.0, 30: 4.0, 40: 3.5},
			3: {10: 5.0, 20: 5.0, 30: 4.0, 40: 3.5},
		},
		neighbors: []int64{2, 3},
	}

	ranked, err := newTestScorer(store).Score(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Len(t, ranked, 2)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score, "Results must be in descending score order")
}

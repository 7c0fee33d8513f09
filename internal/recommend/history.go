package recommend

import (
	"context"
	"sort"
)

const (
	// NeutralRating is the point on the 0.5-5.0 half-star scale that
	// carries no preference signal. Ratings above it propagate positive
	// affinity through the similarity matrix, ratings below it negative.
	NeutralRating = 3.0

	// DefaultMinGlobalSupport is the catalog-wide rating count a movie
	// needs before it is worth recommending at all. Stricter than the
	// neighborhood-local support floor, and deliberately separate: local
	// support legitimizes the similarity math, global support legitimizes
	// the recommendation.
	DefaultMinGlobalSupport = 30
)

// ScoredMovie is one history-scored candidate
type ScoredMovie struct {
	Candidate
	Score float64
}

// HistoryScorer ranks unseen movies from the user's own rating history by
// propagating deviation-from-neutral through local item-item similarity.
type HistoryScorer struct {
	store            Store
	maxNeighbors     int
	minItemSupport   int
	minGlobalSupport int64
}

// NewHistoryScorer creates a history scorer with the default policy knobs
func NewHistoryScorer(store Store) *HistoryScorer {
	return &HistoryScorer{
		store:            store,
		maxNeighbors:     DefaultMaxNeighbors,
		minItemSupport:   DefaultMinItemSupport,
		minGlobalSupport: DefaultMinGlobalSupport,
	}
}

// Score computes history-based affinity scores for movies the user has not
// rated, returning up to topN of them ordered by descending score. Ties
// keep catalog (movie id) order, so one run is stable.
func (h *HistoryScorer) Score(ctx context.Context, userID int64, topN int) ([]ScoredMovie, error) {
	nb, err := BuildNeighborhood(ctx, h.store, userID, h.maxNeighbors, h.minItemSupport)
	if err != nil {
		return nil, err
	}

	sim := CosineSimilarityMatrix(nb.Filled)

	own := nb.Sparse[userID]
	scores := propagateScores(nb, sim, own)

	// Keep unrated, positively scored movies. A non-positive propagated
	// score means net neutral or negative affinity and is not an
	// actionable recommendation.
	positive := make(map[int64]float64)
	for i, movieID := range nb.MovieIDs {
		if _, rated := own[movieID]; rated {
			continue
		}
		if scores[i] > 0 {
			positive[movieID] = scores[i]
		}
	}
	if len(positive) == 0 {
		return nil, ErrNoSignal
	}

	// Join against full-catalog stats, dropping movies too obscure to
	// recommend. Pushing the support floor into the query keeps the scan
	// small; no imputation is needed because the floor guarantees stats.
	features, err := h.store.Candidates(ctx, h.minGlobalSupport)
	if err != nil {
		return nil, err
	}

	ranked := make([]ScoredMovie, 0, len(positive))
	for _, f := range features {
		score, ok := positive[f.MovieID]
		if !ok {
			continue
		}
		ranked = append(ranked, ScoredMovie{
			Candidate: newCandidate(f, 0),
			Score:     score,
		})
	}
	if len(ranked) == 0 {
		return nil, ErrNoSignal
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// propagateScores spreads each rated movie's deviation from neutral to
// every movie in the neighborhood, weighted by item-item similarity.
// Scores start at zero for the whole movie universe, so an unrated movie
// with no similar rated neighbors correctly ends at zero rather than
// being absent. Rated movies are visited in ascending id order to keep
// floating-point accumulation identical across runs.
func propagateScores(nb *Neighborhood, sim [][]float64, rated map[int64]float64) []float64 {
	scores := make([]float64, len(nb.MovieIDs))

	ratedIDs := make([]int64, 0, len(rated))
	for movieID := range rated {
		ratedIDs = append(ratedIDs, movieID)
	}
	sort.Slice(ratedIDs, func(i, j int) bool { return ratedIDs[i] < ratedIDs[j] })

	for _, movieID := range ratedIDs {
		i, ok := nb.MovieIndex(movieID)
		if !ok {
			// Rated movie fell below local support; nothing to spread.
			continue
		}
		delta := rated[movieID] - NeutralRating
		for j := range scores {
			scores[j] += sim[i][j] * delta
		}
	}
	return scores
}

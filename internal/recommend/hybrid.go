package recommend

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

const (
	// HiddenGemThreshold partitions final results in hidden mode: movies
	// with fewer catalog ratings than this are preferred outright.
	HiddenGemThreshold = 5000

	// historyPoolSize is how many history-scored candidates are fetched
	// before fusion narrows them against the preference pool.
	historyPoolSize = 500

	// PrimaryLanguage is the original-language code treated as domestic
	// by the foreign-language gate.
	PrimaryLanguage = "en"
)

// ForeignPolicy controls the original-language gate
type ForeignPolicy string

const (
	ForeignAny     ForeignPolicy = "any"
	ForeignExclude ForeignPolicy = "exclude"
	ForeignOnly    ForeignPolicy = "only"
)

// LanguageResolver resolves TMDB ids to original-language codes. Lookups
// that fail resolve to "unknown" (absent from the result map), never to an
// error: one bad lookup must not poison the rest.
type LanguageResolver interface {
	// OriginalLanguages returns a code per TMDB id for every id it could
	// resolve. An empty map means the provider yielded nothing usable.
	OriginalLanguages(ctx context.Context, tmdbIDs []int64) map[int64]string

	// Enabled reports whether the provider is configured at all.
	Enabled() bool
}

// Recommendation is one ranked result with all contributing sub-scores
type Recommendation struct {
	MovieID      int64   `json:"movie_id"`
	Title        string  `json:"title"`
	Genres       string  `json:"genres"`
	Year         int     `json:"year"`
	AvgRating    float64 `json:"avg_rating"`
	NumRatings   int64   `json:"num_ratings"`
	TMDBID       int64   `json:"tmdb_id,omitempty"`
	HistoryScore float64 `json:"history_score"`
	PrefScore    float64 `json:"pref_score"`
	FinalScore   float64 `json:"final_score"`
	Language     string  `json:"original_language,omitempty"`
	PosterURL    string  `json:"poster_url,omitempty"`
}

// Ranker fuses history-based and preference-based scores into one ranked
// list. Stateless across requests; every call works on a fresh snapshot.
type Ranker struct {
	store   Store
	history *HistoryScorer
	langs   LanguageResolver // nil disables the language gate
	log     *zap.Logger
}

// NewRanker creates a fusion ranker. langs may be nil when no metadata
// provider is configured; the language gate then degrades to no filtering.
func NewRanker(store Store, history *HistoryScorer, langs LanguageResolver, log *zap.Logger) *Ranker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranker{store: store, history: history, langs: langs, log: log}
}

// Rank produces the hybrid top-N for one user. alpha in [0, 1] weights the
// preference signal; (1 - alpha) weights history. History failures
// (ErrNoHistory, ErrInsufficientData, ErrNoSignal) propagate to the caller,
// which may choose to fall back to RankPreferenceOnly.
func (r *Ranker) Rank(ctx context.Context, userID int64, profile Profile, alpha float64, foreign ForeignPolicy, topN int) ([]Recommendation, error) {
	pool, err := r.loadUnratedPool(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	historyRanked, err := r.history.Score(ctx, userID, historyPoolSize)
	if err != nil {
		return nil, err
	}
	historyScores := make(map[int64]float64, len(historyRanked))
	for _, sm := range historyRanked {
		historyScores[sm.MovieID] = sm.Score
	}

	prefScores := ScoreByPreferences(pool, profile)

	// A candidate absent from the history result is a zero signal here,
	// not an error: the two signals stay independent until the blend.
	histScores := make([]float64, len(pool))
	for i := range pool {
		histScores[i] = historyScores[pool[i].MovieID]
	}

	prefNorm := MinMaxNormalize(prefScores)
	histNorm := MinMaxNormalize(histScores)

	results := make([]Recommendation, 0, len(pool))
	for i := range pool {
		final := alpha*prefNorm[i] + (1-alpha)*histNorm[i]
		if final <= 0 {
			continue
		}
		results = append(results, newRecommendation(&pool[i], histScores[i], prefScores[i], final))
	}

	results = r.applyLanguageGate(ctx, results, foreign)
	return orderResults(results, profile.Popularity, topN), nil
}

// RankPreferenceOnly ranks on the preference signal alone. Used by callers
// as a fallback when history scoring reports a recoverable error.
func (r *Ranker) RankPreferenceOnly(ctx context.Context, userID int64, profile Profile, foreign ForeignPolicy, topN int) ([]Recommendation, error) {
	pool, err := r.loadUnratedPool(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	prefScores := ScoreByPreferences(pool, profile)
	prefNorm := MinMaxNormalize(prefScores)

	results := make([]Recommendation, 0, len(pool))
	for i := range pool {
		if prefNorm[i] <= 0 {
			continue
		}
		results = append(results, newRecommendation(&pool[i], 0, prefScores[i], prefNorm[i]))
	}

	results = r.applyLanguageGate(ctx, results, foreign)
	return orderResults(results, profile.Popularity, topN), nil
}

// loadUnratedPool loads the candidate pool, removes everything the user
// already rated, and applies the hard genre gate when the profile selected
// any genres. The gate runs before preference scoring so the soft genre
// penalty only ever applies to survivors.
func (r *Ranker) loadUnratedPool(ctx context.Context, userID int64, profile Profile) ([]Candidate, error) {
	pool, err := LoadCandidates(ctx, r.store)
	if err != nil {
		return nil, err
	}

	rated, err := r.store.UserRatings(ctx, userID)
	if err != nil {
		return nil, err
	}

	selected := profile.SelectedGenres()

	filtered := pool[:0]
	for i := range pool {
		if _, seen := rated[pool[i].MovieID]; seen {
			continue
		}
		if len(selected) > 0 && !pool[i].MatchesAny(selected) {
			continue
		}
		filtered = append(filtered, pool[i])
	}
	return filtered, nil
}

// applyLanguageGate filters results by original language. Unknown-language
// movies survive the "exclude" gate and are dropped by the "only" gate. If
// the provider yields nothing at all for the whole set, the gate is skipped
// entirely: missing external data must never read as "everything is
// foreign" and empty the results.
func (r *Ranker) applyLanguageGate(ctx context.Context, results []Recommendation, foreign ForeignPolicy) []Recommendation {
	if foreign != ForeignExclude && foreign != ForeignOnly {
		return results
	}
	if r.langs == nil || !r.langs.Enabled() {
		return results
	}

	tmdbIDs := make([]int64, 0, len(results))
	for i := range results {
		if results[i].TMDBID != 0 {
			tmdbIDs = append(tmdbIDs, results[i].TMDBID)
		}
	}

	languages := r.langs.OriginalLanguages(ctx, tmdbIDs)
	if len(languages) == 0 {
		r.log.Warn("language lookups returned nothing, skipping foreign filter",
			zap.Int("candidates", len(results)))
		return results
	}

	kept := results[:0]
	for i := range results {
		lang := languages[results[i].TMDBID]
		results[i].Language = lang

		switch foreign {
		case ForeignExclude:
			if lang == "" || lang == PrimaryLanguage {
				kept = append(kept, results[i])
			}
		case ForeignOnly:
			if lang != "" && lang != PrimaryLanguage {
				kept = append(kept, results[i])
			}
		}
	}
	return kept
}

// orderResults sorts by final score and truncates to topN. In hidden mode
// the list is partitioned at the gem threshold first: every gem precedes
// every non-gem, and non-gems only pad the tail when there are fewer gems
// than requested.
func orderResults(results []Recommendation, popularity PopularityMode, topN int) []Recommendation {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	if popularity != PopularityHidden {
		if topN > 0 && len(results) > topN {
			results = results[:topN]
		}
		return results
	}

	gems := make([]Recommendation, 0, len(results))
	rest := make([]Recommendation, 0, len(results))
	for _, rec := range results {
		if rec.NumRatings < HiddenGemThreshold {
			gems = append(gems, rec)
		} else {
			rest = append(rest, rec)
		}
	}

	if topN > 0 && len(gems) >= topN {
		return gems[:topN]
	}
	ordered := append(gems, rest...)
	if topN > 0 && len(ordered) > topN {
		ordered = ordered[:topN]
	}
	return ordered
}

func newRecommendation(c *Candidate, histScore, prefScore, finalScore float64) Recommendation {
	return Recommendation{
		MovieID:      c.MovieID,
		Title:        c.Title,
		Genres:       c.Genres,
		Year:         c.Year,
		AvgRating:    c.AvgRating,
		NumRatings:   c.NumRatings,
		TMDBID:       c.TMDBID,
		HistoryScore: histScore,
		PrefScore:    prefScore,
		FinalScore:   finalScore,
	}
}

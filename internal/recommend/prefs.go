package recommend

import "math"

// PopularityMode selects how rating volume shapes preference scores
type PopularityMode string

const (
	// PopularityPopular rewards big hits with a log-volume bonus.
	PopularityPopular PopularityMode = "popular"

	// PopularityMixed rewards volume relative to the pool's own center,
	// not absolute popularity. This is the default.
	PopularityMixed PopularityMode = "mixed"

	// PopularityHidden boosts movies with few ratings and mildly
	// penalizes very popular ones.
	PopularityHidden PopularityMode = "hidden"
)

// Preference scoring policy constants
const (
	// GenreBoost is the weight given to each genre the user selected.
	GenreBoost = 2.0

	// genreMissPenalty is subtracted when the user selected genres and a
	// movie matches none of them. A soft penalty; the hard genre gate is
	// a separate, caller-controlled filter.
	genreMissPenalty = 3.0

	// oldYearPenalty is subtracted from movies older than the requested
	// minimum year. Soft, not an exclusion.
	oldYearPenalty = 2.0

	// hiddenGemRatingCount is the rating-count ceiling under which a
	// movie counts as rare for the hidden mode's rarity bonus.
	hiddenGemRatingCount = 500.0

	hiddenRarityBoost   = 3.0
	hiddenLogPenalty    = 0.2
	mixedLogScoreWeight = 0.3
)

// Profile is a user's declared content preferences for one request. A
// value object: built from request input, never persisted.
type Profile struct {
	// GenreWeights maps each genre to a non-negative boost. Genres the
	// user did not select carry weight 0.
	GenreWeights map[Genre]float64

	// YearMin is the minimum release year before the age penalty kicks in.
	YearMin int

	// Popularity selects the rating-volume shaping mode.
	Popularity PopularityMode
}

// NewProfile builds a profile giving each selected genre the standard boost
func NewProfile(genres []Genre, yearMin int, popularity PopularityMode) Profile {
	weights := make(map[Genre]float64, len(AllGenres))
	for _, g := range AllGenres {
		weights[g] = 0
	}
	for _, g := range genres {
		weights[g] = GenreBoost
	}
	if yearMin <= 0 {
		yearMin = DefaultYear
	}
	if popularity == "" {
		popularity = PopularityMixed
	}
	return Profile{
		GenreWeights: weights,
		YearMin:      yearMin,
		Popularity:   popularity,
	}
}

// SelectedGenres returns the genres with a positive weight, in canonical
// order.
func (p Profile) SelectedGenres() []Genre {
	var selected []Genre
	for _, g := range AllGenres {
		if p.GenreWeights[g] > 0 {
			selected = append(selected, g)
		}
	}
	return selected
}

// ScoreByPreferences computes a content score per candidate, aligned index
// for index with the pool. The function is pure: given the same pool and
// profile it always returns the same series, with no I/O and no randomness.
//
// The base score is the movie's average rating. Genre boosts, the
// no-genre-match penalty, the age penalty, and popularity shaping are
// applied on top.
func ScoreByPreferences(pool []Candidate, profile Profile) []float64 {
	scores := make([]float64, len(pool))
	if len(pool) == 0 {
		return scores
	}

	selected := profile.SelectedGenres()

	for i := range pool {
		c := &pool[i]
		score := c.AvgRating

		for _, g := range selected {
			if c.HasGenre(g) {
				score += profile.GenreWeights[g]
			}
		}
		if len(selected) > 0 && !c.MatchesAny(selected) {
			score -= genreMissPenalty
		}

		if c.Year < profile.YearMin {
			score -= oldYearPenalty
		}

		scores[i] = score
	}

	applyPopularityShaping(pool, profile.Popularity, scores)
	return scores
}

// applyPopularityShaping adjusts scores in place according to the selected
// popularity mode. The hidden and mixed modes are relative to the current
// pool (its minimum and mean log-counts), so the same movie can score
// differently in differently shaped pools.
func applyPopularityShaping(pool []Candidate, mode PopularityMode, scores []float64) {
	logCounts := make([]float64, len(pool))
	for i := range pool {
		logCounts[i] = math.Log1p(float64(pool[i].NumRatings))
	}

	switch mode {
	case PopularityPopular:
		for i := range scores {
			scores[i] += logCounts[i]
		}

	case PopularityHidden:
		minLog := logCounts[0]
		for _, lc := range logCounts[1:] {
			if lc < minLog {
				minLog = lc
			}
		}
		for i := range scores {
			rarity := (hiddenGemRatingCount - float64(pool[i].NumRatings)) / hiddenGemRatingCount
			if rarity < 0 {
				rarity = 0
			}
			scores[i] += rarity * hiddenRarityBoost
			scores[i] -= (logCounts[i] - minLog) * hiddenLogPenalty
		}

	default: // mixed
		var sum float64
		for _, lc := range logCounts {
			sum += lc
		}
		meanLog := sum / float64(len(logCounts))
		for i := range scores {
			scores[i] += (logCounts[i] - meanLog) * mixedLogScoreWeight
		}
	}
}

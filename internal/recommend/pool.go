package recommend

import (
	"context"

	"github.com/reelrank/backend/internal/models"
)

const (
	// MinCandidateSupport is the minimum catalog-wide rating count for a
	// movie to enter the candidate pool at all.
	MinCandidateSupport = 10

	// DefaultYear stands in for an unknown release year and is treated
	// as "old" by the year filter.
	DefaultYear = 1900
)

// Candidate is one ratable movie with resolved aggregate stats. Missing
// values have already been imputed, so scoring never sees a null.
type Candidate struct {
	MovieID    int64
	Title      string
	Genres     string
	Year       int
	AvgRating  float64
	NumRatings int64
	TMDBID     int64 // 0 when the movie has no TMDB link

	IsAction    bool
	IsComedy    bool
	IsDrama     bool
	IsHorror    bool
	IsRomance   bool
	IsSciFi     bool
	IsAnimation bool
}

// HasGenre reports whether the candidate carries the given genre flag
func (c *Candidate) HasGenre(g Genre) bool {
	switch g {
	case GenreAction:
		return c.IsAction
	case GenreComedy:
		return c.IsComedy
	case GenreDrama:
		return c.IsDrama
	case GenreHorror:
		return c.IsHorror
	case GenreRomance:
		return c.IsRomance
	case GenreSciFi:
		return c.IsSciFi
	case GenreAnimation:
		return c.IsAnimation
	}
	return false
}

// MatchesAny reports whether the candidate carries at least one of the
// given genre flags
func (c *Candidate) MatchesAny(genres []Genre) bool {
	for _, g := range genres {
		if c.HasGenre(g) {
			return true
		}
	}
	return false
}

// LoadCandidates builds the base candidate pool: every movie with enough
// catalog-wide support, with a missing average rating imputed from the
// pool mean (not zero, which would punish sparsely reviewed movies) and a
// missing year defaulted to DefaultYear.
func LoadCandidates(ctx context.Context, store Store) ([]Candidate, error) {
	features, err := store.Candidates(ctx, MinCandidateSupport)
	if err != nil {
		return nil, err
	}

	var sum float64
	var known int
	for _, f := range features {
		if f.AvgRating != nil {
			sum += *f.AvgRating
			known++
		}
	}
	meanAvg := 0.0
	if known > 0 {
		meanAvg = sum / float64(known)
	}

	pool := make([]Candidate, 0, len(features))
	for _, f := range features {
		pool = append(pool, newCandidate(f, meanAvg))
	}
	return pool, nil
}

// newCandidate resolves one feature row into a fully populated candidate
func newCandidate(f models.MovieFeature, imputedAvg float64) Candidate {
	c := Candidate{
		MovieID:     f.MovieID,
		Title:       f.Title,
		Genres:      f.Genres,
		Year:        DefaultYear,
		AvgRating:   imputedAvg,
		NumRatings:  f.NumRatings,
		IsAction:    f.IsAction,
		IsComedy:    f.IsComedy,
		IsDrama:     f.IsDrama,
		IsHorror:    f.IsHorror,
		IsRomance:   f.IsRomance,
		IsSciFi:     f.IsSciFi,
		IsAnimation: f.IsAnimation,
	}
	if f.Year != nil {
		c.Year = *f.Year
	}
	if f.AvgRating != nil {
		c.AvgRating = *f.AvgRating
	}
	if f.TMDBID != nil {
		c.TMDBID = *f.TMDBID
	}
	return c
}

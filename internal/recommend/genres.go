package recommend

import "strings"

// Genre is one of the fixed set of genres a user can express a preference
// for. The canonical names match the MovieLens-derived feature flags.
type Genre string

const (
	GenreAction    Genre = "Action"
	GenreComedy    Genre = "Comedy"
	GenreDrama     Genre = "Drama"
	GenreHorror    Genre = "Horror"
	GenreRomance   Genre = "Romance"
	GenreSciFi     Genre = "Sci fi"
	GenreAnimation Genre = "Animation"
)

// AllGenres lists every selectable genre in canonical order
var AllGenres = []Genre{
	GenreAction,
	GenreComedy,
	GenreDrama,
	GenreHorror,
	GenreRomance,
	GenreSciFi,
	GenreAnimation,
}

// ParseGenre resolves a caller-supplied genre token to its canonical form.
// Matching is case-insensitive and tolerates the common "sci-fi" spellings.
func ParseGenre(s string) (Genre, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "action":
		return GenreAction, true
	case "comedy":
		return GenreComedy, true
	case "drama":
		return GenreDrama, true
	case "horror":
		return GenreHorror, true
	case "romance":
		return GenreRomance, true
	case "sci fi", "sci-fi", "scifi":
		return GenreSciFi, true
	case "animation":
		return GenreAnimation, true
	}
	return "", false
}

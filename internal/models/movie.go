package models

// Movie is one catalog entry from the MovieLens import. Reference data:
// written by the loader, read-only everywhere else.
type Movie struct {
	MovieID int64  `gorm:"primaryKey;column:movie_id" json:"movie_id"`
	Title   string `gorm:"type:text;not null" json:"title"`
	Genres  string `gorm:"type:text" json:"genres"` // pipe-separated, as shipped by MovieLens
	Year    *int   `json:"year"`                    // parsed from the title suffix, nil when absent
}

// TableName overrides the gorm default pluralization
func (Movie) TableName() string { return "movies" }

// Link maps a movie to its external identifiers (IMDB, TMDB)
type Link struct {
	MovieID int64  `gorm:"primaryKey;column:movie_id" json:"movie_id"`
	IMDBID  *int64 `gorm:"column:imdb_id" json:"imdb_id"`
	TMDBID  *int64 `gorm:"column:tmdb_id" json:"tmdb_id"` // nullable; blanks in links.csv
}

func (Link) TableName() string { return "links" }

// MovieFeature is one row of the precomputed feature table: per-movie
// aggregate stats plus genre indicator flags, refreshed by the loader.
// AvgRating and Year stay nullable here; the candidate pool loader imputes
// them before scoring.
type MovieFeature struct {
	MovieID    int64    `gorm:"primaryKey;column:movie_id" json:"movie_id"`
	Title      string   `gorm:"type:text" json:"title"`
	Genres     string   `gorm:"type:text" json:"genres"`
	Year       *int     `json:"year"`
	AvgRating  *float64 `gorm:"column:avg_rating" json:"avg_rating"`
	NumRatings int64    `gorm:"column:num_ratings" json:"num_ratings"`
	TMDBID     *int64   `gorm:"column:tmdb_id" json:"tmdb_id"`

	IsAction    bool `gorm:"column:is_action" json:"is_action"`
	IsComedy    bool `gorm:"column:is_comedy" json:"is_comedy"`
	IsDrama     bool `gorm:"column:is_drama" json:"is_drama"`
	IsHorror    bool `gorm:"column:is_horror" json:"is_horror"`
	IsRomance   bool `gorm:"column:is_romance" json:"is_romance"`
	IsSciFi     bool `gorm:"column:is_scifi" json:"is_scifi"`
	IsAnimation bool `gorm:"column:is_animation" json:"is_animation"`
}

func (MovieFeature) TableName() string { return "movie_features" }

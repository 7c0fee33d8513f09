package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/reelrank/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
)

// Store handles all database operations for the movie catalog and ratings.
// The scoring engine only ever reads through this interface; the single
// write path is the rating upsert.
type Store interface {
	// Candidate pool
	Candidates(ctx context.Context, minRatings int64) ([]models.MovieFeature, error)

	// Ratings
	UserRatings(ctx context.Context, userID int64) (map[int64]float64, error)
	RatedMovieIDs(ctx context.Context, userID int64) ([]int64, error)
	NeighborUserIDs(ctx context.Context, movieIDs []int64, excludeUserID int64, limit int) ([]int64, error)
	RatingsForUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error)
	UpsertRating(ctx context.Context, userID, movieID int64, rating float64, ts time.Time) error

	// Users
	EnsureUser(ctx context.Context, userID int64) error

	// Feature table maintenance
	RefreshMovieFeatures(ctx context.Context) error
}

// store implements Store on gorm
type store struct {
	db *gorm.DB
}

// NewStore creates a new catalog store
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

// Candidates returns feature rows with at least minRatings ratings,
// ordered by movie id so downstream tie-breaks are stable.
func (s *store) Candidates(ctx context.Context, minRatings int64) ([]models.MovieFeature, error) {
	var features []models.MovieFeature
	err := s.db.WithContext(ctx).
		Where("num_ratings >= ?", minRatings).
		Order("movie_id").
		Find(&features).Error
	return features, err
}

// UserRatings returns the current rating per movie for one user
func (s *store) UserRatings(ctx context.Context, userID int64) (map[int64]float64, error) {
	var rows []models.Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ratings := make(map[int64]float64, len(rows))
	for _, r := range rows {
		ratings[r.MovieID] = r.Rating
	}
	return ratings, nil
}

// RatedMovieIDs returns the ids of every movie this user has rated
func (s *store) RatedMovieIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("user_id = ?", userID).
		Order("movie_id").
		Pluck("movie_id", &ids).Error
	return ids, err
}

// NeighborUserIDs returns up to limit distinct users who rated at least one
// of the given movies, excluding excludeUserID. The cap is a truncation, not
// a ranked sample; ordering by user id makes it deterministic across runs.
func (s *store) NeighborUserIDs(ctx context.Context, movieIDs []int64, excludeUserID int64, limit int) ([]int64, error) {
	if len(movieIDs) == 0 {
		return nil, nil
	}

	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&models.Rating{}).
		Distinct("user_id").
		Where("movie_id IN ?", movieIDs).
		Where("user_id <> ?", excludeUserID).
		Order("user_id").
		Limit(limit).
		Pluck("user_id", &ids).Error
	return ids, err
}

// RatingsForUsers returns all rating rows for the given user set
func (s *store) RatingsForUsers(ctx context.Context, userIDs []int64) ([]models.Rating, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var rows []models.Rating
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("user_id, movie_id").
		Find(&rows).Error
	return rows, err
}

// UpsertRating inserts or replaces the rating for a (user, movie) pair
func (s *store) UpsertRating(ctx context.Context, userID, movieID int64, rating float64, ts time.Time) error {
	row := models.Rating{
		UserID:   userID,
		MovieID:  movieID,
		Rating:   rating,
		RatingTS: ts,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "rating_ts"}),
		}).
		Create(&row).Error
}

// EnsureUser creates the user row if it does not exist yet
func (s *store) EnsureUser(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.User{UserID: userID}).Error
}

// RefreshMovieFeatures rebuilds the movie_features table from the raw
// movies, ratings and links tables. Genre flags are derived from the
// pipe-separated genre list MovieLens ships.
func (s *store) RefreshMovieFeatures(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM movie_features").Error; err != nil {
			return err
		}

		return tx.Exec(`
			INSERT INTO movie_features
				(movie_id, title, genres, year, avg_rating, num_ratings, tmdb_id,
				 is_action, is_comedy, is_drama, is_horror, is_romance, is_scifi, is_animation)
			SELECT
				m.movie_id,
				m.title,
				m.genres,
				m.year,
				AVG(r.rating),
				COUNT(r.rating),
				l.tmdb_id,
				(m.genres LIKE '%Action%'),
				(m.genres LIKE '%Comedy%'),
				(m.genres LIKE '%Drama%'),
				(m.genres LIKE '%Horror%'),
				(m.genres LIKE '%Romance%'),
				(m.genres LIKE '%Sci-Fi%'),
				(m.genres LIKE '%Animation%')
			FROM movies m
			LEFT JOIN ratings r ON r.movie_id = m.movie_id
			LEFT JOIN links l ON l.movie_id = m.movie_id
			GROUP BY m.movie_id, m.title, m.genres, m.year, l.tmdb_id
		`).Error
	})
}

package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reelrank/backend/internal/catalog"
	"github.com/reelrank/backend/internal/logger"
	"github.com/reelrank/backend/internal/models"
)

// seedGenres is the genre vocabulary the scoring engine knows about, plus
// a couple of extras so not every movie matches a selectable genre.
var seedGenres = []string{
	"Action", "Comedy", "Drama", "Horror", "Romance",
	"Sci-Fi", "Animation", "Thriller", "Documentary",
}

// Seeder populates a development database with synthetic catalog data
type Seeder struct {
	db    *gorm.DB
	store catalog.Store
	rng   *rand.Rand
}

// NewSeeder creates a new seeder instance. Pass a fixed seed for
// reproducible datasets.
func NewSeeder(db *gorm.DB, randomSeed int64) *Seeder {
	_ = gofakeit.Seed(randomSeed)
	return &Seeder{
		db:    db,
		store: catalog.NewStore(db),
		rng:   rand.New(rand.NewSource(randomSeed)),
	}
}

// SeedDev fills the database with a synthetic catalog sized for local
// recommendation testing, then refreshes the feature table.
func (s *Seeder) SeedDev(ctx context.Context) error {
	logger.Log.Info("Creating movies...")
	movies, err := s.seedMovies(500)
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	logger.Log.Info("Creating users...")
	userIDs, err := s.seedUsers(300)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating ratings...")
	if err := s.seedRatings(userIDs, movies, 15000); err != nil {
		return fmt.Errorf("failed to seed ratings: %w", err)
	}

	logger.Log.Info("Refreshing movie features...")
	if err := s.store.RefreshMovieFeatures(ctx); err != nil {
		return fmt.Errorf("failed to refresh features: %w", err)
	}

	logger.Log.Info("Seeding complete",
		zap.Int("movies", len(movies)),
		zap.Int("users", len(userIDs)),
	)
	return nil
}

// Clean removes all seeded data
func (s *Seeder) Clean() error {
	tables := []string{"movie_features", "ratings", "tags", "links", "movies", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

// seedMovies creates count synthetic movies with links and genre lists
func (s *Seeder) seedMovies(count int) ([]models.Movie, error) {
	movies := make([]models.Movie, 0, count)
	links := make([]models.Link, 0, count)

	for i := 0; i < count; i++ {
		year := 1950 + s.rng.Intn(75)
		title := fmt.Sprintf("%s (%d)", gofakeit.MovieName(), year)

		nGenres := 1 + s.rng.Intn(3)
		picked := make([]string, 0, nGenres)
		for _, idx := range s.rng.Perm(len(seedGenres))[:nGenres] {
			picked = append(picked, seedGenres[idx])
		}

		movieID := int64(i + 1)
		movies = append(movies, models.Movie{
			MovieID: movieID,
			Title:   title,
			Genres:  strings.Join(picked, "|"),
			Year:    &year,
		})

		// Most movies get a fake TMDB link; some stay unlinked, like the
		// blanks in the real links.csv.
		if s.rng.Float64() < 0.9 {
			tmdbID := int64(100000 + i)
			links = append(links, models.Link{MovieID: movieID, TMDBID: &tmdbID})
		}
	}

	if err := s.db.CreateInBatches(&movies, 200).Error; err != nil {
		return nil, err
	}
	if err := s.db.CreateInBatches(&links, 200).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// seedUsers creates count users
func (s *Seeder) seedUsers(count int) ([]int64, error) {
	users := make([]models.User, 0, count)
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		userID := int64(i + 1)
		users = append(users, models.User{UserID: userID})
		ids = append(ids, userID)
	}
	if err := s.db.CreateInBatches(&users, 200).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// seedRatings creates roughly count ratings with a skewed popularity
// distribution: a few blockbusters soak up most of the volume, a long
// tail stays sparse. That shape is what the hidden-gem mode feeds on.
func (s *Seeder) seedRatings(userIDs []int64, movies []models.Movie, count int) error {
	type pair struct{ user, movie int64 }
	seen := make(map[pair]bool, count)
	ratings := make([]models.Rating, 0, count)

	for len(ratings) < count {
		userID := userIDs[s.rng.Intn(len(userIDs))]

		// Square the draw to skew toward low indexes (the "hits")
		draw := s.rng.Float64()
		movieIdx := int(draw * draw * float64(len(movies)))
		if movieIdx >= len(movies) {
			movieIdx = len(movies) - 1
		}
		movieID := movies[movieIdx].MovieID

		key := pair{userID, movieID}
		if seen[key] {
			continue
		}
		seen[key] = true

		// Half-star scale, mildly optimistic like real rating data
		rating := 0.5 * float64(3+s.rng.Intn(8))

		ratings = append(ratings, models.Rating{
			UserID:   userID,
			MovieID:  movieID,
			Rating:   rating,
			RatingTS: gofakeit.DateRange(time.Now().AddDate(-5, 0, 0), time.Now()),
		})
	}

	return s.db.CreateInBatches(&ratings, 500).Error
}

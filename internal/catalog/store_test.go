package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/reelrank/backend/internal/models"
)

func setupTestStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Movie{},
		&models.Link{},
		&models.User{},
		&models.Rating{},
		&models.MovieFeature{},
	)
	require.NoError(t, err)

	return NewStore(db), db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	year1999, year2010 := 1999, 2010
	movies := []models.Movie{
		{MovieID: 1, Title: "The Matrix (1999)", Genres: "Action|Sci-Fi", Year: &year1999},
		{MovieID: 2, Title: "Inception (2010)", Genres: "Action|Sci-Fi|Thriller", Year: &year2010},
		{MovieID: 3, Title: "Some Comedy", Genres: "Comedy"},
	}
	require.NoError(t, db.Create(&movies).Error)

	tmdbID := int64(603)
	require.NoError(t, db.Create(&models.Link{MovieID: 1, TMDBID: &tmdbID}).Error)

	users := []models.User{{UserID: 100}, {UserID: 200}, {UserID: 300}}
	require.NoError(t, db.Create(&users).Error)

	now := time.Now().UTC()
	ratings := []models.Rating{
		{UserID: 100, MovieID: 1, Rating: 5.0, RatingTS: now},
		{UserID: 100, MovieID: 2, Rating: 4.0, RatingTS: now},
		{UserID: 200, MovieID: 1, Rating: 3.0, RatingTS: now},
		{UserID: 300, MovieID: 2, Rating: 2.0, RatingTS: now},
	}
	require.NoError(t, db.Create(&ratings).Error)
}

func TestUserRatings(t *testing.T) {
	store, db := setupTestStore(t)
	seedCatalog(t, db)

	ratings, err := store.UserRatings(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, map[int64]float64{1: 5.0, 2: 4.0}, ratings)

	empty, err := store.UserRatings(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRatedMovieIDs(t *testing.T) {
	store, db := setupTestStore(t)
	seedCatalog(t, db)

	ids, err := store.RatedMovieIDs(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, ids)
}

func TestUpsertRatingSupersedes(t *testing.T) {
	store, db := setupTestStore(t)
	seedCatalog(t, db)

	ctx := context.Background()
	err := store.UpsertRating(ctx, 100, 1, 2.5, time.Now().UTC())
	require.NoError(t, err)

	ratings, err := store.UserRatings(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 2.5, ratings[1], "A re-rating replaces the previous value")

	var count int64
	db.Model(&models.Rating{}).Where("user_id = ? AND movie_id = ?", 100, 1).Count(&count)
	assert.Equal(t, int64(1), count, "Upsert must not create duplicate rows")
}

func TestEnsureUserIdempotent(t *testing.T) {
	store, db := setupTestStore(t)

	ctx := context.Background()
	require.NoError(t, store.EnsureUser(ctx, 42))
	require.NoError(t, store.EnsureUser(ctx, 42))

	var count int64
	db.Model(&models.User{}).Where("user_id = ?", 42).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNeighborUserIDs(t *testing.T) {
	store, db := setupTestStore(t)
	seedCatalog(t, db)

	ctx := context.Background()
	ids, err := store.NeighborUserIDs(ctx, []int64{1, 2}, 100, 10)
	require.NoError(t, err)

	assert.Equal(t, []int64{200, 300}, ids, "Excludes the target user, ordered by user id")
}

func TestNeighborUserIDsCapIsDeterministic(t *testing.T) {
	store, db := setupTestStore(t)
	seedCatalog(t, db)

	ctx := context.Background()
	first, err := store.NeighborUserIDs(ctx, []int64{1, 2}, 100, 1)
	require.NoError(t, err)
	second, err := store.NeighborUserIDs(ctx, []int64{1, 2}, 100, 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{200}, first, "Truncation keeps the lowest user ids")
	assert.Equal(t, first, second)
}

func TestNeighborUserIDsEmptyInput(t *testing.T) {
	store, _ := setupTestStore(t)

	ids, err := store.NeighborUserIDs(context.Background(), nil, 100, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRatingsForUsers(t *testing.T) {
	store, db := setupTestStore(t)
	seedCatalog(t, db)

	rows, err := store.RatingsForUsers(context.Background(), []int64{100, 300})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(100), rows[0].UserID)
	assert.Equal(t, int64(1), rows[0].MovieID)
	assert.Equal(t, int64(300), rows[2].UserID)
}

func TestRefreshMovieFeatures(t *testing.T) {
	store, db := setupTestStore(t)
	seedCatalog(t, db)

	require.NoError(t, store.RefreshMovieFeatures(context.Background()))

	var features []models.MovieFeature
	require.NoError(t, db.Order("movie_id").Find(&features).Error)
	require.Len(t, features, 3)

	matrix := features[0]
	assert.Equal(t, int64(1), matrix.MovieID)
	require.NotNil(t, matrix.AvgRating)
	assert.InDelta(t, 4.0, *matrix.AvgRating, 1e-9, "Average over ratings 5.0 and 3.0")
	assert.Equal(t, int64(2), matrix.NumRatings)
	require.NotNil(t, matrix.TMDBID)
	assert.Equal(t, int64(603), *matrix.TMDBID)
	assert.True(t, matrix.IsAction)
	assert.True(t, matrix.IsSciFi)
	assert.False(t, matrix.IsComedy)

	unrated := features[2]
	assert.Equal(t, int64(0), unrated.NumRatings)
	assert.Nil(t, unrated.AvgRating, "Unrated movies keep a null average, not zero")
	assert.Nil(t, unrated.TMDBID)
	assert.True(t, unrated.IsComedy)
}

func TestRefreshMovieFeaturesIsRebuild(t *testing.T) {
	store, db := setupTestStore(t)
	seedCatalog(t, db)

	ctx := context.Background()
	require.NoError(t, store.RefreshMovieFeatures(ctx))
	require.NoError(t, store.UpsertRating(ctx, 200, 2, 5.0, time.Now().UTC()))
	require.NoError(t, store.RefreshMovieFeatures(ctx))

	var feature models.MovieFeature
	require.NoError(t, db.Where("movie_id = ?", 2).First(&feature).Error)

	assert.Equal(t, int64(3), feature.NumRatings, "A rebuild reflects ratings added since the last one")

	var count int64
	db.Model(&models.MovieFeature{}).Count(&count)
	assert.Equal(t, int64(3), count, "Rebuild replaces rows instead of accumulating them")
}

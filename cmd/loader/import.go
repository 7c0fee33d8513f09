package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/reelrank/backend/internal/models"
)

const ratingBatchSize = 5000

// yearSuffix matches the "(1995)" tail MovieLens appends to titles
var yearSuffix = regexp.MustCompile(`\((\d{4})\)\s*$`)

// importer streams a MovieLens dump into the database. Ratings files can
// run to tens of millions of rows, so everything goes through batched
// inserts rather than whole-file loads.
type importer struct {
	db      *gorm.DB
	dataDir string
}

func newImporter(db *gorm.DB, dataDir string) *importer {
	return &importer{db: db, dataDir: dataDir}
}

// Run imports movies, links, ratings and tags, in that order
func (imp *importer) Run(ctx context.Context) error {
	if err := imp.importMovies(ctx); err != nil {
		return fmt.Errorf("movies: %w", err)
	}
	if err := imp.importLinks(ctx); err != nil {
		return fmt.Errorf("links: %w", err)
	}
	if err := imp.importRatings(ctx); err != nil {
		return fmt.Errorf("ratings: %w", err)
	}
	if err := imp.importTags(ctx); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	log.Println("✅ Import complete. Run `loader features` to rebuild the feature table.")
	return nil
}

// openCSV opens a headered CSV file and discards the header row
func (imp *importer) openCSV(name string) (*os.File, *csv.Reader, error) {
	path := filepath.Join(imp.dataDir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	return f, r, nil
}

// importMovies loads movies.csv (movieId,title,genres), parsing the
// release year out of the title suffix.
func (imp *importer) importMovies(ctx context.Context) error {
	f, r, err := imp.openCSV("movies.csv")
	if err != nil {
		return err
	}
	defer f.Close()

	var movies []models.Movie
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		movieID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad movie id %q: %w", record[0], err)
		}

		movie := models.Movie{
			MovieID: movieID,
			Title:   record[1],
			Genres:  record[2],
		}
		if m := yearSuffix.FindStringSubmatch(record[1]); m != nil {
			if year, err := strconv.Atoi(m[1]); err == nil {
				movie.Year = &year
			}
		}
		movies = append(movies, movie)
	}

	if err := imp.db.WithContext(ctx).CreateInBatches(&movies, 1000).Error; err != nil {
		return err
	}
	log.Printf("Loaded %d movies", len(movies))
	return nil
}

// importLinks loads links.csv (movieId,imdbId,tmdbId). TMDB ids have
// blanks, which stay null.
func (imp *importer) importLinks(ctx context.Context) error {
	f, r, err := imp.openCSV("links.csv")
	if err != nil {
		return err
	}
	defer f.Close()

	var links []models.Link
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		movieID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad movie id %q: %w", record[0], err)
		}

		links = append(links, models.Link{
			MovieID: movieID,
			IMDBID:  parseNullableID(record[1]),
			TMDBID:  parseNullableID(record[2]),
		})
	}

	if err := imp.db.WithContext(ctx).CreateInBatches(&links, 1000).Error; err != nil {
		return err
	}
	log.Printf("Loaded %d links", len(links))
	return nil
}

// importRatings streams ratings.csv (userId,movieId,rating,timestamp),
// creating user rows on the first pass over each batch.
func (imp *importer) importRatings(ctx context.Context) error {
	f, r, err := imp.openCSV("ratings.csv")
	if err != nil {
		return err
	}
	defer f.Close()

	seenUsers := make(map[int64]bool)
	var users []models.User
	var ratings []models.Rating
	total := 0

	flush := func() error {
		if len(users) > 0 {
			if err := imp.db.WithContext(ctx).CreateInBatches(&users, 1000).Error; err != nil {
				return err
			}
			users = users[:0]
		}
		if len(ratings) > 0 {
			if err := imp.db.WithContext(ctx).CreateInBatches(&ratings, 1000).Error; err != nil {
				return err
			}
			total += len(ratings)
			ratings = ratings[:0]
			log.Printf("Inserted ratings, rows so far %d", total)
		}
		return nil
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		userID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad user id %q: %w", record[0], err)
		}
		movieID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad movie id %q: %w", record[1], err)
		}
		rating, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return fmt.Errorf("bad rating %q: %w", record[2], err)
		}
		epoch, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return fmt.Errorf("bad timestamp %q: %w", record[3], err)
		}

		if !seenUsers[userID] {
			seenUsers[userID] = true
			users = append(users, models.User{UserID: userID})
		}

		ratings = append(ratings, models.Rating{
			UserID:   userID,
			MovieID:  movieID,
			Rating:   rating,
			RatingTS: time.Unix(epoch, 0).UTC(),
		})

		if len(ratings) >= ratingBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}
	log.Printf("Loaded %d ratings from %d users", total, len(seenUsers))
	return nil
}

// importTags streams tags.csv (userId,movieId,tag,timestamp)
func (imp *importer) importTags(ctx context.Context) error {
	f, r, err := imp.openCSV("tags.csv")
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("tags.csv not present, skipping")
			return nil
		}
		return err
	}
	defer f.Close()

	var tags []models.Tag
	total := 0

	flush := func() error {
		if len(tags) == 0 {
			return nil
		}
		if err := imp.db.WithContext(ctx).CreateInBatches(&tags, 1000).Error; err != nil {
			return err
		}
		total += len(tags)
		tags = tags[:0]
		return nil
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		userID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad user id %q: %w", record[0], err)
		}
		movieID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad movie id %q: %w", record[1], err)
		}
		epoch, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return fmt.Errorf("bad timestamp %q: %w", record[3], err)
		}

		tags = append(tags, models.Tag{
			UserID:  userID,
			MovieID: movieID,
			Tag:     record[2],
			TagTS:   time.Unix(epoch, 0).UTC(),
		})

		if len(tags) >= ratingBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}
	log.Printf("Loaded %d tags", total)
	return nil
}

// parseNullableID parses an integer column that may be blank
func parseNullableID(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

package models

import "time"

// User is a rating author. MovieLens users carry no profile data; local
// app users are created on demand before their first rating upsert.
type User struct {
	UserID int64 `gorm:"primaryKey;column:user_id" json:"user_id"`
}

func (User) TableName() string { return "users" }

// Rating is one (user, movie) rating event on the 0.5-5.0 half-star scale.
// A later rating for the same pair supersedes the earlier one.
type Rating struct {
	UserID   int64     `gorm:"primaryKey;column:user_id;autoIncrement:false" json:"user_id"`
	MovieID  int64     `gorm:"primaryKey;column:movie_id;autoIncrement:false" json:"movie_id"`
	Rating   float64   `gorm:"type:numeric(2,1);not null" json:"rating"`
	RatingTS time.Time `gorm:"column:rating_ts" json:"rating_ts"`
}

func (Rating) TableName() string { return "ratings" }

// Tag is a free-text user tag on a movie, kept for parity with the
// MovieLens dump. Not consumed by the scoring engine.
type Tag struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64     `gorm:"column:user_id;index" json:"user_id"`
	MovieID int64     `gorm:"column:movie_id;index" json:"movie_id"`
	Tag     string    `gorm:"type:text" json:"tag"`
	TagTS   time.Time `gorm:"column:tag_ts" json:"tag_ts"`
}

func (Tag) TableName() string { return "tags" }

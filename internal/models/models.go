package models

import (
	"math"
	"time"
)

// User represents an account within the VidShare platform.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleConsumer = "consumer"
	RoleCreator  = "creator"
)

// ValidRole reports whether the provided role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleConsumer || role == RoleCreator
}

// Video is the durable metadata record pointing at a blob in external storage.
// The blob itself is uploaded directly by the client; the record is created only
// after the bytes have been transferred.
type Video struct {
	ID                string
	Title             string
	BlobName          string
	Container         string
	ThumbnailBlobName string
	Publisher         string
	Producer          string
	Genre             string
	AgeRating         string
	UploadedAt        time.Time
	Views             int64
	Comments          []Comment
	Ratings           []Rating
}

// Comment is an append-only remark on a video.
type Comment struct {
	ID        string
	Author    string
	Body      string
	CreatedAt time.Time
}

// Rating is an append-only score on a video, constrained to [1, 5].
type Rating struct {
	ID        string
	Author    string
	Score     int
	CreatedAt time.Time
}

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// AverageRating derives the mean score rounded to one decimal place. The second
// return value is false when the video has no ratings yet.
func (v Video) AverageRating() (float64, bool) {
	if len(v.Ratings) == 0 {
		return 0, false
	}
	var sum int
	for _, r := range v.Ratings {
		sum += r.Score
	}
	avg := float64(sum) / float64(len(v.Ratings))
	return math.Round(avg*10) / 10, true
}

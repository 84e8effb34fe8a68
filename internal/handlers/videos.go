package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidshare/backend/internal/logging"
	"github.com/vidshare/backend/internal/media"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/repositories"
)

// VideoHandler provides endpoints for video metadata, playback listings and the
// append-only comment/rating/view mutations.
type VideoHandler struct {
	Videos      VideoStore
	Coordinator UploadRecorder
	Resolver    PlaybackAnnotator
	NowFunc     func() time.Time
}

// Collection handles GET and POST /api/videos.
func (h VideoHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// create records metadata for a blob the caller already uploaded through a
// write grant. This is the final step of the upload flow and the only one that
// touches the database.
func (h VideoHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	video, err := h.Coordinator.Record(ctx, media.VideoDraft{
		Title:             req.Title,
		BlobName:          req.BlobName,
		Container:         req.Container,
		ThumbnailBlobName: req.ThumbnailBlobName,
		Publisher:         req.Publisher,
		Producer:          req.Producer,
		Genre:             req.Genre,
		AgeRating:         req.AgeRating,
	})
	if err != nil {
		switch {
		case errors.Is(err, media.ErrMissingTitle):
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title required"})
		case errors.Is(err, media.ErrMissingBlobName):
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "blobName required"})
		case errors.Is(err, repositories.ErrConflict):
			logger.Warn("duplicate video metadata", "blobName", req.BlobName)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "a video already references this blob"})
		default:
			logger.Error("failed to save video metadata", "error", err, "blobName", req.BlobName)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to save video metadata"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusCreated, h.toResponse(r, video))
}

// list returns all videos newest-first, each annotated with freshly resolved
// playback and poster URLs.
func (h VideoHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	videos, err := h.Videos.List(ctx)
	if err != nil {
		logger.Error("failed to fetch videos", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch videos"})
		return
	}

	responses := make([]videoResponse, 0, len(videos))
	for _, video := range videos {
		responses = append(responses, h.toResponse(r, video))
	}

	respondJSON(ctx, w, http.StatusOK, responses)
}

// Comment handles POST /api/videos/{id}/comment.
func (h VideoHandler) Comment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	videoID := r.PathValue("id")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid comment payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	req.User = strings.TrimSpace(req.User)
	req.Text = strings.TrimSpace(req.Text)
	if req.User == "" || req.Text == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"message": "missing comment or user"})
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		Author:    req.User,
		Body:      req.Text,
		CreatedAt: h.now(),
	}

	if err := h.Videos.AddComment(ctx, videoID, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"message": "video not found"})
			return
		}
		logger.Error("failed to save comment", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to save comment"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "comment added successfully"})
}

// Rate handles POST /api/videos/{id}/rate.
func (h VideoHandler) Rate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	videoID := r.PathValue("id")

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid rating payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	req.User = strings.TrimSpace(req.User)
	if req.User == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"message": "missing score or user"})
		return
	}
	if req.Score < models.MinRatingScore || req.Score > models.MaxRatingScore {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"message": "rating must be between 1 and 5"})
		return
	}

	rating := models.Rating{
		ID:        uuid.NewString(),
		Author:    req.User,
		Score:     req.Score,
		CreatedAt: h.now(),
	}

	if err := h.Videos.AddRating(ctx, videoID, rating); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"message": "video not found"})
			return
		}
		logger.Error("failed to save rating", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to save rating"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "rating submitted successfully"})
}

// View handles POST /api/videos/{id}/view.
func (h VideoHandler) View(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	videoID := r.PathValue("id")

	if err := h.Videos.IncrementViews(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"message": "video not found"})
			return
		}
		logger.Error("failed to update view count", "error", err, "videoId", videoID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update view count"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "view count updated"})
}

func (h VideoHandler) toResponse(r *http.Request, video models.Video) videoResponse {
	urls := h.Resolver.Resolve(r.Context(), video)

	comments := make([]commentResponse, 0, len(video.Comments))
	for _, c := range video.Comments {
		comments = append(comments, commentResponse{User: c.Author, Text: c.Body, CreatedAt: c.CreatedAt})
	}

	ratings := make([]ratingResponse, 0, len(video.Ratings))
	for _, rt := range video.Ratings {
		ratings = append(ratings, ratingResponse{User: rt.Author, Score: rt.Score, CreatedAt: rt.CreatedAt})
	}

	var average any = "N/A"
	if avg, ok := video.AverageRating(); ok {
		average = avg
	}

	return videoResponse{
		ID:                video.ID,
		Title:             video.Title,
		BlobName:          video.BlobName,
		Container:         video.Container,
		ThumbnailBlobName: video.ThumbnailBlobName,
		Publisher:         video.Publisher,
		Producer:          video.Producer,
		Genre:             video.Genre,
		AgeRating:         video.AgeRating,
		UploadedAt:        video.UploadedAt,
		Views:             video.Views,
		Comments:          comments,
		Ratings:           ratings,
		AverageRating:     average,
		PlaybackURL:       urls.Playback,
		PosterURL:         urls.Poster,
	}
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type createVideoRequest struct {
	Title             string `json:"title"`
	BlobName          string `json:"blobName"`
	Container         string `json:"container"`
	ThumbnailBlobName string `json:"thumbnailBlobName"`
	Publisher         string `json:"publisher"`
	Producer          string `json:"producer"`
	Genre             string `json:"genre"`
	AgeRating         string `json:"ageRating"`
}

type commentRequest struct {
	User string `json:"user"`
	Text string `json:"text"`
}

type rateRequest struct {
	User  string `json:"user"`
	Score int    `json:"score"`
}

type videoResponse struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	BlobName          string            `json:"blobName"`
	Container         string            `json:"container"`
	ThumbnailBlobName string            `json:"thumbnailBlobName,omitempty"`
	Publisher         string            `json:"publisher,omitempty"`
	Producer          string            `json:"producer,omitempty"`
	Genre             string            `json:"genre,omitempty"`
	AgeRating         string            `json:"ageRating,omitempty"`
	UploadedAt        time.Time         `json:"uploadedAt"`
	Views             int64             `json:"views"`
	Comments          []commentResponse `json:"comments"`
	Ratings           []ratingResponse  `json:"ratings"`
	AverageRating     any               `json:"averageRating"`
	PlaybackURL       *string           `json:"playbackUrl"`
	PosterURL         *string           `json:"posterUrl"`
}

type commentResponse struct {
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type ratingResponse struct {
	User      string    `json:"user"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

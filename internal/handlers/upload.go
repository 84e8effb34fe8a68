package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vidshare/backend/internal/blob"
	"github.com/vidshare/backend/internal/logging"
	"github.com/vidshare/backend/internal/media"
)

const maxUploadBytes = 200 << 20

var allowedVideoTypes = map[string]struct{}{
	"video/mp4":        {},
	"video/x-matroska": {},
	"video/quicktime":  {},
	"video/x-msvideo":  {},
}

// UploadHandler accepts multipart video uploads and streams them to blob
// storage on the caller's behalf. Most clients should prefer the signed-URL
// flow; this endpoint remains for those that cannot talk to storage directly.
type UploadHandler struct {
	Uploader blob.Uploader
}

// Upload handles POST /api/upload.
func (h UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("video")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSON(ctx, w, http.StatusRequestEntityTooLarge, map[string]string{"error": "video exceeds the 200MB upload limit"})
			return
		}
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video file is required"})
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedVideoTypes[contentType]; !ok {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "unsupported video format"})
		return
	}

	blobName := media.NewBlobName(header.Filename)

	spanCtx, span := logging.StartSpan(ctx, "blob.upload")
	url, err := h.Uploader.Upload(spanCtx, blobName, contentType, file)
	span.End()
	if err != nil {
		logger.Error("failed to upload video", "blobName", blobName, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to upload video"})
		return
	}

	logger.Info("video uploaded", "blobName", blobName, "size", header.Size)

	respondJSON(ctx, w, http.StatusCreated, uploadResponse{
		Message:  "video uploaded successfully",
		Title:    title,
		BlobName: blobName,
		URL:      url,
	})
}

type uploadResponse struct {
	Message  string `json:"message"`
	Title    string `json:"title"`
	BlobName string `json:"blobName"`
	URL      string `json:"url"`
}

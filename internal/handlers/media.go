package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vidshare/backend/internal/blob"
	"github.com/vidshare/backend/internal/logging"
	"github.com/vidshare/backend/internal/media"
)

// MediaHandler issues signed access URLs for blobs.
type MediaHandler struct {
	Grants GrantIssuer
}

// SignedURL handles GET /api/media/sas requests. The caller names the blob
// either directly (blobName) or as the poster companion of a primary blob
// (posterFor). Unknown permission strings downgrade to read-only and
// out-of-range TTLs are clamped; the response always reports the effective
// values.
func (h MediaHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	q := r.URL.Query()

	blobName := q.Get("blobName")
	if blobName == "" {
		if posterFor := q.Get("posterFor"); posterFor != "" {
			blobName = media.ThumbnailName(posterFor)
		}
	}
	if blobName == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "blobName query parameter is required"})
		return
	}

	ttl := blob.DefaultTTL
	if raw := q.Get("ttl"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil {
			ttl = time.Duration(seconds) * time.Second
		}
	}

	perm := blob.ParsePermission(q.Get("perm"))

	spanCtx, span := logging.StartSpan(ctx, "blob.sign")
	signed, err := h.Grants.IssueGrant(spanCtx, blobName, ttl, perm)
	span.End()
	if err != nil {
		logger.Error("failed to sign blob url", "blobName", blobName, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to generate SAS URL"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, sasResponse{
		BlobName:         signed.BlobName,
		SasURL:           signed.URL,
		ExpiresInSeconds: int(signed.ExpiresIn.Seconds()),
		Perm:             signed.Permission.String(),
	})
}

type sasResponse struct {
	BlobName         string `json:"blobName"`
	SasURL           string `json:"sasUrl"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
	Perm             string `json:"perm"`
}

package handlers

import (
	"net/http"

	"github.com/vidshare/backend/internal/blob"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux. The /api paths
// are compatibility-critical: existing clients depend on them.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Users: deps.Users, Tokens: deps.Tokens, Limiter: deps.AuthLimiter}
	media := MediaHandler{Grants: deps.Coordinator}
	videos := VideoHandler{Videos: deps.Videos, Coordinator: deps.Coordinator, Resolver: deps.Resolver}
	upload := UploadHandler{Uploader: deps.Uploader}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/auth/register", auth.Register)
	mux.HandleFunc("/api/auth/login", auth.Login)
	mux.HandleFunc("/api/auth/forgot-password", auth.ForgotPassword)
	mux.HandleFunc("/api/media/sas", media.SignedURL)
	mux.HandleFunc("/api/videos", videos.Collection)
	mux.HandleFunc("/api/videos/{id}/comment", videos.Comment)
	mux.HandleFunc("/api/videos/{id}/rate", videos.Rate)
	mux.HandleFunc("/api/videos/{id}/view", videos.View)
	mux.HandleFunc("/api/upload", upload.Upload)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users       UserStore
	Tokens      TokenIssuer
	Videos      VideoStore
	Coordinator UploadRecorder
	Resolver    PlaybackAnnotator
	Uploader    blob.Uploader
	AuthLimiter RateLimiter
}

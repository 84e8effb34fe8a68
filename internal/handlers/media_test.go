package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vidshare/backend/internal/blob"
)

type fakeGrantIssuer struct {
	lastBlobName string
	lastTTL      time.Duration
	lastPerm     blob.Permission
	err          error
}

func (f *fakeGrantIssuer) IssueGrant(_ context.Context, blobName string, ttl time.Duration, perm blob.Permission) (blob.SignedURL, error) {
	f.lastBlobName = blobName
	f.lastTTL = ttl
	f.lastPerm = perm
	if f.err != nil {
		return blob.SignedURL{}, f.err
	}
	return blob.SignedURL{
		BlobName:   blobName,
		URL:        "https://account.blob.core.windows.net/videos/" + blobName + "?sig=fake",
		Permission: perm,
		ExpiresIn:  blob.ClampTTL(ttl),
	}, nil
}

func getSignedURL(t *testing.T, handler MediaHandler, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.SignedURL(rec, req)
	return rec
}

func TestMediaHandlerSignedURL(t *testing.T) {
	issuer := &fakeGrantIssuer{}
	handler := MediaHandler{Grants: issuer}

	rec := getSignedURL(t, handler, "/api/media/sas?blobName=abc.mp4&perm=cw&ttl=120")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp sasResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.BlobName != "abc.mp4" {
		t.Errorf("blobName = %q", resp.BlobName)
	}
	if resp.Perm != "cw" {
		t.Errorf("perm = %q, want cw", resp.Perm)
	}
	if resp.ExpiresInSeconds != 120 {
		t.Errorf("expiresInSeconds = %d, want 120", resp.ExpiresInSeconds)
	}
	if resp.SasURL == "" {
		t.Error("expected a signed url")
	}
	if issuer.lastTTL != 2*time.Minute {
		t.Errorf("ttl passed to issuer = %s, want 2m", issuer.lastTTL)
	}
}

func TestMediaHandlerMissingBlobName(t *testing.T) {
	handler := MediaHandler{Grants: &fakeGrantIssuer{}}

	rec := getSignedURL(t, handler, "/api/media/sas")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestMediaHandlerPosterFor(t *testing.T) {
	issuer := &fakeGrantIssuer{}
	handler := MediaHandler{Grants: issuer}

	rec := getSignedURL(t, handler, "/api/media/sas?posterFor=uploads/abc.mp4")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if issuer.lastBlobName != "uploads/abc-thumb.jpg" {
		t.Errorf("blobName = %q, want derived poster name", issuer.lastBlobName)
	}
}

func TestMediaHandlerDefaultsUnknownInputs(t *testing.T) {
	issuer := &fakeGrantIssuer{}
	handler := MediaHandler{Grants: issuer}

	rec := getSignedURL(t, handler, "/api/media/sas?blobName=abc.mp4&perm=delete&ttl=soon")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	if issuer.lastPerm != blob.PermRead {
		t.Errorf("perm = %q, want downgrade to read", issuer.lastPerm)
	}
	if issuer.lastTTL != blob.DefaultTTL {
		t.Errorf("ttl = %s, want default for unparseable input", issuer.lastTTL)
	}
}

func TestMediaHandlerSignerError(t *testing.T) {
	handler := MediaHandler{Grants: &fakeGrantIssuer{err: context.DeadlineExceeded}}

	rec := getSignedURL(t, handler, "/api/media/sas?blobName=abc.mp4")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d got %d", http.StatusInternalServerError, rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "failed to generate SAS URL" {
		t.Errorf("error = %q, internal detail must not leak", resp["error"])
	}
}

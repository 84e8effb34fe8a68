package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/repositories"
)

type inMemoryUserStore struct {
	users map[string]models.User
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: make(map[string]models.User)}
}

func (s *inMemoryUserStore) Create(_ context.Context, user models.User) error {
	if _, exists := s.users[user.Email]; exists {
		return repositories.ErrConflict
	}
	s.users[user.Email] = user
	return nil
}

func (s *inMemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func newTestAuthHandler(store *inMemoryUserStore) AuthHandler {
	return AuthHandler{
		Users:  store,
		Tokens: auth.NewTokenManager("test-secret", 24*time.Hour),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthHandlerRegister(t *testing.T) {
	store := newInMemoryUserStore()
	handler := newTestAuthHandler(store)

	rec := postJSON(t, handler.Register, "/api/auth/register", registerRequest{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "supersafe",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	stored, err := store.FindByEmail(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("expected user to be stored under normalised email: %v", err)
	}
	if stored.Role != models.RoleConsumer {
		t.Errorf("role = %q, want default consumer", stored.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersafe")) != nil {
		t.Fatal("stored password is not hashed")
	}
}

func TestAuthHandlerRegisterDuplicateEmail(t *testing.T) {
	store := newInMemoryUserStore()
	handler := newTestAuthHandler(store)

	payload := registerRequest{Email: "dup@example.com", Password: "pw123456"}
	if rec := postJSON(t, handler.Register, "/api/auth/register", payload); rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected %d got %d", http.StatusCreated, rec.Code)
	}

	rec := postJSON(t, handler.Register, "/api/auth/register", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAuthHandlerRegisterValidation(t *testing.T) {
	store := newInMemoryUserStore()
	handler := newTestAuthHandler(store)

	cases := []struct {
		name    string
		payload registerRequest
	}{
		{"missing email", registerRequest{Password: "pw123456"}},
		{"missing password", registerRequest{Email: "a@example.com"}},
		{"malformed email", registerRequest{Email: "not-an-email", Password: "pw123456"}},
		{"unknown role", registerRequest{Email: "a@example.com", Password: "pw123456", Role: "admin"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, handler.Register, "/api/auth/register", tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected %d got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}

	if len(store.users) != 0 {
		t.Errorf("invalid requests must not persist users, stored %d", len(store.users))
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	store := newInMemoryUserStore()
	handler := newTestAuthHandler(store)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	store.users["login@example.com"] = models.User{
		ID:       "user-1",
		Email:    "login@example.com",
		Password: string(hashed),
		Role:     models.RoleCreator,
	}

	rec := postJSON(t, handler.Login, "/api/auth/login", loginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token to be issued")
	}
	if resp.Role != models.RoleCreator {
		t.Errorf("role = %q, want creator", resp.Role)
	}
}

func TestAuthHandlerLoginBadCredentials(t *testing.T) {
	store := newInMemoryUserStore()
	handler := newTestAuthHandler(store)

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	store.users["user@example.com"] = models.User{ID: "user-1", Email: "user@example.com", Password: string(hashed)}

	// Wrong password and unknown email must be indistinguishable.
	wrongPassword := postJSON(t, handler.Login, "/api/auth/login", loginRequest{Email: "user@example.com", Password: "wrong"})
	unknownEmail := postJSON(t, handler.Login, "/api/auth/login", loginRequest{Email: "nobody@example.com", Password: "correct"})

	if wrongPassword.Code != http.StatusBadRequest {
		t.Fatalf("wrong password: expected %d got %d", http.StatusBadRequest, wrongPassword.Code)
	}
	if unknownEmail.Code != http.StatusBadRequest {
		t.Fatalf("unknown email: expected %d got %d", http.StatusBadRequest, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("responses differ: %q vs %q", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestAuthHandlerForgotPasswordAlwaysOK(t *testing.T) {
	store := newInMemoryUserStore()
	handler := newTestAuthHandler(store)

	store.users["known@example.com"] = models.User{ID: "user-1", Email: "known@example.com"}

	known := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", forgotPasswordRequest{Email: "known@example.com"})
	unknown := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", forgotPasswordRequest{Email: "unknown@example.com"})

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Errorf("responses must not reveal account existence: %q vs %q", known.Body.String(), unknown.Body.String())
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func TestAuthHandlerRateLimited(t *testing.T) {
	handler := newTestAuthHandler(newInMemoryUserStore())
	handler.Limiter = denyAllLimiter{}

	rec := postJSON(t, handler.Login, "/api/auth/login", loginRequest{Email: "a@example.com", Password: "pw"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected %d got %d", http.StatusTooManyRequests, rec.Code)
	}
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/vidshare/backend/internal/models"
)

func TestTokenManagerIssueAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", 24*time.Hour)

	user := models.User{
		ID:    "user-1",
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  models.RoleCreator,
	}

	token, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.Subject != "user-1" || claims.Email != "alice@example.com" || claims.Name != "Alice" || claims.Role != models.RoleCreator {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenManagerRejectsExpiredToken(t *testing.T) {
	manager := NewTokenManager("test-secret", 24*time.Hour)

	issuedAt := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	manager.NowFunc = func() time.Time { return issuedAt }

	token, err := manager.Issue(models.User{ID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	manager.NowFunc = func() time.Time { return issuedAt.Add(25 * time.Hour) }

	if _, err := manager.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenManagerRejectsTamperedToken(t *testing.T) {
	manager := NewTokenManager("test-secret", 24*time.Hour)
	other := NewTokenManager("other-secret", 24*time.Hour)

	token, err := other.Issue(models.User{ID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := manager.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

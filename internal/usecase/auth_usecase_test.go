package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/config"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/jwt"
)

func newAuthFixture(t *testing.T) *Auth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cfg := config.AuthConfig{
		OperatorEmail:        "ops@fintrust.example",
		OperatorPasswordHash: string(hash),
	}
	svc := jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthUsecase(cfg, svc)
}

func TestAuthLogin_Success(t *testing.T) {
	uc := newAuthFixture(t)

	access, refresh, err := uc.Login(context.Background(), LoginInput{
		Email:    "  Ops@FinTrust.example ",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens, got access=%q refresh=%q", access, refresh)
	}
}

func TestAuthLogin_Rejections(t *testing.T) {
	uc := newAuthFixture(t)

	cases := []struct {
		name string
		in   LoginInput
	}{
		{"wrong password", LoginInput{Email: "ops@fintrust.example", Password: "nope"}},
		{"unknown email", LoginInput{Email: "other@fintrust.example", Password: "s3cret-pass"}},
		{"empty", LoginInput{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := uc.Login(context.Background(), tc.in); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthRefresh_RoundTrip(t *testing.T) {
	uc := newAuthFixture(t)

	_, refresh, err := uc.Login(context.Background(), LoginInput{
		Email:    "ops@fintrust.example",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, newRefresh, err := uc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" || newRefresh == "" {
		t.Fatalf("expected rotated tokens")
	}
}

func TestAuthRefresh_RejectsAccessToken(t *testing.T) {
	uc := newAuthFixture(t)

	access, _, err := uc.Login(context.Background(), LoginInput{
		Email:    "ops@fintrust.example",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, _, err := uc.Refresh(context.Background(), access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthRefresh_RejectsGarbage(t *testing.T) {
	uc := newAuthFixture(t)

	if _, _, err := uc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, _, err := uc.Refresh(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

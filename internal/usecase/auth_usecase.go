package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/config"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/jwt"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Login(ctx context.Context, in LoginInput) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
}

// Auth authenticates the single env-configured operator account that gates
// the retrain endpoint. There is no user store; the password is verified
// against a bcrypt hash from configuration.
type Auth struct {
	operatorEmail string
	passwordHash  string
	operatorID    uuid.UUID
	jwt           jwt.Service
}

func NewAuthUsecase(cfg config.AuthConfig, jwtSvc jwt.Service) *Auth {
	email := normalizeEmail(cfg.OperatorEmail)
	return &Auth{
		operatorEmail: email,
		passwordHash:  cfg.OperatorPasswordHash,
		// Deterministic so tokens stay valid across restarts.
		operatorID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("operator:"+email)),
		jwt:        jwtSvc,
	}
}

func (u *Auth) Login(_ context.Context, in LoginInput) (string, string, error) {
	if u.operatorEmail == "" || u.passwordHash == "" {
		return "", "", ErrInvalidCredentials
	}

	email := normalizeEmail(in.Email)
	if email == "" || email != u.operatorEmail {
		return "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(in.Password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	access, err := u.jwt.GenerateAccessToken(u.operatorID, u.operatorEmail)
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(u.operatorID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}

func (u *Auth) Refresh(_ context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}

	if !u.jwt.IsRefreshToken(claims) || claims.OperatorID != u.operatorID {
		return "", "", ErrInvalidRefreshToken
	}

	access, err := u.jwt.GenerateAccessToken(u.operatorID, u.operatorEmail)
	if err != nil {
		return "", "", ErrInternal
	}
	newRefresh, err := u.jwt.GenerateRefreshToken(u.operatorID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, newRefresh, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package auth issues and verifies the bearer tokens that scope every
// other operation to a single business owner.
package auth

import (
	"context"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ImpactGLX323/IntelliFlow/internal/apperr"
	"github.com/ImpactGLX323/IntelliFlow/internal/db"
)

const minPasswordLength = 8

type Service struct {
	DB        db.Querier
	JWTSecret []byte
	TokenTTL  time.Duration
}

func NewService(q db.Querier, secret string, ttl time.Duration) *Service {
	return &Service{DB: q, JWTSecret: []byte(secret), TokenTTL: ttl}
}

func (s *Service) Register(ctx context.Context, email, password, fullName string) (*db.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return db.InsertUser(ctx, s.DB, email, string(hashed), fullName)
}

// Login verifies credentials and returns a signed token. Unknown email
// and wrong password produce the same error so callers cannot probe for
// registered addresses.
func (s *Service) Login(ctx context.Context, email, password string) (string, *db.User, error) {
	user, err := db.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return "", nil, apperr.Unauthorized("invalid credentials")
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Service) IssueToken(user *db.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

// VerifyToken parses and validates a bearer token and returns the user id
// it was issued for.
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperr.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperr.Unauthorized("invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, apperr.Unauthorized("invalid token claims")
	}
	return int64(sub), nil
}

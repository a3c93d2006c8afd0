package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/repository"
)

// Claims carried by operator tokens.
type Claims struct {
	OperatorID int64  `json:"operatorID"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthService struct {
	store  OperatorStore
	secret []byte
	ttl    time.Duration
	now    clock
}

func NewAuthService(store OperatorStore, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (domain.Operator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Operator{}, fmt.Errorf("hash password: %w", err)
	}
	op := domain.Operator{Email: normalizeEmail(email), PasswordHash: string(hash)}
	if err := s.store.CreateOperator(ctx, &op); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Operator{}, ErrEmailTaken
		}
		return domain.Operator{}, err
	}
	return op, nil
}

// RegistrationOpen reports whether anyone may register, which is only
// until the first operator exists.
func (s *AuthService) RegistrationOpen(ctx context.Context) (bool, error) {
	n, err := s.store.CountOperators(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Token, error) {
	op, err := s.store.OperatorByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return Token{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return Token{}, ErrInvalidCredentials
	}
	return s.issue(op)
}

func (s *AuthService) issue(op domain.Operator) (Token, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		OperatorID: op.ID,
		Email:      op.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(op.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, ExpiresAt: exp}, nil
}

// Verify parses and validates a bearer token.
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

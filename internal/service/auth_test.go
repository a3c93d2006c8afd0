package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newMemStore(), "secret", time.Hour)
	ctx := context.Background()

	op, err := svc.Register(ctx, " Keeper@Example.com ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "keeper@example.com", op.Email)
	assert.NotEqual(t, "correct horse", op.PasswordHash)

	_, err = svc.Register(ctx, "keeper@example.com", "another one")
	assert.ErrorIs(t, err, ErrEmailTaken)

	tok, err := svc.Login(ctx, "KEEPER@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	claims, err := svc.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.OperatorID)
	assert.Equal(t, "keeper@example.com", claims.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newMemStore(), "secret", time.Hour)
	ctx := context.Background()
	_, err := svc.Register(ctx, "keeper@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "keeper@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyRejects(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, "secret", time.Hour)
	ctx := context.Background()
	_, err := svc.Register(ctx, "keeper@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(store, "other-secret", time.Hour)
	tok, err := other.Login(ctx, "keeper@example.com", "correct horse")
	require.NoError(t, err)
	_, err = svc.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	expired, err := svc.Login(ctx, "keeper@example.com", "correct horse")
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.Verify(expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRegistrationOpen(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newMemStore(), "secret", time.Hour)

	open, err := svc.RegistrationOpen(ctx)
	require.NoError(t, err)
	assert.True(t, open)

	_, err = svc.Register(ctx, "keeper@example.com", "correct horse")
	require.NoError(t, err)

	open, err = svc.RegistrationOpen(ctx)
	require.NoError(t, err)
	assert.False(t, open)
}

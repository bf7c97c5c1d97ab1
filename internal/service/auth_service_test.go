package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/hylur/internal/model"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/pkg/jwt"
	"github.com/xxxsen/hylur/internal/service/servicetest"
)

var testSecret = []byte("test-secret")

var (
	_ UserStore      = (*servicetest.Users)(nil)
	_ DocumentStore  = (*servicetest.Documents)(nil)
	_ DataTableStore = (*servicetest.DataTables)(nil)
	_ WebLinkStore   = (*servicetest.WebLinks)(nil)
)

func TestAuthRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(servicetest.NewUsers(), testSecret, time.Hour, true)

	user, token, err := svc.Register(context.Background(), " Founder@Example.com ", "secret123", "Ada")
	require.NoError(t, err)
	require.Equal(t, "founder@example.com", user.Email)
	require.Equal(t, model.UserRoleMember, user.Role)
	require.NotEqual(t, "secret123", user.PasswordHash)

	claims, err := jwt.ParseToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)

	_, _, err = svc.Register(context.Background(), "founder@example.com", "secret123", "")
	require.ErrorIs(t, err, appErr.ErrConflict)

	logged, _, err := svc.Login(context.Background(), "FOUNDER@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)

	_, _, err = svc.Login(context.Background(), "founder@example.com", "wrong-pass")
	require.ErrorIs(t, err, appErr.ErrUnauthorized)
	_, _, err = svc.Login(context.Background(), "nobody@example.com", "secret123")
	require.ErrorIs(t, err, appErr.ErrUnauthorized)
}

func TestAuthRegisterValidation(t *testing.T) {
	svc := NewAuthService(servicetest.NewUsers(), testSecret, time.Hour, true)
	_, _, err := svc.Register(context.Background(), "not-an-email", "secret123", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, _, err = svc.Register(context.Background(), "a@b.io", "123", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	closed := NewAuthService(servicetest.NewUsers(), testSecret, time.Hour, false)
	_, _, err = closed.Register(context.Background(), "a@b.io", "secret123", "")
	require.ErrorIs(t, err, ErrRegisterDisabled)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/xxxsen/hylur/internal/model"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/pkg/jwt"
	"github.com/xxxsen/hylur/internal/pkg/password"
	"github.com/xxxsen/hylur/internal/pkg/timeutil"
)

var ErrRegisterDisabled = errors.New("user registration disabled")

type AuthService struct {
	users         UserStore
	jwtSecret     []byte
	jwtTTL        time.Duration
	allowRegister bool
}

func NewAuthService(users UserStore, secret []byte, ttl time.Duration, allowRegister bool) *AuthService {
	return &AuthService{users: users, jwtSecret: secret, jwtTTL: ttl, allowRegister: allowRegister}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, plainPassword, name string) (*model.User, string, error) {
	if !s.allowRegister {
		return nil, "", ErrRegisterDisabled
	}
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: bad email", appErr.ErrInvalid)
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooShort) || errors.Is(err, password.ErrTooLong) {
			return nil, "", fmt.Errorf("%w: %v", appErr.ErrInvalid, err)
		}
		return nil, "", err
	}
	now := timeutil.NowUnix()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         model.UserRoleMember,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := jwt.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, "", appErr.ErrUnauthorized
		}
		return nil, "", err
	}
	if !password.Matches(user.PasswordHash, plainPassword) {
		return nil, "", appErr.ErrUnauthorized
	}
	token, err := jwt.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Vennela009/task-management-api/internal/model"
	"github.com/Vennela009/task-management-api/pkg/apierror"
)

// UserStore is the credential store the auth flow runs against. The Postgres
// implementation lives in internal/repository; tests inject an in-memory one.
type UserStore interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context) ([]model.AuthUser, error)
}

type AuthService struct {
	store  UserStore
	hasher *PasswordHasher
	tokens *TokenManager

	// dummyHash is compared against when the username is unknown so that
	// both login failure branches cost one bcrypt verification.
	dummyHash string
}

func NewAuthService(store UserStore, hasher *PasswordHasher, tokens *TokenManager) (*AuthService, error) {
	dummyHash, err := hasher.Hash("credential-padding")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummyHash,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username string, password string, role string) (model.AuthUser, error) {
	username = strings.TrimSpace(username)
	role = strings.ToLower(strings.TrimSpace(role))

	if username == "" || password == "" {
		return model.AuthUser{}, apierror.New("BAD_REQUEST", "username and password are required", "", http.StatusBadRequest)
	}
	if role == "" {
		role = "member"
	}
	if role != "admin" && role != "member" {
		return model.AuthUser{}, apierror.New("BAD_REQUEST", "invalid role", role, http.StatusBadRequest)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.AuthUser{}, err
	}

	now := time.Now().UTC()
	created, err := s.store.Create(ctx, model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.AuthUser{}, err
	}

	return model.AuthUser{ID: created.ID, Username: created.Username, Role: created.Role}, nil
}

// Login collapses unknown-username and wrong-password into a single
// ErrInvalidCredentials outcome, with uniform timing, to prevent user
// enumeration.
func (s *AuthService) Login(ctx context.Context, username string, password string) (string, error) {
	user, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return "", model.ErrInvalidCredentials
		}
		return "", err
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !match {
		return "", model.ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}

func (s *AuthService) VerifyToken(tokenString string) (*model.AuthClaims, error) {
	return s.tokens.Verify(tokenString)
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (model.AuthUser, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.AuthUser{}, err
	}

	return model.AuthUser{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.AuthUser, error) {
	return s.store.List(ctx)
}

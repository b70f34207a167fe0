package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/models"
	"expense-ledger/internal/store"
	"expense-ledger/internal/util"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) (bool, error)
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(username string) (string, error)
	Resolve(token string) (string, error)
}

// ActiveUser is the public view of an authenticated user.
type ActiveUser struct {
	ID       string
	Username string
}

// SignUpInput is a new user's registration data. ID is optional.
type SignUpInput struct {
	ID       string
	Email    string
	Username string
	Password string
}

// UserService manages credentials and sessions.
type UserService struct {
	store  store.CredentialStore
	hasher PasswordHasher
	tokens TokenIssuer
	log    *logger.Logger
}

func NewUserService(st store.CredentialStore, hasher PasswordHasher, tokens TokenIssuer, log *logger.Logger) *UserService {
	return &UserService{store: st, hasher: hasher, tokens: tokens, log: log.WithComponent(logger.ComponentAuth)}
}

// SignUp registers a user. ErrAlreadyExists when the id, username or email is taken.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := util.ValidateUsername(in.Username); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := util.ValidateEmail(in.Email); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Password == "" {
		return models.User{}, fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		ID:           strings.TrimSpace(in.ID),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return models.User{}, ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user signed up", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Authenticate checks a username and password and returns the stored identity.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (store.Identity, error) {
	id, err := s.store.FindIdentity(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Identity{}, ErrUserNotFound
		}
		return store.Identity{}, fmt.Errorf("find identity: %w", err)
	}
	ok, err := s.hasher.Check(password, id.PasswordHash)
	if err != nil {
		return store.Identity{}, err
	}
	if !ok {
		return store.Identity{}, ErrBadCredential
	}
	return id, nil
}

// Login authenticates and issues a token whose subject is username.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	if _, err := s.Authenticate(ctx, username, password); err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrBadCredential) {
			s.log.Info("login rejected", "username", username, "reason", err.Error())
		}
		return "", err
	}
	return s.tokens.Issue(username)
}

// ResolveToken verifies token and loads the identity of its subject.
// Every failure to trust the token is auth.ErrInvalidCredential.
func (s *UserService) ResolveToken(ctx context.Context, token string) (store.Identity, error) {
	username, err := s.tokens.Resolve(token)
	if err != nil {
		return store.Identity{}, auth.ErrInvalidCredential
	}
	id, err := s.store.FindIdentity(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Identity{}, auth.ErrInvalidCredential
		}
		return store.Identity{}, fmt.Errorf("find identity: %w", err)
	}
	return id, nil
}

// ActiveUser re-checks that id still matches the stored credentials.
func (s *UserService) ActiveUser(ctx context.Context, id store.Identity) (ActiveUser, error) {
	u, err := s.store.FindActiveUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ActiveUser{}, auth.ErrInvalidCredential
		}
		return ActiveUser{}, fmt.Errorf("find active user: %w", err)
	}
	return ActiveUser{ID: u.ID, Username: u.Username}, nil
}

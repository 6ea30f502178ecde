package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"essay-backend/internal/shared/auth"
)

const minPasswordLen = 6

// dummyHash is compared against when the username is unknown so both
// failure paths do the same bcrypt work.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// Service implements signup, login and profile lookup.
type Service struct {
	Repo   Repo
	Signer *auth.Signer
	Cost   int
	now    func() time.Time
}

// SignupInput carries the signup form fields.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

func NewService(repo Repo, signer *auth.Signer) *Service {
	return &Service{Repo: repo, Signer: signer, Cost: bcrypt.DefaultCost, now: time.Now}
}

// Signup hashes the password and creates the user.
func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || len(in.Password) < minPasswordLen {
		return User{}, ErrInvalidInput
	}

	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Verified:     false,
		CreatedAt:    now().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login checks credentials and issues a signed token. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.Signer.Sign(user.ID, user.Username)
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.Repo.GetByID(ctx, id)
}

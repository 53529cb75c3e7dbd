package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

// MsgFieldsRequired is returned when any sign-up or log-in field is blank.
const MsgFieldsRequired = "All fields are required"

type SignUpInput struct {
	Name     string
	Username string
	Password string
}

type SignUpResult struct {
	User *domain.User
}

// SignUp registers a new account. It does not log the user in.
type SignUp struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	now    func() time.Time
}

func NewSignUp(users ports.UserRepository, hasher ports.PasswordHasher) *SignUp {
	return &SignUp{users: users, hasher: hasher, now: time.Now}
}

func (uc *SignUp) Execute(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	name := strings.TrimSpace(input.Name)
	username := NormalizeUsername(input.Username)
	if name == "" || username == "" || input.Password == "" {
		return nil, domerrors.NewValidationError("", MsgFieldsRequired)
	}
	existing, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	if existing != nil {
		return nil, domerrors.ErrUserExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now().UTC()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// The unique index catches the race between the lookup above and this insert.
	if _, err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domerrors.ErrUserExists) {
			return nil, domerrors.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &SignUpResult{User: user}, nil
}

// NormalizeUsername trims surrounding space and applies NFC so visually identical names compare equal.
// Case is preserved; usernames are case-sensitive.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}

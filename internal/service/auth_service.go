package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"github.com/JohnShema/BE-Capstone-project/internal/repository"
	"github.com/JohnShema/BE-Capstone-project/pkg/token"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type AuthService interface {
	Signup(ctx context.Context, user *models.User, password string) error
	Login(ctx context.Context, username, password string) (*models.User, token.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *token.Manager
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, user *models.User, password string) error {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if user.Username == "" {
		return errMissingField("username")
	}
	if user.Email == "" {
		return errMissingField("email")
	}
	if !isValidEmail(user.Email) {
		return errInvalidField("email", "is not a valid email address")
	}
	if password == "" {
		return errMissingField("password")
	}
	if len(password) < minPasswordLength {
		return errInvalidField("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case isUniqueViolation(err, uniqueUsersUsername):
			return ErrUsernameTaken
		case isUniqueViolation(err, uniqueUsersEmail):
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, token.Pair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, token.Pair{}, ErrInvalidCredentials
		}
		return nil, token.Pair{}, fmt.Errorf("load user: %w", err)
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidPasswordHash) {
			return nil, token.Pair{}, ErrInvalidCredentials
		}
		return nil, token.Pair{}, err
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, token.Pair{}, err
	}
	return user, pair, nil
}

// Refresh trades a valid refresh token for a new access token. The user must
// still exist; deleted accounts cannot keep minting tokens.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", token.ErrInvalidToken
		}
		return "", fmt.Errorf("load user: %w", err)
	}
	return s.tokens.IssueAccess(userID)
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

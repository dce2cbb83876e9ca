package auth

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/vib1247-cyber/Codepulse/domain"
)

var usernameFormat = regexp.MustCompile("^[a-z0-9_]{3,20}$")

type Service struct {
	userRepo       UserRepo
	passwordHasher PasswordHasher
	tokenManager   TokenManager
}

func NewService(userRepo UserRepo, passwordHasher PasswordHasher, tokenManager TokenManager) *Service {
	return &Service{userRepo, passwordHasher, tokenManager}
}

func (as *Service) Signup(ctx context.Context, username, password string) (string, error) {
	if !usernameFormat.MatchString(username) {
		return "", ErrInvalidUsernameFormat
	}

	if utf8.RuneCountInString(password) < 8 {
		return "", ErrWeakPassword
	}

	// argon2id chokes on absurdly long inputs, cap them early
	if utf8.RuneCountInString(password) > 128 {
		return "", ErrPasswordTooLong
	}

	passwordHash, err := as.passwordHasher.Hash(password)
	if err != nil {
		return "", err
	}

	id, err := as.userRepo.CreateUser(ctx, username, passwordHash)
	if err != nil {
		return "", err
	}

	return as.tokenManager.Generate(id)
}

func (as *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	match, err := as.passwordHasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrIncorrectPassword
	}

	return as.tokenManager.Generate(user.Id)
}

// ResolveToken verifies a bearer credential and loads the user it names.
// A token whose user has since been deleted is treated as invalid.
func (as *Service) ResolveToken(ctx context.Context, token string) (domain.User, error) {
	id, err := as.tokenManager.Verify(token)
	if err != nil {
		return domain.User{}, err
	}

	user, err := as.userRepo.GetUserById(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

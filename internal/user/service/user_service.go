package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lokamart/e-commerce-api/internal/platform/config"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
	"github.com/lokamart/e-commerce-api/internal/user/domain"
	"github.com/lokamart/e-commerce-api/internal/user/repository"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserAlreadyExists   = errors.New("user with this username or email already exists")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")
	ErrWrongPassword       = errors.New("current password does not match")
)

type UserService interface {
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, error)
	SignIn(ctx context.Context, req domain.SignInRequest) (*domain.SignInResponse, error)
	RefreshToken(ctx context.Context, req domain.RefreshTokenRequest) (*domain.RefreshTokenResponse, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error
	ListUsers(ctx context.Context, page, limit int) ([]domain.User, int, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	repo repository.UserRepository
	auth config.AuthConfig
}

func NewUserService(repo repository.UserRepository, auth config.AuthConfig) UserService {
	return &userService{repo: repo, auth: auth}
}

func (s *userService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.PhoneNumber != nil {
		*req.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}

	// Cek username lebih dulu supaya duplikat lazim dapat pesan jelas;
	// unique constraint (23505) tetap jadi penjaga terakhir terhadap race.
	if _, err := s.repo.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logger.Error("SignUp: failed to check username", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("SignUp: failed to hash password", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleCustomer,
	}

	err = s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		logger.Error("SignUp: failed to create user in repo", err)
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	user.PasswordHash = "" // Hapus sebelum dikembalikan
	return user, nil
}

func (s *userService) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.SignInResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("SignIn: failed to get user by email", err)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.signAccessToken(user.ID)
	if err != nil {
		logger.Error("SignIn: failed to sign access token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	refreshToken, err := s.signRefreshToken(user.ID)
	if err != nil {
		logger.Error("SignIn: failed to sign refresh token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	// Refresh token disimpan di row user, mengikuti backend lama
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.Error("SignIn: failed to persist refresh token", err)
		return nil, fmt.Errorf("could not persist session: %w", err)
	}

	user.PasswordHash = ""
	return &domain.SignInResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *userService) RefreshToken(ctx context.Context, req domain.RefreshTokenRequest) (*domain.RefreshTokenResponse, error) {
	user, err := s.repo.GetUserByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		logger.Error("RefreshToken: failed to look up token", err)
		return nil, ErrInvalidRefreshToken
	}

	// Verifikasi signature & expiry token yang dikirim
	_, err = jwt.Parse(req.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.auth.RefreshTokenSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.signAccessToken(user.ID)
	if err != nil {
		logger.Error("RefreshToken: failed to sign access token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	return &domain.RefreshTokenResponse{AccessToken: accessToken}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.PhoneNumber != nil {
		trimmed := strings.TrimSpace(*req.PhoneNumber)
		user.PhoneNumber = &trimmed
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("ChangePassword: failed to hash password", err)
		return fmt.Errorf("could not process password change: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, userID, string(hashed))
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]domain.User, int, error) {
	users, total, err := s.repo.ListUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].PasswordHash = ""
		users[i].RefreshToken = ""
	}
	return users, total, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *userService) signAccessToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(s.auth.AccessTokenTTLMinutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.AccessTokenSecret))
}

func (s *userService) signRefreshToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(s.auth.RefreshTokenTTLDays) * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.RefreshTokenSecret))
}

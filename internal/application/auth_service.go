package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mercatohq/mercato/internal/domain/entity"
	"github.com/mercatohq/mercato/internal/domain/repository"
	"github.com/mercatohq/mercato/pkg/helpers"
	"github.com/mercatohq/mercato/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 30 * time.Minute
)

// AuthService handles registration, login and the token-based email flows.
// Verification and reset tokens live in Redis; emails go out through the
// RabbitMQ queue and are delivered by the worker.
type AuthService struct {
	Users       repository.UserRepository
	JWT         *helpers.JWTManager
	Redis       *redis.Client
	Publisher   *helpers.RabbitPublisher
	Logger      *logrus.Logger
	FrontendURL string
}

func NewAuthService(users repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, frontendURL string) *AuthService {
	return &AuthService{
		Users:       users,
		JWT:         jwt,
		Redis:       rdb,
		Publisher:   pub,
		Logger:      logger,
		FrontendURL: frontendURL,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthResult struct {
	User        *entity.User
	Token       string
	TokenExpiry time.Time
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Role:      entity.RoleCustomer,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.sendVerification(ctx, u)

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token, TokenExpiry: exp}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if err := s.Users.TouchLastLogin(ctx, u.ID); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("touch last login failed")
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token, TokenExpiry: exp}, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	key := helpers.KeyVerifyToken(token)
	userID, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidToken
		}
		return err
	}
	if err := s.Users.SetEmailVerified(ctx, userID); err != nil {
		return err
	}
	s.Redis.Del(ctx, key)
	return nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.IsEmailVerified {
		return nil
	}
	s.sendVerification(ctx, u)
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := helpers.GenToken(32)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, helpers.KeyResetToken(token), u.ID, resetTokenTTL).Err(); err != nil {
		return err
	}
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: "reset_password",
		Data: map[string]any{
			"firstName": u.FirstName,
			"resetUrl":  s.FrontendURL + "/reset-password/" + token,
		},
	})
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	key := helpers.KeyResetToken(token)
	userID, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidToken
		}
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.Redis.Del(ctx, key)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return ErrWrongPassword
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) sendVerification(ctx context.Context, u *entity.User) {
	token, err := helpers.GenToken(32)
	if err != nil {
		s.Logger.WithError(err).Warn("generate verification token failed")
		return
	}
	if err := s.Redis.Set(ctx, helpers.KeyVerifyToken(token), u.ID, verifyTokenTTL).Err(); err != nil {
		s.Logger.WithError(err).Warn("store verification token failed")
		return
	}
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: "verify_email",
		Data: map[string]any{
			"firstName": u.FirstName,
			"verifyUrl": s.FrontendURL + "/verify-email/" + token,
		},
	})
}

// enqueueEmail publishes a job; email delivery is best-effort and never
// fails the request.
func (s *AuthService) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("enqueue email failed")
	}
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/auth"
	"github.com/stocklog/inventory-service/internal/model"
	"github.com/stocklog/inventory-service/internal/user"
	"github.com/stocklog/inventory-service/internal/user/dto"
	"github.com/stocklog/inventory-service/pkg/logger"
	"github.com/stocklog/inventory-service/pkg/mailer"
)

const bcryptCost = 10

type Options struct {
	SessionTTL time.Duration
	ResetTTL   time.Duration
	ClientURL  string
}

type userUseCase struct {
	repo   user.Repository
	tokens *auth.Manager
	mail   mailer.Mailer
	logger logger.Logger
	opts   Options
}

func NewUserUseCase(repo user.Repository, tokens *auth.Manager, mail mailer.Mailer, log logger.Logger, opts Options) user.UseCase {
	return &userUseCase{
		repo:   repo,
		tokens: tokens,
		mail:   mail,
		logger: log,
		opts:   opts,
	}
}

func (uc *userUseCase) Register(ctx context.Context, input *dto.RegisterInput) (*dto.AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" {
		return nil, apperr.Validationf("name is required")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, apperr.Validationf("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, apperr.Validationf("password must be at least 8 characters")
	}

	existing, err := uc.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, "hash password", err)
	}

	now := time.Now()
	u := &model.User{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:         input.Name,
		Email:        input.Email,
		PhoneNo:      input.PhoneNo,
		PasswordHash: string(hash),
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, apperr.Storage(err)
	}

	token, err := uc.tokens.Sign(u.ID, uc.opts.SessionTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, "sign token", err)
	}

	uc.logger.Info("user registered", zap.String("user_id", u.ID))
	return &dto.AuthResult{Token: token, User: u}, nil
}

func (uc *userUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	u, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := uc.tokens.Sign(u.ID, uc.opts.SessionTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, "sign token", err)
	}

	return &dto.AuthResult{Token: token, User: u}, nil
}

func (uc *userUseCase) Profile(ctx context.Context, userID string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (uc *userUseCase) UpdateProfile(ctx context.Context, userID string, input *dto.UpdateProfileInput) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		u.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, apperr.Validationf("a valid email is required")
		}
		if email != u.Email {
			other, err := uc.repo.FindByEmail(ctx, email)
			if err != nil {
				return nil, apperr.Storage(err)
			}
			if other != nil {
				return nil, apperr.Conflict("email already in use")
			}
		}
		u.Email = email
	}
	if input.PhoneNo != nil {
		u.PhoneNo = *input.PhoneNo
	}

	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, apperr.Storage(err)
	}
	return u, nil
}

func (uc *userUseCase) DeleteAccount(ctx context.Context, userID string) error {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return apperr.Storage(err)
	}
	if u == nil {
		return apperr.NotFound("user not found")
	}

	if err := uc.repo.Delete(ctx, userID); err != nil {
		return apperr.Storage(err)
	}
	uc.logger.Info("user deleted", zap.String("user_id", userID))
	return nil
}

func (uc *userUseCase) ForgotPassword(ctx context.Context, email string) error {
	u, err := uc.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return apperr.Storage(err)
	}
	if u == nil {
		return apperr.NotFound("user not found")
	}

	token, err := uc.tokens.Sign(u.ID, uc.opts.ResetTTL)
	if err != nil {
		return apperr.Wrap(apperr.KindUnknown, "sign reset token", err)
	}

	expires := time.Now().Add(uc.opts.ResetTTL)
	u.ResetToken = &token
	u.ResetTokenExpires = &expires
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return apperr.Storage(err)
	}

	resetLink := uc.opts.ClientURL + "/reset-password/" + token
	body := "<p>Click <a href=\"" + resetLink + "\">here</a> to reset your password. The link is valid for " +
		uc.opts.ResetTTL.String() + ".</p>"

	if err := uc.mail.Send(ctx, u.Email, "Password Reset", body); err != nil {
		uc.logger.Error("failed to send reset email", zap.String("user_id", u.ID), zap.Error(err))
		return apperr.Wrap(apperr.KindUnknown, "send reset email", err)
	}
	return nil
}

func (uc *userUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.Validationf("password must be at least 8 characters")
	}

	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return apperr.Validationf("invalid or expired token")
	}

	u, err := uc.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return apperr.Storage(err)
	}
	if u == nil || u.ResetToken == nil || *u.ResetToken != token {
		return apperr.Validationf("invalid or expired token")
	}
	if u.ResetTokenExpires == nil || u.ResetTokenExpires.Before(time.Now()) {
		return apperr.Validationf("invalid or expired token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.KindUnknown, "hash password", err)
	}

	u.PasswordHash = string(hash)
	u.ResetToken = nil
	u.ResetTokenExpires = nil
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return apperr.Storage(err)
	}

	uc.logger.Info("password reset", zap.String("user_id", u.ID))
	return nil
}

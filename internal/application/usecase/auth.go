package usecase

import (
	"context"
	"errors"
	"log"

	"learnhub/internal/domain"
	"learnhub/internal/infrastructure/cache"
	"learnhub/internal/infrastructure/email"
	"learnhub/internal/infrastructure/repository"
	"learnhub/internal/infrastructure/security"

	"github.com/google/uuid"
)

type AuthUseCase struct {
	profileRepo  *repository.ProfileRepository
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	emailSender  *email.EmailSender
}

func NewAuthUseCase(
	pr *repository.ProfileRepository,
	tc *cache.TokenCache,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	es *email.EmailSender,
) *AuthUseCase {
	return &AuthUseCase{
		profileRepo:  pr,
		tokenCache:   tc,
		hasher:       h,
		tokenManager: tm,
		emailSender:  es,
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, username, emailAddr, password string) (string, error) {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	profile := &domain.Profile{
		ID:       uuid.New(),
		Username: username,
		Email:    emailAddr,
		Password: hash,
		Role:     domain.RoleMember,
		UserType: domain.TypeBasic,
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return "", err
	}
	return profile.ID.String(), nil
}

func (uc *AuthUseCase) Login(ctx context.Context, emailAddr, password string) (string, string, error) {
	profile, err := uc.profileRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return "", "", errors.New("invalid credentials")
	}
	if err := uc.hasher.Compare(profile.Password, password); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	return uc.generateAndSaveTokens(ctx, profile.ID.String())
}

func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (string, string, error) {
	userID, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return "", "", err
	}

	cachedID, err := uc.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if err != nil || cachedID != userID {
		return "", "", errors.New("token revoked")
	}
	// Старый токен сжигаем, ротация
	_ = uc.tokenCache.DeleteRefresh(ctx, oldRefreshToken)

	return uc.generateAndSaveTokens(ctx, userID)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}

func (uc *AuthUseCase) ValidateAccess(token string) (string, error) {
	return uc.tokenManager.ValidateAccessToken(token)
}

func (uc *AuthUseCase) ForgotPassword(ctx context.Context, emailAddr string) error {
	profile, err := uc.profileRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		// Не говорим наружу, что email не найден
		return nil
	}

	resetToken := uuid.New().String()
	if err := uc.tokenCache.SaveResetToken(ctx, resetToken, profile.ID.String()); err != nil {
		return err
	}

	go func() {
		if err := uc.emailSender.SendResetEmail(profile.Email, resetToken); err != nil {
			log.Printf("ERROR: failed to send reset email to %s: %v", profile.Email, err)
		}
	}()

	return nil
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	userIDStr, err := uc.tokenCache.GetResetToken(ctx, token)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := uc.profileRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// Токен одноразовый
	_ = uc.tokenCache.DeleteResetToken(ctx, token)
	return nil
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, userID string) (string, string, error) {
	access, refresh, err := uc.tokenManager.Generate(userID)
	if err != nil {
		return "", "", err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, userID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

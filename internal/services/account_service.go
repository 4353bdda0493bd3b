package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dreamsaver/internal/config"
	"dreamsaver/internal/models/db_models"
	"dreamsaver/internal/models/request_models"
	"dreamsaver/internal/models/response_models"
	"dreamsaver/internal/repositories"
	mem "dreamsaver/pkg/memcache"
	"dreamsaver/pkg/utils"
)

const resetCodeLength = 6

type AccountServiceInterface interface {
	Signup(ctx context.Context, request request_models.SignUpRequest) (*response_models.SignUpResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	Logout(tokenID string, expiresAt time.Time)
	Me(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, request request_models.ResetPasswordRequest) error
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	profileRepo repositories.ProfileRepository
	dreams      DreamServiceInterface
	mail        IMailService
	issuer      *utils.TokenIssuer
	resetTokens mem.ResetTokenStore
	revoked     mem.RevocationList
	cfg         config.AuthConfig
	log         *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	dreams DreamServiceInterface,
	mail IMailService,
	issuer *utils.TokenIssuer,
	resetTokens mem.ResetTokenStore,
	revoked mem.RevocationList,
	cfg *config.Config,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		dreams:      dreams,
		mail:        mail,
		issuer:      issuer,
		resetTokens: resetTokens,
		revoked:     revoked,
		cfg:         cfg.Auth,
		log:         log.Named("account"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) Signup(ctx context.Context, request request_models.SignUpRequest) (*response_models.SignUpResponse, error) {
	email := normalizeEmail(request.Email)
	if email == "" || request.Password == "" || strings.TrimSpace(request.DreamText) == "" {
		return nil, fmt.Errorf("%w: email, password, and dream text are required", utils.ErrInvalidInput)
	}

	// Reject a bad dream before the account exists.
	if _, err := NewDream(uuid.Nil, "", request.DreamText, request.MoodTag, firstDreamTitle); err != nil {
		return nil, err
	}

	existing, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &db_models.Account{
		Email:        email,
		PasswordHash: hashedPassword,
	}
	profile := &db_models.Profile{Email: email}
	if err := a.accountRepo.CreateWithProfile(ctx, account, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: create account: %v", utils.ErrDatabaseError, err)
	}

	token, err := a.issuer.CreateToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	resp := &response_models.SignUpResponse{Token: token}

	dream, err := a.dreams.CreateFirstDream(ctx, account.ID, request.DreamText, request.MoodTag)
	if err != nil {
		a.log.Error("create first dream", zap.String("user_id", account.ID.String()), zap.Error(err))
	} else {
		resp.Dream = dream
	}

	if err := a.mail.SendWelcome(ctx, email); err != nil {
		a.log.Warn("welcome mail not sent", zap.String("user_id", account.ID.String()), zap.Error(err))
	}

	a.log.Info("account created", zap.String("user_id", account.ID.String()))
	return resp, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	profile, err := a.profileRepo.FindByID(ctx, account.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}

	token, err := a.issuer.CreateToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	a.log.Debug("login", zap.String("user_id", account.ID.String()), zap.Duration("took", time.Since(startTime)))

	return &response_models.AccountLoginResponse{
		Token:             token,
		IsUserHavePremium: profile.IsPro,
	}, nil
}

func (a *AccountService) Logout(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	a.revoked.Revoke(tokenID, expiresAt)
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error) {
	profile, err := a.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// RequestPasswordReset mails a one-time code. Unknown addresses get the same
// response as known ones.
func (a *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		a.log.Debug("password reset for unknown email")
		return nil
	}

	code, err := utils.GenerateOtpCode(resetCodeLength)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if !a.resetTokens.Issue(email, code, a.cfg.ResetTokenTTL) {
		a.log.Debug("password reset requested again within resend interval")
		return nil
	}

	if err := a.mail.SendMailToResetPassword(ctx, email, code); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

func (a *AccountService) ResetPassword(ctx context.Context, request request_models.ResetPasswordRequest) error {
	email := normalizeEmail(request.Email)

	if !a.resetTokens.Verify(email, strings.TrimSpace(request.Token)) {
		return utils.ErrInvalidResetToken
	}

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrInvalidResetToken
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := a.accountRepo.UpdatePasswordHash(ctx, account.ID, hashedPassword); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

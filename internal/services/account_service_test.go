package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dreamsaver/internal/config"
	"dreamsaver/internal/models/request_models"
	mem "dreamsaver/pkg/memcache"
	"dreamsaver/pkg/utils"
)

type accountFixture struct {
	svc      AccountServiceInterface
	accounts *fakeAccountRepo
	profiles *fakeProfileRepo
	dreams   *fakeDreamRepo
	mailer   *fakeMailer
	issuer   *utils.TokenIssuer
	store    *mem.TTLStore
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	profiles := newFakeProfileRepo()
	dreams := newFakeDreamRepo()
	dreamSvc := NewDreamService(dreams, newFakeInsightRepo(), &fakeEmbeddingRepo{}, nil, zap.NewNop())
	f := &accountFixture{
		accounts: newFakeAccountRepo(profiles),
		profiles: profiles,
		dreams:   dreams,
		mailer:   newFakeMailer(),
		issuer:   utils.NewTokenIssuer("test-secret", time.Hour),
		store:    mem.NewTTLStore(),
	}
	cfg := &config.Config{Auth: config.AuthConfig{ResetTokenTTL: 15 * time.Minute}}
	f.svc = NewAccountService(f.accounts, profiles, dreamSvc, f.mailer, f.issuer, f.store, f.store, cfg, zap.NewNop())
	return f
}

func (f *accountFixture) signup(t *testing.T, email string) {
	t.Helper()
	_, err := f.svc.Signup(context.Background(), request_models.SignUpRequest{
		Email:     email,
		Password:  "secret123",
		DreamText: "I was on a train that never stopped",
	})
	require.NoError(t, err)
}

func TestSignup_CreatesAccountProfileAndFirstDream(t *testing.T) {
	f := newAccountFixture(t)

	resp, err := f.svc.Signup(context.Background(), request_models.SignUpRequest{
		Email:     "  Dreamer@Example.com ",
		Password:  "secret123",
		DreamText: "Flying over mountains\nand rivers",
		MoodTag:   "joyful",
	})
	require.NoError(t, err)

	claims, err := f.issuer.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "dreamer@example.com", claims.Email)

	userID := uuid.MustParse(claims.UserID)
	profile := f.profiles.get(userID)
	assert.Equal(t, 0, profile.InsightsUsed)
	assert.False(t, profile.IsPro)

	require.NotNil(t, resp.Dream)
	assert.Equal(t, "Flying over mountains", resp.Dream.Title)
	require.Len(t, f.dreams.created, 1)
	assert.Equal(t, userID, f.dreams.created[0].UserID)
	assert.Equal(t, []string{"dreamer@example.com"}, f.mailer.welcome)
}

func TestSignup_Rejections(t *testing.T) {
	f := newAccountFixture(t)
	f.signup(t, "taken@example.com")
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, request_models.SignUpRequest{Email: "taken@example.com", Password: "secret123", DreamText: "x"})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)

	_, err = f.svc.Signup(ctx, request_models.SignUpRequest{Email: "new@example.com", Password: "secret123", DreamText: "   "})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = f.svc.Signup(ctx, request_models.SignUpRequest{Email: "new@example.com", Password: "secret123", DreamText: "ok", MoodTag: "grumpy"})
	assert.ErrorIs(t, err, utils.ErrInvalidMood)

	acc, _ := f.accounts.FindByEmail(ctx, "new@example.com")
	assert.Nil(t, acc)
}

func TestSignup_MailFailureIsNotFatal(t *testing.T) {
	f := newAccountFixture(t)
	f.mailer.err = errors.New("sendgrid down")

	resp, err := f.svc.Signup(context.Background(), request_models.SignUpRequest{
		Email: "a@example.com", Password: "secret123", DreamText: "A quiet library",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin(t *testing.T) {
	f := newAccountFixture(t)
	f.signup(t, "dreamer@example.com")
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, request_models.LoginRequest{Email: "Dreamer@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.False(t, resp.IsUserHavePremium)

	_, err = f.svc.Login(ctx, request_models.LoginRequest{Email: "dreamer@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, request_models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAccountFixture(t)
	f.svc.Logout("jti-1", time.Now().Add(time.Hour))
	assert.True(t, f.store.IsRevoked("jti-1"))

	f.svc.Logout("", time.Now().Add(time.Hour))
	assert.False(t, f.store.IsRevoked(""))
}

func TestMe(t *testing.T) {
	f := newAccountFixture(t)
	f.signup(t, "dreamer@example.com")
	acc, _ := f.accounts.FindByEmail(context.Background(), "dreamer@example.com")

	me, err := f.svc.Me(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "dreamer@example.com", me.Email)
	assert.False(t, me.HasStripeAccount)

	_, err = f.svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrProfileNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAccountFixture(t)
	f.signup(t, "dreamer@example.com")
	ctx := context.Background()

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "dreamer@example.com"))
	code := f.mailer.resets["dreamer@example.com"]
	require.Len(t, code, 6)

	err := f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{Email: "dreamer@example.com", Token: "000000x", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken)

	require.NoError(t, f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{
		Email: "dreamer@example.com", Token: code, NewPassword: "newsecret",
	}))

	_, err = f.svc.Login(ctx, request_models.LoginRequest{Email: "dreamer@example.com", Password: "newsecret"})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{Email: "dreamer@example.com", Token: code, NewPassword: "again123"})
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken)
}

func TestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newAccountFixture(t)

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
	assert.Empty(t, f.mailer.resets)
	assert.Equal(t, 0, f.store.Len())
}

func TestPasswordReset_WrongGuessesExhaustCode(t *testing.T) {
	f := newAccountFixture(t)
	f.signup(t, "dreamer@example.com")
	ctx := context.Background()

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "dreamer@example.com"))
	code := f.mailer.resets["dreamer@example.com"]

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < mem.DefaultMaxResetAttempts; i++ {
		err := f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{Email: "dreamer@example.com", Token: wrong, NewPassword: "hijacked"})
		assert.ErrorIs(t, err, utils.ErrInvalidResetToken)
	}

	err := f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{Email: "dreamer@example.com", Token: code, NewPassword: "newsecret"})
	assert.ErrorIs(t, err, utils.ErrInvalidResetToken)

	_, err = f.svc.Login(ctx, request_models.LoginRequest{Email: "dreamer@example.com", Password: "secret123"})
	assert.NoError(t, err)
}

func TestPasswordReset_RepeatRequestKeepsFirstCode(t *testing.T) {
	f := newAccountFixture(t)
	f.signup(t, "dreamer@example.com")
	ctx := context.Background()

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "dreamer@example.com"))
	first := f.mailer.resets["dreamer@example.com"]
	delete(f.mailer.resets, "dreamer@example.com")

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "dreamer@example.com"))
	assert.Empty(t, f.mailer.resets, "no second code inside the resend interval")
	assert.Equal(t, 1, f.store.Len())

	require.NoError(t, f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{
		Email: "dreamer@example.com", Token: first, NewPassword: "newsecret",
	}))
}

package services

import (
	"context"
	"strings"
	"testing"

	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *authFixture) signupVerified(t *testing.T, emailAddr, password string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, f.db, &dto.SignupRequest{Email: emailAddr, Password: password})
	require.NoError(t, err)

	link := f.mail.last().Link
	token := link[strings.LastIndex(link, "/")+1:]
	require.NoError(t, f.svc.VerifyEmail(ctx, f.db, token))
}

func TestAuthService_SignupSendsVerificationLink(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Signup(context.Background(), f.db, &dto.SignupRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "starter", resp.User.Subscription)

	mail := f.mail.last()
	assert.Equal(t, []string{"alice@example.com"}, mail.To)
	assert.Equal(t, "Email Verification", mail.Subject)
	assert.True(t, strings.HasPrefix(mail.Link, "http://localhost:3000/api/users/verify/"))

	user, err := f.users.FindByEmail(f.db, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, user.Verify)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Contains(t, user.AvatarURL, "gravatar.com/avatar/")
	assert.Nil(t, user.Token)
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, f.db, &dto.SignupRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, f.db, &dto.SignupRequest{Email: "alice@example.com", Password: "other12"})
	assert.ErrorIs(t, err, apperrors.ErrEmailInUse)
}

func TestAuthService_SignupMailFailureRollsBack(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.fail = errSMTPDown

	_, err := f.svc.Signup(context.Background(), f.db, &dto.SignupRequest{Email: "alice@example.com", Password: "secret1"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.HTTPCode)
	assert.ErrorIs(t, err, errSMTPDown)

	_, err = f.users.FindByEmail(f.db, "alice@example.com")
	assert.Error(t, err, "user must not survive a failed verification email")
}

func TestAuthService_ResendMailFailureKeepsToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, f.db, &dto.SignupRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	before, err := f.users.FindByEmail(f.db, "alice@example.com")
	require.NoError(t, err)

	f.mail.fail = errSMTPDown
	err = f.svc.ResendVerification(ctx, f.db, &dto.ResendVerificationRequest{Email: "alice@example.com"})
	assert.ErrorIs(t, err, errSMTPDown)

	after, err := f.users.FindByEmail(f.db, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, after.VerificationToken)
	assert.Equal(t, *before.VerificationToken, *after.VerificationToken)
}

func TestAuthService_LoginOrderOfChecks(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserEmailNotFound)

	_, err = f.svc.Signup(ctx, f.db, &dto.SignupRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	// неподтвержденный пользователь получает отказ даже с неверным паролем
	_, err = f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotVerified)

	link := f.mail.last().Link
	require.NoError(t, f.svc.VerifyEmail(ctx, f.db, link[strings.LastIndex(link, "/")+1:]))

	_, err = f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	resp, err := f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestAuthService_AuthenticateFollowsSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.signupVerified(t, "alice@example.com", "secret1")

	first, err := f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := f.svc.Authenticate(ctx, f.db, first.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	second, err := f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = f.svc.Authenticate(ctx, f.db, first.Token)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized, "superseded token")

	require.NoError(t, f.svc.Logout(ctx, f.db, user.ID))
	_, err = f.svc.Authenticate(ctx, f.db, second.Token)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized, "token after logout")

	// повторный logout ничего не меняет
	require.NoError(t, f.svc.Logout(ctx, f.db, user.ID))
	stored, err := f.users.FindByID(f.db, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Token)

	_, err = f.svc.Authenticate(ctx, f.db, "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
}

func TestAuthService_AuthenticateUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	token, err := f.tokens.Generate("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	_, err = f.svc.Authenticate(context.Background(), f.db, token)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
}

func TestAuthService_VerifyEmailIsOneShot(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, f.db, &dto.SignupRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	link := f.mail.last().Link
	token := link[strings.LastIndex(link, "/")+1:]

	require.NoError(t, f.svc.VerifyEmail(ctx, f.db, token))
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, f.db, token), apperrors.ErrUserNotFound)
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, f.db, "unknown"), apperrors.ErrUserNotFound)

	user, err := f.users.FindByEmail(f.db, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, user.Verify)
	assert.Nil(t, user.VerificationToken)
}

func TestAuthService_ResendVerification(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.svc.ResendVerification(ctx, f.db, &dto.ResendVerificationRequest{})
	assert.ErrorIs(t, err, apperrors.ErrMissingEmail)

	err = f.svc.ResendVerification(ctx, f.db, &dto.ResendVerificationRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = f.svc.Signup(ctx, f.db, &dto.SignupRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	firstLink := f.mail.last().Link

	require.NoError(t, f.svc.ResendVerification(ctx, f.db, &dto.ResendVerificationRequest{Email: "alice@example.com"}))
	secondLink := f.mail.last().Link
	assert.NotEqual(t, firstLink, secondLink, "resend rotates the verification token")

	// ссылка из первого письма больше не действует
	err = f.svc.VerifyEmail(ctx, f.db, firstLink[strings.LastIndex(firstLink, "/")+1:])
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	require.NoError(t, f.svc.VerifyEmail(ctx, f.db, secondLink[strings.LastIndex(secondLink, "/")+1:]))

	err = f.svc.ResendVerification(ctx, f.db, &dto.ResendVerificationRequest{Email: "alice@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)
}

func TestGravatarURL_NormalizesEmail(t *testing.T) {
	assert.Equal(t, gravatarURL("Alice@Example.com "), gravatarURL("alice@example.com"))
	assert.True(t, strings.HasSuffix(gravatarURL("a@b.com"), "?s=250&r=pg&d=404"))
}

package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/printforge-api/pkg/helpers"
	"github.com/printforge/printforge-api/pkg/mailer"
)

func newUserFixture() (*UserService, *memUserRepo) {
	users := newMemUserRepo()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewUserService(users, jwt, nil, nil, nil), users
}

func TestRegisterGrantsWelcomeBonus(t *testing.T) {
	svc, _ := newUserFixture()

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Maker", Email: "maker@printforge.dev", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, WelcomeBonusPoints, u.Points)
	assert.True(t, u.IsActive)
	// Stored as a bcrypt hash, never plaintext.
	assert.NotEqual(t, "password123", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "password123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@printforge.dev", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "dup@printforge.dev", Password: "otherpassword"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogoutDeletesSession(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	users := newMemUserRepo()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	svc := NewUserService(users, jwt, rdb, nil, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "Maker", Email: "maker@printforge.dev", Password: "password123"})
	require.NoError(t, err)
	pair, err := svc.IssueTokens(ctx, u)
	require.NoError(t, err)
	require.True(t, mr.Exists("user:session:"+u.ID))

	svc.Logout(ctx, u.ID)
	assert.False(t, mr.Exists("user:session:"+u.ID))

	// With the session gone the refresh token is dead too.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutWithoutRedisIsNoop(t *testing.T) {
	svc, _ := newUserFixture()
	svc.Logout(context.Background(), "2b6f0e8c-9d1a-4f4e-8c53-1c1cf9a6b0aa")
}

func TestRegisterEnqueuesWelcomeEmail(t *testing.T) {
	svc, _ := newUserFixture()
	queue := newMemEmailQueue()
	svc.Mail = queue

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Maker", Email: "maker@printforge.dev", Password: "password123",
	})
	require.NoError(t, err)

	jobs := queue.sent()
	require.Len(t, jobs, 1)
	job := jobs[0]
	assert.Equal(t, u.Email, job.To)
	assert.Equal(t, mailer.TemplateWelcome, job.Template)
	assert.Equal(t, "Maker", job.Data["Name"])
	assert.Equal(t, WelcomeBonusPoints, job.Data["Points"])
}

func TestRegisterQueueFailureIsNonFatal(t *testing.T) {
	svc, users := newUserFixture()
	queue := newMemEmailQueue()
	queue.publishErr = errors.New("broker down")
	svc.Mail = queue

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Maker", Email: "maker@printforge.dev", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, WelcomeBonusPoints, users.mustGet(u.ID).Points)
	assert.Empty(t, queue.sent())
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Maker", Email: "maker@printforge.dev", Password: "password123"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "maker@printforge.dev", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Maker", u.Name)

	_, err = svc.Authenticate(ctx, "maker@printforge.dev", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@printforge.dev", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueAndParseTokens(t *testing.T) {
	svc, users := newUserFixture()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Name: "Maker", Email: "maker@printforge.dev", Password: "password123"})
	require.NoError(t, err)

	pair, err := svc.IssueTokens(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)

	stored, err := users.GetByID(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, stored.Email)
}

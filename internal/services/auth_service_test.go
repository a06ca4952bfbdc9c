package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vermakhushbu723/Laundry-Backend/internal/config"
	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/testutil"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []OTPMessage
	err  error
}

func (r *recordingSender) SendOTP(_ context.Context, msg OTPMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingSender) Close() error { return nil }

func (r *recordingSender) last() OTPMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:  config.EnvDevelopment,
		JWTSecret:    "test-secret",
		TokenExpires: 7 * 24 * time.Hour,
		OTPExpires:   10 * time.Minute,
	}
}

func newAuthService(t *testing.T, cfg *config.Config) (*AuthService, *gorm.DB, *recordingSender) {
	t.Helper()
	db := testutil.NewDB(t)
	sender := &recordingSender{}
	return NewAuthService(db, cfg, sender, logger.NewNop()), db, sender
}

func loadUser(t *testing.T, db *gorm.DB, phone string) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("phone_number = ?", phone).First(&user).Error)
	return user
}

func TestRequestOTPRejectsInvalidPhone(t *testing.T) {
	svc, db, sender := newAuthService(t, testConfig())

	for _, phone := range []string{"", "12345", "98765432100", "98765x3210", "+919876543"} {
		_, err := svc.RequestOTP(context.Background(), phone)
		assert.True(t, IsKind(err, KindValidation), phone)
	}

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, sender.sent)
}

func TestRequestOTPCreatesUser(t *testing.T) {
	svc, db, sender := newAuthService(t, testConfig())

	issue, err := svc.RequestOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.True(t, issue.IsNewUser)

	code, err := strconv.Atoi(issue.Code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, code, otpMin)
	assert.LessOrEqual(t, code, otpMax)

	user := loadUser(t, db, "9876543210")
	require.NotNil(t, user.OTP)
	require.NotNil(t, user.OTPExpiry)
	assert.Equal(t, issue.Code, *user.OTP)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *user.OTPExpiry, 5*time.Second)
	assert.False(t, user.IsVerified)

	assert.Equal(t, issue.Code, sender.last().Code)
}

func TestRequestOTPHidesCodeInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = config.EnvProduction
	svc, _, sender := newAuthService(t, cfg)

	issue, err := svc.RequestOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Empty(t, issue.Code)
	assert.NotEmpty(t, sender.last().Code)
}

func TestRequestOTPUsesStaticCode(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = config.EnvProduction
	cfg.StaticOTP = "111111"
	svc, db, _ := newAuthService(t, cfg)

	issue, err := svc.RequestOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "111111", issue.Code)
	assert.Equal(t, "111111", *loadUser(t, db, "9876543210").OTP)
}

func TestRequestOTPSurvivesDispatchFailure(t *testing.T) {
	svc, db, sender := newAuthService(t, testConfig())
	sender.err = errors.New("gateway down")

	_, err := svc.RequestOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.NotNil(t, loadUser(t, db, "9876543210").OTP)
}

func TestSecondRequestInvalidatesFirstCode(t *testing.T) {
	svc, db, _ := newAuthService(t, testConfig())
	ctx := context.Background()

	first, err := svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)

	// force a distinct second code
	var second *OTPIssue
	for i := 0; i < 10; i++ {
		second, err = svc.RequestOTP(ctx, "9876543210")
		require.NoError(t, err)
		if second.Code != first.Code {
			break
		}
	}
	require.NotEqual(t, first.Code, second.Code)
	assert.False(t, second.IsNewUser)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = svc.VerifyOTP(ctx, "9876543210", first.Code)
	assert.True(t, IsKind(err, KindMismatch))

	session, err := svc.VerifyOTP(ctx, "9876543210", second.Code)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, db, _ := newAuthService(t, testConfig())
	ctx := context.Background()

	issue, err := svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("phone_number = ?", "9876543210").
		Update("otp_expiry", time.Now().Add(-time.Minute)).Error)

	_, err = svc.VerifyOTP(ctx, "9876543210", issue.Code)
	assert.True(t, IsKind(err, KindExpired))
	assert.False(t, loadUser(t, db, "9876543210").IsVerified)
}

func TestVerifyOTPAfterClockPassesExpiry(t *testing.T) {
	svc, _, _ := newAuthService(t, testConfig())
	ctx := context.Background()

	issue, err := svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	_, err = svc.VerifyOTP(ctx, "9876543210", issue.Code)
	assert.True(t, IsKind(err, KindExpired))
}

func TestVerifyOTPSuccessClearsCode(t *testing.T) {
	cfg := testConfig()
	svc, db, _ := newAuthService(t, cfg)
	ctx := context.Background()

	issue, err := svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)

	session, err := svc.VerifyOTP(ctx, "9876543210", issue.Code)
	require.NoError(t, err)
	assert.True(t, session.User.IsVerified)
	assert.Nil(t, session.User.OTP)

	claims, err := utils.ParseToken(cfg.JWTSecret, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID.String(), claims.Subject)
	assert.Equal(t, utils.RoleUser, claims.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	user := loadUser(t, db, "9876543210")
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.OTP)
	assert.Nil(t, user.OTPExpiry)

	_, err = svc.VerifyOTP(ctx, "9876543210", issue.Code)
	assert.True(t, IsKind(err, KindMismatch))
}

func TestVerifyOTPUnknownUser(t *testing.T) {
	svc, _, _ := newAuthService(t, testConfig())

	_, err := svc.VerifyOTP(context.Background(), "9876543210", "123456")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestResendOTP(t *testing.T) {
	svc, db, _ := newAuthService(t, testConfig())
	ctx := context.Background()

	_, err := svc.ResendOTP(ctx, "9876543210")
	assert.True(t, IsKind(err, KindNotFound))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.RequestOTP(ctx, "9876543210")
	require.NoError(t, err)

	resent, err := svc.ResendOTP(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, resent.Code, *loadUser(t, db, "9876543210").OTP)
}

func TestAdminLogin(t *testing.T) {
	svc, db, _ := newAuthService(t, testConfig())
	ctx := context.Background()

	admin, err := svc.SeedAdmin(ctx, "Ops@Laundry.test", "long-password", "Ops", models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, "ops@laundry.test", admin.Email)

	session, err := svc.AdminLogin(ctx, "ops@laundry.test", "long-password")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotNil(t, session.Admin.LastLoginAt)

	_, err = svc.AdminLogin(ctx, "ops@laundry.test", "wrong-password")
	assert.True(t, IsKind(err, KindUnauthorized))

	_, err = svc.AdminLogin(ctx, "nobody@laundry.test", "long-password")
	assert.True(t, IsKind(err, KindUnauthorized))

	require.NoError(t, db.Model(&models.Admin{}).Where("id = ?", admin.ID).Update("is_active", false).Error)
	_, err = svc.AdminLogin(ctx, "ops@laundry.test", "long-password")
	require.True(t, IsKind(err, KindUnauthorized))
	assert.Contains(t, err.Error(), "deactivated")
}

func TestSeedAdminValidatesAndResets(t *testing.T) {
	svc, db, _ := newAuthService(t, testConfig())
	ctx := context.Background()

	_, err := svc.SeedAdmin(ctx, "not-an-email", "long-password", "", "")
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.SeedAdmin(ctx, "ops@laundry.test", "short", "", "")
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.SeedAdmin(ctx, "ops@laundry.test", "long-password", "", "root")
	assert.True(t, IsKind(err, KindValidation))

	first, err := svc.SeedAdmin(ctx, "ops@laundry.test", "long-password", "Ops", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)

	second, err := svc.SeedAdmin(ctx, "ops@laundry.test", "another-password", "Ops Lead", models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = svc.AdminLogin(ctx, "ops@laundry.test", "another-password")
	assert.NoError(t, err)
}

package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vermakhushbu723/Laundry-Backend/internal/config"
	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
	"github.com/vermakhushbu723/Laundry-Backend/internal/utils"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// AuthService issues OTPs to customers and sessions to customers and admins.
type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	sender OTPSender
	log    logger.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, cfg *config.Config, sender OTPSender, log logger.Logger) *AuthService {
	return &AuthService{db: db, cfg: cfg, sender: sender, log: log, now: time.Now}
}

// OTPIssue describes a freshly stored OTP. Code is empty unless the
// configuration allows echoing it.
type OTPIssue struct {
	PhoneNumber string    `json:"phoneNumber"`
	IsNewUser   bool      `json:"isNewUser"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Code        string    `json:"otp,omitempty"`
}

// UserSession is returned after a successful OTP verification.
type UserSession struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AdminSession is returned after a successful admin login.
type AdminSession struct {
	Token string        `json:"token"`
	Admin *models.Admin `json:"admin"`
}

// RequestOTP stores a new code for phone, creating the user on first contact.
// Any previous code for the number stops being valid.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) (*OTPIssue, error) {
	if !utils.IsLocalPhoneNumber(phone) {
		return nil, ErrValidation("phone number must be exactly 10 digits")
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("phone_number = ?", phone).First(&existing).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return nil, ErrInternal("failed to load user", err)
	}

	code, expiresAt, err := s.newCode()
	if err != nil {
		return nil, ErrInternal("failed to generate otp", err)
	}

	user := models.User{PhoneNumber: phone, OTP: &code, OTPExpiry: &expiresAt}
	// upsert so two first-time requests for one number cannot both insert
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"otp", "otp_expiry", "updated_at"}),
	}).Create(&user).Error; err != nil {
		return nil, ErrInternal("failed to store otp", err)
	}

	return s.dispatch(ctx, phone, code, expiresAt, isNew), nil
}

// ResendOTP replaces the code of an existing user.
func (s *AuthService) ResendOTP(ctx context.Context, phone string) (*OTPIssue, error) {
	if !utils.IsLocalPhoneNumber(phone) {
		return nil, ErrValidation("phone number must be exactly 10 digits")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, ErrInternal("failed to load user", err)
	}

	code, expiresAt, err := s.newCode()
	if err != nil {
		return nil, ErrInternal("failed to generate otp", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"otp":        code,
		"otp_expiry": expiresAt,
	}).Error; err != nil {
		return nil, ErrInternal("failed to store otp", err)
	}

	return s.dispatch(ctx, phone, code, expiresAt, false), nil
}

// VerifyOTP checks code against the stored OTP and issues a session.
// The stored code is cleared on success so it cannot be replayed.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*UserSession, error) {
	if phone == "" || code == "" {
		return nil, ErrValidation("phone number and otp are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, ErrInternal("failed to load user", err)
	}

	if user.OTPExpiry != nil && user.OTPExpiry.Before(s.now()) {
		return nil, ErrExpired("otp has expired")
	}

	if user.OTP == nil || *user.OTP != code {
		return nil, ErrMismatch("invalid otp")
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND otp = ?", user.ID, code).
		Updates(map[string]interface{}{
			"is_verified": true,
			"otp":         nil,
			"otp_expiry":  nil,
		})
	if res.Error != nil {
		return nil, ErrInternal("failed to verify user", res.Error)
	}
	if res.RowsAffected == 0 {
		// a concurrent verification or a new request consumed the code first
		return nil, ErrMismatch("invalid otp")
	}

	user.IsVerified = true
	user.OTP = nil
	user.OTPExpiry = nil

	token, err := utils.GenerateToken(s.cfg.JWTSecret, user.ID, utils.RoleUser, s.cfg.TokenExpires)
	if err != nil {
		return nil, ErrInternal("failed to generate token", err)
	}

	return &UserSession{Token: token, User: &user}, nil
}

// AdminLogin checks admin credentials and issues an admin session.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*AdminSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrValidation("email and password are required")
	}

	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized("invalid credentials")
		}
		return nil, ErrInternal("failed to load admin", err)
	}

	if !utils.CheckPassword(admin.PasswordHash, password) {
		return nil, ErrUnauthorized("invalid credentials")
	}

	if !admin.IsActive {
		return nil, ErrUnauthorized("account is deactivated")
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", admin.ID).
		Update("last_login_at", now).Error; err != nil {
		s.log.WithField("admin_id", admin.ID).Warn(fmt.Sprintf("failed to record admin login: %v", err))
	}
	admin.LastLoginAt = &now

	token, err := utils.GenerateToken(s.cfg.JWTSecret, admin.ID, utils.RoleAdmin, s.cfg.TokenExpires)
	if err != nil {
		return nil, ErrInternal("failed to generate token", err)
	}

	return &AdminSession{Token: token, Admin: &admin}, nil
}

// SeedAdmin creates an admin or resets the credentials of an existing one.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password, name, role string) (*models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !govalidator.IsEmail(email) {
		return nil, ErrValidation("a valid email is required")
	}
	if len(password) < utils.MinPasswordLength {
		return nil, ErrValidation(fmt.Sprintf("password must be at least %d characters", utils.MinPasswordLength))
	}
	if role == "" {
		role = models.RoleAdmin
	}
	if !models.ValidAdminRole(role) {
		return nil, ErrValidation("role must be admin or super-admin")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, ErrInternal("failed to hash password", err)
	}

	var admin models.Admin
	err = s.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin = models.Admin{Email: email}
	case err != nil:
		return nil, ErrInternal("failed to load admin", err)
	}

	admin.PasswordHash = hash
	admin.Name = name
	admin.Role = role
	admin.IsActive = true

	if err := s.db.WithContext(ctx).Save(&admin).Error; err != nil {
		return nil, ErrInternal("failed to save admin", err)
	}
	return &admin, nil
}

func (s *AuthService) newCode() (string, time.Time, error) {
	expiresAt := s.now().Add(s.cfg.OTPExpires)
	if s.cfg.StaticOTP != "" {
		return s.cfg.StaticOTP, expiresAt, nil
	}

	code, err := generateOTP()
	if err != nil {
		return "", time.Time{}, err
	}
	return code, expiresAt, nil
}

func (s *AuthService) dispatch(ctx context.Context, phone, code string, expiresAt time.Time, isNew bool) *OTPIssue {
	if err := s.sender.SendOTP(ctx, OTPMessage{PhoneNumber: phone, Code: code, ExpiresAt: expiresAt}); err != nil {
		// the code is stored; the client may use resend
		s.log.WithField("phone_number", phone).Error(fmt.Sprintf("otp dispatch failed: %v", err))
	}

	issue := &OTPIssue{PhoneNumber: phone, IsNewUser: isNew, ExpiresAt: expiresAt}
	if s.cfg.ExposeOTP() {
		issue.Code = code
	}
	return issue
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}

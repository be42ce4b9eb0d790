package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"vaultgrow/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
)

const (
	saltBytes          = 16
	derivedKeyBytes    = 32
	referralPrefix     = "VG"
	referralCodeLength = 6
	referralAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralAttempts   = 5
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uint, isAdmin bool) (string, error)
}

// CredentialStore owns user identities and password verification.
type CredentialStore struct {
	DB     *gorm.DB
	Ledger *Ledger
	Tokens TokenIssuer
	Rules  Rules
	Log    logrus.FieldLogger
	Now    func() time.Time
}

type RegisterInput struct {
	FullName     string
	Email        string
	Phone        string
	Password     string
	ReferralCode string
}

// LoginMeta is recorded in the login history.
type LoginMeta struct {
	IPAddress string
	Device    string
}

type LoginResult struct {
	Token   string                `json:"token"`
	IsAdmin bool                  `json:"isAdmin"`
	User    models.UserProjection `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword derives a PBKDF2-SHA256 key with a fresh random salt and
// returns it as "saltHex:hashHex".
func HashPassword(password string, iterations int) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, iterations, derivedKeyBytes, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword recomputes the derivation with the stored salt.
func VerifyPassword(password, stored string, iterations int) bool {
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil || len(expected) == 0 {
		return false
	}
	computed := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func (s *CredentialStore) Verify(password, stored string) bool {
	return VerifyPassword(password, stored, s.Rules.PasswordIterations)
}

// Register creates a user, grants the welcome credit and records the referrer
// when the referral code resolves. No bonus is paid here.
func (s *CredentialStore) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.FullName) == "" || email == "" || strings.TrimSpace(in.Phone) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	db := s.DB.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrDuplicateEmail
	}

	hashed, err := HashPassword(in.Password, s.Rules.PasswordIterations)
	if err != nil {
		return nil, err
	}

	code, err := s.newReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Password:     hashed,
		ReferralCode: code,
	}

	if ref := strings.ToUpper(strings.TrimSpace(in.ReferralCode)); ref != "" {
		var referrer models.User
		err := db.Select("id").Where("referral_code = ?", ref).First(&referrer).Error
		switch {
		case err == nil:
			user.ReferredBy = &referrer.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.Log.WithField("referralCode", ref).Info("ignoring unknown referral code")
		default:
			return nil, err
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if s.Rules.WelcomeCredit <= 0 {
			return nil
		}
		return s.Ledger.WithTx(tx).Credit(ctx, user.ID, models.FieldWalletBalance, s.Rules.WelcomeCredit, Memo{
			Type:          models.EntryWelcomeCredit,
			ReferenceType: "user",
			ReferenceID:   user.ID,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || s.emailTaken(ctx, email) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.WalletBalance = s.Rules.WelcomeCredit
	s.Log.WithFields(logrus.Fields{"userId": user.ID, "referred": user.ReferredBy != nil}).Info("user registered")
	return &user, nil
}

func (s *CredentialStore) emailTaken(ctx context.Context, email string) bool {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false
	}
	return n > 0
}

// newReferralCode draws codes from a 36^6 space and checks each against the store.
func (s *CredentialStore) newReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralAttempts; i++ {
		code, err := randomReferralCode()
		if err != nil {
			return "", err
		}
		var n int64
		if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("referral_code = ?", code).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique referral code")
}

func randomReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, referralCodeLength)
	for i, b := range buf {
		out[i] = referralAlphabet[int(b)%len(referralAlphabet)]
	}
	return referralPrefix + string(out), nil
}

// Login verifies credentials and issues a fresh token.
func (s *CredentialStore) Login(ctx context.Context, email, password string, meta LoginMeta) (*LoginResult, error) {
	return s.login(ctx, email, password, meta, false)
}

// AdminLogin is Login restricted to admin accounts.
func (s *CredentialStore) AdminLogin(ctx context.Context, email, password string, meta LoginMeta) (*LoginResult, error) {
	return s.login(ctx, email, password, meta, true)
}

func (s *CredentialStore) login(ctx context.Context, email, password string, meta LoginMeta, adminOnly bool) (*LoginResult, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.Verify(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if adminOnly && !user.IsAdmin {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	token, err := s.Tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	now := s.Now().UTC()
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumn("last_login", now).Error; err != nil {
		s.Log.WithError(err).Warn("failed to save last login time")
	}
	history := models.LoginHistory{
		UserID:     user.ID,
		IPAddress:  meta.IPAddress,
		Device:     meta.Device,
		AdminLogin: adminOnly,
		LoggedInAt: now,
	}
	if err := db.Create(&history).Error; err != nil {
		s.Log.WithError(err).Warn("failed to save login history")
	}

	s.Log.WithFields(logrus.Fields{"userId": user.ID, "ip": meta.IPAddress, "admin": user.IsAdmin}).Info("user logged in")

	return &LoginResult{
		Token:   token,
		IsAdmin: user.IsAdmin,
		User:    user.SafeProjection(),
	}, nil
}

// EnsureAdmin creates an admin account, or promotes the existing account with
// that email. It never grants the welcome credit.
func (s *CredentialStore) EnsureAdmin(ctx context.Context, fullName, email, phone, password string) (*models.User, error) {
	db := s.DB.WithContext(ctx)
	email = normalizeEmail(email)

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if err := db.Model(&user).Update("is_admin", true).Error; err != nil {
			return nil, err
		}
		user.IsAdmin = true
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(password, s.Rules.PasswordIterations)
	if err != nil {
		return nil, err
	}
	code, err := s.newReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	user = models.User{
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		Password:     hashed,
		ReferralCode: code,
		IsAdmin:      true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return &user, nil
}

// LoginHistory pages through the user's sign-ins, newest first.
func (s *CredentialStore) LoginHistory(ctx context.Context, userID uint, page, limit int) ([]models.LoginHistory, int64, error) {
	offset, size := paginate(page, limit)
	query := s.DB.WithContext(ctx).Model(&models.LoginHistory{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.LoginHistory
	if err := query.Order("logged_in_at DESC, id DESC").Offset(offset).Limit(size).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

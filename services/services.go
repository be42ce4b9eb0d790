package services

import (
	"time"

	"vaultgrow/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Rules carries the business constants the services enforce.
type Rules struct {
	WelcomeCredit      float64
	ReferralBonus      float64
	MinWithdrawal      float64
	DailyROIPercent    float64
	ROIDays            int
	AccrualInterval    time.Duration
	PasswordIterations int
}

func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		WelcomeCredit:      cfg.WelcomeCredit,
		ReferralBonus:      cfg.ReferralBonus,
		MinWithdrawal:      cfg.MinWithdrawal,
		DailyROIPercent:    cfg.DailyROIPercent,
		ROIDays:            cfg.ROIDays,
		AccrualInterval:    cfg.AccrualInterval,
		PasswordIterations: cfg.PasswordIterations,
	}
}

// Services bundles every component that shares one store handle.
type Services struct {
	Ledger      *Ledger
	Credentials *CredentialStore
	Referral    *ReferralTrigger
	Investments *InvestmentService
	Accrual     *AccrualJob
	Payments    *PaymentService
	Withdrawals *WithdrawalService
	Admin       *AdminService
}

func New(db *gorm.DB, rules Rules, tokens TokenIssuer, log logrus.FieldLogger) *Services {
	if log == nil {
		log = logrus.StandardLogger()
	}

	ledger := NewLedger(db)
	referral := &ReferralTrigger{Bonus: rules.ReferralBonus, Log: log.WithField("component", "referral")}

	return &Services{
		Ledger:   ledger,
		Referral: referral,
		Credentials: &CredentialStore{
			DB: db, Ledger: ledger, Tokens: tokens, Rules: rules,
			Log: log.WithField("component", "credentials"), Now: time.Now,
		},
		Investments: &InvestmentService{
			DB: db, Ledger: ledger, Referral: referral, Rules: rules,
			Log: log.WithField("component", "investments"), Now: time.Now,
		},
		Accrual: &AccrualJob{
			DB: db, Ledger: ledger, Rules: rules,
			Log: log.WithField("component", "accrual"), Now: time.Now,
		},
		Payments: &PaymentService{
			DB: db, Ledger: ledger,
			Log: log.WithField("component", "payments"), Now: time.Now,
		},
		Withdrawals: &WithdrawalService{
			DB: db, Ledger: ledger, Rules: rules,
			Log: log.WithField("component", "withdrawals"), Now: time.Now,
		},
		Admin: &AdminService{DB: db, Now: time.Now},
	}
}

// SetClock replaces the time source of every component.
func (s *Services) SetClock(now func() time.Time) {
	s.Ledger.now = now
	s.Credentials.Now = now
	s.Investments.Now = now
	s.Accrual.Now = now
	s.Payments.Now = now
	s.Withdrawals.Now = now
	s.Admin.Now = now
}

func paginate(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return (page - 1) * limit, limit
}

// Package auth signs users of the remote store in and out. Sessions are signed tokens kept in
// the OS keyring; accounts live behind AccountStore.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gookit/validate"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
)

// AccountStore persists accounts and reset tokens.
type AccountStore interface {
	CreateAccount(models.Account) error                     // ErrEmailInUse on duplicate email
	GetAccountByEmail(email string) (models.Account, error) // ErrUserNotFound
	GetAccount(id string) (models.Account, error)           // ErrUserNotFound
	CreatePasswordReset(models.PasswordReset) error
	// ConsumePasswordReset atomically marks token used and replaces the password hash.
	// ErrResetInvalid for unknown or used tokens, ErrResetExpired when past expiry.
	ConsumePasswordReset(token, passwordHash string, now time.Time) error
}

// Session identifies the signed-in user.
type Session struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Config controls session signing.
type Config struct {
	Secret     []byte
	Issuer     string
	SessionTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Now        func() time.Time
}

type Service struct {
	accounts AccountStore
	cfg      Config
}

func New(accounts AccountStore, cfg Config) *Service {
	if cfg.Issuer == "" {
		cfg.Issuer = constants.DefaultJWTIssuer
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = constants.DefaultSessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{accounts: accounts, cfg: cfg}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validate.IsEmail(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < constants.MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if err := checkPassword(password); err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}
	acct := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.cfg.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(acct); err != nil {
		return Session{}, err
	}
	logger.Info("Account created", "user", acct.ID)
	return s.startSession(acct)
}

// SignIn checks the password and stores a new session.
func (s *Service) SignIn(email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	acct, err := s.accounts.GetAccountByEmail(email)
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Session{}, ErrWrongPassword
		}
		return Session{}, fmt.Errorf("failed to check password: %w", err)
	}
	return s.startSession(acct)
}

func (s *Service) startSession(acct models.Account) (Session, error) {
	token, expiresAt, err := s.issue(acct)
	if err != nil {
		return Session{}, err
	}
	if err := keyring.SetSession(token); err != nil {
		return Session{}, err
	}
	return Session{UserID: acct.ID, Email: acct.Email, Token: token, ExpiresAt: expiresAt}, nil
}

// SignOut forgets the stored session.
func (s *Service) SignOut() error {
	return keyring.DeleteSession()
}

// Current returns the stored session if its token is still valid.
func (s *Service) Current() (Session, error) {
	token, err := keyring.GetSession()
	if errors.Is(err, keyring.ErrNotFound) {
		return Session{}, ErrNotSignedIn
	}
	if err != nil {
		return Session{}, err
	}
	return s.verify(token)
}

// RequestPasswordReset creates a single-use reset token for email. Delivering it is up to
// the caller.
func (s *Service) RequestPasswordReset(email string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	acct, err := s.accounts.GetAccountByEmail(email)
	if err != nil {
		return "", err
	}
	reset := models.PasswordReset{
		Token:     uuid.NewString(),
		AccountID: acct.ID,
		ExpiresAt: s.cfg.Now().UTC().Add(constants.PasswordResetTTL),
	}
	if err := s.accounts.CreatePasswordReset(reset); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return reset.Token, nil
}

// ResetPassword replaces the password of the account that requested token.
func (s *Service) ResetPassword(token, password, confirm string) error {
	if err := checkPassword(password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.accounts.ConsumePasswordReset(strings.TrimSpace(token), string(hash), s.cfg.Now().UTC())
}

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/models"
)

type memAccounts struct {
	byID   map[string]models.Account
	resets map[string]models.PasswordReset
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		byID:   make(map[string]models.Account),
		resets: make(map[string]models.PasswordReset),
	}
}

func (m *memAccounts) CreateAccount(a models.Account) error {
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return ErrEmailInUse
		}
	}
	m.byID[a.ID] = a
	return nil
}

func (m *memAccounts) GetAccountByEmail(email string) (models.Account, error) {
	for _, a := range m.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Account{}, ErrUserNotFound
}

func (m *memAccounts) GetAccount(id string) (models.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return models.Account{}, ErrUserNotFound
	}
	return a, nil
}

func (m *memAccounts) CreatePasswordReset(r models.PasswordReset) error {
	m.resets[r.Token] = r
	return nil
}

func (m *memAccounts) ConsumePasswordReset(token, hash string, now time.Time) error {
	r, ok := m.resets[token]
	if !ok || r.UsedAt != nil {
		return ErrResetInvalid
	}
	if !now.Before(r.ExpiresAt) {
		return ErrResetExpired
	}
	r.UsedAt = &now
	m.resets[token] = r
	a := m.byID[r.AccountID]
	a.PasswordHash = hash
	m.byID[a.ID] = a
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newService(t *testing.T) (*Service, *memAccounts, *clock) {
	t.Helper()
	gokeyring.MockInit()
	accounts := newMemAccounts()
	c := &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := New(accounts, Config{
		Secret:     []byte("test-secret"),
		SessionTTL: 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
		Now:        c.now,
	})
	return svc, accounts, c
}

func TestSignUpAndCurrent(t *testing.T) {
	svc, accounts, _ := newService(t)

	session, err := svc.SignUp("  Ada@Example.com ", "hunter22")
	if err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	if session.Email != "ada@example.com" || session.UserID == "" || session.Token == "" {
		t.Errorf("unexpected session: %+v", session)
	}
	if len(accounts.byID) != 1 {
		t.Fatalf("expected one account, got %d", len(accounts.byID))
	}
	if strings.Contains(accounts.byID[session.UserID].PasswordHash, "hunter22") {
		t.Error("password stored in clear text")
	}

	stored, err := keyring.GetSession()
	if err != nil || stored != session.Token {
		t.Fatalf("keyring session = %q, %v", stored, err)
	}

	current, err := svc.Current()
	if err != nil {
		t.Fatalf("Current() failed: %v", err)
	}
	if current.UserID != session.UserID || current.Email != session.Email {
		t.Errorf("Current() = %+v, want %+v", current, session)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newService(t)

	if _, err := svc.SignUp("not-an-email", "hunter22"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("bad email error = %v", err)
	}
	if _, err := svc.SignUp("ada@example.com", "12345"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password error = %v", err)
	}
	if _, err := svc.SignUp("ada@example.com", "123456"); err != nil {
		t.Fatalf("six characters should be accepted: %v", err)
	}
	if _, err := svc.SignUp("ADA@example.com", "abcdefg"); !errors.Is(err, ErrEmailInUse) {
		t.Errorf("duplicate email error = %v", err)
	}
}

func TestSignIn(t *testing.T) {
	svc, _, _ := newService(t)
	if _, err := svc.SignUp("ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}
	if err := svc.SignOut(); err != nil {
		t.Fatalf("SignOut() failed: %v", err)
	}
	if _, err := svc.Current(); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("Current() after sign out = %v, want ErrNotSignedIn", err)
	}

	if _, err := svc.SignIn("ada@example.com", "wrong-pass"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.SignIn("bob@example.com", "hunter22"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v", err)
	}

	session, err := svc.SignIn("ADA@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}
	if current, err := svc.Current(); err != nil || current.UserID != session.UserID {
		t.Errorf("Current() = %+v, %v", current, err)
	}
}

func TestSessionExpiry(t *testing.T) {
	svc, _, c := newService(t)
	if _, err := svc.SignUp("ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	c.t = c.t.Add(25 * time.Hour)
	if _, err := svc.Current(); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expired session error = %v, want ErrSessionInvalid", err)
	}
}

func TestSessionRejectsOtherSecret(t *testing.T) {
	svc, accounts, c := newService(t)
	if _, err := svc.SignUp("ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	other := New(accounts, Config{Secret: []byte("another-secret"), Now: c.now})
	if _, err := other.Current(); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("foreign secret error = %v, want ErrSessionInvalid", err)
	}

	unsigned := New(accounts, Config{Now: c.now})
	if _, err := unsigned.Current(); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("missing secret error = %v", err)
	}
}

func TestPasswordReset(t *testing.T) {
	svc, _, c := newService(t)
	if _, err := svc.SignUp("ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignUp() failed: %v", err)
	}

	if _, err := svc.RequestPasswordReset("bob@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown email error = %v", err)
	}

	token, err := svc.RequestPasswordReset("ada@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() failed: %v", err)
	}

	if err := svc.ResetPassword(token, "abc", "abc"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password error = %v", err)
	}
	if err := svc.ResetPassword(token, "newpass1", "newpass2"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("mismatch error = %v", err)
	}
	if err := svc.ResetPassword(token, "newpass1", "newpass1"); err != nil {
		t.Fatalf("ResetPassword() failed: %v", err)
	}
	if err := svc.ResetPassword(token, "newpass1", "newpass1"); !errors.Is(err, ErrResetInvalid) {
		t.Errorf("reused token error = %v, want ErrResetInvalid", err)
	}

	if _, err := svc.SignIn("ada@example.com", "hunter22"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("old password still accepted: %v", err)
	}
	if _, err := svc.SignIn("ada@example.com", "newpass1"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	expiring, _ := svc.RequestPasswordReset("ada@example.com")
	c.t = c.t.Add(61 * time.Minute)
	if err := svc.ResetPassword(expiring, "another1", "another1"); !errors.Is(err, ErrResetExpired) {
		t.Errorf("expired token error = %v, want ErrResetExpired", err)
	}
}

func TestFriendlyMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUserNotFound, "No account found with this email."},
		{ErrWrongPassword, "Incorrect password. Please try again."},
		{ErrWeakPassword, "Password must be at least 6 characters."},
		{errors.Join(ErrSessionInvalid, errors.New("token is expired")), "Please sign in again."},
		{errors.New("connection reset"), "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		if got := FriendlyMessage(tt.err); got != tt.want {
			t.Errorf("FriendlyMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

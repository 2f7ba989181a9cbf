package account

import (
	"bytes"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitlit/internal/auth"
	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/models"
)

type memAccounts struct {
	byID   map[string]models.Account
	resets map[string]models.PasswordReset
}

func (m *memAccounts) CreateAccount(a models.Account) error {
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return auth.ErrEmailInUse
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
	return models.Account{}, auth.ErrUserNotFound
}

func (m *memAccounts) GetAccount(id string) (models.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return models.Account{}, auth.ErrUserNotFound
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
		return auth.ErrResetInvalid
	}
	r.UsedAt = &now
	m.resets[token] = r
	a := m.byID[r.AccountID]
	a.PasswordHash = hash
	m.byID[a.ID] = a
	return nil
}

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()
	accounts := &memAccounts{
		byID:   make(map[string]models.Account),
		resets: make(map[string]models.PasswordReset),
	}
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Auth: auth.New(accounts, auth.Config{
			Secret:     []byte("test-secret"),
			BcryptCost: bcrypt.MinCost,
		}),
		Out: out,
	}
	return ctx, out
}

func TestAccountCommands_LocalStore(t *testing.T) {
	ctx := &cli.Context{Out: &bytes.Buffer{}}
	if err := (&WhoamiCmd{}).Run(ctx); err != errLocalStore {
		t.Errorf("expected errLocalStore, got %v", err)
	}
}

func TestSignupLoginLogout(t *testing.T) {
	ctx, out := setupTestContext(t)

	signup := &SignupCmd{Email: "Ada@Example.com", Password: "secret123"}
	if err := signup.Run(ctx); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if !strings.Contains(out.String(), "Signed in as ada@example.com") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "ada@example.com") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	err := (&WhoamiCmd{}).Run(ctx)
	if err == nil || err.Error() != "Please sign in again." {
		t.Errorf("expected sign-in message, got %v", err)
	}

	err = (&LoginCmd{Email: "ada@example.com", Password: "wrong-password"}).Run(ctx)
	if err == nil || err.Error() != "Incorrect password. Please try again." {
		t.Errorf("expected wrong password message, got %v", err)
	}
	if err := (&LoginCmd{Email: "ada@example.com", Password: "secret123"}).Run(ctx); err != nil {
		t.Errorf("login failed: %v", err)
	}
}

func TestSignupFriendlyErrors(t *testing.T) {
	ctx, _ := setupTestContext(t)

	err := (&SignupCmd{Email: "not-an-email", Password: "secret123"}).Run(ctx)
	if err == nil || err.Error() != "Please enter a valid email address." {
		t.Errorf("unexpected error: %v", err)
	}

	err = (&SignupCmd{Email: "ada@example.com", Password: "123"}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "at least") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&SignupCmd{Email: "ada@example.com", Password: "secret123"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&ForgotCmd{Email: "ada@example.com"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) < 2 {
		t.Fatalf("unexpected output: %q", out.String())
	}
	token := lines[1]

	mismatch := &ResetPasswordCmd{Token: token, Password: "newsecret", Confirm: "other"}
	if err := mismatch.Run(ctx); err == nil || err.Error() != "Passwords do not match." {
		t.Errorf("unexpected error: %v", err)
	}

	reset := &ResetPasswordCmd{Token: token, Password: "newsecret", Confirm: "newsecret"}
	if err := reset.Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if err := (&LoginCmd{Email: "ada@example.com", Password: "newsecret"}).Run(ctx); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}

	if err := (&ForgotCmd{Email: "nobody@example.com"}).Run(ctx); err == nil {
		t.Error("expected error for unknown email")
	}
}

package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitlit/internal/auth"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

const uniqueViolation = "23505"

// AccountStore persists accounts and password reset tokens for the auth service.
type AccountStore struct {
	store *Store
}

func (a *AccountStore) db() (*sql.DB, error) {
	if a.store.db == nil {
		return nil, storage.ErrNotLoaded
	}
	return a.store.db, nil
}

func (a *AccountStore) CreateAccount(acct models.Account) error {
	db, err := a.db()
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO accounts (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		acct.ID, strings.ToLower(acct.Email), acct.PasswordHash, acct.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return auth.ErrEmailInUse
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (a *AccountStore) GetAccountByEmail(email string) (models.Account, error) {
	db, err := a.db()
	if err != nil {
		return models.Account{}, err
	}
	return scanAccount(db.QueryRow(`SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`,
		strings.ToLower(email)))
}

func (a *AccountStore) GetAccount(id string) (models.Account, error) {
	db, err := a.db()
	if err != nil {
		return models.Account{}, err
	}
	return scanAccount(db.QueryRow(`SELECT id, email, password_hash, created_at FROM accounts WHERE id = $1`, id))
}

func scanAccount(row *sql.Row) (models.Account, error) {
	var acct models.Account
	err := row.Scan(&acct.ID, &acct.Email, &acct.PasswordHash, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, auth.ErrUserNotFound
	}
	return acct, err
}

func (a *AccountStore) CreatePasswordReset(reset models.PasswordReset) error {
	db, err := a.db()
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO password_resets (token, account_id, expires_at) VALUES ($1, $2, $3)`,
		reset.Token, reset.AccountID, reset.ExpiresAt)
	return err
}

// ConsumePasswordReset marks token used and stores the new password hash in one
// transaction.
func (a *AccountStore) ConsumePasswordReset(token, passwordHash string, now time.Time) error {
	db, err := a.db()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var accountID string
	var expiresAt time.Time
	var usedAt sql.NullTime
	err = tx.QueryRow(`SELECT account_id, expires_at, used_at FROM password_resets WHERE token = $1 FOR UPDATE`, token).
		Scan(&accountID, &expiresAt, &usedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.ErrResetInvalid
	}
	if err != nil {
		return err
	}
	if usedAt.Valid {
		return auth.ErrResetInvalid
	}
	if !now.Before(expiresAt) {
		return auth.ErrResetExpired
	}

	if _, err := tx.Exec(`UPDATE password_resets SET used_at = $1 WHERE token = $2`, now, token); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE accounts SET password_hash = $1 WHERE id = $2`, passwordHash, accountID); err != nil {
		return err
	}
	return tx.Commit()
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/models"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Service) issue(acct models.Account) (string, time.Time, error) {
	if len(s.cfg.Secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	now := s.cfg.Now()
	expiresAt := now.Add(s.cfg.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: acct.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   acct.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *Service) verify(raw string) (Session, error) {
	if len(s.cfg.Secret) == 0 {
		return Session{}, ErrMissingSecret
	}
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.cfg.Now),
	)
	if err != nil {
		return Session{}, errors.Join(ErrSessionInvalid, err)
	}
	if c.Subject == "" {
		return Session{}, ErrSessionInvalid
	}
	return Session{
		UserID:    c.Subject,
		Email:     c.Email,
		Token:     raw,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

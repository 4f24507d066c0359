// Package credentials resolves author passwords from the environment or the
// operating system keyring.
package credentials

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	cerrors "contentsync/internal/errors"
)

// Store looks up and saves passwords keyed by service and user.
type Store interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
}

// EnvStore reads passwords from environment variables of the form
// SERVICE_USER_PASSWORD, with non-alphanumeric runs collapsed to underscores.
type EnvStore struct{}

func envKey(service, user string) string {
	sanitize := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z':
				return r - 'a' + 'A'
			case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				return r
			default:
				return '_'
			}
		}, s)
	}
	return sanitize(service) + "_" + sanitize(user) + "_PASSWORD"
}

func (EnvStore) Get(service, user string) (string, error) {
	if v := os.Getenv(envKey(service, user)); v != "" {
		return v, nil
	}
	return "", cerrors.New(cerrors.CategoryAuth, cerrors.SeverityInfo, "password not set in environment").
		WithContext("variable", envKey(service, user))
}

// Set is not supported for the environment store.
func (EnvStore) Set(service, user, password string) error {
	return cerrors.New(cerrors.CategoryAuth, cerrors.SeverityError, "environment store is read-only")
}

// KeyringStore persists passwords in the OS keyring.
type KeyringStore struct{}

func (KeyringStore) Get(service, user string) (string, error) {
	secret, err := keyring.Get(service, user)
	if err != nil {
		return "", cerrors.Wrap(err, cerrors.CategoryAuth, cerrors.SeverityError, "keyring lookup failed").
			WithContext("service", service).
			WithContext("user", user)
	}
	return secret, nil
}

func (KeyringStore) Set(service, user, password string) error {
	if err := keyring.Set(service, user, password); err != nil {
		return cerrors.Wrap(err, cerrors.CategoryAuth, cerrors.SeverityError, "keyring store failed").
			WithContext("service", service).
			WithContext("user", user)
	}
	return nil
}

// Chain queries stores in order and returns the first hit. Set goes to the
// first store that accepts it.
type Chain []Store

func (c Chain) Get(service, user string) (string, error) {
	var lastErr error
	for _, s := range c {
		secret, err := s.Get(service, user)
		if err == nil {
			return secret, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = cerrors.New(cerrors.CategoryAuth, cerrors.SeverityError, "no credential stores configured")
	}
	return "", lastErr
}

func (c Chain) Set(service, user, password string) error {
	var lastErr error
	for _, s := range c {
		err := s.Set(service, user, password)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = cerrors.New(cerrors.CategoryAuth, cerrors.SeverityError, "no credential stores configured")
	}
	return lastErr
}

// Default returns the standard resolution order: environment first, then the
// OS keyring.
func Default() Store {
	return Chain{EnvStore{}, KeyringStore{}}
}

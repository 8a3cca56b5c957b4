// Package auth guards the news API with HTTP Basic authentication against a
// single configured credential pair.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Built-in credential pair used when nothing is configured.
const (
	DefaultUsername = "newsapi"
	DefaultPassword = "springapi"
)

// RoleUser is the only role granted to authenticated callers.
const RoleUser = "USER"

// Principal is an authenticated caller.
type Principal struct {
	Username string
	Role     string
}

// Verifier checks a username and password and returns the matching principal.
type Verifier interface {
	Verify(username, password string) (*Principal, bool)
}

// StaticVerifier accepts exactly one username and a bcrypt password hash.
type StaticVerifier struct {
	username string
	hash     []byte
}

// NewStaticVerifier creates a verifier from a username and a bcrypt hash.
func NewStaticVerifier(username string, passwordHash []byte) (*StaticVerifier, error) {
	if username == "" {
		return nil, errors.New("auth: username is required")
	}
	if _, err := bcrypt.Cost(passwordHash); err != nil {
		return nil, fmt.Errorf("auth: invalid password hash: %w", err)
	}
	return &StaticVerifier{username: username, hash: passwordHash}, nil
}

// NewStaticVerifierFromPassword hashes password and creates a verifier.
func NewStaticVerifierFromPassword(username, password string) (*StaticVerifier, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return NewStaticVerifier(username, hash)
}

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("auth: password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hashing password: %w", err)
	}
	return hash, nil
}

// Verify reports whether username and password match the stored pair.
func (v *StaticVerifier) Verify(username, password string) (*Principal, bool) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	// bcrypt runs for unknown usernames too.
	passOK := bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
	if !userOK || !passOK {
		return nil, false
	}
	return &Principal{Username: v.username, Role: RoleUser}, true
}

// FromCredentials builds the verifier for configured credentials. A hash
// takes precedence over a plaintext password. With no username the built-in
// pair is used and defaulted is true.
func FromCredentials(username, password, passwordHash string) (v *StaticVerifier, defaulted bool, err error) {
	switch {
	case username == "":
		v, err = NewStaticVerifierFromPassword(DefaultUsername, DefaultPassword)
		return v, true, err
	case passwordHash != "":
		v, err = NewStaticVerifier(username, []byte(passwordHash))
	default:
		v, err = NewStaticVerifierFromPassword(username, password)
	}
	return v, false, err
}

package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidResetToken covers expired, tampered, and already-used tokens.
var ErrInvalidResetToken = errors.New("auth: invalid password reset token")

// ResetSubject is the user state a reset token is bound to. Changing the
// password or logging in changes the fingerprint and voids older tokens.
type ResetSubject struct {
	UserID       uint
	PasswordHash string
	LastLogin    *time.Time
}

func (s ResetSubject) fingerprint() string {
	last := ""
	if s.LastLogin != nil {
		last = strconv.FormatInt(s.LastLogin.UTC().Unix(), 10)
	}
	sum := sha256.Sum256([]byte(strconv.FormatUint(uint64(s.UserID), 10) + "|" + s.PasswordHash + "|" + last))
	return hex.EncodeToString(sum[:16])
}

type resetClaims struct {
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// ResetTokens issues and checks HS256 password-reset tokens.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewResetTokens(secret string, ttl time.Duration) *ResetTokens {
	return &ResetTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Make returns a signed token for s.
func (t *ResetTokens) Make(s ResetSubject) (string, error) {
	now := t.now()
	claims := resetClaims{
		Fingerprint: s.fingerprint(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(s.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign reset token: %w", err)
	}
	return signed, nil
}

// Check verifies token against the current state of s.
func (t *ResetTokens) Check(s ResetSubject, token string) error {
	var claims resetClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidResetToken
	}
	if claims.Subject != strconv.FormatUint(uint64(s.UserID), 10) || claims.Fingerprint != s.fingerprint() {
		return ErrInvalidResetToken
	}
	return nil
}

// EncodeUID renders a user id for a reset URL path segment.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(s string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, ErrInvalidResetToken
	}
	n, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidResetToken
	}
	return uint(n), nil
}

package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	apperrors "splitbook/internal/errors"
)

const (
	otpKeyPrefix = "otp:"
	// OTPExpiry is the validity window of a one-time code.
	OTPExpiry = 5 * time.Minute
)

// OTPStoreInterface defines one-time passcode operations. A code is
// single-use and bound to an email; issuing a new code for the same email
// invalidates the previous one.
type OTPStoreInterface interface {
	Issue(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, email, code string) error
	Purge(ctx context.Context, email string) error
}

// kv is the slice of the cache client the store depends on.
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// OTPStore keeps one-time passcodes in Redis with TTL eviction.
type OTPStore struct {
	cache kv
}

// Ensure OTPStore implements OTPStoreInterface
var _ OTPStoreInterface = (*OTPStore)(nil)

// NewOTPStore creates a new OTP store.
func NewOTPStore(cache kv) *OTPStore {
	return &OTPStore{cache: cache}
}

// Issue generates a fresh 6-digit code for email and stores it with TTL.
// Any outstanding code for the same email is overwritten.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	if err := s.cache.Set(ctx, otpKeyPrefix+email, []byte(code), OTPExpiry); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Consume verifies code against the outstanding one for email and deletes
// it on match, so a code verifies at most once. Missing, expired and
// mismatched codes are indistinguishable to the caller.
func (s *OTPStore) Consume(ctx context.Context, email, code string) error {
	stored, err := s.cache.Get(ctx, otpKeyPrefix+email)
	if err != nil || stored == nil {
		return apperrors.ErrInvalidOTP
	}
	if string(stored) != code {
		return apperrors.ErrInvalidOTP
	}
	if err := s.cache.Delete(ctx, otpKeyPrefix+email); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}

// Purge drops any outstanding code for email.
func (s *OTPStore) Purge(ctx context.Context, email string) error {
	return s.cache.Delete(ctx, otpKeyPrefix+email)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

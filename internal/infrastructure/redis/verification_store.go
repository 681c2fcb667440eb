package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ridelink/verify-api/internal/domain"
)

const (
	// RecordRetention is how long a verification record survives in storage.
	// Deliberately far past the 5-minute validity window: an expired record
	// must still be found so verification can report the expiry rather than
	// claim the code never existed. Redis reclaims orphans after this.
	RecordRetention = 24 * time.Hour

	// FailedWindowTTL bounds the lifetime of the wrong-guess counter.
	FailedWindowTTL = 15 * time.Minute

	// MaxFailedAttempts is the wrong-guess ceiling per pending record.
	MaxFailedAttempts = 5
)

// Key patterns
const (
	verificationKeyPattern = "verification:code:%s"   // phone number
	failedKeyPattern       = "verification:failed:%s" // phone number
)

// VerificationKey generates the key for the pending record of a phone number
func VerificationKey(phoneNumber string) string {
	return fmt.Sprintf(verificationKeyPattern, phoneNumber)
}

// FailedKey generates the key for the wrong-guess counter of a phone number
func FailedKey(phoneNumber string) string {
	return fmt.Sprintf(failedKeyPattern, phoneNumber)
}

// SaveVerification writes the pending record for a phone number, replacing
// any previous one. Last-issued code wins; the prior code becomes unusable.
func (c *Client) SaveVerification(ctx context.Context, rec *domain.VerificationRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode verification record: %w", err)
	}
	if err := c.Set(ctx, VerificationKey(rec.PhoneNumber), string(payload), RecordRetention); err != nil {
		return fmt.Errorf("failed to store verification record: %w", err)
	}
	// A fresh code starts a fresh guess budget.
	_ = c.Delete(ctx, FailedKey(rec.PhoneNumber))
	return nil
}

// GetVerification fetches the pending record for a phone number.
// Returns ErrNotFound when no record exists.
func (c *Client) GetVerification(ctx context.Context, phoneNumber string) (*domain.VerificationRecord, error) {
	val, err := c.Get(ctx, VerificationKey(phoneNumber))
	if err != nil {
		return nil, err
	}
	var rec domain.VerificationRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode verification record: %w", err)
	}
	return &rec, nil
}

// ConsumeVerification atomically removes and returns the pending record.
// Exactly one of any number of concurrent callers receives the record; the
// rest get ErrNotFound. Callers must validate the code BEFORE consuming.
func (c *Client) ConsumeVerification(ctx context.Context, phoneNumber string) (*domain.VerificationRecord, error) {
	val, err := c.GetDel(ctx, VerificationKey(phoneNumber))
	if err != nil {
		return nil, err
	}
	var rec domain.VerificationRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode verification record: %w", err)
	}
	_ = c.Delete(ctx, FailedKey(phoneNumber))
	return &rec, nil
}

// DeleteVerification removes the pending record for a phone number.
func (c *Client) DeleteVerification(ctx context.Context, phoneNumber string) error {
	return c.Delete(ctx, VerificationKey(phoneNumber))
}

// IncrementFailed bumps the wrong-guess counter for a phone number.
// Returns the new count.
func (c *Client) IncrementFailed(ctx context.Context, phoneNumber string) (int64, error) {
	key := FailedKey(phoneNumber)
	count, err := c.Incr(ctx, key)
	if err != nil {
		return 0, err
	}
	// Set expiry on first increment
	if count == 1 {
		c.Expire(ctx, key, FailedWindowTTL)
	}
	return count, nil
}

// GetFailedCount gets the current wrong-guess count for a phone number.
func (c *Client) GetFailedCount(ctx context.Context, phoneNumber string) (int64, error) {
	val, err := c.Get(ctx, FailedKey(phoneNumber))
	if err != nil {
		return 0, nil // No key means no failures
	}
	var count int64
	fmt.Sscanf(val, "%d", &count)
	return count, nil
}

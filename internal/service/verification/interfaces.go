package verification

import (
	"context"

	"github.com/ridelink/verify-api/internal/domain"
	"github.com/ridelink/verify-api/internal/repository"
)

// CodeStore defines the Redis operations needed by the verification service
type CodeStore interface {
	SaveVerification(ctx context.Context, rec *domain.VerificationRecord) error
	GetVerification(ctx context.Context, phoneNumber string) (*domain.VerificationRecord, error)
	ConsumeVerification(ctx context.Context, phoneNumber string) (*domain.VerificationRecord, error)

	// Brute force protection
	IncrementFailed(ctx context.Context, phoneNumber string) (int64, error)
	GetFailedCount(ctx context.Context, phoneNumber string) (int64, error)
}

// UserStore defines the user persistence operations needed by the service
type UserStore interface {
	EnsureUser(ctx context.Context, user *domain.User) error
}

// AuditStore defines the audit operations needed by the service
type AuditStore interface {
	LogEvent(ctx context.Context, event repository.AuditEvent) error
}

// SMSSender delivers a text message to a phone number
type SMSSender interface {
	Send(ctx context.Context, toPhoneNumber, body string) error
}

// IdentityProvider resolves principals and mints custom tokens
type IdentityProvider interface {
	GetOrCreatePrincipal(ctx context.Context, phoneNumber string) (string, error)
	MintCustomToken(ctx context.Context, uid string) (string, error)
}

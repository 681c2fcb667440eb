package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditEvent represents a verification audit event
type AuditEvent struct {
	EventType     string                 // verification_sent, verification_resent, verification_success, verification_failed
	PhoneNumber   string                 // E.164 phone number the event concerns
	ClientIP      string                 // Client IP address
	UserAgent     string                 // Client UA
	Success       bool                   // Event succeeded?
	FailureReason string                 // Reason for failure (if any)
	Metadata      map[string]interface{} // Additional data (attempt_count, etc.)
}

// AuditRepository defines audit logging operations
type AuditRepository interface {
	LogEvent(ctx context.Context, event AuditEvent) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) LogEvent(ctx context.Context, event AuditEvent) error {
	details := map[string]interface{}{
		"success": event.Success,
	}
	if event.FailureReason != "" {
		details["failure_reason"] = event.FailureReason
	}
	for k, v := range event.Metadata {
		details[k] = v
	}
	detailsJSON, _ := json.Marshal(details)

	var clientIPAddr *netip.Addr
	if ip, err := netip.ParseAddr(event.ClientIP); err == nil {
		clientIPAddr = &ip
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO verification_audit_log (event_type, phone_number, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`,
		event.EventType, event.PhoneNumber, detailsJSON, clientIPAddr, event.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ridelink/verify-api/internal/config"
	"github.com/ridelink/verify-api/internal/domain"
	"github.com/ridelink/verify-api/internal/infrastructure/identity"
	"github.com/ridelink/verify-api/internal/infrastructure/otp"
	redisstore "github.com/ridelink/verify-api/internal/infrastructure/redis"
	"github.com/ridelink/verify-api/internal/infrastructure/sms"
	"github.com/ridelink/verify-api/internal/pkg/apperror"
	"github.com/ridelink/verify-api/internal/repository"
)

// Service handles OTP issuance, resend, and verification
type Service struct {
	defaultISD string
	codeStore  CodeStore
	userStore  UserStore
	auditStore AuditStore
	sender     SMSSender
	identity   IdentityProvider
	now        func() time.Time
}

// NewService creates a verification service with real implementations
func NewService(cfg config.IdentityConfig, codeStore *redisstore.Client, userStore repository.UserRepository, auditStore repository.AuditRepository, sender *sms.TwilioClient, provider *identity.Client) *Service {
	return &Service{
		defaultISD: cfg.DefaultCountryISD,
		codeStore:  codeStore,
		userStore:  userStore,
		auditStore: auditStore,
		sender:     sender,
		identity:   provider,
		now:        time.Now,
	}
}

// NewServiceWithDeps creates a verification service with injected dependencies (for testing)
func NewServiceWithDeps(defaultISD string, codeStore CodeStore, userStore UserStore, auditStore AuditStore, sender SMSSender, provider IdentityProvider, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		defaultISD: defaultISD,
		codeStore:  codeStore,
		userStore:  userStore,
		auditStore: auditStore,
		sender:     sender,
		identity:   provider,
		now:        now,
	}
}

// IssueRequest is the request for sending a verification code
type IssueRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// IssueResponse is the response for a successful issuance
type IssueResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VerifyRequest is the request for verifying a code
type VerifyRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Code        string `json:"code" binding:"required,len=6"`
}

// VerifyResponse is the response for a successful verification
type VerifyResponse struct {
	Success     bool   `json:"success"`
	UID         string `json:"uid"`
	CustomToken string `json:"custom_token"`
	Message     string `json:"message"`
}

// Issue generates a fresh code for the phone number, stores it, and sends it
// by SMS. A new issuance replaces any pending code for the same number.
func (s *Service) Issue(ctx context.Context, req IssueRequest, clientIP, userAgent string) (*IssueResponse, error) {
	phone := domain.NormalizePhone(req.PhoneNumber, s.defaultISD)
	if phone == "" {
		return nil, apperror.InvalidArgument("Phone number is required")
	}
	return s.issue(ctx, phone, clientIP, userAgent, "verification_sent")
}

// Resend re-issues a code for the phone number, subject to the cooldown. A
// number with a code issued less than a minute ago is refused outright; no
// code is generated and no SMS goes out.
func (s *Service) Resend(ctx context.Context, req IssueRequest, clientIP, userAgent string) (*IssueResponse, error) {
	phone := domain.NormalizePhone(req.PhoneNumber, s.defaultISD)
	if phone == "" {
		return nil, apperror.InvalidArgument("Phone number is required")
	}

	existing, err := s.codeStore.GetVerification(ctx, phone)
	if err != nil && err != redisstore.ErrNotFound {
		slog.Error("Failed to read pending verification", slog.Any("error", err))
		return nil, apperror.Internal("Unable to process request").WithError(err)
	}
	if existing != nil {
		if wait := existing.ResendAllowedAt().Sub(s.now()); wait > 0 {
			s.logEvent(ctx, "verification_resend_throttled", phone, clientIP, userAgent, false, "cooldown_active",
				map[string]interface{}{"retry_after_seconds": int(wait.Seconds()) + 1})
			return nil, apperror.ResourceExhausted("Please wait before requesting another code")
		}
	}

	return s.issue(ctx, phone, clientIP, userAgent, "verification_resent")
}

// Verify checks the submitted code against the pending record and, on match,
// consumes it, provisions the user profile, and mints a custom token. At most
// one concurrent submission of a code can succeed.
func (s *Service) Verify(ctx context.Context, req VerifyRequest, clientIP, userAgent string) (*VerifyResponse, error) {
	phone := domain.NormalizePhone(req.PhoneNumber, s.defaultISD)
	if phone == "" {
		return nil, apperror.InvalidArgument("Phone number is required")
	}
	if req.Code == "" {
		return nil, apperror.InvalidArgument("Verification code is required")
	}
	code, err := otp.ParseCode(req.Code)
	if err != nil {
		return nil, apperror.InvalidArgument("Verification code must be 6 digits")
	}

	// Brute force ceiling per pending record
	failedCount, err := s.codeStore.GetFailedCount(ctx, phone)
	if err != nil {
		slog.Error("Failed to read attempt counter", slog.Any("error", err))
	}
	if failedCount >= redisstore.MaxFailedAttempts {
		s.logEvent(ctx, "verification_locked", phone, clientIP, userAgent, false, "too_many_attempts",
			map[string]interface{}{"attempt_count": failedCount})
		RecordVerification("locked")
		return nil, apperror.ResourceExhausted("Too many failed attempts, request a new code")
	}

	rec, err := s.codeStore.GetVerification(ctx, phone)
	if err != nil {
		if err == redisstore.ErrNotFound {
			RecordVerification("not_found")
			return nil, apperror.NotFound("verification code")
		}
		slog.Error("Failed to read pending verification", slog.Any("error", err))
		return nil, apperror.Internal("Unable to process request").WithError(err)
	}

	now := s.now()
	if rec.IsExpired(now) {
		// Record stays in place so a later resend can supersede it.
		s.logEvent(ctx, "verification_failed", phone, clientIP, userAgent, false, "code_expired", nil)
		RecordVerification("expired")
		return nil, apperror.DeadlineExceeded("Verification code has expired")
	}

	if rec.Consumed {
		RecordVerification("already_used")
		return nil, apperror.AlreadyExists("Verification code has already been used")
	}

	if !rec.Matches(code) {
		newCount, _ := s.codeStore.IncrementFailed(ctx, phone)
		s.logEvent(ctx, "verification_failed", phone, clientIP, userAgent, false, "invalid_code",
			map[string]interface{}{"attempt_count": newCount})
		RecordVerification("invalid_code")
		return nil, apperror.PermissionDenied("Invalid verification code")
	}

	// Single-winner consumption. A concurrent submission losing the race
	// finds the record gone.
	consumed, err := s.codeStore.ConsumeVerification(ctx, phone)
	if err != nil {
		if err == redisstore.ErrNotFound {
			return nil, apperror.NotFound("verification code")
		}
		slog.Error("Failed to consume verification", slog.Any("error", err))
		return nil, apperror.Internal("Unable to process request").WithError(err)
	}
	if !consumed.Matches(code) {
		// A concurrent re-issue swapped the record between read and consume.
		return nil, apperror.NotFound("verification code")
	}

	if err := s.userStore.EnsureUser(ctx, domain.NewUser(phone, now)); err != nil {
		slog.Error("Failed to provision user", slog.Any("error", err))
		return nil, apperror.Internal("Unable to complete verification").WithError(err)
	}

	uid, err := s.identity.GetOrCreatePrincipal(ctx, phone)
	if err != nil {
		slog.Error("Failed to resolve principal", slog.Any("error", err))
		return nil, apperror.Internal("Unable to complete verification").WithError(err)
	}

	token, err := s.identity.MintCustomToken(ctx, uid)
	if err != nil {
		slog.Error("Failed to mint custom token", slog.Any("error", err))
		return nil, apperror.Internal("Unable to complete verification").WithError(err)
	}

	s.logEvent(ctx, "verification_success", phone, clientIP, userAgent, true, "",
		map[string]interface{}{"code_age_seconds": int(now.Sub(rec.CreatedAt).Seconds())})
	RecordVerification("success")

	return &VerifyResponse{
		Success:     true,
		UID:         uid,
		CustomToken: token,
		Message:     "Phone number verified",
	}, nil
}

func (s *Service) issue(ctx context.Context, phone, clientIP, userAgent, eventType string) (*IssueResponse, error) {
	code, err := otp.GenerateCode()
	if err != nil {
		slog.Error("Failed to generate code", slog.Any("error", err))
		return nil, apperror.Internal("Unable to generate verification code").WithError(err)
	}

	now := s.now()
	rec := &domain.VerificationRecord{
		PhoneNumber: phone,
		Code:        code,
		CreatedAt:   now,
		ExpiresAt:   now.Add(domain.CodeTTL),
	}

	if err := s.codeStore.SaveVerification(ctx, rec); err != nil {
		slog.Error("Failed to store verification", slog.Any("error", err))
		RecordIssuance(eventType, false)
		return nil, apperror.Internal("Unable to process request").WithError(err)
	}

	body := fmt.Sprintf("Your RideLink verification code is %06d. It expires in 5 minutes.", code)
	sendStart := time.Now()
	err = s.sender.Send(ctx, phone, body)
	RecordSMSLatency(time.Since(sendStart).Seconds())
	if err != nil {
		// The stored record is orphaned but harmless; nobody received it
		// and storage reclaims it on its own.
		slog.Error("Failed to send verification SMS", slog.Any("error", err))
		s.logEvent(ctx, eventType, phone, clientIP, userAgent, false, "sms_delivery_failed", nil)
		RecordIssuance(eventType, false)
		return nil, apperror.Internal("Unable to send verification code").WithError(err)
	}

	s.logEvent(ctx, eventType, phone, clientIP, userAgent, true, "", nil)
	RecordIssuance(eventType, true)

	return &IssueResponse{
		Success: true,
		Message: "Verification code sent",
	}, nil
}

// logEvent writes an audit trail entry. The code itself is never recorded.
func (s *Service) logEvent(ctx context.Context, eventType, phone, clientIP, userAgent string, success bool, failureReason string, metadata map[string]interface{}) {
	if s.auditStore != nil {
		if err := s.auditStore.LogEvent(ctx, repository.AuditEvent{
			EventType:     eventType,
			PhoneNumber:   phone,
			ClientIP:      clientIP,
			UserAgent:     userAgent,
			Success:       success,
			FailureReason: failureReason,
			Metadata:      metadata,
		}); err != nil {
			slog.Warn("Failed to write audit event", slog.Any("error", err))
		}
	}
}

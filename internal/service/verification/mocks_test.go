package verification

import (
	"context"
	"fmt"

	"github.com/ridelink/verify-api/internal/domain"
	redisstore "github.com/ridelink/verify-api/internal/infrastructure/redis"
	"github.com/ridelink/verify-api/internal/repository"
)

// MockCodeStore implements CodeStore for testing
type MockCodeStore struct {
	Records      map[string]*domain.VerificationRecord
	FailedCounts map[string]int64

	// Error injection
	SaveErr    error
	GetErr     error
	ConsumeErr error
}

func NewMockCodeStore() *MockCodeStore {
	return &MockCodeStore{
		Records:      make(map[string]*domain.VerificationRecord),
		FailedCounts: make(map[string]int64),
	}
}

func (m *MockCodeStore) SaveVerification(ctx context.Context, rec *domain.VerificationRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	clone := *rec
	m.Records[rec.PhoneNumber] = &clone
	delete(m.FailedCounts, rec.PhoneNumber)
	return nil
}

func (m *MockCodeStore) GetVerification(ctx context.Context, phoneNumber string) (*domain.VerificationRecord, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	rec, ok := m.Records[phoneNumber]
	if !ok {
		return nil, redisstore.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *MockCodeStore) ConsumeVerification(ctx context.Context, phoneNumber string) (*domain.VerificationRecord, error) {
	if m.ConsumeErr != nil {
		return nil, m.ConsumeErr
	}
	rec, ok := m.Records[phoneNumber]
	if !ok {
		return nil, redisstore.ErrNotFound
	}
	delete(m.Records, phoneNumber)
	delete(m.FailedCounts, phoneNumber)
	return rec, nil
}

func (m *MockCodeStore) IncrementFailed(ctx context.Context, phoneNumber string) (int64, error) {
	m.FailedCounts[phoneNumber]++
	return m.FailedCounts[phoneNumber], nil
}

func (m *MockCodeStore) GetFailedCount(ctx context.Context, phoneNumber string) (int64, error) {
	return m.FailedCounts[phoneNumber], nil
}

// MockUserStore implements UserStore for testing
type MockUserStore struct {
	Users map[string]*domain.User

	EnsureErr error
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{Users: make(map[string]*domain.User)}
}

func (m *MockUserStore) EnsureUser(ctx context.Context, user *domain.User) error {
	if m.EnsureErr != nil {
		return m.EnsureErr
	}
	if _, ok := m.Users[user.PhoneNumber]; !ok {
		clone := *user
		m.Users[user.PhoneNumber] = &clone
	}
	return nil
}

// MockAuditStore implements AuditStore for testing
type MockAuditStore struct {
	Events []repository.AuditEvent
}

func (m *MockAuditStore) LogEvent(ctx context.Context, event repository.AuditEvent) error {
	m.Events = append(m.Events, event)
	return nil
}

// MockSMSSender implements SMSSender for testing
type MockSMSSender struct {
	Sent []SentMessage

	SendErr error
}

type SentMessage struct {
	To   string
	Body string
}

func (m *MockSMSSender) Send(ctx context.Context, toPhoneNumber, body string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, SentMessage{To: toPhoneNumber, Body: body})
	return nil
}

// MockIdentityProvider implements IdentityProvider for testing
type MockIdentityProvider struct {
	Principals map[string]string

	GetOrCreateErr error
	MintErr        error
}

func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{Principals: make(map[string]string)}
}

func (m *MockIdentityProvider) GetOrCreatePrincipal(ctx context.Context, phoneNumber string) (string, error) {
	if m.GetOrCreateErr != nil {
		return "", m.GetOrCreateErr
	}
	if uid, ok := m.Principals[phoneNumber]; ok {
		return uid, nil
	}
	uid := fmt.Sprintf("uid-%d", len(m.Principals)+1)
	m.Principals[phoneNumber] = uid
	return uid, nil
}

func (m *MockIdentityProvider) MintCustomToken(ctx context.Context, uid string) (string, error) {
	if m.MintErr != nil {
		return "", m.MintErr
	}
	return "token-for-" + uid, nil
}

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

func newTestSessionIssuer() *SessionIssuer {
	codec, err := security.NewTokenCodec("unit-test-secret", "citypulse", time.Hour)
	if err != nil {
		panic(err)
	}
	return NewSessionIssuer(codec)
}

type mockUserRepository struct {
	byID       map[string]domain.User
	byEmail    map[string]domain.User
	byProvider map[string]domain.User

	createErr   error
	createCalls int
	createdUser domain.User

	existsErr error

	updateErr   error
	updateCalls int
	updatedUser domain.User

	lookupErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byID:       map[string]domain.User{},
		byEmail:    map[string]domain.User{},
		byProvider: map[string]domain.User{},
	}
}

func (m *mockUserRepository) add(user domain.User) {
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	if user.ProviderID != nil {
		m.byProvider[*user.ProviderID] = user
	}
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	if m.createErr != nil {
		return m.createErr
	}
	m.add(user)
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if user, ok := m.byID[id]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if user, ok := m.byEmail[email]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByProviderID(_ context.Context, providerID string) (*domain.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if user, ok := m.byProvider[providerID]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *mockUserRepository) Update(_ context.Context, user domain.User) error {
	m.updateCalls++
	m.updatedUser = user
	if m.updateErr != nil {
		return m.updateErr
	}
	m.add(user)
	return nil
}

type mockComplaintRepository struct {
	lastMethod string

	created    domain.Complaint
	createErr  error
	getResult  *domain.Complaint
	getErr     error
	updated    *domain.Complaint
	updateErr  error
	listResult domain.ComplaintPage
	listErr    error

	updateStatusValue domain.ComplaintStatus
	updateStatusNotes string
}

func (m *mockComplaintRepository) Create(_ context.Context, complaint domain.Complaint) error {
	m.lastMethod = "Create"
	m.created = complaint
	return m.createErr
}

func (m *mockComplaintRepository) GetByID(_ context.Context, _ string) (*domain.Complaint, error) {
	if m.getResult != nil {
		copied := *m.getResult
		return &copied, m.getErr
	}
	return nil, m.getErr
}

func (m *mockComplaintRepository) GetByIDAndOwner(_ context.Context, _, _ string) (*domain.Complaint, error) {
	if m.getResult != nil {
		copied := *m.getResult
		return &copied, m.getErr
	}
	return nil, m.getErr
}

func (m *mockComplaintRepository) UpdateStatus(_ context.Context, _ string, status domain.ComplaintStatus, notes string) (*domain.Complaint, error) {
	m.lastMethod = "UpdateStatus"
	m.updateStatusValue = status
	m.updateStatusNotes = notes
	if m.updated != nil {
		copied := *m.updated
		return &copied, m.updateErr
	}
	return nil, m.updateErr
}

func (m *mockComplaintRepository) ListByOwner(_ context.Context, _ string, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "ListByOwner"
	return m.listResult, m.listErr
}

func (m *mockComplaintRepository) List(_ context.Context, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "List"
	return m.listResult, m.listErr
}

func (m *mockComplaintRepository) ListByStatus(_ context.Context, _ domain.ComplaintStatus, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "ListByStatus"
	return m.listResult, m.listErr
}

func (m *mockComplaintRepository) ListByCategory(_ context.Context, _ domain.ComplaintCategory, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "ListByCategory"
	return m.listResult, m.listErr
}

func (m *mockComplaintRepository) ListBySeverity(_ context.Context, _ domain.ComplaintSeverity, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "ListBySeverity"
	return m.listResult, m.listErr
}

func (m *mockComplaintRepository) ListByStatusAndCategory(_ context.Context, _ domain.ComplaintStatus, _ domain.ComplaintCategory, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "ListByStatusAndCategory"
	return m.listResult, m.listErr
}

func (m *mockComplaintRepository) ListByStatusAndSeverity(_ context.Context, _ domain.ComplaintStatus, _ domain.ComplaintSeverity, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "ListByStatusAndSeverity"
	return m.listResult, m.listErr
}

func (m *mockComplaintRepository) ListByCategoryAndSeverity(_ context.Context, _ domain.ComplaintCategory, _ domain.ComplaintSeverity, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "ListByCategoryAndSeverity"
	return m.listResult, m.listErr
}

func (m *mockComplaintRepository) ListByStatusCategoryAndSeverity(_ context.Context, _ domain.ComplaintStatus, _ domain.ComplaintCategory, _ domain.ComplaintSeverity, _ domain.PageRequest) (domain.ComplaintPage, error) {
	m.lastMethod = "ListByStatusCategoryAndSeverity"
	return m.listResult, m.listErr
}

type mockEventPublisher struct {
	registered    []domain.UserRegisteredEvent
	submitted     []domain.ComplaintSubmittedEvent
	statusChanged []domain.ComplaintStatusChangedEvent
	err           error
}

func (m *mockEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registered = append(m.registered, event)
	return m.err
}

func (m *mockEventPublisher) PublishComplaintSubmitted(_ context.Context, event domain.ComplaintSubmittedEvent) error {
	m.submitted = append(m.submitted, event)
	return m.err
}

func (m *mockEventPublisher) PublishComplaintStatusChanged(_ context.Context, event domain.ComplaintStatusChangedEvent) error {
	m.statusChanged = append(m.statusChanged, event)
	return m.err
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []domain.MailMessage
}

func (m *mockNotifier) Enqueue(msg domain.MailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockNotifier) sent() []domain.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.MailMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

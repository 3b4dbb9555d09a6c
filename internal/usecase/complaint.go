package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

const (
	maxTitleLength        = 255
	maxDescriptionLength  = 2000
	maxContactNameLength  = 150
	maxContactPhoneLength = 50
	maxContactEmailLength = 150
	maxAddressLength      = 500
	maxImageBytes         = 5 << 20

	defaultPageSize = 20
)

// SubmitComplaintInput carries the reporter-supplied complaint fields.
// Status is deliberately absent; new complaints always start as SUBMITTED.
type SubmitComplaintInput struct {
	Title            string
	Description      string
	Category         domain.ComplaintCategory
	Severity         domain.ComplaintSeverity
	ContactName      string
	ContactPhone     string
	ContactEmail     string
	Address          string
	Latitude         float64
	Longitude        float64
	Image            []byte
	ImageContentType string
}

// AdminFilter holds the optional admin listing predicates. A nil field
// means the dimension is unconstrained.
type AdminFilter struct {
	Status   *domain.ComplaintStatus
	Category *domain.ComplaintCategory
	Severity *domain.ComplaintSeverity
}

// ComplaintService coordinates the complaint lifecycle.
type ComplaintService struct {
	complaints port.ComplaintRepository
	users      port.UserRepository
	events     port.EventPublisher
	notifier   port.Notifier
	log        *zap.Logger
}

// NewComplaintService constructs a ComplaintService.
func NewComplaintService(
	complaints port.ComplaintRepository,
	users port.UserRepository,
	events port.EventPublisher,
	notifier port.Notifier,
	log *zap.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		users:      users,
		events:     events,
		notifier:   notifier,
		log:        log,
	}
}

// Submit validates and persists a new complaint, queues the confirmation
// mail, and publishes the submission event. Mail and event failures never
// fail the submission.
func (s *ComplaintService) Submit(ctx context.Context, userID string, input SubmitComplaintInput) (domain.Complaint, error) {
	if err := validateSubmitInput(&input); err != nil {
		return domain.Complaint{}, err
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Complaint{}, fmt.Errorf("lookup owner: %w", err)
	}

	recipients := resolveRecipients(input.ContactEmail, owner.Email)
	if len(recipients) == 0 {
		return domain.Complaint{}, fmt.Errorf("%w: a contact email or account email is required for notification", ErrInvalidInput)
	}

	now := time.Now().UTC()
	complaint := domain.Complaint{
		ID:               uuid.NewString(),
		UserID:           userID,
		Title:            input.Title,
		Description:      input.Description,
		Category:         input.Category,
		Severity:         input.Severity,
		ContactName:      input.ContactName,
		ContactPhone:     input.ContactPhone,
		ContactEmail:     input.ContactEmail,
		Address:          input.Address,
		Latitude:         domain.RoundCoordinate(input.Latitude),
		Longitude:        domain.RoundCoordinate(input.Longitude),
		Image:            input.Image,
		ImageContentType: input.ImageContentType,
		Status:           domain.StatusSubmitted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return domain.Complaint{}, fmt.Errorf("create complaint: %w", err)
	}

	subject, body := submissionMail(complaint)
	s.notify(recipients, subject, body)
	s.publishSubmitted(ctx, complaint)

	return complaint, nil
}

// GetForOwner returns a complaint only if the caller owns it. A foreign
// complaint is indistinguishable from a missing one.
func (s *ComplaintService) GetForOwner(ctx context.Context, id, ownerID string) (domain.Complaint, error) {
	complaint, err := s.complaints.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return domain.Complaint{}, err
	}
	return *complaint, nil
}

// ListForOwner returns one page of the caller's complaints.
func (s *ComplaintService) ListForOwner(ctx context.Context, ownerID string, page domain.PageRequest) (domain.ComplaintPage, error) {
	return s.complaints.ListByOwner(ctx, ownerID, page.Normalize(defaultPageSize))
}

// Image returns the stored image bytes and content type. Complaints without
// an image behave as if the resource does not exist.
func (s *ComplaintService) Image(ctx context.Context, id string) ([]byte, string, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if len(complaint.Image) == 0 {
		return nil, "", repository.ErrNotFound
	}

	contentType := complaint.ImageContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return complaint.Image, contentType, nil
}

// UpdateStatus applies an administrative status transition, notifies the
// reporter, and publishes the change event.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id, adminID string, status domain.ComplaintStatus, notes string) (domain.Complaint, error) {
	if !status.Valid() {
		return domain.Complaint{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > maxDescriptionLength {
		return domain.Complaint{}, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, maxDescriptionLength)
	}

	previous, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return domain.Complaint{}, err
	}

	updated, err := s.complaints.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		return domain.Complaint{}, fmt.Errorf("update complaint status: %w", err)
	}

	adminName := "CityPulse Team"
	if admin, err := s.users.GetByID(ctx, adminID); err == nil && admin.Username != "" {
		adminName = admin.Username
	}

	if owner, err := s.users.GetByID(ctx, updated.UserID); err == nil {
		subject, body := statusUpdateMail(*updated, adminName)
		s.notify(resolveRecipients(updated.ContactEmail, owner.Email), subject, body)
	} else {
		s.log.Warn("owner lookup for status mail failed",
			zap.Error(err),
			zap.String("complaint_id", updated.ID),
		)
	}

	s.publishStatusChanged(ctx, *previous, *updated, adminID)

	return *updated, nil
}

// ListForAdmin dispatches to the repository method matching the exact set
// of supplied filters.
func (s *ComplaintService) ListForAdmin(ctx context.Context, filter AdminFilter, page domain.PageRequest) (domain.ComplaintPage, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return domain.ComplaintPage{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *filter.Status)
	}
	if filter.Category != nil && !filter.Category.Valid() {
		return domain.ComplaintPage{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *filter.Category)
	}
	if filter.Severity != nil && !filter.Severity.Valid() {
		return domain.ComplaintPage{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, *filter.Severity)
	}

	page = page.Normalize(defaultPageSize)

	const (
		byStatus = 1 << iota
		byCategory
		bySeverity
	)

	mask := 0
	if filter.Status != nil {
		mask |= byStatus
	}
	if filter.Category != nil {
		mask |= byCategory
	}
	if filter.Severity != nil {
		mask |= bySeverity
	}

	switch mask {
	case byStatus | byCategory | bySeverity:
		return s.complaints.ListByStatusCategoryAndSeverity(ctx, *filter.Status, *filter.Category, *filter.Severity, page)
	case byStatus | byCategory:
		return s.complaints.ListByStatusAndCategory(ctx, *filter.Status, *filter.Category, page)
	case byStatus | bySeverity:
		return s.complaints.ListByStatusAndSeverity(ctx, *filter.Status, *filter.Severity, page)
	case byCategory | bySeverity:
		return s.complaints.ListByCategoryAndSeverity(ctx, *filter.Category, *filter.Severity, page)
	case byStatus:
		return s.complaints.ListByStatus(ctx, *filter.Status, page)
	case byCategory:
		return s.complaints.ListByCategory(ctx, *filter.Category, page)
	case bySeverity:
		return s.complaints.ListBySeverity(ctx, *filter.Severity, page)
	default:
		return s.complaints.List(ctx, page)
	}
}

func validateSubmitInput(input *SubmitComplaintInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.ContactName = strings.TrimSpace(input.ContactName)
	input.ContactPhone = strings.TrimSpace(input.ContactPhone)
	input.ContactEmail = strings.ToLower(strings.TrimSpace(input.ContactEmail))
	input.Address = strings.TrimSpace(input.Address)

	switch {
	case input.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case len([]rune(input.Title)) > maxTitleLength:
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, maxTitleLength)
	case input.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	case len([]rune(input.Description)) > maxDescriptionLength:
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, maxDescriptionLength)
	case !input.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, input.Category)
	case !input.Severity.Valid():
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, input.Severity)
	case len([]rune(input.ContactName)) > maxContactNameLength:
		return fmt.Errorf("%w: contact name exceeds %d characters", ErrInvalidInput, maxContactNameLength)
	case len([]rune(input.ContactPhone)) > maxContactPhoneLength:
		return fmt.Errorf("%w: contact phone exceeds %d characters", ErrInvalidInput, maxContactPhoneLength)
	case input.ContactEmail != "" && !strings.Contains(input.ContactEmail, "@"):
		return fmt.Errorf("%w: contact email is not a valid address", ErrInvalidInput)
	case len(input.ContactEmail) > maxContactEmailLength:
		return fmt.Errorf("%w: contact email exceeds %d characters", ErrInvalidInput, maxContactEmailLength)
	case len([]rune(input.Address)) > maxAddressLength:
		return fmt.Errorf("%w: address exceeds %d characters", ErrInvalidInput, maxAddressLength)
	case input.Latitude < -90 || input.Latitude > 90:
		return fmt.Errorf("%w: latitude out of range", ErrInvalidInput)
	case input.Longitude < -180 || input.Longitude > 180:
		return fmt.Errorf("%w: longitude out of range", ErrInvalidInput)
	case len(input.Image) > maxImageBytes:
		return fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidInput, maxImageBytes)
	case len(input.Image) > 0 && input.ImageContentType == "":
		return fmt.Errorf("%w: image content type is required", ErrInvalidInput)
	}

	return nil
}

// resolveRecipients picks the contact email when provided, otherwise the
// owner's address, and includes both when they differ case-insensitively.
// Submission refuses to proceed when the result is empty; status updates
// simply skip the mail.
func resolveRecipients(contactEmail, ownerEmail string) []string {
	primary := contactEmail
	if primary == "" {
		primary = ownerEmail
	}
	if primary == "" {
		return nil
	}

	recipients := []string{primary}
	if ownerEmail != "" && !strings.EqualFold(primary, ownerEmail) {
		recipients = append(recipients, ownerEmail)
	}
	return recipients
}

func (s *ComplaintService) notify(recipients []string, subject, body string) {
	if s.notifier == nil || len(recipients) == 0 {
		return
	}

	s.notifier.Enqueue(domain.MailMessage{
		Recipients: recipients,
		Subject:    subject,
		Body:       body,
	})
}

func submissionMail(complaint domain.Complaint) (subject, body string) {
	subject = "CityPulse — we received your complaint"

	contactName := complaint.ContactName
	if contactName == "" {
		contactName = "Valued Citizen"
	}

	location := complaint.Address
	if location == "" {
		location = fmt.Sprintf("Lat/Lng: %.6f, %.6f", complaint.Latitude, complaint.Longitude)
	}

	body = fmt.Sprintf(`Hi %s,

Thanks for letting us know about %q. Our team will take a look and keep you posted on the next steps.

Category: %s
Severity: %s
Location: %s

We appreciate your help keeping the city running smoothly.

— CityPulse Team
`, contactName, complaint.Title, complaint.Category, complaint.Severity, location)

	return subject, body
}

func statusUpdateMail(complaint domain.Complaint, updatedBy string) (subject, body string) {
	subject = fmt.Sprintf("CityPulse — update on your complaint %q", complaint.Title)

	contactName := complaint.ContactName
	if contactName == "" {
		contactName = "Valued Citizen"
	}

	notes := complaint.StatusNotes
	if notes == "" {
		notes = "No additional notes provided."
	}

	body = fmt.Sprintf(`Hi %s,

Your complaint %q has been updated to: %s.

Notes from the team: %s

Updated by: %s

We will keep you informed as we make progress.

— CityPulse Team
`, contactName, complaint.Title, complaint.Status, notes, updatedBy)

	return subject, body
}

func (s *ComplaintService) publishSubmitted(ctx context.Context, complaint domain.Complaint) {
	if s.events == nil {
		return
	}

	event := domain.ComplaintSubmittedEvent{
		EventID:     uuid.NewString(),
		ComplaintID: complaint.ID,
		UserID:      complaint.UserID,
		Category:    complaint.Category,
		Severity:    complaint.Severity,
		Title:       complaint.Title,
		SubmittedAt: complaint.CreatedAt,
	}

	if err := s.events.PublishComplaintSubmitted(ctx, event); err != nil {
		s.log.Warn("publish complaint submitted event failed",
			zap.Error(err),
			zap.String("complaint_id", complaint.ID),
		)
	}
}

func (s *ComplaintService) publishStatusChanged(ctx context.Context, previous, updated domain.Complaint, adminID string) {
	if s.events == nil {
		return
	}

	event := domain.ComplaintStatusChangedEvent{
		EventID:     uuid.NewString(),
		ComplaintID: updated.ID,
		UserID:      updated.UserID,
		OldStatus:   previous.Status,
		NewStatus:   updated.Status,
		Notes:       updated.StatusNotes,
		ChangedBy:   adminID,
		ChangedAt:   updated.UpdatedAt,
	}

	if err := s.events.PublishComplaintStatusChanged(ctx, event); err != nil {
		s.log.Warn("publish complaint status changed event failed",
			zap.Error(err),
			zap.String("complaint_id", updated.ID),
		)
	}
}

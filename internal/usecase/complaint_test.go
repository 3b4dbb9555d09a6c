package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

func validSubmitInput() SubmitComplaintInput {
	return SubmitComplaintInput{
		Title:        "Broken streetlight",
		Description:  "The light on Main St has been out for a week.",
		Category:     domain.CategoryStreetlight,
		Severity:     domain.SeverityMedium,
		ContactName:  "Jane Doe",
		ContactPhone: "+15550100",
		Address:      "1 Main St",
		Latitude:     40.7127761234,
		Longitude:    -74.0059741234,
	}
}

func newComplaintFixture() (*ComplaintService, *mockComplaintRepository, *mockUserRepository, *mockEventPublisher, *mockNotifier) {
	complaints := &mockComplaintRepository{}
	users := newMockUserRepository()
	events := &mockEventPublisher{}
	notifier := &mockNotifier{}
	svc := NewComplaintService(complaints, users, events, notifier, zap.NewNop())
	return svc, complaints, users, events, notifier
}

func TestSubmitComplaintSuccess(t *testing.T) {
	svc, complaints, users, events, notifier := newComplaintFixture()
	owner := seedUser(t, users, "owner@example.com", strongRegistrationPassword, false)

	created, err := svc.Submit(context.Background(), owner.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if created.Status != domain.StatusSubmitted {
		t.Fatalf("new complaints must start as SUBMITTED, got %s", created.Status)
	}
	if complaints.created.Latitude != 40.712776 || complaints.created.Longitude != -74.005974 {
		t.Fatalf("coordinates were not rounded: %f, %f", complaints.created.Latitude, complaints.created.Longitude)
	}

	if len(events.submitted) != 1 {
		t.Fatalf("expected 1 submitted event, got %d", len(events.submitted))
	}

	sent := notifier.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 mail message, got %d", len(sent))
	}
	if sent[0].Subject != "CityPulse — we received your complaint" {
		t.Fatalf("unexpected subject: %s", sent[0].Subject)
	}
	if len(sent[0].Recipients) != 1 || sent[0].Recipients[0] != "owner@example.com" {
		t.Fatalf("unexpected recipients: %v", sent[0].Recipients)
	}
	if !strings.Contains(sent[0].Body, "Jane Doe") {
		t.Fatal("mail body does not greet the contact")
	}
}

func TestSubmitComplaintRecipientsIncludeDistinctContactEmail(t *testing.T) {
	svc, _, users, _, notifier := newComplaintFixture()
	owner := seedUser(t, users, "owner@example.com", strongRegistrationPassword, false)

	input := validSubmitInput()
	input.ContactEmail = "Contact@Example.com"

	if _, err := svc.Submit(context.Background(), owner.ID, input); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	sent := notifier.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 mail message, got %d", len(sent))
	}
	if len(sent[0].Recipients) != 2 {
		t.Fatalf("expected contact and owner recipients, got %v", sent[0].Recipients)
	}
}

func TestSubmitComplaintSameContactEmailSentOnce(t *testing.T) {
	svc, _, users, _, notifier := newComplaintFixture()
	owner := seedUser(t, users, "owner@example.com", strongRegistrationPassword, false)

	input := validSubmitInput()
	input.ContactEmail = "OWNER@example.com"

	if _, err := svc.Submit(context.Background(), owner.ID, input); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	sent := notifier.sent()
	if len(sent) != 1 || len(sent[0].Recipients) != 1 {
		t.Fatalf("matching addresses must collapse to one recipient, got %v", sent[0].Recipients)
	}
}

func TestSubmitComplaintRequiresSomeRecipient(t *testing.T) {
	svc, complaints, users, _, notifier := newComplaintFixture()
	users.add(domain.User{ID: "user-1", Username: "ghost", Role: domain.RoleCitizen})

	_, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if complaints.lastMethod != "" {
		t.Fatalf("nothing may be persisted without a recipient, got call to %s", complaints.lastMethod)
	}
	if len(notifier.sent()) != 0 {
		t.Fatalf("expected no mail, got %d", len(notifier.sent()))
	}
}

func TestSubmitComplaintValidation(t *testing.T) {
	svc, _, users, _, _ := newComplaintFixture()
	owner := seedUser(t, users, "owner@example.com", strongRegistrationPassword, false)

	mutations := []struct {
		name   string
		mutate func(*SubmitComplaintInput)
	}{
		{"empty title", func(i *SubmitComplaintInput) { i.Title = "" }},
		{"title too long", func(i *SubmitComplaintInput) { i.Title = strings.Repeat("x", 256) }},
		{"empty description", func(i *SubmitComplaintInput) { i.Description = "" }},
		{"description too long", func(i *SubmitComplaintInput) { i.Description = strings.Repeat("x", 2001) }},
		{"bad category", func(i *SubmitComplaintInput) { i.Category = "SINKHOLE" }},
		{"bad severity", func(i *SubmitComplaintInput) { i.Severity = "EXTREME" }},
		{"contact name too long", func(i *SubmitComplaintInput) { i.ContactName = strings.Repeat("x", 151) }},
		{"contact phone too long", func(i *SubmitComplaintInput) { i.ContactPhone = strings.Repeat("9", 51) }},
		{"malformed contact email", func(i *SubmitComplaintInput) { i.ContactEmail = "not-an-email" }},
		{"address too long", func(i *SubmitComplaintInput) { i.Address = strings.Repeat("x", 501) }},
		{"latitude out of range", func(i *SubmitComplaintInput) { i.Latitude = 90.000001 }},
		{"longitude out of range", func(i *SubmitComplaintInput) { i.Longitude = -180.000001 }},
		{"image without content type", func(i *SubmitComplaintInput) { i.Image = []byte{0x89} }},
	}

	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			input := validSubmitInput()
			tc.mutate(&input)

			_, err := svc.Submit(context.Background(), owner.ID, input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUpdateStatusSuccess(t *testing.T) {
	svc, complaints, users, events, notifier := newComplaintFixture()
	owner := seedUser(t, users, "owner@example.com", strongRegistrationPassword, false)
	admin := seedUser(t, users, "admin@example.com", strongRegistrationPassword, true)

	now := time.Now().UTC()
	existing := domain.Complaint{
		ID:        "complaint-1",
		UserID:    owner.ID,
		Title:     "Broken streetlight",
		Status:    domain.StatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	updated := existing
	updated.Status = domain.StatusInProgress
	updated.StatusNotes = "Crew dispatched."

	complaints.getResult = &existing
	complaints.updated = &updated

	result, err := svc.UpdateStatus(context.Background(), existing.ID, admin.ID, domain.StatusInProgress, "Crew dispatched.")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	if result.Status != domain.StatusInProgress {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if complaints.updateStatusNotes != "Crew dispatched." {
		t.Fatalf("notes were not forwarded: %q", complaints.updateStatusNotes)
	}

	if len(events.statusChanged) != 1 {
		t.Fatalf("expected 1 status event, got %d", len(events.statusChanged))
	}
	event := events.statusChanged[0]
	if event.OldStatus != domain.StatusSubmitted || event.NewStatus != domain.StatusInProgress {
		t.Fatalf("event transition wrong: %s -> %s", event.OldStatus, event.NewStatus)
	}
	if event.ChangedBy != admin.ID {
		t.Fatalf("event must carry the acting admin, got %s", event.ChangedBy)
	}

	sent := notifier.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 mail message, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Body, admin.Username) {
		t.Fatal("status mail does not name the acting admin")
	}
	if !strings.Contains(sent[0].Body, "IN_PROGRESS") {
		t.Fatal("status mail does not name the new status")
	}
}

func TestUpdateStatusUnknownComplaint(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaints.getErr = repository.ErrNotFound

	_, err := svc.UpdateStatus(context.Background(), "missing", "admin-1", domain.StatusResolved, "")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusInvalidStatus(t *testing.T) {
	svc, _, _, _, _ := newComplaintFixture()

	_, err := svc.UpdateStatus(context.Background(), "complaint-1", "admin-1", "DONE", "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImageMissingBehavesAsNotFound(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaints.getResult = &domain.Complaint{ID: "complaint-1", Status: domain.StatusSubmitted}

	_, _, err := svc.Image(context.Background(), "complaint-1")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImageReturnsStoredBytes(t *testing.T) {
	svc, complaints, _, _, _ := newComplaintFixture()
	complaints.getResult = &domain.Complaint{
		ID:               "complaint-1",
		Image:            []byte{0x89, 0x50, 0x4e, 0x47},
		ImageContentType: "image/png",
	}

	data, contentType, err := svc.Image(context.Background(), "complaint-1")
	if err != nil {
		t.Fatalf("Image returned error: %v", err)
	}
	if contentType != "image/png" {
		t.Fatalf("unexpected content type: %s", contentType)
	}
	if len(data) != 4 {
		t.Fatalf("unexpected image bytes: %v", data)
	}
}

func TestListForAdminDispatchesExactRepositoryMethod(t *testing.T) {
	status := domain.StatusSubmitted
	category := domain.CategoryPothole
	severity := domain.SeverityHigh

	cases := []struct {
		name   string
		filter AdminFilter
		want   string
	}{
		{"no filters", AdminFilter{}, "List"},
		{"status", AdminFilter{Status: &status}, "ListByStatus"},
		{"category", AdminFilter{Category: &category}, "ListByCategory"},
		{"severity", AdminFilter{Severity: &severity}, "ListBySeverity"},
		{"status+category", AdminFilter{Status: &status, Category: &category}, "ListByStatusAndCategory"},
		{"status+severity", AdminFilter{Status: &status, Severity: &severity}, "ListByStatusAndSeverity"},
		{"category+severity", AdminFilter{Category: &category, Severity: &severity}, "ListByCategoryAndSeverity"},
		{"all filters", AdminFilter{Status: &status, Category: &category, Severity: &severity}, "ListByStatusCategoryAndSeverity"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, complaints, _, _, _ := newComplaintFixture()

			if _, err := svc.ListForAdmin(context.Background(), tc.filter, domain.PageRequest{}); err != nil {
				t.Fatalf("ListForAdmin returned error: %v", err)
			}
			if complaints.lastMethod != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, complaints.lastMethod)
			}
		})
	}
}

func TestListForAdminRejectsUnknownFilterValues(t *testing.T) {
	svc, _, _, _, _ := newComplaintFixture()

	bad := domain.ComplaintStatus("ARCHIVED")
	_, err := svc.ListForAdmin(context.Background(), AdminFilter{Status: &bad}, domain.PageRequest{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

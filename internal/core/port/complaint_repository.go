package port

import (
	"context"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
)

// ComplaintRepository exposes persistence behavior for complaints.
//
// The admin listing surface is deliberately enumerated: one call per
// combination of the three optional filters, so every branch of the
// dispatcher maps to exactly one non-overlapping predicate.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, notes string) (*domain.Complaint, error)

	ListByOwner(ctx context.Context, ownerID string, page domain.PageRequest) (domain.ComplaintPage, error)

	List(ctx context.Context, page domain.PageRequest) (domain.ComplaintPage, error)
	ListByStatus(ctx context.Context, status domain.ComplaintStatus, page domain.PageRequest) (domain.ComplaintPage, error)
	ListByCategory(ctx context.Context, category domain.ComplaintCategory, page domain.PageRequest) (domain.ComplaintPage, error)
	ListBySeverity(ctx context.Context, severity domain.ComplaintSeverity, page domain.PageRequest) (domain.ComplaintPage, error)
	ListByStatusAndCategory(ctx context.Context, status domain.ComplaintStatus, category domain.ComplaintCategory, page domain.PageRequest) (domain.ComplaintPage, error)
	ListByStatusAndSeverity(ctx context.Context, status domain.ComplaintStatus, severity domain.ComplaintSeverity, page domain.PageRequest) (domain.ComplaintPage, error)
	ListByCategoryAndSeverity(ctx context.Context, category domain.ComplaintCategory, severity domain.ComplaintSeverity, page domain.PageRequest) (domain.ComplaintPage, error)
	ListByStatusCategoryAndSeverity(ctx context.Context, status domain.ComplaintStatus, category domain.ComplaintCategory, severity domain.ComplaintSeverity, page domain.PageRequest) (domain.ComplaintPage, error)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

// complaintListColumns omits the image blob; listings only need to know
// whether an image exists, which the content type marker carries.
var complaintListColumns = []string{
	"id",
	"user_id",
	"title",
	"description",
	"category",
	"severity",
	"contact_name",
	"contact_phone",
	"contact_email",
	"address",
	"latitude",
	"longitude",
	"image_content_type",
	"status",
	"status_notes",
	"created_at",
	"updated_at",
}

// ComplaintRepository implements port.ComplaintRepository using PostgreSQL.
type ComplaintRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewComplaintRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewComplaintRepository(exec pgExecutor) *ComplaintRepository {
	repo := &ComplaintRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance that executes statements within the supplied transaction.
func (r *ComplaintRepository) WithTx(tx pgx.Tx) *ComplaintRepository {
	if tx == nil {
		return r
	}
	return &ComplaintRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new complaint row.
func (r *ComplaintRepository) Create(ctx context.Context, complaint domain.Complaint) error {
	var imageValue any
	if len(complaint.Image) > 0 {
		imageValue = complaint.Image
	}

	var contentTypeValue any
	if complaint.ImageContentType != "" {
		contentTypeValue = complaint.ImageContentType
	}

	query := r.builder.Insert("citypulse.complaints").
		Columns(
			"id",
			"user_id",
			"title",
			"description",
			"category",
			"severity",
			"contact_name",
			"contact_phone",
			"contact_email",
			"address",
			"latitude",
			"longitude",
			"image",
			"image_content_type",
			"status",
			"status_notes",
			"created_at",
			"updated_at",
		).
		Values(
			complaint.ID,
			complaint.UserID,
			complaint.Title,
			complaint.Description,
			string(complaint.Category),
			string(complaint.Severity),
			complaint.ContactName,
			complaint.ContactPhone,
			complaint.ContactEmail,
			complaint.Address,
			complaint.Latitude,
			complaint.Longitude,
			imageValue,
			contentTypeValue,
			string(complaint.Status),
			complaint.StatusNotes,
			complaint.CreatedAt,
			complaint.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert complaint sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return repository.Unavailable("insert complaint", err)
	}

	return nil
}

// GetByID retrieves a complaint, including its image bytes.
func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, "select complaint by id")
}

// GetByIDAndOwner retrieves a complaint only if owned by the given user.
func (r *ComplaintRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Complaint, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id, "user_id": ownerID}, "select complaint by id and owner")
}

func (r *ComplaintRepository) getBy(ctx context.Context, pred squirrel.Eq, op string) (*domain.Complaint, error) {
	columns := append(append([]string{}, complaintListColumns...), "image")

	stmt, args, err := r.builder.
		Select(columns...).
		From("citypulse.complaints").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s sql: %w", op, err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	complaint, err := scanComplaint(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.Unavailable(op, err)
	}

	return complaint, nil
}

// UpdateStatus sets the workflow status and replaces the transition notes,
// returning the updated row.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, notes string) (*domain.Complaint, error) {
	stmt, args, err := r.builder.Update("citypulse.complaints").
		Set("status", string(status)).
		Set("status_notes", notes).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update complaint status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return nil, repository.Unavailable("update complaint status", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// ListByOwner returns one page of the owner's complaints.
func (r *ComplaintRepository) ListByOwner(ctx context.Context, ownerID string, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, squirrel.Eq{"user_id": ownerID}, page)
}

// List returns one page of all complaints.
func (r *ComplaintRepository) List(ctx context.Context, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, nil, page)
}

// ListByStatus returns one page filtered by status.
func (r *ComplaintRepository) ListByStatus(ctx context.Context, status domain.ComplaintStatus, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, squirrel.Eq{"status": string(status)}, page)
}

// ListByCategory returns one page filtered by category.
func (r *ComplaintRepository) ListByCategory(ctx context.Context, category domain.ComplaintCategory, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, squirrel.Eq{"category": string(category)}, page)
}

// ListBySeverity returns one page filtered by severity.
func (r *ComplaintRepository) ListBySeverity(ctx context.Context, severity domain.ComplaintSeverity, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, squirrel.Eq{"severity": string(severity)}, page)
}

// ListByStatusAndCategory returns one page filtered by status and category.
func (r *ComplaintRepository) ListByStatusAndCategory(ctx context.Context, status domain.ComplaintStatus, category domain.ComplaintCategory, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, squirrel.Eq{"status": string(status), "category": string(category)}, page)
}

// ListByStatusAndSeverity returns one page filtered by status and severity.
func (r *ComplaintRepository) ListByStatusAndSeverity(ctx context.Context, status domain.ComplaintStatus, severity domain.ComplaintSeverity, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, squirrel.Eq{"status": string(status), "severity": string(severity)}, page)
}

// ListByCategoryAndSeverity returns one page filtered by category and severity.
func (r *ComplaintRepository) ListByCategoryAndSeverity(ctx context.Context, category domain.ComplaintCategory, severity domain.ComplaintSeverity, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, squirrel.Eq{"category": string(category), "severity": string(severity)}, page)
}

// ListByStatusCategoryAndSeverity returns one page filtered by all three predicates.
func (r *ComplaintRepository) ListByStatusCategoryAndSeverity(ctx context.Context, status domain.ComplaintStatus, category domain.ComplaintCategory, severity domain.ComplaintSeverity, page domain.PageRequest) (domain.ComplaintPage, error) {
	return r.list(ctx, squirrel.Eq{"status": string(status), "category": string(category), "severity": string(severity)}, page)
}

func (r *ComplaintRepository) list(ctx context.Context, pred squirrel.Eq, page domain.PageRequest) (domain.ComplaintPage, error) {
	countQuery := r.builder.Select("count(*)").From("citypulse.complaints")
	if pred != nil {
		countQuery = countQuery.Where(pred)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return domain.ComplaintPage{}, fmt.Errorf("build count complaints sql: %w", err)
	}

	var total int64
	if err := r.exec.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return domain.ComplaintPage{}, repository.Unavailable("count complaints", err)
	}

	listQuery := r.builder.
		Select(complaintListColumns...).
		From("citypulse.complaints").
		OrderBy("id ASC").
		Limit(uint64(page.Size)).
		Offset(page.Offset())
	if pred != nil {
		listQuery = listQuery.Where(pred)
	}

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return domain.ComplaintPage{}, fmt.Errorf("build list complaints sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return domain.ComplaintPage{}, repository.Unavailable("list complaints", err)
	}
	defer rows.Close()

	items := make([]domain.Complaint, 0, page.Size)
	for rows.Next() {
		complaint, err := scanComplaint(rows, false)
		if err != nil {
			return domain.ComplaintPage{}, repository.Unavailable("scan complaint row", err)
		}
		items = append(items, *complaint)
	}

	if err := rows.Err(); err != nil {
		return domain.ComplaintPage{}, repository.Unavailable("iterate complaints", err)
	}

	return domain.NewComplaintPage(items, page, total), nil
}

func scanComplaint(row pgx.Row, withImage bool) (*domain.Complaint, error) {
	var (
		complaint   domain.Complaint
		category    string
		severity    string
		status      string
		contentType sql.NullString
		notes       sql.NullString
		image       []byte
	)

	dest := []any{
		&complaint.ID,
		&complaint.UserID,
		&complaint.Title,
		&complaint.Description,
		&category,
		&severity,
		&complaint.ContactName,
		&complaint.ContactPhone,
		&complaint.ContactEmail,
		&complaint.Address,
		&complaint.Latitude,
		&complaint.Longitude,
		&contentType,
		&status,
		&notes,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	}
	if withImage {
		dest = append(dest, &image)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	complaint.Category = domain.ComplaintCategory(category)
	complaint.Severity = domain.ComplaintSeverity(severity)
	complaint.Status = domain.ComplaintStatus(status)
	if contentType.Valid {
		complaint.ImageContentType = contentType.String
	}
	if notes.Valid {
		complaint.StatusNotes = notes.String
	}
	if withImage {
		complaint.Image = image
	}

	return &complaint, nil
}

var _ port.ComplaintRepository = (*ComplaintRepository)(nil)

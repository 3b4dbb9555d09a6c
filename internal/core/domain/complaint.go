package domain

import (
	"math"
	"time"
)

// ComplaintCategory enumerates the kinds of issue citizens can report.
type ComplaintCategory string

const (
	CategoryPothole       ComplaintCategory = "POTHOLE"
	CategoryStreetlight   ComplaintCategory = "STREETLIGHT"
	CategoryGarbage       ComplaintCategory = "GARBAGE"
	CategoryWaterLeak     ComplaintCategory = "WATER_LEAK"
	CategoryTrafficSignal ComplaintCategory = "TRAFFIC_SIGNAL"
	CategoryVandalism     ComplaintCategory = "VANDALISM"
	CategoryNoise         ComplaintCategory = "NOISE"
	CategoryOther         ComplaintCategory = "OTHER"
)

// Valid reports whether the category is a member of the enumeration.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryPothole, CategoryStreetlight, CategoryGarbage, CategoryWaterLeak,
		CategoryTrafficSignal, CategoryVandalism, CategoryNoise, CategoryOther:
		return true
	}
	return false
}

// ComplaintSeverity enumerates reporter-supplied urgency levels.
type ComplaintSeverity string

const (
	SeverityLow      ComplaintSeverity = "LOW"
	SeverityMedium   ComplaintSeverity = "MEDIUM"
	SeverityHigh     ComplaintSeverity = "HIGH"
	SeverityCritical ComplaintSeverity = "CRITICAL"
)

// Valid reports whether the severity is a member of the enumeration.
func (s ComplaintSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ComplaintStatus enumerates workflow states. No transition graph is
// enforced; administrators may move a complaint to any member state.
type ComplaintStatus string

const (
	StatusSubmitted   ComplaintStatus = "SUBMITTED"
	StatusUnderReview ComplaintStatus = "UNDER_REVIEW"
	StatusInProgress  ComplaintStatus = "IN_PROGRESS"
	StatusResolved    ComplaintStatus = "RESOLVED"
	StatusRejected    ComplaintStatus = "REJECTED"
)

// Valid reports whether the status is a member of the enumeration.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Complaint mirrors the persisted representation in the complaints table.
// StatusNotes reflect only the most recent transition, never a history.
type Complaint struct {
	ID               string
	UserID           string
	Title            string
	Description      string
	Category         ComplaintCategory
	Severity         ComplaintSeverity
	ContactName      string
	ContactPhone     string
	ContactEmail     string
	Address          string
	Latitude         float64
	Longitude        float64
	Image            []byte
	ImageContentType string
	Status           ComplaintStatus
	StatusNotes      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasImage reports whether an image is stored for the complaint. Listing
// queries omit the blob itself and rely on the content type marker.
func (c Complaint) HasImage() bool {
	return len(c.Image) > 0 || c.ImageContentType != ""
}

// coordinatePrecision matches the numeric(10,6) column scale.
const coordinatePrecision = 1e6

// RoundCoordinate converts a caller-supplied floating coordinate to the
// stored six-decimal precision.
func RoundCoordinate(v float64) float64 {
	return math.Round(v*coordinatePrecision) / coordinatePrecision
}

// PageRequest carries pagination parameters through to the store.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request to sane defaults.
func (p PageRequest) Normalize(defaultSize int) PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	return p
}

// Offset returns the row offset for the request.
func (p PageRequest) Offset() uint64 {
	return uint64(p.Page) * uint64(p.Size)
}

// ComplaintPage is one page of a complaint listing.
type ComplaintPage struct {
	Items      []Complaint
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

// NewComplaintPage assembles a page, deriving the page count from the total.
func NewComplaintPage(items []Complaint, req PageRequest, total int64) ComplaintPage {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return ComplaintPage{
		Items:      items,
		Page:       req.Page,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}

package session

import (
	"strings"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/validator"
)

// SessionFilter narrows a session fetch. The repository applies these
// server-side where it can, but services re-validate every filter locally
// because upstream filtering is best-effort (text match vs exact match can
// differ).
type SessionFilter struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, inclusive

	UserNumericID *int    `json:"user_id,omitempty"`
	UserName      *string `json:"user_name,omitempty"`
	SiteID        *string `json:"site_id,omitempty"`
	SiteName      *string `json:"site_name,omitempty"`
	MachineID     *string `json:"machine_id,omitempty"`

	// Pagination (listing endpoints only; aggregation fetches everything).
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *SessionFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(f.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(f.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, ok := validator.IsValidDate(f.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) == 0 && strings.Compare(f.EndDate, f.StartDate) < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateSessionRequest lets an administrator correct a broken punch record
// (missing clock-out, wrong status, wrong machine). Corrections go through
// the repository; the engine itself stays read-only.
type UpdateSessionRequest struct {
	ID              string  `json:"-"`
	Date            *string `json:"date,omitempty"`      // YYYY-MM-DD
	StartTime       *string `json:"start_time,omitempty"` // RFC3339
	EndTime         *string `json:"end_time,omitempty"`   // RFC3339
	Status          *string `json:"status,omitempty"`
	WorkDescription *string `json:"work_description,omitempty"`
	MachineID       *string `json:"machine_id,omitempty"`
}

func (r *UpdateSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.StartTime != nil && *r.StartTime != "" {
		if _, ok := validator.IsValidDateTime(*r.StartTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_time",
				Message: "start_time must be an RFC3339 timestamp",
			})
		}
	}
	if r.EndTime != nil && *r.EndTime != "" {
		if _, ok := validator.IsValidDateTime(*r.EndTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "end_time must be an RFC3339 timestamp",
			})
		}
	}
	if r.Status != nil {
		valid := []string{"closed", "open"}
		if !validator.IsInSlice(strings.ToLower(*r.Status), valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: closed, open",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SessionResponse is the wire shape of one session row.
type SessionResponse struct {
	ID              string  `json:"id"`
	UserID          *int    `json:"user_id,omitempty"`
	UserName        *string `json:"user_name,omitempty"`
	Date            string  `json:"date"`
	StartTime       *string `json:"start_time,omitempty"`
	EndTime         *string `json:"end_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	SiteID          *string `json:"site_id,omitempty"`
	SiteName        *string `json:"site_name,omitempty"`
	MachineID       *string `json:"machine_id,omitempty"`
	MachineName     *string `json:"machine_name,omitempty"`
	WorkDescription string  `json:"work_description,omitempty"`
	Status          string  `json:"status"`
}

type ListSessionsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Sessions   []SessionResponse `json:"sessions"`
}

// Site is one entry of the site picker listing.
type Site struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

package attendance

import (
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/validator"
)

// DailyDetailRequest asks for one worker's figures on one date.
type DailyDetailRequest struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	UserNumericID *int    `json:"user_id,omitempty"`
	UserName      *string `json:"user_name,omitempty"`
}

func (r *DailyDetailRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.UserNumericID == nil && (r.UserName == nil || validator.IsEmpty(*r.UserName)) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "either user_id or user_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DailyDetailResponse pairs the computed summary with the raw sessions it
// was derived from, so renderers can show both.
type DailyDetailResponse struct {
	Summary  DaySummary                `json:"summary"`
	Sessions []session.SessionResponse `json:"sessions"`
}

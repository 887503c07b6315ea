package report

import (
	"fmt"
	"time"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/validator"
)

// UnsetLabel is the placeholder column label for sessions that carry no work
// description or no machine reference.
const UnsetLabel = "(unset)"

// ========================================
// MONTHLY ATTENDANCE MATRIX
// ========================================

type MonthlyMatrixRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	SiteID    *string `json:"site_id,omitempty"`
	SiteName  *string `json:"site_name,omitempty"`
	MachineID *string `json:"machine_id,omitempty"`
}

func (r *MonthlyMatrixRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DaySpec is one column header of the monthly matrix.
type DaySpec struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
}

// DayCell is one user-day cell of the monthly matrix. Zero-value cells are
// present for every day of the month regardless of data.
type DayCell struct {
	Hours              float64 `json:"hours"`
	MinutesRounded     int     `json:"minutes_rounded"`
	BreakDeductMinutes int     `json:"break_deduct_minutes"`
	SessionsCount      int     `json:"sessions_count"`
	HasAnomaly         bool    `json:"has_anomaly"`
	BreakPolicyApplied bool    `json:"break_policy_applied"`
}

type MonthlyTotals struct {
	Hours              float64 `json:"hours"`
	MinutesRounded     int     `json:"minutes_rounded"`
	WorkDays           int     `json:"work_days"`
	BreakDeductMinutes int     `json:"break_deduct_minutes"`
	OvertimeHours      float64 `json:"overtime_hours"`
}

// MonthlyRow is one user's month: a cell per date plus accumulated totals.
type MonthlyRow struct {
	UserKey       string             `json:"user_key"`
	UserName      string             `json:"user_name"`
	UserNumericID *int               `json:"user_id,omitempty"`
	Cells         map[string]DayCell `json:"cells"`
	Totals        MonthlyTotals      `json:"totals"`
}

// DayTotal is the footer figure for one date across all users.
type DayTotal struct {
	MinutesRounded int     `json:"minutes_rounded"`
	Hours          float64 `json:"hours"`
}

type MonthlyMatrix struct {
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	Days        []DaySpec           `json:"days"`
	Rows        []MonthlyRow        `json:"rows"`
	DayTotals   map[string]DayTotal `json:"day_totals"`
	GeneratedAt string              `json:"generated_at"`
}

// ========================================
// SITE/MACHINE PIVOT
// ========================================

type SitePivotRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	SiteID   *string `json:"site_id,omitempty"`
	SiteName *string `json:"site_name,omitempty"`

	// MachineIDs is an inclusive allow-list; empty means all machines.
	MachineIDs []string `json:"machine_ids,omitempty"`
}

func (r *SitePivotRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if (r.SiteID == nil || *r.SiteID == "") && (r.SiteName == nil || *r.SiteName == "") {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "either site_id or site_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PivotColumn is one (user, work description, machine) tuple observed in the
// month. Every distinct combination becomes its own column.
type PivotColumn struct {
	UserKey         string  `json:"user_key"`
	UserName        string  `json:"user_name"`
	WorkDescription string  `json:"work_description"`
	MachineKey      string  `json:"machine_key"`
	MachineName     string  `json:"machine_name,omitempty"`
	TotalHours      float64 `json:"total_hours"`
}

// PivotDayRow is one calendar day of the pivot, values aligned to the
// column order. Days with no data still get a row of zeros.
type PivotDayRow struct {
	Date       string    `json:"date"`
	Weekday    string    `json:"weekday"`
	Values     []float64 `json:"values"`
	TotalHours float64   `json:"total_hours"`
}

type SitePivot struct {
	Year        int           `json:"year"`
	Month       int           `json:"month"`
	Site        string        `json:"site"`
	Columns     []PivotColumn `json:"columns"`
	Days        []PivotDayRow `json:"days"`
	GrandTotal  float64       `json:"grand_total_hours"`
	GeneratedAt string        `json:"generated_at"`
}

// ========================================
// PER-USER DAY GROUPS
// ========================================

type UserDayGroupsRequest struct {
	StartDate     string  `json:"start_date"` // YYYY-MM-DD
	EndDate       string  `json:"end_date"`   // YYYY-MM-DD
	UserNumericID *int    `json:"user_id,omitempty"`
	UserName      *string `json:"user_name,omitempty"`
}

func (r *UserDayGroupsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
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

// DayGroupItem is one session's working/overtime split within a day. Only
// the single longest item of the day (the break target) has the configured
// break subtracted before rounding.
type DayGroupItem struct {
	SessionID       string  `json:"session_id"`
	RawMinutes      float64 `json:"raw_minutes"`
	IsBreakTarget   bool    `json:"is_break_target"`
	WorkingMinutes  int     `json:"working_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
}

// DayGroupSummary is the day-level header figure, computed from the
// earliest-start-to-latest-end span minus one break. It is deliberately
// independent of the per-item figures and the two can disagree when
// sessions overlap or are disjoint.
type DayGroupSummary struct {
	SpanMinutes        float64 `json:"span_minutes"`
	WorkingMinutes     int     `json:"working_minutes"`
	OvertimeMinutes    int     `json:"overtime_minutes"`
	ItemWorkingMinutes int     `json:"item_working_minutes"`
}

type DayGroup struct {
	Date    string          `json:"date"`
	Items   []DayGroupItem  `json:"items"`
	Summary DayGroupSummary `json:"summary"`
}

type UserDayGroupsResponse struct {
	UserName string     `json:"user_name,omitempty"`
	Groups   []DayGroup `json:"groups"`
}

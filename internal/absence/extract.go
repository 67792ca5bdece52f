package absence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"absencer/internal/tabular"
)

// Fixed sheet layouts. The roster sheet has a single header row; the absence
// sheet carries three rows of header/metadata before the data begins.
const (
	employeeDataStart = 1
	absenceDataStart  = 3

	colEmployeeUserID      = 0
	colEmployeeLastName    = 1
	colEmployeeFirstName   = 2
	colEmployeeEmail       = 3
	colEmployeeWeeklyHours = 4

	colAbsenceFirstName = 3
	colAbsenceLastName  = 5
	colAbsenceTimeType  = 7
	colAbsenceStart     = 8
	colAbsenceEnd       = 10
	colAbsenceStatus    = 16
)

// ErrMissingName marks an absence row whose first or last name is blank.
var ErrMissingName = errors.New("missing employee name")

// RowError is a failure localized to one input row. It never aborts the
// extraction pass.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// RowWarning flags a row that was accepted but deserves attention.
type RowWarning struct {
	Row     int
	Message string
}

// EmployeeBatch is the outcome of one roster extraction pass.
type EmployeeBatch struct {
	Employees []Employee
	Skipped   int // rows missing userId or email
}

// AbsenceBatch is the outcome of one absence extraction pass. Excluded counts
// rows filtered as working-time/break categories; Errors holds per-row
// failures. The caller decides how to surface both.
type AbsenceBatch struct {
	Absences  []Absence
	Processed int
	Excluded  int
	Errors    []RowError
	Warnings  []RowWarning
}

// Extractor turns raw tabular rows into validated records.
type Extractor struct {
	Validator *Validator
}

func NewExtractor(validator *Validator) *Extractor {
	return &Extractor{Validator: validator}
}

// Employees reads the roster sheet: row 0 is the header, blank rows are
// skipped, and rows lacking a user ID or email are dropped without error.
// Duplicate names are retained; they only collapse in the reconciler's lookup.
func (e *Extractor) Employees(src tabular.Source) (EmployeeBatch, error) {
	rows, err := src.Rows()
	if err != nil {
		return EmployeeBatch{}, fmt.Errorf("read roster: %w", err)
	}

	var batch EmployeeBatch
	for i := employeeDataStart; i < len(rows); i++ {
		row := rows[i]
		if tabular.RowEmpty(row) {
			continue
		}

		employee := Employee{
			UserID:             tabular.At(row, colEmployeeUserID).StringValue(),
			LastName:           tabular.At(row, colEmployeeLastName).StringValue(),
			FirstName:          tabular.At(row, colEmployeeFirstName).StringValue(),
			Email:              tabular.At(row, colEmployeeEmail).StringValue(),
			WeeklyWorkingHours: tabular.At(row, colEmployeeWeeklyHours).IntValue(),
		}
		if employee.UserID == "" || employee.Email == "" {
			batch.Skipped++
			continue
		}
		batch.Employees = append(batch.Employees, employee)
	}
	return batch, nil
}

// Absences reads the absence sheet. Rows that are not APPROVED or PENDING are
// silently skipped; working-time and break rows are excluded before any date
// parsing; name or date failures become row errors and processing continues.
func (e *Extractor) Absences(src tabular.Source) (AbsenceBatch, error) {
	rows, err := src.Rows()
	if err != nil {
		return AbsenceBatch{}, fmt.Errorf("read absences: %w", err)
	}

	var batch AbsenceBatch
	for i := absenceDataStart; i < len(rows); i++ {
		row := rows[i]
		if tabular.RowEmpty(row) {
			continue
		}

		status := strings.TrimSpace(tabular.At(row, colAbsenceStatus).StringValue())
		if !strings.EqualFold(status, "APPROVED") && !strings.EqualFold(status, "PENDING") {
			continue
		}

		timeType := strings.ToLower(strings.TrimSpace(tabular.At(row, colAbsenceTimeType).StringValue()))
		if timeType == "working time" || timeType == "break" {
			batch.Excluded++
			continue
		}

		record, warnings, err := e.absenceFromRow(row)
		if err != nil {
			batch.Errors = append(batch.Errors, RowError{Row: i, Err: err})
			continue
		}
		for _, message := range warnings {
			batch.Warnings = append(batch.Warnings, RowWarning{Row: i, Message: message})
		}
		batch.Absences = append(batch.Absences, record)
		batch.Processed++
	}
	return batch, nil
}

func (e *Extractor) absenceFromRow(row []tabular.Cell) (Absence, []string, error) {
	record := Absence{
		FirstName: tabular.At(row, colAbsenceFirstName).StringValue(),
		LastName:  tabular.At(row, colAbsenceLastName).StringValue(),
	}
	if record.FirstName == "" || record.LastName == "" {
		return Absence{}, nil, ErrMissingName
	}

	var warnings []string
	start, warning, err := e.date(tabular.At(row, colAbsenceStart))
	if err != nil {
		return Absence{}, nil, fmt.Errorf("start date: %w", err)
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	end, warning, err := e.date(tabular.At(row, colAbsenceEnd))
	if err != nil {
		return Absence{}, nil, fmt.Errorf("end date: %w", err)
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	record.StartDate = start
	record.EndDate = end
	return record, warnings, nil
}

func (e *Extractor) date(cell tabular.Cell) (time.Time, string, error) {
	parsed, err := ExtractDate(cell)
	if err != nil {
		return time.Time{}, "", err
	}
	warning, err := e.Validator.Validate(parsed)
	if err != nil {
		return time.Time{}, "", err
	}
	return parsed, warning, nil
}

// Package absence holds the roster/absence reconciliation pipeline: tolerant
// record extraction from tabular sources, defensive date parsing, and the
// name-based matching of absences to employees.
package absence

import "time"

// Employee is one roster row. UserID and Email are required; rows lacking
// either are never emitted by the extractor.
type Employee struct {
	UserID             string
	LastName           string
	FirstName          string
	Email              string
	WeeklyWorkingHours int
}

// Absence is one accepted absence-sheet row. EndDate is not required to be
// on or after StartDate; the source sheets contain such rows and downstream
// consumers handle them.
type Absence struct {
	FirstName string
	LastName  string
	StartDate time.Time
	EndDate   time.Time
}

// Result pairs a matched absence with the employee's identity. One Result is
// produced per matched absence; unmatched absences produce nothing.
type Result struct {
	UserID      string
	Email       string
	AbsentFrom  time.Time
	AbsentUntil time.Time
}

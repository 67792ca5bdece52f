package absence

import "strings"

// MatchStats summarizes one reconciliation pass. Collisions lists name keys
// shared by more than one employee; the lookup keeps the last one read, so a
// non-empty list means the roster is ambiguous, not that matching failed.
type MatchStats struct {
	Matched        int
	Unmatched      int
	UnmatchedNames []string
	Collisions     []string
}

// Reconcile matches each absence to at most one employee by normalized name
// and returns one Result per hit, preserving absence input order. Misses are
// dropped and counted; no deduplication is performed.
func Reconcile(absences []Absence, employees []Employee) ([]Result, MatchStats) {
	index, collisions := employeeIndex(employees)
	stats := MatchStats{Collisions: collisions}

	results := make([]Result, 0, len(absences))
	for _, record := range absences {
		employee, ok := index[nameKey(record.FirstName, record.LastName)]
		if !ok {
			stats.Unmatched++
			stats.UnmatchedNames = append(stats.UnmatchedNames,
				strings.TrimSpace(record.FirstName+" "+record.LastName))
			continue
		}
		results = append(results, Result{
			UserID:      employee.UserID,
			Email:       employee.Email,
			AbsentFrom:  record.StartDate,
			AbsentUntil: record.EndDate,
		})
		stats.Matched++
	}
	return results, stats
}

// employeeIndex keys employees by normalized name, iterating in input order.
// Later entries overwrite earlier ones under key collision; every collision
// is reported so callers can flag ambiguous rosters.
func employeeIndex(employees []Employee) (map[string]Employee, []string) {
	index := make(map[string]Employee, len(employees))
	var collisions []string
	for _, employee := range employees {
		key := nameKey(employee.FirstName, employee.LastName)
		if _, exists := index[key]; exists {
			collisions = append(collisions, key)
		}
		index[key] = employee
	}
	return index, collisions
}

// nameKey is the join key between roster and absence records: the lower-cased,
// trimmed concatenation of first and last name.
func nameKey(firstName, lastName string) string {
	return strings.TrimSpace(strings.ToLower(firstName + " " + lastName))
}

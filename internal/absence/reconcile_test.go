package absence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileMatchesByNormalizedName(t *testing.T) {
	employees := []Employee{
		{UserID: "id1", FirstName: "Ion", LastName: "Popescu", Email: "a@x.com"},
	}
	d1 := date(2024, time.July, 1)
	d2 := date(2024, time.July, 5)
	absences := []Absence{
		{FirstName: "Ion", LastName: "Popescu", StartDate: d1, EndDate: d2},
	}

	results, stats := Reconcile(absences, employees)
	require.Len(t, results, 1)
	assert.Equal(t, Result{UserID: "id1", Email: "a@x.com", AbsentFrom: d1, AbsentUntil: d2}, results[0])
	assert.Equal(t, 1, stats.Matched)
	assert.Zero(t, stats.Unmatched)
}

func TestReconcileIgnoresCaseAndWhitespace(t *testing.T) {
	employees := []Employee{
		{UserID: "id1", FirstName: "Ion", LastName: "Popescu", Email: "a@x.com"},
	}
	for _, name := range []string{"ION", " Ion ", "ion"} {
		absences := []Absence{{FirstName: name, LastName: "popescu"}}
		results, _ := Reconcile(absences, employees)
		require.Len(t, results, 1, "first name %q should match", name)
		assert.Equal(t, "id1", results[0].UserID)
	}
}

func TestReconcilePreservesOrderAndDropsMisses(t *testing.T) {
	employees := []Employee{
		{UserID: "id1", FirstName: "Ion", LastName: "Popescu", Email: "ion@x.com"},
		{UserID: "id2", FirstName: "Maria", LastName: "Ionescu", Email: "maria@x.com"},
	}
	absences := []Absence{
		{FirstName: "Maria", LastName: "Ionescu"},
		{FirstName: "Nobody", LastName: "Known"},
		{FirstName: "Ion", LastName: "Popescu"},
		{FirstName: "Also", LastName: "Missing"},
		{FirstName: "Maria", LastName: "Ionescu"},
	}

	results, stats := Reconcile(absences, employees)
	require.Len(t, results, 3)
	assert.Equal(t, "id2", results[0].UserID)
	assert.Equal(t, "id1", results[1].UserID)
	assert.Equal(t, "id2", results[2].UserID)

	assert.Equal(t, 3, stats.Matched)
	assert.Equal(t, 2, stats.Unmatched)
	assert.Equal(t, []string{"Nobody Known", "Also Missing"}, stats.UnmatchedNames)
}

func TestReconcileLastEmployeeWinsOnNameCollision(t *testing.T) {
	employees := []Employee{
		{UserID: "id1", FirstName: "Ion", LastName: "Popescu", Email: "first@x.com"},
		{UserID: "id2", FirstName: "ion", LastName: "POPESCU", Email: "second@x.com"},
	}
	absences := []Absence{{FirstName: "Ion", LastName: "Popescu"}}

	results, stats := Reconcile(absences, employees)
	require.Len(t, results, 1)
	assert.Equal(t, "id2", results[0].UserID)
	assert.Equal(t, []string{"ion popescu"}, stats.Collisions)
}

func TestReconcileKeepsDuplicateAbsences(t *testing.T) {
	employees := []Employee{
		{UserID: "id1", FirstName: "Ion", LastName: "Popescu", Email: "a@x.com"},
	}
	record := Absence{FirstName: "Ion", LastName: "Popescu", StartDate: date(2024, time.July, 1), EndDate: date(2024, time.July, 1)}

	results, _ := Reconcile([]Absence{record, record}, employees)
	require.Len(t, results, 2)
	assert.Equal(t, results[0], results[1])
}

func TestReconcileEmptyInputs(t *testing.T) {
	results, stats := Reconcile(nil, nil)
	assert.Empty(t, results)
	assert.Zero(t, stats.Matched)
	assert.Zero(t, stats.Unmatched)
}

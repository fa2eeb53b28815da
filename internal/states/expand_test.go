// internal/states/expand_test.go
package states

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetflow/aet-backend/internal/models"
)

func makeLicense(id uint, targets []string, statuses []string) models.LicenseRequest {
	lic := models.LicenseRequest{
		RequestNumber: "AET-2025-000007",
		ConjunctType:  models.ConjunctBitrain7Axles,
		CargoType:     "soy",
		States:        targets,
		StateStatuses: statuses,
	}
	lic.ID = id
	return lic
}

func TestExpandProducesOneRowPerState(t *testing.T) {
	lic := makeLicense(7, []string{"SP", "MG"}, []string{"SP:approved:2025-06-01:AET999"})

	rows := Expand(&lic)
	require.Len(t, rows, 2)

	sp, mg := rows[0], rows[1]
	assert.Equal(t, "7-SP", sp.ID)
	assert.Equal(t, StatusApproved, sp.Status)
	assert.Equal(t, "2025-06-01", sp.ValidUntil)
	assert.Equal(t, "AET999", sp.AETNumber)

	assert.Equal(t, "7-MG", mg.ID)
	assert.Equal(t, StatusPendingRegistration, mg.Status)
	assert.Empty(t, mg.ValidUntil)
	assert.Empty(t, mg.AETNumber)
}

func TestExpandAllRowCountMatchesStateCounts(t *testing.T) {
	lics := []models.LicenseRequest{
		makeLicense(1, []string{"SP"}, nil),
		makeLicense(2, []string{"SP", "MG", "RJ"}, nil),
		makeLicense(3, nil, nil),
	}

	rows := ExpandAll(lics)
	assert.Len(t, rows, 4)

	seen := map[string]bool{}
	for _, r := range rows {
		assert.False(t, seen[r.ID], "duplicate row id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestFilterRowsByStatusAndSearch(t *testing.T) {
	lic := makeLicense(9, []string{"SP", "MG", "RJ"}, []string{
		"SP:approved:2025-06-01:AET100",
		"MG:rejected",
	})

	rows := Expand(&lic)

	rejected := FilterRows(rows, RowFilter{Status: StatusRejected})
	require.Len(t, rejected, 1)
	assert.Equal(t, "MG", rejected[0].State)

	byAET := FilterRows(rows, RowFilter{Search: "aet100"})
	require.Len(t, byAET, 1)
	assert.Equal(t, "SP", byAET[0].State)

	all := FilterRows(rows, RowFilter{})
	assert.Len(t, all, 3)
}

func TestFilterRowsByDateRange(t *testing.T) {
	old := makeLicense(1, []string{"SP"}, nil)
	old.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := makeLicense(2, []string{"SP"}, nil)
	recent.CreatedAt = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	rows := ExpandAll([]models.LicenseRequest{old, recent})

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got := FilterRows(rows, RowFilter{From: &from})
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].LicenseID)
}

func TestSortRowsValidityPlacesEmptyDatesLastBothDirections(t *testing.T) {
	lic := makeLicense(4, []string{"SP", "MG", "RJ", "PR"}, []string{
		"SP:approved:2025-06-01",
		"RJ:approved:2024-03-01",
		"PR:approved:2026-01-01",
	})
	rows := Expand(&lic)

	SortRows(rows, "valid_until", false)
	assert.Equal(t, []string{"RJ", "SP", "PR", "MG"}, rowStates(rows))

	SortRows(rows, "valid_until", true)
	assert.Equal(t, []string{"PR", "SP", "RJ", "MG"}, rowStates(rows))
}

func TestSortRowsByStateAndDirection(t *testing.T) {
	lic := makeLicense(4, []string{"RJ", "SP", "MG"}, nil)
	rows := Expand(&lic)

	SortRows(rows, "state", false)
	assert.Equal(t, []string{"MG", "RJ", "SP"}, rowStates(rows))

	SortRows(rows, "state", true)
	assert.Equal(t, []string{"SP", "RJ", "MG"}, rowStates(rows))
}

func TestPaginateRows(t *testing.T) {
	lic := makeLicense(1, []string{"AC", "AL", "AM", "AP", "BA"}, nil)
	rows := Expand(&lic)

	page1 := PaginateRows(rows, 1, 2)
	page3 := PaginateRows(rows, 3, 2)
	beyond := PaginateRows(rows, 9, 2)

	assert.Equal(t, []string{"AC", "AL"}, rowStates(page1))
	assert.Equal(t, []string{"BA"}, rowStates(page3))
	assert.Empty(t, beyond)
}

func rowStates(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.State)
	}
	return out
}

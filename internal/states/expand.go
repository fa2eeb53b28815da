// internal/states/expand.go
package states

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aetflow/aet-backend/internal/models"
)

// Row is one (license, state) pair for list views that show a line per
// jurisdiction. A license targeting N states expands to N rows; the
// aggregate fields are replaced by that state's decoded sub-record.
type Row struct {
	ID            string              `json:"id"`
	LicenseID     uint                `json:"license_id"`
	RequestNumber string              `json:"request_number"`
	State         string              `json:"state"`
	Status        Status              `json:"status"`
	ValidUntil    string              `json:"valid_until,omitempty"`
	AETNumber     string              `json:"aet_number,omitempty"`
	FileURL       string              `json:"file_url,omitempty"`
	ConjunctType  models.ConjunctType `json:"conjunct_type"`
	CargoType     string              `json:"cargo_type"`
	TransporterID uint                `json:"transporter_id"`
	IsDraft       bool                `json:"is_draft"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Expand produces one Row per target state of the license.
func Expand(lic *models.LicenseRequest) []Row {
	rows := make([]Row, 0, len(lic.States))
	for _, st := range lic.States {
		rec := Decode(lic.StateStatuses, st)
		rows = append(rows, Row{
			ID:            fmt.Sprintf("%d-%s", lic.ID, rec.State),
			LicenseID:     lic.ID,
			RequestNumber: lic.RequestNumber,
			State:         rec.State,
			Status:        rec.Status,
			ValidUntil:    rec.ValidUntil,
			AETNumber:     rec.AETNumber,
			FileURL:       Value(lic.StateFiles, st),
			ConjunctType:  lic.ConjunctType,
			CargoType:     lic.CargoType,
			TransporterID: lic.TransporterID,
			IsDraft:       lic.IsDraft,
			CreatedAt:     lic.CreatedAt,
			UpdatedAt:     lic.UpdatedAt,
		})
	}
	return rows
}

// ExpandAll flattens a license list into per-state rows.
func ExpandAll(lics []models.LicenseRequest) []Row {
	var rows []Row
	for i := range lics {
		rows = append(rows, Expand(&lics[i])...)
	}
	return rows
}

// RowFilter narrows an expanded list. Zero values mean "no constraint".
type RowFilter struct {
	Search string
	Status Status
	From   *time.Time
	To     *time.Time
}

// FilterRows applies the filter to the expanded list, not the raw
// license list, so one license can match on some states and not others.
func FilterRows(rows []Row, f RowFilter) []Row {
	out := make([]Row, 0, len(rows))
	term := strings.ToLower(strings.TrimSpace(f.Search))
	for _, r := range rows {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.From != nil && r.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && r.CreatedAt.After(*f.To) {
			continue
		}
		if term != "" && !rowMatches(r, term) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func rowMatches(r Row, term string) bool {
	for _, field := range []string{r.RequestNumber, r.State, r.CargoType, r.AETNumber} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// SortRows orders rows by a displayed column. Rows without a validity
// date sort last regardless of direction.
func SortRows(rows []Row, field string, desc bool) {
	less := func(a, b Row) bool { return a.CreatedAt.Before(b.CreatedAt) }

	switch field {
	case "request_number":
		less = func(a, b Row) bool { return a.RequestNumber < b.RequestNumber }
	case "state":
		less = func(a, b Row) bool { return a.State < b.State }
	case "status":
		less = func(a, b Row) bool { return rankOf(a.Status) < rankOf(b.Status) }
	case "valid_until":
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].ValidUntil, rows[j].ValidUntil
			if (a == "") != (b == "") {
				return b == "" // populated dates first, empty always last
			}
			if desc {
				return a > b
			}
			return a < b
		})
		return
	case "created_at", "":
		// default comparator
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// PaginateRows slices the filtered, sorted list. Page numbers start
// at 1.
func PaginateRows(rows []Row, page, limit int) []Row {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(rows) {
		return []Row{}
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

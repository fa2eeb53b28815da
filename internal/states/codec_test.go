// internal/states/codec_test.go
package states

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAbsentStateDefaultsToPendingRegistration(t *testing.T) {
	rec := Decode([]string{"SP:approved:2025-06-01:AET999"}, "MG")

	assert.Equal(t, "MG", rec.State)
	assert.Equal(t, StatusPendingRegistration, rec.Status)
	assert.Empty(t, rec.ValidUntil)
	assert.Empty(t, rec.AETNumber)
}

func TestDecodeApprovedEntry(t *testing.T) {
	rec := Decode([]string{"SP:approved:2025-06-01:AET999", "MG:under_review"}, "SP")

	assert.Equal(t, StatusApproved, rec.Status)
	assert.Equal(t, "2025-06-01", rec.ValidUntil)
	assert.Equal(t, "AET999", rec.AETNumber)
}

func TestDecodeInReviewEntryCarriesAETNumberInFieldTwo(t *testing.T) {
	rec := Decode([]string{"MG:under_review:AET123"}, "MG")

	assert.Equal(t, StatusUnderReview, rec.Status)
	assert.Empty(t, rec.ValidUntil)
	assert.Equal(t, "AET123", rec.AETNumber)
}

func TestDecodeLegacyAliases(t *testing.T) {
	legacy := Decode([]string{"SP:released:2025-01-01:AET123"}, "SP")
	canonical := Decode([]string{"SP:approved:2025-01-01:AET123"}, "SP")
	assert.Equal(t, canonical, legacy)

	cases := map[string]Status{
		"pending":         StatusPendingRegistration,
		"in_progress":     StatusRegistrationInProgress,
		"analyzing":       StatusUnderReview,
		"pending_release": StatusPendingApproval,
		"released":        StatusApproved,
	}
	for alias, want := range cases {
		assert.Equal(t, want, Normalize(alias), "alias %q", alias)
	}
}

func TestDecodeUnrecognizedStatusSurfacesUnknown(t *testing.T) {
	rec := Decode([]string{"SP:totally_bogus"}, "SP")
	assert.Equal(t, StatusUnknown, rec.Status)

	rec = Decode([]string{"SP"}, "SP")
	assert.Equal(t, StatusUnknown, rec.Status)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	records := []Record{
		{State: "SP", Status: StatusPendingRegistration},
		{State: "MG", Status: StatusUnderReview, AETNumber: "AET55"},
		{State: "RJ", Status: StatusApproved, ValidUntil: "2025-12-31", AETNumber: "AET-7"},
		{State: "PR", Status: StatusApproved, ValidUntil: "2026-01-15"},
		{State: "SC", Status: StatusRejected},
		{State: "BA", Status: StatusCanceled},
	}

	for _, want := range records {
		entries := Encode(nil, want)
		got := Decode(entries, want.State)
		assert.Equal(t, want, got, "round trip for %s", want.State)
	}
}

func TestEncodeReplacesInPlacePreservingOrder(t *testing.T) {
	entries := []string{"SP:under_review", "MG:pending_approval", "RJ:rejected"}

	entries = Encode(entries, Record{State: "MG", Status: StatusApproved, ValidUntil: "2025-06-01", AETNumber: "AET1"})

	assert.Equal(t, []string{
		"SP:under_review",
		"MG:approved:2025-06-01:AET1",
		"RJ:rejected",
	}, entries)
}

func TestEncodeTwiceLeavesSingleEntry(t *testing.T) {
	entries := Encode(nil, Record{State: "SP", Status: StatusUnderReview})
	entries = Encode(entries, Record{State: "MG", Status: StatusUnderReview})
	entries = Encode(entries, Record{State: "SP", Status: StatusApproved, ValidUntil: "2025-01-01"})
	entries = Encode(entries, Record{State: "SP", Status: StatusRejected})

	count := 0
	for _, e := range entries {
		if entryState(e) == "SP" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"SP:rejected", "MG:under_review"}, entries)
}

func TestEncodeCollapsesStrayDuplicates(t *testing.T) {
	entries := []string{"SP:pending", "MG:analyzing", "SP:under_review"}

	entries = Encode(entries, Record{State: "SP", Status: StatusPendingApproval})

	assert.Equal(t, []string{"SP:pending_approval", "MG:analyzing"}, entries)
}

func TestValueSplitsOnFirstColonOnly(t *testing.T) {
	entries := []string{"SP:https://files.example.com/aet/sp-123.pdf", "MG:AET456"}

	assert.Equal(t, "https://files.example.com/aet/sp-123.pdf", Value(entries, "SP"))
	assert.Equal(t, "AET456", Value(entries, "MG"))
	assert.Empty(t, Value(entries, "RJ"))
}

func TestSetValueReplacesExistingEntry(t *testing.T) {
	entries := []string{"SP:old.pdf", "MG:other.pdf"}

	entries = SetValue(entries, "SP", "https://cdn.example.com/new.pdf")

	assert.Equal(t, []string{"SP:https://cdn.example.com/new.pdf", "MG:other.pdf"}, entries)
	assert.Equal(t, "https://cdn.example.com/new.pdf", Value(entries, "sp"))
}

func TestProjectOverall(t *testing.T) {
	tests := []struct {
		name string
		recs []Record
		want Status
	}{
		{"no states", nil, StatusPendingRegistration},
		{
			"any rejected wins",
			[]Record{{Status: StatusApproved}, {Status: StatusRejected}},
			StatusRejected,
		},
		{
			"all approved",
			[]Record{{Status: StatusApproved}, {Status: StatusApproved}},
			StatusApproved,
		},
		{
			"minimum progress otherwise",
			[]Record{{Status: StatusApproved}, {Status: StatusUnderReview}, {Status: StatusPendingApproval}},
			StatusUnderReview,
		},
		{
			"canceled ignored while others progress",
			[]Record{{Status: StatusCanceled}, {Status: StatusApproved}},
			StatusApproved,
		},
		{
			"all canceled",
			[]Record{{Status: StatusCanceled}, {Status: StatusCanceled}},
			StatusCanceled,
		},
		{
			"unknown surfaces",
			[]Record{{Status: StatusApproved}, {Status: StatusUnknown}},
			StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectOverall(tt.recs))
		})
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"SP", "MG", "RJ"}, Dedupe([]string{"sp", "MG", "SP", " rj ", "mg"}))
	assert.Empty(t, Dedupe([]string{"", "  "}))
}

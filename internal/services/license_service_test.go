// internal/services/license_service_test.go
package services

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/aetflow/aet-backend/internal/models"
	"github.com/aetflow/aet-backend/internal/states"
)

func uintPtr(v uint) *uint { return &v }

func TestRenewalDraftIsSingleStateWithNoHistory(t *testing.T) {
	source := &models.LicenseRequest{
		TransporterID:   3,
		CreatedByID:     10,
		RequestNumber:   "AET-2025-000007",
		ConjunctType:    models.ConjunctBitrain9Axles,
		CargoType:       "Bobinas de aço",
		LengthCm:        2500,
		WidthCm:         260,
		HeightCm:        440,
		TractorUnitID:   uintPtr(1),
		FirstTrailerID:  uintPtr(2),
		SecondTrailerID: uintPtr(4),
		ExtraPlates:     pq.StringArray{"ABC1D23"},
		States:          pq.StringArray{"SP", "MG", "PR"},
		StateStatuses:   pq.StringArray{"SP:approved:2025-06-30:AET-SP-11", "MG:rejected"},
		StateFiles:      pq.StringArray{"SP:https://bucket.s3.amazonaws.com/aet-sp.pdf"},
		StateAETNumbers: pq.StringArray{"SP:AET-SP-11"},
		Status:          string(states.StatusRejected),
		IsDraft:         false,
	}
	source.ID = 7

	draft := renewalDraft(source, "SP", 42)

	assert.Equal(t, []string{"SP"}, []string(draft.States))
	assert.True(t, draft.IsDraft)
	assert.Empty(t, draft.StateStatuses)
	assert.Empty(t, draft.StateFiles)
	assert.Empty(t, draft.StateAETNumbers)

	// Fresh request identity, not the source's
	assert.Empty(t, draft.RequestNumber)
	assert.Nil(t, draft.SubmittedAt)
	assert.Equal(t, string(states.StatusPendingRegistration), draft.Status)
	assert.Equal(t, uint(42), draft.CreatedByID)

	// Composition carries over
	assert.Equal(t, source.TransporterID, draft.TransporterID)
	assert.Equal(t, source.ConjunctType, draft.ConjunctType)
	assert.Equal(t, source.CargoType, draft.CargoType)
	assert.Equal(t, source.LengthCm, draft.LengthCm)
	assert.Equal(t, source.WidthCm, draft.WidthCm)
	assert.Equal(t, source.HeightCm, draft.HeightCm)
	assert.Equal(t, source.TractorUnitID, draft.TractorUnitID)
	assert.Equal(t, source.FirstTrailerID, draft.FirstTrailerID)
	assert.Equal(t, source.SecondTrailerID, draft.SecondTrailerID)
	assert.Equal(t, source.ExtraPlates, draft.ExtraPlates)
}

func TestRenewalDraftLeavesOtherVehicleRefsNil(t *testing.T) {
	source := &models.LicenseRequest{
		TransporterID: 3,
		ConjunctType:  models.ConjunctFlatbed,
		FlatbedID:     uintPtr(9),
		States:        pq.StringArray{"RS"},
	}

	draft := renewalDraft(source, "RS", 1)

	assert.Equal(t, uintPtr(9), draft.FlatbedID)
	assert.Nil(t, draft.TractorUnitID)
	assert.Nil(t, draft.DollyID)
}

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, "SP", normalizeState("sp"))
	assert.Equal(t, "SP", normalizeState("  Sp "))
	assert.Equal(t, "", normalizeState("   "))
}

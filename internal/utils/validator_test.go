// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCNPJ(t *testing.T) {
	// Receita Federal's own CNPJ, the canonical test number.
	assert.True(t, ValidCNPJ("00000000000191"))
	assert.True(t, ValidCNPJ("00.000.000/0001-91"))
	assert.True(t, ValidCNPJ("10280806000134"))

	assert.False(t, ValidCNPJ("00000000000192"))
	assert.False(t, ValidCNPJ("11111111111111"))
	assert.False(t, ValidCNPJ("1234567890123"))
	assert.False(t, ValidCNPJ(""))
}

func TestValidPlate(t *testing.T) {
	assert.True(t, ValidPlate("ABC1234"))
	assert.True(t, ValidPlate("abc-1234"))
	assert.True(t, ValidPlate("BRA2E19"))

	assert.False(t, ValidPlate("AB12345"))
	assert.False(t, ValidPlate("ABCD123"))
	assert.False(t, ValidPlate(""))
}

func TestValidStateCode(t *testing.T) {
	assert.True(t, ValidStateCode("SP"))
	assert.True(t, ValidStateCode(" mg "))
	assert.False(t, ValidStateCode("XX"))
	assert.False(t, ValidStateCode(""))
}

func TestNormalizeCNPJ(t *testing.T) {
	assert.Equal(t, "00000000000191", NormalizeCNPJ("00.000.000/0001-91"))
}

func TestValidateStructWithDomainTags(t *testing.T) {
	type payload struct {
		CNPJ  string `validate:"required,cnpj"`
		Plate string `validate:"required,plate"`
		State string `validate:"required,uf"`
	}

	assert.NoError(t, ValidateStruct(&payload{
		CNPJ:  "00000000000191",
		Plate: "ABC1234",
		State: "SP",
	}))

	err := ValidateStruct(&payload{CNPJ: "123", Plate: "nope", State: "ZZ"})
	assert.Error(t, err)
	assert.Len(t, GetValidationErrors(err), 3)
}

// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Brazilian state codes (UF), including the federal district.
var stateCodes = map[string]bool{
	"AC": true, "AL": true, "AM": true, "AP": true, "BA": true,
	"CE": true, "DF": true, "ES": true, "GO": true, "MA": true,
	"MG": true, "MS": true, "MT": true, "PA": true, "PB": true,
	"PE": true, "PI": true, "PR": true, "RJ": true, "RN": true,
	"RO": true, "RR": true, "RS": true, "SC": true, "SE": true,
	"SP": true, "TO": true,
}

var (
	legacyPlateRe   = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	mercosulPlateRe = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
	nonDigitRe      = regexp.MustCompile(`\D`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("cnpj", validateCNPJTag)
	validate.RegisterValidation("plate", validatePlateTag)
	validate.RegisterValidation("uf", validateUFTag)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidStateCode reports whether code is a Brazilian UF.
func ValidStateCode(code string) bool {
	return stateCodes[strings.ToUpper(strings.TrimSpace(code))]
}

// ValidPlate accepts legacy (AAA9999) and Mercosul (AAA9A99) plates.
func ValidPlate(plate string) bool {
	plate = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), "-", ""))
	return legacyPlateRe.MatchString(plate) || mercosulPlateRe.MatchString(plate)
}

// NormalizePlate strips separators and upper-cases.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), "-", ""))
}

// NormalizeCNPJ strips punctuation, keeping digits only.
func NormalizeCNPJ(cnpj string) string {
	return nonDigitRe.ReplaceAllString(cnpj, "")
}

// ValidCNPJ checks length, rejects same-digit sequences, and verifies
// both check digits.
func ValidCNPJ(cnpj string) bool {
	cnpj = NormalizeCNPJ(cnpj)
	if len(cnpj) != 14 {
		return false
	}

	allEqual := true
	for i := 1; i < len(cnpj); i++ {
		if cnpj[i] != cnpj[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	digits := make([]int, 14)
	for i, r := range cnpj {
		digits[i] = int(r - '0')
	}

	if cnpjCheckDigit(digits[:12]) != digits[12] {
		return false
	}
	return cnpjCheckDigit(digits[:13]) == digits[13]
}

func cnpjCheckDigit(digits []int) int {
	weight := 2
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		sum += digits[i] * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func validateCNPJTag(fl validator.FieldLevel) bool {
	return ValidCNPJ(fl.Field().String())
}

func validatePlateTag(fl validator.FieldLevel) bool {
	return ValidPlate(fl.Field().String())
}

func validateUFTag(fl validator.FieldLevel) bool {
	return ValidStateCode(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "cnpj":
		return "Invalid CNPJ number"
	case "plate":
		return "Invalid vehicle plate"
	case "uf":
		return "Invalid state code"
	default:
		return e.Field() + " is invalid"
	}
}

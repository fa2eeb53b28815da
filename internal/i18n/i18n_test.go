// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundKeysResolveInBothCatalogs(t *testing.T) {
	require.NoError(t, Initialize("locales"))

	// utils.NotFoundResponse builds "<resource>.not_found" at runtime,
	// so every resource the handlers pass must exist in the catalogs.
	for _, key := range []string{
		"license.not_found",
		"vehicle.not_found",
		"transporter.not_found",
		"user.not_found",
	} {
		for _, lang := range []string{"pt", "en"} {
			text := T(lang, key)
			assert.NotEqual(t, key, text, "missing %s translation for %s", lang, key)
		}
	}
}

func TestUnknownLangFallsBackToPortuguese(t *testing.T) {
	require.NoError(t, Initialize("locales"))

	assert.Equal(t, T("pt", "license.created"), T("fr", "license.created"))
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	require.NoError(t, Initialize("locales"))

	assert.Equal(t, "nothing.here", T("pt", "nothing.here"))
}

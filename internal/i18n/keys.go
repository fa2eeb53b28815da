// internal/i18n/keys.go
package i18n

// Translation keys constants. Not-found messages are looked up by
// resource prefix (utils.NotFoundResponse builds "<resource>.not_found")
// and have no constant here.
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// License requests
	KeyLicenseCreated        = "license.created"
	KeyLicenseUpdated        = "license.updated"
	KeyLicenseSubmitted      = "license.submitted"
	KeyLicenseDeleted        = "license.deleted"
	KeyLicenseStatusUpdated  = "license.status_updated"
	KeyLicenseRenewalCreated = "license.renewal_created"

	// Vehicles
	KeyVehicleCreated = "vehicle.created"
	KeyVehicleUpdated = "vehicle.updated"
	KeyVehicleDeleted = "vehicle.deleted"

	// Transporters
	KeyTransporterCreated = "transporter.created"
)

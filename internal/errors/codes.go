package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to localized messages.

const (
	// ==================== Session (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // no session token
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Admin (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // missing or wrong API key

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// ==================== Catalog (CATALOG_) ====================
	CatalogProductNotFound  = "CATALOG_PRODUCT_NOT_FOUND"
	CatalogVariantNotFound  = "CATALOG_VARIANT_NOT_FOUND"
	CatalogCategoryNotFound = "CATALOG_CATEGORY_NOT_FOUND"
	CatalogBrandNotFound    = "CATALOG_BRAND_NOT_FOUND"
	CatalogReloadFailed     = "CATALOG_RELOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError    = "INTERNAL_SERVER_ERROR"
	InternalStorageError   = "INTERNAL_STORAGE_ERROR" // state backend failed
	InternalStorageTimeout = "INTERNAL_STORAGE_TIMEOUT"
	InternalExportFailed   = "INTERNAL_EXPORT_FAILED"
	InternalConfigError    = "INTERNAL_CONFIG_ERROR"
)

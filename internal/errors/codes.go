package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // token rejected by identity provider
	AuthSignupFailed       = "AUTH_SIGNUP_FAILED"       // identity provider rejected signup
	AuthProviderError      = "AUTH_PROVIDER_ERROR"      // identity provider unreachable

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // access denied
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin role required
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role information missing

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed request body
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // malformed identifier
	ValidationRequired     = "VALIDATION_REQUIRED"      // required field missing

	// ==================== Users (USER_) ====================
	UserNotFound = "USER_NOT_FOUND"

	// ==================== Catalog (PRODUCT_ / CATEGORY_) ====================
	ProductNotFound  = "PRODUCT_NOT_FOUND"
	CategoryNotFound = "CATEGORY_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartEmpty        = "CART_EMPTY" // checkout with no items

	// ==================== Orders (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderAlreadyPaid       = "ORDER_ALREADY_PAID"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION" // status change outside state machine

	// ==================== Payments (PAYMENT_) ====================
	PaymentIntentFailed     = "PAYMENT_INTENT_FAILED"
	PaymentSignatureInvalid = "PAYMENT_SIGNATURE_INVALID" // webhook signature rejected

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Rate limiting (RATE_) ====================
	RateLimited = "RATE_LIMITED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)

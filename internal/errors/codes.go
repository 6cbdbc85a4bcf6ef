package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront frontend maps these codes to localized messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput    = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID       = "VALIDATION_INVALID_ID"
	ValidationInvalidName     = "VALIDATION_INVALID_NAME"
	ValidationInvalidQuantity = "VALIDATION_INVALID_QUANTITY"
	ValidationInvalidDiscount = "VALIDATION_INVALID_DISCOUNT"
	ValidationInvalidVariant  = "VALIDATION_INVALID_VARIANT"
	ValidationInvalidMaterial = "VALIDATION_INVALID_MATERIAL"
	ValidationInvalidCategory = "VALIDATION_INVALID_CATEGORY"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductOutOfStock   = "PRODUCT_OUT_OF_STOCK"
	VariantNotFound     = "PRODUCT_VARIANT_NOT_FOUND"
	CategoryNotFound    = "CATEGORY_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartItemNotFound  = "CART_ITEM_NOT_FOUND"
	CartEmpty         = "CART_EMPTY"
	InsufficientStock = "CART_INSUFFICIENT_STOCK"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound         = "ORDER_NOT_FOUND"
	OrderAlreadyCancelled = "ORDER_ALREADY_CANCELLED"
	OrderAlreadyDelivered = "ORDER_ALREADY_DELIVERED"
	OrderLineNotFound     = "ORDER_LINE_NOT_FOUND"

	// ==================== Warehouse (WAREHOUSE_) ====================
	WarehouseNotFound   = "WAREHOUSE_NOT_FOUND"
	WarehouseCodeExists = "WAREHOUSE_CODE_EXISTS"
	InventoryAdjustment = "WAREHOUSE_ADJUSTMENT_INVALID"

	// ==================== Payments (PAYMENT_) ====================
	PaymentChecksumInvalid = "PAYMENT_CHECKSUM_INVALID"
	PaymentDeclined        = "PAYMENT_DECLINED"
	PaymentIntentNotFound  = "PAYMENT_INTENT_NOT_FOUND"
	PaymentReplayed        = "PAYMENT_REPLAYED"

	// ==================== Generic ====================
	ResourceNotFound    = "RESOURCE_NOT_FOUND"
	InternalServerError = "INTERNAL_SERVER_ERROR"
)

package catalog

import "github.com/erp/reconciler/internal/domain/shared"

// Catalog domain errors
var (
	ErrUnknownPlatformType   = shared.NewDomainError("INVALID_PLATFORM_TYPE", "Unknown platform type")
	ErrPlatformNotFound      = shared.NewDomainError("NOT_FOUND", "Platform not found")
	ErrAccountNotFound       = shared.NewDomainError("NOT_FOUND", "Account not found")
	ErrProductNotFound       = shared.NewDomainError("NOT_FOUND", "Product not found")
	ErrInvalidAccountName    = shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name must be 1 to 100 characters")
	ErrUnknownAuthField      = shared.NewDomainError("INVALID_AUTH_FIELDS", "Authorization field is not expected for this platform")
	ErrMissingAuthField      = shared.NewDomainError("INVALID_AUTH_FIELDS", "Authorization field is required")
	ErrAuthFieldTooLong      = shared.NewDomainError("INVALID_AUTH_FIELDS", "Authorization field exceeds its maximum length")
	ErrInvalidProductName    = shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	ErrInvalidBarcode        = shared.NewDomainError("INVALID_PRODUCT", "Product barcode cannot exceed 255 characters")
	ErrSelfConnection        = shared.NewDomainError("INVALID_CONNECTION", "A product cannot be connected to itself")
	ErrNotWarehouseProduct   = shared.NewDomainError("INVALID_CONNECTION", "The warehouse side must be a Moy Sklad product")
	ErrNotMarketplaceProduct = shared.NewDomainError("INVALID_CONNECTION", "The marketplace side must not be a Moy Sklad product")
	ErrForeignProduct        = shared.NewDomainError("FORBIDDEN", "Product belongs to another user")
	ErrForeignAccount        = shared.NewDomainError("FORBIDDEN", "Account belongs to another user")
	ErrUnknownOrdersType     = shared.NewDomainError("INVALID_ORDERS_TYPE", "Unknown orders type")
	ErrUnknownSortKey        = shared.NewDomainError("INVALID_SORT", "Unknown sort key")
	ErrInvalidEmail          = shared.NewDomainError("INVALID_EMAIL", "Email is required")
	ErrUserInactive          = shared.NewDomainError("USER_INACTIVE", "User is deactivated")
)

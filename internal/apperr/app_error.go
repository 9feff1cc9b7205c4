package apperr

import "github.com/Shaikat-CSE/goldennicheims/pkg/zerror"

const (
	ValidationErrorCode  = "VALIDATION_FAILED"
	PersistenceErrorCode = "PERSISTENCE_FAILED"
	ProductNotFoundCode  = "PRODUCT_NOT_FOUND"
	UnsupportedFormat    = "UNSUPPORTED_FORMAT"
	InvalidTenantCode    = "INVALID_TENANT"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	// PersistenceErr reports a store failure. The change it accompanies is
	// visible in memory but may not survive a reload.
	PersistenceErr = zerror.NewInsufficientStorage(PersistenceErrorCode, "change was applied but could not be persisted")

	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundCode, "product not found")

	UnsupportedFormatErr = zerror.NewBadRequest(UnsupportedFormat, "unsupported file format")

	InvalidTenantErr = zerror.NewBadRequest(InvalidTenantCode, "invalid tenant id")
)

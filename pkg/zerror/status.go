package zerror

// Status classifies a ZError independently of the transport that reports it.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusUnauthorized
	StatusForbidden
	StatusNotFound
	StatusUnprocessableEntity
	StatusConflict
	StatusTooManyRequests
	StatusBadRequest
	StatusValidationFailed
	StatusInternalServerError
	StatusTimeout
	StatusNotImplemented
	StatusBadGateway
	StatusServiceUnavailable
	StatusInsufficientStorage
)

var statusNames = [...]string{
	"UNKNOWN",
	"UNAUTHORIZED",
	"FORBIDDEN",
	"NOT_FOUND",
	"UNPROCESSABLE_ENTITY",
	"CONFLICT",
	"TOO_MANY_REQUESTS",
	"BAD_REQUEST",
	"VALIDATION_FAILED",
	"INTERNAL_SERVER_ERROR",
	"TIMEOUT",
	"NOT_IMPLEMENTED",
	"BAD_GATEWAY",
	"SERVICE_UNAVAILABLE",
	"INSUFFICIENT_STORAGE",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return statusNames[StatusUnknown]
}

package shared

// DomainError is a business-rule violation with a stable machine code.
// The HTTP layer maps codes to status codes; the message is what the
// client sees.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// ErrNotFound is shared across aggregates; every other error code is
// minted where the rule lives.
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")

package usecase

// Error codes surfaced to callers. VALIDATION, DUPLICATE and NOT_FOUND are
// final; retryable store failures keep their recordstore classification and
// arrive wrapped in a TechnicalError.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeDuplicate         = "DUPLICATE_MEMBER"
	CodeMemberNotFound    = "MEMBER_NOT_FOUND"
	CodeVolunteerNotFound = "VOLUNTEER_NOT_FOUND"
	CodeStoreFailure      = "STORE_FAILURE"
)

type DomainError struct {
	Code    string
	Message string
	Ref     string // record the error is about, e.g. the existing duplicate
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

func DomainCode(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

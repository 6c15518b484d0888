package usecase

// Error codes carried by TechnicalError, so callers can tell which
// integration failed without parsing messages.
const (
	CodeCRMError          = "CRM_ERROR"
	CodeSessionStoreError = "SESSION_STORE_ERROR"
)

// DomainError covers business-rule failures that the conversation handles
// on its own (the user gets a reprompt, nothing escalates).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError covers infrastructure failures (CRM unreachable, session
// store down). The turn is aborted and the session stays at its previous
// state so the same input can be retried.
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

package errcode

// Envelope codes returned in the "code" field of every failed response.
const (
	ErrUnknown = 10000000 + iota
	ErrUnauthorized
	ErrForbidden
	ErrNotFound
	ErrInvalid
	ErrConflict
	ErrTooMany
	ErrInternal

	// documents
	ErrInvalidFile
	ErrFileTooLarge
	ErrUploadFailed

	// knowledge and chat
	ErrAIUnavailable
	ErrKnowledgeUnavailable
	ErrSearchUnavailable

	ErrRegisterDisabled
)

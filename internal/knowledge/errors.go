package knowledge

import (
	"errors"
	"fmt"
)

var (
	ErrKnowledgeStoreUnavailable = errors.New("knowledge store unavailable")
	ErrSearchUnavailable         = errors.New("search unavailable")
)

func wrap(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}

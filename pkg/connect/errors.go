package connect

import "github.com/divergeconnect/connect/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrSolutionNotFound    = domain.ErrSolutionNotFound
	ErrProjectNotFound     = domain.ErrProjectNotFound
	ErrInvalidCatalog      = domain.ErrInvalidCatalog
	ErrInvalidRequest      = domain.ErrInvalidRequest
	ErrInvalidSession      = domain.ErrInvalidSession
	ErrInvalidHistoryItem  = domain.ErrInvalidHistoryItem
	ErrSelectionFull       = domain.ErrSelectionFull
	ErrAssistQuotaExceeded = domain.ErrAssistQuotaExceeded
	ErrAssistProviderError = domain.ErrAssistProviderError
)

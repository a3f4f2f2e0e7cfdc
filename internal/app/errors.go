package app

import (
	"errors"
	"net/http"

	"github.com/khrees2412/stageconnect/internal/api"
	"github.com/khrees2412/stageconnect/internal/session"
)

// Sentinel errors for common application errors
var (
	ErrNotInitialized  = errors.New("application not initialized")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Hint suggests a next step for well known failures, or returns "". A 403
// means the session is known but its role is refused.
func Hint(err error) string {
	var apiErr *api.Error
	forbidden := errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
	switch {
	case forbidden, errors.Is(err, session.ErrForbidden):
		return "Check your role with 'stageconnect whoami'"
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, api.ErrUnauthorized):
		return "Log in with 'stageconnect login'"
	case errors.Is(err, api.ErrNetwork):
		return "Is the server running? Check api_url with 'stageconnect config show'"
	default:
		return ""
	}
}

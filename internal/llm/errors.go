package llm

import (
	"context"
	"errors"
	"net"
)

// ErrorCategory is the extraction failure taxonomy surfaced to callers.
type ErrorCategory string

const (
	ErrCategoryNone            ErrorCategory = ""
	ErrCategoryAPIKey          ErrorCategory = "api_key"
	ErrCategoryRateLimit       ErrorCategory = "rate_limit"
	ErrCategoryServerError     ErrorCategory = "server_error"
	ErrCategoryTimeout         ErrorCategory = "timeout"
	ErrCategoryInvalidResponse ErrorCategory = "invalid_response"
	ErrCategoryAPIError        ErrorCategory = "api_error"
)

// CategorizeStatus maps a non-2xx HTTP status to a failure category.
func CategorizeStatus(status int) ErrorCategory {
	switch {
	case status == 401 || status == 403:
		return ErrCategoryAPIKey
	case status == 429:
		return ErrCategoryRateLimit
	case status >= 500:
		return ErrCategoryServerError
	default:
		return ErrCategoryAPIError
	}
}

// CategorizeErr maps a transport error to a failure category.
func CategorizeErr(err error) ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCategoryTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrCategoryTimeout
	}
	return ErrCategoryAPIError
}

// Suggestions returns actionable next steps for a failure category, so that
// retry-worthy failures are distinguishable from configuration failures.
func Suggestions(cat ErrorCategory) []string {
	switch cat {
	case ErrCategoryAPIKey:
		return []string{
			"check that your API key is valid and has not been revoked",
			"add a valid API key for this provider in your settings",
		}
	case ErrCategoryRateLimit:
		return []string{
			"the provider is throttling requests; retry after a short delay",
			"reduce batch concurrency or switch to a model with higher limits",
		}
	case ErrCategoryServerError:
		return []string{"the provider had an internal error; retry the extraction"}
	case ErrCategoryTimeout:
		return []string{
			"the provider did not respond within the time budget; retry",
			"lower the output token cap for large documents",
		}
	case ErrCategoryInvalidResponse:
		return []string{
			"the model returned output that could not be parsed as row items",
			"retry, or add custom instructions to constrain the output format",
		}
	case ErrCategoryAPIError:
		return []string{"the provider rejected the request; inspect the raw response"}
	default:
		return nil
	}
}

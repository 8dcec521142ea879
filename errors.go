package bizcore

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrMissingBaseURL is returned when no base URL is configured.
	ErrMissingBaseURL = errors.New("base URL is required")

	// ErrUnauthorized indicates the credential is missing, invalid or expired.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden indicates the credential lacks access to the resource.
	ErrForbidden = errors.New("access denied")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates the server rejected the submitted data.
	ErrValidation = errors.New("validation failed")

	// ErrServer indicates a 5xx response.
	ErrServer = errors.New("server error")

	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = errors.New("network failure")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")
)

// Category is the closed classification every failed request maps into.
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryForbidden  Category = "forbidden"
	CategoryNotFound   Category = "not_found"
	CategoryValidation Category = "validation"
	CategoryServer     Category = "server"
	CategoryNetwork    Category = "network"
	CategoryTimeout    Category = "timeout"
	CategoryUnknown    Category = "unknown"
)

// APIError is the single error type the client surfaces for failed requests.
// Category and UserMessage are derived from the status code, the backend
// message and the request path; UserMessage is always populated and safe to
// display verbatim.
type APIError struct {
	StatusCode  int // 0 for network and timeout failures
	RawMessage  string
	URL         string
	Category    Category
	UserMessage string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Category, e.RawMessage)
	}
	if e.RawMessage != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.RawMessage)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is maps categories onto the package sentinels so callers can write
// errors.Is(err, bizcore.ErrNotFound) without inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch e.Category {
	case CategoryAuth:
		return target == ErrUnauthorized
	case CategoryForbidden:
		return target == ErrForbidden
	case CategoryNotFound:
		return target == ErrNotFound
	case CategoryValidation:
		return target == ErrValidation
	case CategoryServer:
		return target == ErrServer
	case CategoryNetwork:
		return target == ErrNetwork
	case CategoryTimeout:
		return target == ErrTimeout
	}
	return false
}

// Classify maps an HTTP status code (0 when no response was received) to a
// Category. It is a pure function: same inputs, same output, no state.
func Classify(statusCode int, rawMessage string) Category {
	switch {
	case statusCode == 0:
		if isTimeoutMessage(rawMessage) {
			return CategoryTimeout
		}
		return CategoryNetwork
	case statusCode == 401:
		return CategoryAuth
	case statusCode == 403:
		return CategoryForbidden
	case statusCode == 404:
		return CategoryNotFound
	case statusCode == 422:
		return CategoryValidation
	case statusCode >= 500:
		return CategoryServer
	default:
		return CategoryUnknown
	}
}

func isTimeoutMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "timed out") ||
		strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded")
}

// newAPIError builds the fully classified error for a failed attempt.
func newAPIError(statusCode int, rawMessage, fullURL string) *APIError {
	category := Classify(statusCode, rawMessage)
	return &APIError{
		StatusCode:  statusCode,
		RawMessage:  rawMessage,
		URL:         fullURL,
		Category:    category,
		UserMessage: userMessage(category, rawMessage, fullURL),
	}
}

// genericMessages are backend strings that carry no information beyond the
// status code; they never reach the user.
var genericMessages = map[string]struct{}{
	"error":                 {},
	"bad request":           {},
	"unauthorized":          {},
	"forbidden":             {},
	"not found":             {},
	"unprocessable entity":  {},
	"internal server error": {},
	"server error":          {},
	"unknown error":         {},
}

func isGenericMessage(msg string) bool {
	_, ok := genericMessages[strings.ToLower(strings.TrimSpace(msg))]
	return ok
}

// userMessage produces display-ready phrasing for a failure. A specific
// backend message wins; otherwise the message names the resource type
// extracted from the request path.
func userMessage(category Category, rawMessage, fullURL string) string {
	switch category {
	case CategoryNetwork:
		return "Unable to reach the server. Check your connection and try again."
	case CategoryTimeout:
		return "The request timed out. Please try again."
	}

	if rawMessage != "" && !isGenericMessage(rawMessage) {
		return rawMessage
	}

	resource := resourceFromPath(fullURL)
	switch category {
	case CategoryAuth:
		return "Your session has expired. Please sign in again."
	case CategoryForbidden:
		return "You do not have permission to perform this action."
	case CategoryNotFound:
		return fmt.Sprintf("The requested %s could not be found.", resource)
	case CategoryValidation:
		return fmt.Sprintf("The submitted %s data is invalid.", resource)
	case CategoryServer:
		return "The server encountered an error. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}

// resourceFromPath extracts a human-readable resource name from the last
// meaningful path segment, skipping numeric and UUID-like identifiers.
// "/api/invoices/42" yields "invoice"; when nothing usable remains it falls
// back to "resource".
func resourceFromPath(fullURL string) string {
	path := fullURL
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
		if j := strings.Index(path, "/"); j >= 0 {
			path = path[j:]
		} else {
			path = ""
		}
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || seg == "api" || looksLikeID(seg) {
			continue
		}
		return singularize(strings.ReplaceAll(strings.ReplaceAll(seg, "-", " "), "_", " "))
	}
	return "resource"
}

func looksLikeID(seg string) bool {
	digits := 0
	for _, r := range seg {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-':
		case (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F'):
			// hex letters count toward UUID-like segments below
		default:
			return false
		}
	}
	// All-numeric, or long hex-ish strings such as UUIDs.
	return digits > 0 && (digits == len(seg) || len(seg) >= 16)
}

func singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ses"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	default:
		return word
	}
}

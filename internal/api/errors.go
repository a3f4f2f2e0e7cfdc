package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors matched with errors.Is against an *Error
var (
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Kind classifies a failed call
type Kind int

const (
	// KindNetwork means no response was received
	KindNetwork Kind = iota + 1
	// KindHTTP means the server answered with a non-2xx status
	KindHTTP
)

const networkMessage = "network error: unable to reach the server"

// Error is returned by every Client method that fails. Its message is meant
// to be shown to the user as is.
type Error struct {
	Kind     Kind
	Method   string
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func networkError(method, endpoint string, err error) *Error {
	return &Error{
		Kind:     KindNetwork,
		Method:   method,
		Endpoint: endpoint,
		Message:  networkMessage,
		Err:      err,
	}
}

// errorResponse is the body the API sends with a non-2xx status
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// httpError builds the error for a non-2xx response from its body.
func httpError(method, endpoint string, status int, payload []byte) *Error {
	return &Error{
		Kind:     KindHTTP,
		Method:   method,
		Endpoint: endpoint,
		Status:   status,
		Message:  errorMessage(status, payload),
	}
}

func errorMessage(status int, payload []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return fmt.Sprintf("An error occurred (HTTP %d)", status)
	}
	if parsed.Error != "" {
		return parsed.Error
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	if msg := fieldErrors(payload); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// fieldErrors flattens a validation body such as {"title": ["required"]}
// into "title: required".
func fieldErrors(payload []byte) string {
	var fields map[string][]string
	if err := json.Unmarshal(payload, &fields); err != nil || len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(fields[k]) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(fields[k], " ")))
	}
	return strings.Join(parts, "; ")
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can tell "not found" apart from a transport error.
type Kind string

const (
	KindNone       Kind = ""
	KindNotFound   Kind = "not_found"
	KindNoCart     Kind = "no_cart"
	KindTransport  Kind = "transport"
	KindStatus     Kind = "status"
	KindGraphQL    Kind = "graphql"
	KindUserErrors Kind = "user_errors"
	KindMalformed  Kind = "malformed"
	KindValidation Kind = "validation"
	KindUnknown    Kind = "unknown"
)

// ErrNoCart is returned when an operation needs a cart identifier and none is held yet
var ErrNoCart = stderrors.New("no cart identifier held")

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrTransport is returned when a request could not be sent or its body could not be read
type ErrTransport struct {
	Op  string
	Err error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrStatus is returned for a non-success HTTP status
type ErrStatus struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ErrStatus) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d, body: %s", e.Op, e.StatusCode, e.Body)
}

// ErrGraphQL is returned when an otherwise successful response carries an errors payload
type ErrGraphQL struct {
	Op       string
	Messages []string
}

func (e *ErrGraphQL) Error() string {
	return fmt.Sprintf("%s: graphQL errors: %s", e.Op, strings.Join(e.Messages, "; "))
}

// UserError is one entry of a mutation's userErrors list
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// ErrUserErrors is returned when a mutation payload reports userErrors
type ErrUserErrors struct {
	Op     string
	Errors []UserError
}

func (e *ErrUserErrors) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		field := strings.Join(ue.Field, ".")
		if field == "" {
			parts = append(parts, ue.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, ue.Message))
	}
	return fmt.Sprintf("%s: user errors: %s", e.Op, strings.Join(parts, "; "))
}

// ErrMalformed is returned when a response body does not decode
type ErrMalformed struct {
	Op  string
	Err error
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ErrMalformed) Unwrap() error { return e.Err }

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// KindOf reports the failure kind of err. Wrapped errors are unwrapped.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var (
		notFound   *ErrNotFound
		transport  *ErrTransport
		status     *ErrStatus
		gql        *ErrGraphQL
		userErrs   *ErrUserErrors
		malformed  *ErrMalformed
		validation *ErrValidation
	)
	switch {
	case stderrors.Is(err, ErrNoCart):
		return KindNoCart
	case stderrors.As(err, &notFound):
		return KindNotFound
	case stderrors.As(err, &transport):
		return KindTransport
	case stderrors.As(err, &status):
		return KindStatus
	case stderrors.As(err, &gql):
		return KindGraphQL
	case stderrors.As(err, &userErrs):
		return KindUserErrors
	case stderrors.As(err, &malformed):
		return KindMalformed
	case stderrors.As(err, &validation):
		return KindValidation
	}
	return KindUnknown
}

// IsNotFound reports whether err means the resource does not exist remotely
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

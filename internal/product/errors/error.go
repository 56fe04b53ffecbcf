// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var ErrProductNotFound = errors.New("product not found")

// ValidationError carries field level messages for rejected input.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for the field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Has reports whether the field already has a message.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Messages returns every message, fields in display order: name, price, then the rest alphabetically.
func (e *ValidationError) Messages() []string {
	var out []string
	for _, field := range e.orderedFields() {
		out = append(out, e.Fields[field]...)
	}
	return out
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), " ")
}

func (e *ValidationError) orderedFields() []string {
	rank := func(field string) int {
		switch field {
		case "name":
			return 0
		case "price":
			return 1
		default:
			return 2
		}
	}
	fields := slices.Collect(maps.Keys(e.Fields))
	slices.SortFunc(fields, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	return fields
}

// TransportError is returned by the API client when a request fails for a
// reason other than validation or a missing product: network failures,
// unexpected statuses and undecodable responses.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

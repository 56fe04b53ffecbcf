package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ValidationError_Messages(t *testing.T) {
	// given
	verr := NewValidationError()
	verr.Add("sku", "The sku field is unknown.")
	verr.Add("price", "The price field must be at least 0.01.")
	verr.Add("name", "The name field is required.")
	// when
	messages := verr.Messages()
	// then
	assert.Equal(t, []string{
		"The name field is required.",
		"The price field must be at least 0.01.",
		"The sku field is unknown.",
	}, messages)
	assert.True(t, verr.Has("name"))
	assert.False(t, verr.Has("id"))
	assert.False(t, verr.Empty())
	assert.Contains(t, verr.Error(), "The name field is required.")
}

func Test_ValidationError_As(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", &ValidationError{Fields: map[string][]string{"name": {"bad"}}})

	var verr *ValidationError
	assert.True(t, errors.As(wrapped, &verr))
	assert.Equal(t, []string{"bad"}, verr.Fields["name"])
}

func Test_TransportError(t *testing.T) {
	err := &TransportError{Op: "list products", Err: io.ErrUnexpectedEOF}
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "list products: unexpected EOF", err.Error())

	withStatus := &TransportError{Op: "delete product", StatusCode: 500, Err: errors.New("server error")}
	assert.Equal(t, "delete product: unexpected status 500: server error", withStatus.Error())
}

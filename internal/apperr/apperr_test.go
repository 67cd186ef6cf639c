package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("fetch order: %w", NotFoundErr("no active order"))

	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, "no active order", PublicMessage(err))
}

func TestWrapKeepsExistingKind(t *testing.T) {
	orig := PaymentErr("Your card number is incomplete.", nil)

	got := Wrap(fmt.Errorf("submit: %w", orig))

	require.NotNil(t, got)
	assert.Same(t, orig, got)
}

func TestWrapPlainErrors(t *testing.T) {
	assert.Nil(t, Wrap(nil))
	assert.Equal(t, Internal, Wrap(errors.New("boom")).Kind)
	assert.Equal(t, Network, Wrap(context.Canceled).Kind)
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("x")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, "Something went wrong.", PublicMessage(errors.New("x")))
}

func TestErrorString(t *testing.T) {
	e := &Error{Kind: Validation, Op: "create address", PublicMsg: "zip is required"}
	assert.Equal(t, "create address: validation: zip is required", e.Error())

	inner := errors.New("dial tcp: refused")
	n := NetworkErr("list products", inner)
	assert.Equal(t, "list products: network: dial tcp: refused", n.Error())
	assert.ErrorIs(t, n, inner)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Payment failed", Title(PaymentErr("declined", nil)))
	assert.Equal(t, "There was an error", Title(errors.New("x")))
}

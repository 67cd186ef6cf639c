package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Network      Kind = "network"
	Validation   Kind = "validation"
	NotFound     Kind = "not_found"
	Unauthorized Kind = "unauthorized"
	Payment      Kind = "payment"
	Internal     Kind = "internal"
)

// Error is the only error shape screens store for display.
type Error struct {
	Kind      Kind
	Op        string
	Status    int
	PublicMsg string
	Fields    map[string]string
	Err       error
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	case e.PublicMsg != "":
		return prefix + ": " + e.PublicMsg
	default:
		return prefix
	}
}

func (e *Error) Unwrap() error { return e.Err }

func NetworkErr(op string, err error) *Error {
	return &Error{Kind: Network, Op: op, PublicMsg: "The store could not be reached. Try again.", Err: err}
}

func ValidationErr(publicMsg string, fields map[string]string) *Error {
	return &Error{Kind: Validation, PublicMsg: publicMsg, Fields: fields}
}

func NotFoundErr(publicMsg string) *Error {
	return &Error{Kind: NotFound, PublicMsg: publicMsg}
}

func UnauthorizedErr(publicMsg string) *Error {
	return &Error{Kind: Unauthorized, PublicMsg: publicMsg}
}

// PaymentErr carries the payment provider's message verbatim.
func PaymentErr(providerMsg string, err error) *Error {
	return &Error{Kind: Payment, PublicMsg: providerMsg, Err: err}
}

func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NetworkErr("", err)
	}
	return &Error{Kind: Internal, PublicMsg: "Something went wrong.", Err: err}
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return Internal
}

func IsNotFound(err error) bool { return KindOf(err) == NotFound }

func IsUnauthorized(err error) bool { return KindOf(err) == Unauthorized }

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, Payment:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Network:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return "Something went wrong."
}

// Title is the banner heading for an error kind.
func Title(err error) string {
	switch KindOf(err) {
	case Network:
		return "Connection problem"
	case Validation:
		return "Please check your input"
	case NotFound:
		return "Not found"
	case Unauthorized:
		return "Please log in"
	case Payment:
		return "Payment failed"
	default:
		return "There was an error"
	}
}

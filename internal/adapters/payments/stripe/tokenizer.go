package stripe

import (
	"context"
	"errors"
	"strings"

	stripego "github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/token"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
)

var _ domain.PaymentTokenizer = (*Tokenizer)(nil)

// Tokenizer accepts the one-time token Stripe Elements created in the browser.
// With a secret key it asks Stripe whether the token exists and is unused;
// without one the token is passed through as-is.
type Tokenizer struct {
	tokens *token.Client
}

func New(secretKey, apiURL string) *Tokenizer {
	if secretKey == "" {
		return &Tokenizer{}
	}
	cfg := &stripego.BackendConfig{
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	}
	if apiURL != "" {
		cfg.URL = stripego.String(apiURL)
	}
	backend := stripego.GetBackendWithConfig(stripego.APIBackend, cfg)
	return &Tokenizer{tokens: &token.Client{B: backend, Key: secretKey}}
}

func (t *Tokenizer) Verifies() bool { return t.tokens != nil }

func (t *Tokenizer) Tokenize(ctx context.Context, card domain.CardSubmission) (string, error) {
	if msg := strings.TrimSpace(card.WidgetError); msg != "" {
		return "", apperr.PaymentErr(msg, nil)
	}
	id := strings.TrimSpace(card.Token)
	if id == "" {
		return "", apperr.PaymentErr("Your card details are incomplete.", nil)
	}
	if t.tokens == nil {
		return id, nil
	}

	params := &stripego.TokenParams{}
	params.Context = ctx
	tok, err := t.tokens.Get(id, params)
	if err != nil {
		var se *stripego.Error
		if errors.As(err, &se) && se.Msg != "" {
			return "", apperr.PaymentErr(se.Msg, err)
		}
		return "", apperr.NetworkErr("verify payment token", err)
	}
	if tok.Used {
		return "", apperr.PaymentErr("This card token was already used. Enter your card again.", nil)
	}
	return tok.ID, nil
}

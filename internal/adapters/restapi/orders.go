package restapi

import (
	"context"
	"net/http"

	"github.com/phenrril/storefront/internal/domain"
)

func (c *Client) OrderSummary(ctx context.Context) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, "order summary", http.MethodGet, c.endpoint(c.base, "order-summary/", nil), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) AddCoupon(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return c.do(ctx, "add coupon", http.MethodPost, c.endpoint(c.base, "add-coupon/", nil), body, nil)
}

func (c *Client) Checkout(ctx context.Context, req domain.CheckoutRequest) error {
	return c.do(ctx, "checkout", http.MethodPost, c.endpoint(c.base, "checkout/", nil), req, nil)
}

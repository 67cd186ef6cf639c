package restapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/phenrril/storefront/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var list []domain.Product
	if err := c.do(ctx, "list products", http.MethodGet, c.endpoint(c.base, "products/", nil), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var p domain.Product
	path := "products/" + strconv.Itoa(id) + "/"
	if err := c.do(ctx, "get product", http.MethodGet, c.endpoint(c.base, path, nil), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AddToCart(ctx context.Context, slug string, variations []int) error {
	if variations == nil {
		variations = []int{}
	}
	body := struct {
		Slug       string `json:"slug"`
		Variations []int  `json:"variations"`
	}{slug, variations}
	return c.do(ctx, "add to cart", http.MethodPost, c.endpoint(c.base, "add-to-cart/", nil), body, nil)
}

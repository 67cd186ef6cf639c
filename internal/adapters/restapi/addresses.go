package restapi

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/phenrril/storefront/internal/domain"
)

func (c *Client) ListAddresses(ctx context.Context, t domain.AddressType) ([]domain.Address, error) {
	q := url.Values{"address_type": {string(t)}}
	var list []domain.Address
	if err := c.do(ctx, "list addresses", http.MethodGet, c.endpoint(c.base, "addresses/", q), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out domain.Address
	if err := c.do(ctx, "create address", http.MethodPost, c.endpoint(c.base, "addresses/create/", nil), a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out domain.Address
	path := "addresses/" + strconv.Itoa(a.ID) + "/update/"
	if err := c.do(ctx, "update address", http.MethodPut, c.endpoint(c.base, path, nil), a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id int) error {
	path := "addresses/" + strconv.Itoa(id) + "/delete/"
	return c.do(ctx, "delete address", http.MethodDelete, c.endpoint(c.base, path, nil), nil, nil)
}

// ListCountries returns the server's code->name map sorted by name.
func (c *Client) ListCountries(ctx context.Context) ([]domain.Country, error) {
	var raw map[string]string
	if err := c.do(ctx, "list countries", http.MethodGet, c.endpoint(c.base, "countries/", nil), nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Country, 0, len(raw))
	for code, name := range raw {
		out = append(out, domain.Country{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Code < out[j].Code
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

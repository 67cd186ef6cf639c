package domain

import (
	"github.com/shopspring/decimal"
)

type Order struct {
	ID     int             `json:"id"`
	Items  []OrderItem     `json:"order_items"`
	Total  decimal.Decimal `json:"total"`
	Coupon *Coupon         `json:"coupon"`
}

// OrderItem is a cart line; FinalPrice is computed by the server.
type OrderItem struct {
	ID         int             `json:"id"`
	Product    Product         `json:"item"`
	Variations []ItemVariation `json:"item_variations"`
	Quantity   int             `json:"quantity"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

type Coupon struct {
	ID     int             `json:"id"`
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

func (o *Order) ItemCount() int {
	if o == nil {
		return 0
	}
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// CheckoutRequest is the body of the order finalization call.
type CheckoutRequest struct {
	Token             string `json:"stripeToken"`
	BillingAddressID  int    `json:"selectedBillingAddress"`
	ShippingAddressID int    `json:"selectedShippingAddress"`
}

// CartSnapshot is what the navigation badge shows between page loads.
type CartSnapshot struct {
	Items int             `json:"items"`
	Total decimal.Decimal `json:"total"`
}

package domain

import (
	"github.com/shopspring/decimal"
)

type Label string

const (
	LabelPrimary   Label = "primary"
	LabelSecondary Label = "secondary"
	LabelDanger    Label = "danger"
)

// Product mirrors the store's item resource. The detail endpoint fills Variations.
type Product struct {
	ID            int                 `json:"id"`
	Title         string              `json:"title"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	Category      string              `json:"category"`
	Label         Label               `json:"label"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Image         string              `json:"image"`
	Variations    []Variation         `json:"variations,omitempty"`
}

func (p Product) OnDiscount() bool { return p.DiscountPrice.Valid }

// Variation is a named axis (size, color) with the options a buyer picks from.
type Variation struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Options []ItemVariation `json:"item_variations"`
}

type ItemVariation struct {
	ID         int    `json:"id"`
	Value      string `json:"value"`
	Attachment string `json:"attachment,omitempty"`
}

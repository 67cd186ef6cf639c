package views

import (
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/storefront/internal/domain"
)

const (
	orderSheet = "Order"
	// numFmtMoney is the built-in "0.00" format.
	numFmtMoney = 2
)

// OrderXLSX writes the order as a workbook: one row per item, a coupon row
// when one is applied, then the total the server computed.
func OrderXLSX(w io.Writer, o *domain.Order) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", orderSheet); err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return err
	}

	row := 1
	put := func(cells []any, price, total *decimal.Decimal) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(orderSheet, cell, &cells); err != nil {
			return err
		}
		for col, d := range map[int]*decimal.Decimal{4: price, 6: total} {
			if d == nil {
				continue
			}
			if err := putMoney(f, col, row, *d, moneyStyle); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := put([]any{"#", "Item", "Variations", "Price", "Quantity", "Total"}, nil, nil); err != nil {
		return err
	}
	for i, it := range o.Items {
		price := it.Product.Price
		if it.Product.OnDiscount() {
			price = it.Product.DiscountPrice.Decimal
		}
		final := it.FinalPrice
		if err := put([]any{i + 1, it.Product.Title, optionValues(it.Variations), nil, it.Quantity}, &price, &final); err != nil {
			return err
		}
	}
	if o.Coupon != nil {
		off := o.Coupon.Amount.Neg()
		if err := put([]any{"", "Coupon " + o.Coupon.Code}, nil, &off); err != nil {
			return err
		}
	}
	total := o.Total
	if err := put([]any{"", "Order Total"}, nil, &total); err != nil {
		return err
	}

	if err := f.SetColWidth(orderSheet, "B", "C", 32); err != nil {
		return err
	}
	return f.Write(w)
}

// putMoney stores d as a numeric cell from its exact decimal text.
func putMoney(f *excelize.File, col, row int, d decimal.Decimal, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellDefault(orderSheet, cell, d.StringFixed(2)); err != nil {
		return err
	}
	return f.SetCellStyle(orderSheet, cell, cell, style)
}

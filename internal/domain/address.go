package domain

import "fmt"

type AddressType string

const (
	AddressBilling  AddressType = "B"
	AddressShipping AddressType = "S"
)

type Address struct {
	ID        int         `json:"id,omitempty"`
	UserID    int         `json:"user"`
	Type      AddressType `json:"address_type"`
	Street    string      `json:"street_address" validate:"required"`
	Apartment string      `json:"apartment_address" validate:"required"`
	Country   string      `json:"country" validate:"required"`
	Zip       string      `json:"zip" validate:"required"`
	Default   bool        `json:"default"`
}

// Line is the one-line form used in address pickers.
func (a Address) Line() string {
	return fmt.Sprintf("%s,%s-%s,%s", a.Street, a.Apartment, a.Country, a.Zip)
}

// DefaultAddressID returns the id of the first address flagged default, or 0.
func DefaultAddressID(list []Address) int {
	for _, a := range list {
		if a.Default {
			return a.ID
		}
	}
	return 0
}

type Country struct {
	Code string
	Name string
}

package domain

import "context"

type Catalog interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
}

type Cart interface {
	AddToCart(ctx context.Context, slug string, variations []int) error
}

type Orders interface {
	OrderSummary(ctx context.Context) (*Order, error)
	AddCoupon(ctx context.Context, code string) error
	Checkout(ctx context.Context, req CheckoutRequest) error
}

type Addresses interface {
	ListAddresses(ctx context.Context, t AddressType) ([]Address, error)
	CreateAddress(ctx context.Context, a Address) (*Address, error)
	UpdateAddress(ctx context.Context, a Address) (*Address, error)
	DeleteAddress(ctx context.Context, id int) error
	ListCountries(ctx context.Context) ([]Country, error)
}

type Account interface {
	CurrentUserID(ctx context.Context) (int, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// CardSubmission is what the browser payment widget posted: a one-time token
// or the widget's own error message.
type CardSubmission struct {
	Token       string
	WidgetError string
}

type PaymentTokenizer interface {
	Tokenize(ctx context.Context, card CardSubmission) (string, error)
}

// CartState holds the cart badge per browser session.
type CartState interface {
	Get(ctx context.Context, sessionID string) (*CartSnapshot, error)
	Set(ctx context.Context, sessionID string, snap CartSnapshot) error
	Clear(ctx context.Context, sessionID string) error
}

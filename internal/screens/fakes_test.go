package screens

import (
	"context"
	"sync"

	"github.com/phenrril/storefront/internal/adapters/cartstate"
	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
)

// fakeAPI answers every port from canned values and counts calls by name.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	products   []domain.Product
	product    *domain.Product
	orders     []*domain.Order // successive OrderSummary answers; the last repeats
	orderErr   error
	billing    []domain.Address
	shipping   []domain.Address
	listErr    error
	countries  []domain.Country
	userID     int
	loginKey   string
	tokenized  string
	tokenErr   error
	writeErr   error
	couponErr  error
	lastCart   []int
	checkedOut domain.CheckoutRequest
	saved      domain.Address
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}, tokenized: "tok_ok", loginKey: "key-1", userID: 7}
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) deps() Deps {
	return Deps{
		Catalog: f, Cart: f, Orders: f, Addresses: f, Account: f, Payments: f,
		CartState: cartstate.NewMemory(), SessionID: "sess-1", Authenticated: true,
	}
}

func (f *fakeAPI) ListProducts(context.Context) ([]domain.Product, error) {
	f.hit("products")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeAPI) GetProduct(_ context.Context, id int) (*domain.Product, error) {
	f.hit("product")
	if f.product == nil || f.product.ID != id {
		return nil, apperr.NotFoundErr("Not found.")
	}
	return f.product, nil
}

func (f *fakeAPI) AddToCart(_ context.Context, slug string, variations []int) error {
	f.hit("add-to-cart")
	f.mu.Lock()
	f.lastCart = variations
	f.mu.Unlock()
	return f.writeErr
}

func (f *fakeAPI) OrderSummary(context.Context) (*domain.Order, error) {
	f.mu.Lock()
	f.calls["order"]++
	n := f.calls["order"]
	f.mu.Unlock()
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	if len(f.orders) == 0 {
		return nil, apperr.NotFoundErr("You do not have an active order")
	}
	if n > len(f.orders) {
		n = len(f.orders)
	}
	return f.orders[n-1], nil
}

func (f *fakeAPI) AddCoupon(context.Context, string) error {
	f.hit("coupon")
	return f.couponErr
}

func (f *fakeAPI) Checkout(_ context.Context, req domain.CheckoutRequest) error {
	f.hit("checkout")
	f.mu.Lock()
	f.checkedOut = req
	f.mu.Unlock()
	return f.writeErr
}

func (f *fakeAPI) ListAddresses(_ context.Context, t domain.AddressType) ([]domain.Address, error) {
	f.hit("addresses-" + string(t))
	if f.listErr != nil {
		return nil, f.listErr
	}
	if t == domain.AddressBilling {
		return f.billing, nil
	}
	return f.shipping, nil
}

func (f *fakeAPI) CreateAddress(_ context.Context, a domain.Address) (*domain.Address, error) {
	f.hit("create")
	f.mu.Lock()
	f.saved = a
	f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	a.ID = 99
	return &a, nil
}

func (f *fakeAPI) UpdateAddress(_ context.Context, a domain.Address) (*domain.Address, error) {
	f.hit("update")
	f.mu.Lock()
	f.saved = a
	f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &a, nil
}

func (f *fakeAPI) DeleteAddress(context.Context, int) error {
	f.hit("delete")
	return f.writeErr
}

func (f *fakeAPI) ListCountries(context.Context) ([]domain.Country, error) {
	f.hit("countries")
	return f.countries, nil
}

func (f *fakeAPI) CurrentUserID(context.Context) (int, error) {
	f.hit("user-id")
	return f.userID, nil
}

func (f *fakeAPI) Login(context.Context, string, string) (string, error) {
	f.hit("login")
	if f.writeErr != nil {
		return "", f.writeErr
	}
	return f.loginKey, nil
}

func (f *fakeAPI) Tokenize(context.Context, domain.CardSubmission) (string, error) {
	f.hit("tokenize")
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.tokenized, nil
}

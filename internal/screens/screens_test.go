package screens

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
)

func order(total string, coupon *domain.Coupon) *domain.Order {
	return &domain.Order{
		ID:     1,
		Items:  []domain.OrderItem{{ID: 1, Quantity: 2, Product: domain.Product{Title: "Shirt"}}},
		Total:  decimal.RequireFromString(total),
		Coupon: coupon,
	}
}

func TestInitialFetchSuccess(t *testing.T) {
	api := newFakeAPI()
	api.products = []domain.Product{{ID: 1, Title: "Shirt", Slug: "shirt"}, {ID: 2, Title: "Hat", Slug: "hat"}}

	s := NewProductList(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	assert.False(t, v.Loading)
	assert.NoError(t, v.Err)
	assert.Equal(t, api.products, v.State.Products)
}

func TestInitialFetchFailure(t *testing.T) {
	api := newFakeAPI()
	api.listErr = apperr.NetworkErr("list products", errors.New("connection refused"))

	s := NewProductList(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	assert.False(t, v.Loading)
	assert.Nil(t, v.State.Products)
	assert.Equal(t, apperr.Network, apperr.KindOf(v.Err))
}

func TestOrderSummaryNotFoundRedirects(t *testing.T) {
	api := newFakeAPI()

	s := NewOrderSummary(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	assert.NoError(t, v.Err)
	assert.Equal(t, RedirectNoOrder, v.State.Redirect)
	assert.Nil(t, v.State.Order)
}

func TestOrderSummaryOtherFailureShowsError(t *testing.T) {
	api := newFakeAPI()
	api.orderErr = apperr.UnauthorizedErr("Authentication credentials were not provided.")

	s := NewOrderSummary(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	assert.True(t, apperr.IsUnauthorized(v.Err))
	assert.Empty(t, v.State.Redirect)
}

func TestCheckoutNotFoundRedirects(t *testing.T) {
	api := newFakeAPI()

	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	assert.NoError(t, v.Err)
	assert.Equal(t, RedirectNoOrder, v.State.Redirect)
}

func TestCouponRefetchesOrderOnce(t *testing.T) {
	api := newFakeAPI()
	api.orders = []*domain.Order{
		order("100.00", nil),
		order("87.35", &domain.Coupon{Code: "SAVE", Amount: decimal.RequireFromString("12.65")}),
	}

	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()
	require.Equal(t, 1, api.count("order"))

	require.NoError(t, s.ApplyCoupon(context.Background(), " SAVE "))

	assert.Equal(t, 1, api.count("coupon"))
	assert.Equal(t, 2, api.count("order"))
	v := s.View()
	assert.Equal(t, "87.35", v.State.Order.Total.StringFixed(2))
	assert.Equal(t, "SAVE", v.State.Order.Coupon.Code)
	assert.Empty(t, v.State.CouponCode)
}

func TestCouponFailureKeepsOrder(t *testing.T) {
	api := newFakeAPI()
	api.orders = []*domain.Order{order("100.00", nil)}
	api.couponErr = apperr.ValidationErr("This coupon does not exist", nil)

	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	err := s.ApplyCoupon(context.Background(), "NOPE")

	require.Error(t, err)
	assert.Equal(t, 1, api.count("order"))
	v := s.View()
	assert.Equal(t, "This coupon does not exist", apperr.PublicMessage(v.Err))
	assert.Equal(t, "100.00", v.State.Order.Total.StringFixed(2))
}

func TestEmptyCouponNeverCallsAPI(t *testing.T) {
	api := newFakeAPI()
	api.orders = []*domain.Order{order("10", nil)}
	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	err := s.ApplyCoupon(context.Background(), "  ")

	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Zero(t, api.count("coupon"))
}

func TestDefaultAddressPreselected(t *testing.T) {
	api := newFakeAPI()
	api.orders = []*domain.Order{order("10", nil)}
	api.billing = []domain.Address{{ID: 3}, {ID: 4, Default: true}, {ID: 5}}
	api.shipping = []domain.Address{{ID: 8}, {ID: 9}}

	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	v := s.View()
	assert.Equal(t, 4, v.State.SelectedBilling)
	assert.Zero(t, v.State.SelectedShipping)
	assert.False(t, v.State.NeedsAddresses())
}

func TestCheckoutNeedsAddresses(t *testing.T) {
	api := newFakeAPI()
	api.orders = []*domain.Order{order("10", nil)}
	api.billing = []domain.Address{{ID: 3, Default: true}}

	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	assert.True(t, s.View().State.NeedsAddresses())
}

func TestCheckoutConcurrentFailuresKeepOneError(t *testing.T) {
	api := newFakeAPI()
	orderErr := apperr.Wrap(errors.New("order summary: 500 Internal Server Error"))
	listErr := apperr.Wrap(errors.New("addresses: 500 Internal Server Error"))
	api.orderErr = orderErr
	api.listErr = listErr

	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	assert.Equal(t, 1, api.count("order"))
	assert.Equal(t, 1, api.count("addresses-B"))
	assert.Equal(t, 1, api.count("addresses-S"))
	v := s.View()
	assert.False(t, v.Loading)
	require.Error(t, v.Err)
	assert.True(t, errors.Is(v.Err, orderErr) || errors.Is(v.Err, listErr), "got %v", v.Err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(v.Err))
	assert.Nil(t, v.State.Order)
	assert.Nil(t, v.State.Billing)
	assert.Nil(t, v.State.Shipping)
	assert.Zero(t, v.State.SelectedBilling)
	assert.Zero(t, v.State.SelectedShipping)
	assert.Empty(t, v.State.Redirect)
}

func mountedCheckout(t *testing.T, api *fakeAPI) *Checkout {
	t.Helper()
	api.orders = []*domain.Order{order("10", nil)}
	api.billing = []domain.Address{{ID: 3, Default: true}}
	api.shipping = []domain.Address{{ID: 8, Default: true}}
	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	t.Cleanup(s.Unmount)
	return s
}

func TestTokenizationFailureSkipsCheckout(t *testing.T) {
	api := newFakeAPI()
	api.tokenErr = apperr.PaymentErr("Your card was declined.", nil)
	s := mountedCheckout(t, api)

	err := s.Submit(context.Background(), domain.CardSubmission{Token: "tok_x"})

	require.Error(t, err)
	assert.Equal(t, 1, api.count("tokenize"))
	assert.Zero(t, api.count("checkout"))
	v := s.View()
	assert.False(t, v.Loading)
	assert.False(t, v.State.Success)
	assert.Equal(t, "Your card was declined.", apperr.PublicMessage(v.Err))
}

func TestCheckoutRequiresBothAddresses(t *testing.T) {
	api := newFakeAPI()
	api.orders = []*domain.Order{order("10", nil)}
	api.billing = []domain.Address{{ID: 3, Default: true}}
	api.shipping = []domain.Address{{ID: 8}}
	s := NewCheckout(api.deps())
	s.Mount(context.Background())
	defer s.Unmount()

	err := s.Submit(context.Background(), domain.CardSubmission{Token: "tok_x"})

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, ae.Kind)
	assert.Contains(t, ae.Fields, "selectedShippingAddress")
	assert.Zero(t, api.count("tokenize"))
}

func TestCheckoutClearedSelectionIsRefused(t *testing.T) {
	api := newFakeAPI()
	s := mountedCheckout(t, api)
	require.Equal(t, 3, s.View().State.SelectedBilling)

	s.Select(0, 8)
	err := s.Submit(context.Background(), domain.CardSubmission{Token: "tok_x"})

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, ae.Kind)
	assert.Contains(t, ae.Fields, "selectedBillingAddress")
	assert.Zero(t, api.count("tokenize"))
	assert.Zero(t, api.count("checkout"))
	assert.Zero(t, s.View().State.SelectedBilling)
}

func TestCheckoutSuccess(t *testing.T) {
	api := newFakeAPI()
	s := mountedCheckout(t, api)
	s.Select(3, 8)

	require.NoError(t, s.Submit(context.Background(), domain.CardSubmission{Token: "tok_x"}))

	assert.Equal(t, domain.CheckoutRequest{Token: "tok_ok", BillingAddressID: 3, ShippingAddressID: 8}, api.checkedOut)
	v := s.View()
	assert.True(t, v.State.Success)
	assert.False(t, v.Loading)
	assert.NoError(t, v.Err)
}

func TestCheckoutFailureIsResubmittable(t *testing.T) {
	api := newFakeAPI()
	api.writeErr = apperr.PaymentErr("Card expired", nil)
	s := mountedCheckout(t, api)

	require.Error(t, s.Submit(context.Background(), domain.CardSubmission{Token: "tok_x"}))
	api.writeErr = nil
	require.NoError(t, s.Submit(context.Background(), domain.CardSubmission{Token: "tok_x"}))

	assert.Equal(t, 2, api.count("checkout"))
	assert.True(t, s.View().State.Success)
}

func TestDeleteAddressRefetchesOnceAndClearsSelection(t *testing.T) {
	api := newFakeAPI()
	api.billing = []domain.Address{{ID: 3, Street: "Main"}, {ID: 4, Street: "Side"}}

	s := NewProfile(api.deps())
	s.Mount(context.Background(), TabBilling)
	defer s.Unmount()
	s.Select(4)
	require.NotNil(t, s.View().State.Selected)
	before := api.count("addresses-B")

	require.NoError(t, s.DeleteAddress(4))

	assert.Equal(t, 1, api.count("delete"))
	assert.Equal(t, before+1, api.count("addresses-B"))
	assert.Nil(t, s.View().State.Selected)
}

func TestDeleteFailureKeepsList(t *testing.T) {
	api := newFakeAPI()
	api.billing = []domain.Address{{ID: 3}}
	s := NewProfile(api.deps())
	s.Mount(context.Background(), TabBilling)
	defer s.Unmount()
	api.writeErr = apperr.NotFoundErr("Not found.")

	require.Error(t, s.DeleteAddress(3))

	assert.Equal(t, 1, api.count("addresses-B"))
	v := s.View()
	assert.Len(t, v.State.Addresses, 1)
	assert.True(t, apperr.IsNotFound(v.Err))
}

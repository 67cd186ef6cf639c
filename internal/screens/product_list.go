package screens

import (
	"context"
	"strings"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/viewstate"
)

// View is what a renderer draws: the screen's record plus its status.
type View[S any] struct {
	State   S
	Loading bool
	Err     error
}

func viewOf[S any](st *viewstate.Store[S]) View[S] {
	s, status := st.View()
	return View[S]{State: s, Loading: status.Loading, Err: status.Err}
}

type ProductListState struct {
	Products []domain.Product
	// Added is the slug of the product just put in the cart.
	Added string
}

type ProductList struct {
	deps  Deps
	store *viewstate.Store[ProductListState]
}

func NewProductList(d Deps) *ProductList { return &ProductList{deps: d} }

func (s *ProductList) Mount(ctx context.Context) {
	s.store = viewstate.New(ctx, ProductListState{})
	_ = s.fetch()
}

func (s *ProductList) Unmount() { s.store.Stop() }

func (s *ProductList) fetch() error {
	return viewstate.Fire(s.store, viewstate.Trigger[ProductListState, []domain.Product]{
		Key:   "products",
		Call:  s.deps.Catalog.ListProducts,
		Apply: func(st *ProductListState, list []domain.Product) { st.Products = list },
	})
}

// AddToCart puts one unit of the product without variations in the cart.
func (s *ProductList) AddToCart(ctx context.Context, slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		err := apperr.ValidationErr("Pick a product to add.", map[string]string{"slug": "This field is required."})
		s.store.Fail(err)
		return err
	}
	err := viewstate.Fire(s.store, viewstate.Trigger[ProductListState, none]{
		Key: "add-to-cart",
		Call: call(func(ctx context.Context) error {
			return s.deps.Cart.AddToCart(ctx, slug, nil)
		}),
		Apply: func(st *ProductListState, _ none) { st.Added = slug },
	})
	if err != nil {
		return settled(err)
	}
	refreshQuietly(ctx, s.deps)
	return nil
}

func (s *ProductList) View() View[ProductListState] { return viewOf(s.store) }

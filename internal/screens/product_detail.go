package screens

import (
	"context"
	"fmt"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/viewstate"
)

type ProductDetailState struct {
	Product *domain.Product
	// FormVisible shows the variation pickers under the add-to-cart button.
	FormVisible bool
	// Selected maps variation id to the chosen option id.
	Selected map[int]int
	Added    bool
}

type ProductDetail struct {
	deps  Deps
	id    int
	store *viewstate.Store[ProductDetailState]
}

func NewProductDetail(d Deps, productID int) *ProductDetail {
	return &ProductDetail{deps: d, id: productID}
}

func (s *ProductDetail) Mount(ctx context.Context) {
	s.store = viewstate.New(ctx, ProductDetailState{Selected: map[int]int{}})
	_ = viewstate.Fire(s.store, viewstate.Trigger[ProductDetailState, *domain.Product]{
		Key: "product",
		Call: func(ctx context.Context) (*domain.Product, error) {
			return s.deps.Catalog.GetProduct(ctx, s.id)
		},
		Apply: func(st *ProductDetailState, p *domain.Product) { st.Product = p },
	})
}

func (s *ProductDetail) Unmount() { s.store.Stop() }

func (s *ProductDetail) ToggleForm() {
	s.store.Update(func(st *ProductDetailState) { st.FormVisible = !st.FormVisible })
}

// Choose records option as the pick for variation; 0 clears it.
func (s *ProductDetail) Choose(variation, option int) {
	s.store.Update(func(st *ProductDetailState) {
		if option == 0 {
			delete(st.Selected, variation)
			return
		}
		st.Selected[variation] = option
	})
}

// AddToCart posts the slug with the chosen option ids, in the order the
// product lists its variations.
func (s *ProductDetail) AddToCart(ctx context.Context) error {
	st, _ := s.store.View()
	if st.Product == nil {
		err := apperr.NotFoundErr("This product is not available.")
		s.store.Fail(err)
		return err
	}
	options, err := chosenOptions(st.Product, st.Selected)
	if err != nil {
		s.store.Fail(err)
		return err
	}
	slug := st.Product.Slug
	err = viewstate.Fire(s.store, viewstate.Trigger[ProductDetailState, none]{
		Key: "add-to-cart",
		Call: call(func(ctx context.Context) error {
			return s.deps.Cart.AddToCart(ctx, slug, options)
		}),
		Apply: func(st *ProductDetailState, _ none) { st.Added = true },
	})
	if err != nil {
		return settled(err)
	}
	refreshQuietly(ctx, s.deps)
	return nil
}

func chosenOptions(p *domain.Product, selected map[int]int) ([]int, error) {
	var out []int
	for _, v := range p.Variations {
		opt, ok := selected[v.ID]
		if !ok {
			continue
		}
		if !hasOption(v, opt) {
			return nil, apperr.ValidationErr(
				fmt.Sprintf("%s has no such option.", v.Name),
				map[string]string{fmt.Sprintf("variation_%d", v.ID): "Invalid value."},
			)
		}
		out = append(out, opt)
	}
	return out, nil
}

func hasOption(v domain.Variation, id int) bool {
	for _, o := range v.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (s *ProductDetail) View() View[ProductDetailState] { return viewOf(s.store) }

package httpserver

import (
	"bytes"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/storefront/internal/adapters/restapi"
	"github.com/phenrril/storefront/internal/adapters/session"
	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/screens"
	"github.com/phenrril/storefront/internal/views"
)

type Server struct {
	mux       *http.ServeMux
	views     *views.Renderer
	api       *restapi.Client
	payments  domain.PaymentTokenizer
	carts     domain.CartState
	sessions  *session.Store
	stripeKey string
}

func New(v *views.Renderer, api *restapi.Client, pay domain.PaymentTokenizer, carts domain.CartState, sessions *session.Store, stripeKey string) http.Handler {
	s := &Server{mux: http.NewServeMux(), views: v, api: api, payments: pay, carts: carts, sessions: sessions, stripeKey: stripeKey}
	s.routes()
	return Chain(s.mux,
		SecurityHeaders,
		Recovery,
		RequestID,
		Logging,
	)
}

func (s *Server) routes() {
	static, _ := fs.Sub(views.Static, "static")
	s.mux.Handle("GET /public/", http.StripPrefix("/public/", http.FileServerFS(static)))

	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/products", http.StatusFound)
	})
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	s.mux.HandleFunc("GET /products", s.handleProducts)
	s.mux.HandleFunc("POST /products/add", s.handleProductsAdd)
	s.mux.HandleFunc("GET /products/{id}", s.handleProduct)
	s.mux.HandleFunc("POST /products/{id}/add", s.handleProductAdd)

	s.mux.HandleFunc("GET /order-summary", s.handleOrderSummary)
	s.mux.HandleFunc("GET /order-summary.xlsx", s.handleOrderSummaryXLSX)

	s.mux.HandleFunc("GET /checkout", s.handleCheckout)
	s.mux.HandleFunc("POST /checkout", s.handleCheckoutSubmit)
	s.mux.HandleFunc("POST /checkout/coupon", s.handleCoupon)

	s.mux.HandleFunc("GET /profile", s.handleProfile)
	s.mux.HandleFunc("POST /profile/addresses", s.handleAddressSave)
	s.mux.HandleFunc("POST /profile/addresses/{id}/delete", s.handleAddressDelete)

	s.mux.HandleFunc("GET /login", s.handleLogin)
	s.mux.HandleFunc("POST /login", s.handleLoginSubmit)
	s.mux.HandleFunc("POST /logout", s.handleLogout)
}

// begin loads the browser session and binds the API to its credential.
func (s *Server) begin(w http.ResponseWriter, r *http.Request) (screens.Deps, session.Data) {
	sd, err := s.sessions.Load(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("session save")
	}
	client := s.api.WithToken(sd.Token)
	return screens.Deps{
		Catalog:       client,
		Cart:          client,
		Orders:        client,
		Addresses:     client,
		Account:       client,
		Payments:      s.payments,
		CartState:     s.carts,
		SessionID:     sd.ID,
		Authenticated: sd.Authenticated(),
	}, sd
}

func statusOf(errs ...error) int {
	for _, err := range errs {
		if err != nil {
			return apperr.HTTPStatus(err)
		}
	}
	return http.StatusOK
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title string, sd session.Data, body any) {
	cart, err := s.carts.Get(r.Context(), sd.ID)
	if err != nil {
		log.Warn().Err(err).Msg("cart badge")
	}
	p := views.Page{
		Title:         title,
		Authenticated: sd.Authenticated(),
		Cart:          cart,
		StripeKey:     s.stripeKey,
		RequestID:     RequestIDFrom(r.Context()),
		Body:          body,
	}
	var buf bytes.Buffer
	if err := s.views.Render(&buf, name, p); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		http.Error(w, "tpl", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil && id > 0
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue(key)))
	return n
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	d, sd := s.begin(w, r)
	scr := screens.NewProductList(d)
	scr.Mount(r.Context())
	defer scr.Unmount()

	v := scr.View()
	s.render(w, r, statusOf(v.Err), "products.html", "Products", sd, v)
}

func (s *Server) handleProductsAdd(w http.ResponseWriter, r *http.Request) {
	d, sd := s.begin(w, r)
	scr := screens.NewProductList(d)
	scr.Mount(r.Context())
	defer scr.Unmount()

	_ = scr.AddToCart(r.Context(), r.PostFormValue("slug"))
	v := scr.View()
	s.render(w, r, statusOf(v.Err), "products.html", "Products", sd, v)
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	d, sd := s.begin(w, r)
	scr := screens.NewProductDetail(d, id)
	scr.Mount(r.Context())
	defer scr.Unmount()

	if r.URL.Query().Get("form") == "1" {
		scr.ToggleForm()
	}
	v := scr.View()
	s.render(w, r, statusOf(v.Err), "product.html", productTitle(v.State.Product), sd, v)
}

func (s *Server) handleProductAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	d, sd := s.begin(w, r)
	scr := screens.NewProductDetail(d, id)
	scr.Mount(r.Context())
	defer scr.Unmount()

	scr.ToggleForm()
	for key := range r.PostForm {
		raw, found := strings.CutPrefix(key, "variation_")
		if !found {
			continue
		}
		variation, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		scr.Choose(variation, formInt(r, key))
	}
	_ = scr.AddToCart(r.Context())
	v := scr.View()
	s.render(w, r, statusOf(v.Err), "product.html", productTitle(v.State.Product), sd, v)
}

func productTitle(p *domain.Product) string {
	if p == nil {
		return "Product"
	}
	return p.Title
}

func (s *Server) handleOrderSummary(w http.ResponseWriter, r *http.Request) {
	d, sd := s.begin(w, r)
	scr := screens.NewOrderSummary(d)
	scr.Mount(r.Context())
	defer scr.Unmount()

	v := scr.View()
	if v.State.Redirect != "" {
		http.Redirect(w, r, v.State.Redirect, http.StatusFound)
		return
	}
	s.render(w, r, statusOf(v.Err), "order_summary.html", "Order Summary", sd, v)
}

func (s *Server) handleOrderSummaryXLSX(w http.ResponseWriter, r *http.Request) {
	d, sd := s.begin(w, r)
	scr := screens.NewOrderSummary(d)
	scr.Mount(r.Context())
	defer scr.Unmount()

	v := scr.View()
	switch {
	case v.State.Redirect != "":
		http.Redirect(w, r, v.State.Redirect, http.StatusFound)
		return
	case v.Err != nil || v.State.Order == nil:
		s.render(w, r, statusOf(v.Err), "order_summary.html", "Order Summary", sd, v)
		return
	}

	var buf bytes.Buffer
	if err := views.OrderXLSX(&buf, v.State.Order); err != nil {
		log.Error().Err(err).Msg("order xlsx")
		http.Error(w, "xlsx", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=order-summary.xlsx")
	_, _ = buf.WriteTo(w)
}

// mountCheckout mounts the checkout screen; it reports false after
// redirecting a browser without an order.
func (s *Server) mountCheckout(w http.ResponseWriter, r *http.Request) (*screens.Checkout, session.Data, bool) {
	d, sd := s.begin(w, r)
	scr := screens.NewCheckout(d)
	scr.Mount(r.Context())
	if to := scr.View().State.Redirect; to != "" {
		scr.Unmount()
		http.Redirect(w, r, to, http.StatusFound)
		return nil, sd, false
	}
	return scr, sd, true
}

func (s *Server) renderCheckout(w http.ResponseWriter, r *http.Request, scr *screens.Checkout, sd session.Data) {
	v := scr.View()
	s.render(w, r, statusOf(v.Err), "checkout.html", "Checkout", sd, v)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	scr, sd, ok := s.mountCheckout(w, r)
	if !ok {
		return
	}
	defer scr.Unmount()
	s.renderCheckout(w, r, scr, sd)
}

func (s *Server) handleCheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	scr, sd, ok := s.mountCheckout(w, r)
	if !ok {
		return
	}
	defer scr.Unmount()

	scr.Select(formInt(r, "selectedBillingAddress"), formInt(r, "selectedShippingAddress"))
	_ = scr.Submit(r.Context(), domain.CardSubmission{
		Token:       r.PostFormValue("stripe_token"),
		WidgetError: r.PostFormValue("stripe_error"),
	})
	s.renderCheckout(w, r, scr, sd)
}

func (s *Server) handleCoupon(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	scr, sd, ok := s.mountCheckout(w, r)
	if !ok {
		return
	}
	defer scr.Unmount()

	_ = scr.ApplyCoupon(r.Context(), r.PostFormValue("code"))
	s.renderCheckout(w, r, scr, sd)
}

// mountProfile mounts the profile on tab; anonymous browsers are redirected.
func (s *Server) mountProfile(w http.ResponseWriter, r *http.Request, tab screens.Tab) (*screens.Profile, session.Data, bool) {
	d, sd := s.begin(w, r)
	scr := screens.NewProfile(d)
	scr.Mount(r.Context(), tab)
	if to := scr.View().State.Redirect; to != "" {
		scr.Unmount()
		http.Redirect(w, r, to, http.StatusFound)
		return nil, sd, false
	}
	return scr, sd, true
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, scr *screens.Profile, sd session.Data) {
	page := views.ProfilePage{Profile: scr.View()}
	var formErr error
	if page.Profile.State.Tab.AddressType() != "" {
		fv := scr.Form().View()
		page.Form = &fv
		formErr = fv.Err
	}
	s.render(w, r, statusOf(page.Profile.Err, formErr), "profile.html", "Profile", sd, page)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scr, sd, ok := s.mountProfile(w, r, screens.ParseTab(q.Get("tab")))
	if !ok {
		return
	}
	defer scr.Unmount()

	if id, err := strconv.Atoi(q.Get("edit")); err == nil && id > 0 {
		scr.Select(id)
	}
	s.renderProfile(w, r, scr, sd)
}

func (s *Server) handleAddressSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	tab := screens.ParseTab(r.PostFormValue("tab"))
	if tab.AddressType() == "" {
		http.Error(w, "tab", http.StatusBadRequest)
		return
	}
	scr, sd, ok := s.mountProfile(w, r, tab)
	if !ok {
		return
	}
	defer scr.Unmount()

	if id := formInt(r, "id"); id > 0 {
		scr.Select(id)
	}
	_ = scr.Form().Submit(r.Context(), domain.Address{
		Street:    r.PostFormValue("street_address"),
		Apartment: r.PostFormValue("apartment_address"),
		Country:   r.PostFormValue("country"),
		Zip:       r.PostFormValue("zip"),
		Default:   r.PostFormValue("default") == "true",
	})
	s.renderProfile(w, r, scr, sd)
}

func (s *Server) handleAddressDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	scr, sd, ok := s.mountProfile(w, r, screens.ParseTab(r.PostFormValue("tab")))
	if !ok {
		return
	}
	defer scr.Unmount()

	_ = scr.DeleteAddress(id)
	s.renderProfile(w, r, scr, sd)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	d, sd := s.begin(w, r)
	scr := screens.NewLogin(d)
	scr.Mount(r.Context())
	defer scr.Unmount()

	v := scr.View()
	if v.State.Redirect != "" {
		http.Redirect(w, r, v.State.Redirect, http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", "Login", sd, v)
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	d, sd := s.begin(w, r)
	d.Authenticated = false
	scr := screens.NewLogin(d)
	scr.Mount(r.Context())
	defer scr.Unmount()

	_ = scr.Submit(r.PostFormValue("username"), r.PostFormValue("password"))
	v := scr.View()
	if v.State.Key == "" {
		s.render(w, r, statusOf(v.Err), "login.html", "Login", sd, v)
		return
	}

	sd.Token = v.State.Key
	if err := s.sessions.Save(w, r, sd); err != nil {
		log.Error().Err(err).Msg("session save")
		http.Error(w, "session", http.StatusInternalServerError)
		return
	}
	refresher := screens.CartRefresher{Orders: s.api.WithToken(sd.Token), State: s.carts, SessionID: sd.ID}
	if err := refresher.Refresh(r.Context()); err != nil {
		log.Warn().Err(err).Msg("cart badge refresh")
	}
	http.Redirect(w, r, v.State.Redirect, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sd, _ := s.sessions.Load(w, r)
	if err := s.carts.Clear(r.Context(), sd.ID); err != nil {
		log.Warn().Err(err).Msg("cart badge clear")
	}
	if err := s.sessions.Clear(w, r); err != nil {
		log.Error().Err(err).Msg("session clear")
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

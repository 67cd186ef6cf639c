// Package views renders screen snapshots. Templates are embedded; every page
// draws the status banner (error first, then loading) above its content.
package views

import (
	"embed"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/screens"
)

//go:embed templates/*.html
var FS embed.FS

//go:embed static
var Static embed.FS

// Page is the data every template receives. Body is the screen's View.
type Page struct {
	Title         string
	Authenticated bool
	Cart          *domain.CartSnapshot
	StripeKey     string
	RequestID     string
	Year          int
	Body          any
}

// ProfilePage is the body of profile.html: the profile and, on address tabs,
// its address form.
type ProfilePage struct {
	Profile screens.View[screens.ProfileState]
	Form    *screens.View[screens.AddressFormState]
}

type Renderer struct {
	tmpl *template.Template
}

func New(mediaBaseURL string) (*Renderer, error) {
	tmpl, err := template.New("layout").Funcs(Funcs(mediaBaseURL)).ParseFS(FS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, name string, p Page) error {
	if p.Year == 0 {
		p.Year = time.Now().Year()
	}
	return r.tmpl.ExecuteTemplate(w, name, p)
}

func Funcs(mediaBaseURL string) template.FuncMap {
	media := strings.TrimRight(strings.TrimSpace(mediaBaseURL), "/")
	return template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"money": func(v decimal.Decimal) string { return "$" + v.StringFixed(2) },
		"img": func(u string) string {
			s := strings.TrimSpace(u)
			if s == "" || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
				return strings.ReplaceAll(s, " ", "%20")
			}
			if !strings.HasPrefix(s, "/") {
				s = "/" + s
			}
			return media + strings.ReplaceAll(s, " ", "%20")
		},
		"labelcolor": func(l domain.Label) string {
			switch l {
			case domain.LabelPrimary:
				return "blue"
			case domain.LabelSecondary:
				return "olive"
			default:
				return "red"
			}
		},
		"optionvalues": optionValues,
		"errtitle":     apperr.Title,
		"errmsg":       apperr.PublicMessage,
		"errfields": func(err error) []string {
			ae, ok := apperr.As(err)
			if !ok || len(ae.Fields) == 0 {
				return nil
			}
			out := make([]string, 0, len(ae.Fields))
			for k, v := range ae.Fields {
				out = append(out, k+": "+v)
			}
			sort.Strings(out)
			return out
		},
		"fielderr": func(err error, field string) string {
			if ae, ok := apperr.As(err); ok {
				return ae.Fields[field]
			}
			return ""
		},
	}
}

func optionValues(opts []domain.ItemVariation) string {
	vals := make([]string, 0, len(opts))
	for _, o := range opts {
		vals = append(vals, o.Value)
	}
	return strings.Join(vals, ", ")
}

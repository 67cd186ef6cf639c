// Package session keeps the browser's auth token and session id in a signed
// cookie.
package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	cookieName = "storefront"
	keyID      = "sid"
	keyToken   = "token"
	maxAge     = 86400 * 30
)

// Data is what a request knows about its browser.
type Data struct {
	ID    string
	Token string
}

func (d Data) Authenticated() bool { return d.Token != "" }

type Store struct {
	cookies *sessions.CookieStore
}

func New(secret string, secure bool) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.MaxAge(maxAge)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// Load returns the session of r. A browser without one (or with a cookie that
// no longer verifies) gets a fresh id, written back on w.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) (Data, error) {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		log.Debug().Err(err).Msg("session cookie rejected")
	}
	d := Data{}
	d.ID, _ = sess.Values[keyID].(string)
	d.Token, _ = sess.Values[keyToken].(string)
	if d.ID != "" {
		return d, nil
	}
	d.ID = uuid.NewString()
	d.Token = ""
	return d, s.Save(w, r, d)
}

func (s *Store) Save(w http.ResponseWriter, r *http.Request, d Data) error {
	sess, _ := s.cookies.Get(r, cookieName)
	sess.Values[keyID] = d.ID
	if d.Token == "" {
		delete(sess.Values, keyToken)
	} else {
		sess.Values[keyToken] = d.Token
	}
	return sess.Save(r, w)
}

// Clear expires the cookie; the next request starts a new session.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.cookies.Get(r, cookieName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
)

var (
	_ domain.Catalog   = (*Client)(nil)
	_ domain.Cart      = (*Client)(nil)
	_ domain.Orders    = (*Client)(nil)
	_ domain.Addresses = (*Client)(nil)
	_ domain.Account   = (*Client)(nil)
)

// Client talks to the store's REST API. The zero-token client is the public
// one used for browsing; WithToken derives the authenticated one.
type Client struct {
	base       *url.URL
	auth       *url.URL
	httpClient *http.Client
	scheme     string
	token      string
}

// New builds the public client. No timeout is set: a call lasts until the
// server answers or the caller's context is cancelled.
func New(baseURL, authURL, scheme string, httpClient *http.Client) (*Client, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	auth, err := parseBase(authURL)
	if err != nil {
		return nil, fmt.Errorf("api auth url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if scheme == "" {
		scheme = "Bearer"
	}
	return &Client{base: base, auth: auth, httpClient: httpClient, scheme: scheme}, nil
}

func parseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not absolute", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// WithToken returns a client that sends "Authorization: <scheme> <token>".
func (c *Client) WithToken(token string) *Client {
	if token == "" {
		return c
	}
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: c.scheme})
	cp := *c
	cp.token = token
	cp.httpClient = &http.Client{
		Transport: &oauth2.Transport{Source: src, Base: base},
		Jar:       c.httpClient.Jar,
	}
	return &cp
}

func (c *Client) Authenticated() bool { return c.token != "" }

func (c *Client) endpoint(root *url.URL, path string, q url.Values) string {
	u := root.ResolveReference(&url.URL{Path: path})
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &apperr.Error{Kind: apperr.Internal, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &apperr.Error{Kind: apperr.Internal, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("op", op).Str("url", target).Msg("api request failed")
		return apperr.NetworkErr(op, err)
	}
	defer res.Body.Close()
	log.Debug().Str("op", op).Str("method", method).Str("url", target).
		Int("status", res.StatusCode).Dur("took", time.Since(start)).Msg("api")

	if res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
		return statusError(op, res.StatusCode, raw)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &apperr.Error{Kind: apperr.Internal, Op: op, Status: res.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusError turns a non-2xx answer into an apperr kind. Django REST bodies
// are either {"message": "..."}, {"detail": "..."} or {"field": ["msg", ...]}.
func statusError(op string, status int, raw []byte) error {
	msg, fields := parseErrorBody(raw)

	kind := apperr.Internal
	switch {
	case status == http.StatusNotFound:
		kind = apperr.NotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = apperr.Unauthorized
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = apperr.Validation
	}
	if msg == "" {
		switch kind {
		case apperr.NotFound:
			msg = "Not found."
		case apperr.Unauthorized:
			msg = "You need to log in to do that."
		case apperr.Validation:
			msg = "The request was rejected."
		default:
			msg = fmt.Sprintf("The store answered with status %d.", status)
		}
	}
	e := &apperr.Error{Kind: kind, Op: op, Status: status, PublicMsg: msg, Fields: fields}
	if kind == apperr.Internal {
		e.Err = fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(raw)))
	}
	return e
}

func parseErrorBody(raw []byte) (string, map[string]string) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", nil
	}
	for _, key := range []string{"message", "detail"} {
		if v, ok := body[key]; ok {
			var s string
			if json.Unmarshal(v, &s) == nil && s != "" {
				return s, nil
			}
		}
	}

	fields := map[string]string{}
	for k, v := range body {
		if s := firstString(v); s != "" {
			fields[k] = s
		}
	}
	if len(fields) == 0 {
		return "", nil
	}
	if s, ok := fields["non_field_errors"]; ok {
		delete(fields, "non_field_errors")
		return s, fields
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0] + ": " + fields[keys[0]], fields
}

func firstString(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(v, &list) == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/SscSPs/money_tracker/internal/dto"
	"golang.org/x/sync/errgroup"
)

// Login signs in and stores the returned token in the session store.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   dto.LoginRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if err := c.Session.Save(Session{Token: resp.Token, Username: resp.Username}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.call(ctx, request{method: http.MethodPost, path: "/api/auth/register", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the token server-side. The local session is cleared even if that call fails.
func (c *Client) Logout(ctx context.Context) error {
	s, err := c.Session.Load()
	if err != nil {
		return err
	}
	var callErr error
	if s.Token != "" {
		callErr = c.call(ctx, request{method: http.MethodPost, path: "/api/auth/logout", authed: true}, nil)
	}
	if err := c.Session.Clear(); err != nil {
		return err
	}
	if callErr != nil && !errors.Is(callErr, ErrSessionExpired) {
		return callErr
	}
	return nil
}

func (c *Client) People(ctx context.Context) ([]dto.PersonResponse, error) {
	var resp []dto.PersonResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/people/all", authed: true}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Person(ctx context.Context, name string) (*dto.PersonDetailResponse, error) {
	var resp dto.PersonDetailResponse
	err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/api/people/" + url.PathEscape(name),
		authed: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddPerson(ctx context.Context, name string) (*dto.PersonResponse, error) {
	var resp dto.PersonResponse
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/people/add",
		query:  url.Values{"name": {name}},
		authed: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeletePerson(ctx context.Context, name string) error {
	return c.call(ctx, request{
		method: http.MethodDelete,
		path:   "/api/people/" + url.PathEscape(name),
		authed: true,
	}, nil)
}

// Send records money given to name. amount is sent as typed so the server does the validation.
func (c *Client) Send(ctx context.Context, name, amount, description string) (*dto.MutationResponse, error) {
	return c.record(ctx, "/api/people/send", name, amount, description)
}

// Receive records money received from name.
func (c *Client) Receive(ctx context.Context, name, amount, description string) (*dto.MutationResponse, error) {
	return c.record(ctx, "/api/people/receive", name, amount, description)
}

func (c *Client) record(ctx context.Context, path, name, amount, description string) (*dto.MutationResponse, error) {
	q := url.Values{"name": {name}, "amount": {amount}}
	if description != "" {
		q.Set("description", description)
	}
	var resp dto.MutationResponse
	if err := c.call(ctx, request{method: http.MethodPost, path: path, query: q, authed: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transactions returns every transaction of the signed-in user.
func (c *Client) Transactions(ctx context.Context) ([]dto.TransactionResponse, error) {
	var resp []dto.TransactionResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/transactions/all", authed: true}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SearchTransactions fetches one filtered page.
func (c *Client) SearchTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	q := url.Values{}
	setIf(q, "person", params.Person)
	setIf(q, "type", params.Type)
	setIf(q, "q", params.Query)
	setIf(q, "from", params.From)
	setIf(q, "to", params.To)
	setIf(q, "pageToken", params.PageToken)
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	var resp dto.ListTransactionsResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/transactions", query: q, authed: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Reverse(ctx context.Context, id int64) (*dto.MutationResponse, error) {
	var resp dto.MutationResponse
	err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/api/transactions/reverse/" + strconv.FormatInt(id, 10),
		authed: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Summary returns totals, optionally bounded by from and to (YYYY-MM-DD or RFC 3339).
func (c *Client) Summary(ctx context.Context, from, to string) (*dto.SummaryResponse, error) {
	q := url.Values{}
	setIf(q, "from", from)
	setIf(q, "to", to)
	var resp dto.SummaryResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/transactions/summary", query: q, authed: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MonthlyReport(ctx context.Context, year int) ([]dto.MonthlyTotalsResponse, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	var resp []dto.MonthlyTotalsResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/transactions/monthly", query: q, authed: true}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Export streams the server's CSV export into w.
func (c *Client) Export(ctx context.Context, w io.Writer, person string) error {
	q := url.Values{}
	setIf(q, "person", person)
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/api/transactions/export", query: q, authed: true})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("copy export: %w", err)
	}
	return nil
}

// Dashboard is everything the main view needs.
type Dashboard struct {
	People       []dto.PersonResponse
	Transactions []dto.TransactionResponse
}

// LoadDashboard fetches people and transactions concurrently.
func (c *Client) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		people, err := c.People(gctx)
		d.People = people
		return err
	})
	g.Go(func() error {
		txns, err := c.Transactions(gctx)
		d.Transactions = txns
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

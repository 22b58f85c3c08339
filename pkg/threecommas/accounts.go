package threecommas

import (
	"context"
	"fmt"
	"net/http"
)

// ListAccounts returns every exchange account connected to the user
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := c.get(ctx, V1, "/accounts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccount returns a single connected account by id
func (c *Client) GetAccount(ctx context.Context, accountID int64) (*Account, error) {
	var out Account
	if err := c.get(ctx, V1, fmt.Sprintf("/accounts/%d", accountID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewAccount connects an exchange account to the platform
func (c *Client) NewAccount(ctx context.Context, params *NewAccountParams) (*Account, error) {
	var out Account
	if err := c.submit(ctx, http.MethodPost, V1, "/accounts/new", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadBalances asks the platform to refresh an account's balances from the
// exchange and returns the updated account
func (c *Client) LoadBalances(ctx context.Context, accountID int64) (*Account, error) {
	var out Account
	if err := c.submit(ctx, http.MethodPost, V1, fmt.Sprintf("/accounts/%d/load_balances", accountID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarketList returns the exchanges the platform supports. Anonymous.
func (c *Client) MarketList(ctx context.Context) ([]Market, error) {
	var out []Market
	if err := c.get(ctx, V1, "/accounts/market_list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrencyRates returns current pricing for a pair on a market. Anonymous.
func (c *Client) CurrencyRates(ctx context.Context, params *CurrencyRatesParams) (*CurrencyRate, error) {
	var out CurrencyRate
	if err := c.get(ctx, V1, "/accounts/currency_rates", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

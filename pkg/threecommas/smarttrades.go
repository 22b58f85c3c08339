package threecommas

import (
	"context"
	"fmt"
	"net/http"
)

// ListSmartTrades returns smart trades matching the given filters
func (c *Client) ListSmartTrades(ctx context.Context, params *SmartTradesListParams) ([]SmartTrade, error) {
	var out []SmartTrade
	if err := c.get(ctx, V2, "/smart_trades", params.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSmartTrade opens a new smart trade
func (c *Client) CreateSmartTrade(ctx context.Context, params *CreateSmartTradeParams) (*SmartTrade, error) {
	var out SmartTrade
	if err := c.submit(ctx, http.MethodPost, V2, "/smart_trades", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSmartTrade returns a single smart trade by id
func (c *Client) GetSmartTrade(ctx context.Context, smartTradeID int64) (*SmartTrade, error) {
	var out SmartTrade
	if err := c.get(ctx, V2, fmt.Sprintf("/smart_trades/%d", smartTradeID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSmartTrade edits an open smart trade's targets and note
func (c *Client) UpdateSmartTrade(ctx context.Context, smartTradeID int64, params *UpdateSmartTradeParams) (*SmartTrade, error) {
	var out SmartTrade
	if err := c.submit(ctx, http.MethodPatch, V2, fmt.Sprintf("/smart_trades/%d", smartTradeID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelSmartTrade cancels a smart trade, leaving the position untouched
func (c *Client) CancelSmartTrade(ctx context.Context, smartTradeID int64) (*SmartTrade, error) {
	var out SmartTrade
	if err := c.submit(ctx, http.MethodDelete, V2, fmt.Sprintf("/smart_trades/%d", smartTradeID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CloseSmartTradeByMarket closes the smart trade's position at market price
func (c *Client) CloseSmartTradeByMarket(ctx context.Context, smartTradeID int64) (*SmartTrade, error) {
	var out SmartTrade
	if err := c.submit(ctx, http.MethodPost, V2, fmt.Sprintf("/smart_trades/%d/close_by_market", smartTradeID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddFunds averages into an open smart trade with an additional order
func (c *Client) AddFunds(ctx context.Context, smartTradeID int64, params *SmartTradeFundsParams) (*SmartTrade, error) {
	var out SmartTrade
	if err := c.submit(ctx, http.MethodPost, V2, fmt.Sprintf("/smart_trades/%d/add_funds", smartTradeID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReduceFunds sells part of an open smart trade's position
func (c *Client) ReduceFunds(ctx context.Context, smartTradeID int64, params *SmartTradeFundsParams) (*SmartTrade, error) {
	var out SmartTrade
	if err := c.submit(ctx, http.MethodPost, V2, fmt.Sprintf("/smart_trades/%d/reduce_funds", smartTradeID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

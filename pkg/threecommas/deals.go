package threecommas

import (
	"context"
	"fmt"
	"net/http"
)

// ListDeals returns deals matching the given filters, newest first unless the
// params say otherwise
func (c *Client) ListDeals(ctx context.Context, params *DealsListParams) ([]Deal, error) {
	var out []Deal
	if err := c.get(ctx, V1, "/deals", params.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDeal returns a single deal by id
func (c *Client) GetDeal(ctx context.Context, dealID int64) (*Deal, error) {
	var out Deal
	if err := c.get(ctx, V1, fmt.Sprintf("/deals/%d/show", dealID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDeal edits an active deal's take profit, trailing and safety order
// settings
func (c *Client) UpdateDeal(ctx context.Context, dealID int64, params *UpdateDealParams) (*Deal, error) {
	var out Deal
	if err := c.submit(ctx, http.MethodPatch, V1, fmt.Sprintf("/deals/%d/update_deal", dealID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelDeal cancels an active deal, leaving bought funds untouched
func (c *Client) CancelDeal(ctx context.Context, dealID int64) (*Deal, error) {
	var out Deal
	if err := c.submit(ctx, http.MethodPost, V1, fmt.Sprintf("/deals/%d/cancel", dealID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PanicSellDeal closes a deal immediately at market price
func (c *Client) PanicSellDeal(ctx context.Context, dealID int64) (*Deal, error) {
	var out Deal
	if err := c.submit(ctx, http.MethodPost, V1, fmt.Sprintf("/deals/%d/panic_sell", dealID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMaxSafetyOrders changes the safety order cap of an active deal
func (c *Client) UpdateMaxSafetyOrders(ctx context.Context, dealID int64, maxSafetyOrders int) (*Deal, error) {
	payload := map[string]interface{}{"max_safety_orders": maxSafetyOrders}
	var out Deal
	if err := c.submit(ctx, http.MethodPost, V1, fmt.Sprintf("/deals/%d/update_max_safety_orders", dealID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DealMarketOrders returns the exchange orders placed for a deal
func (c *Client) DealMarketOrders(ctx context.Context, dealID int64) ([]DealMarketOrder, error) {
	var out []DealMarketOrder
	if err := c.get(ctx, V1, fmt.Sprintf("/deals/%d/market_orders", dealID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

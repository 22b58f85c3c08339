package threecommas

import (
	"context"
	"fmt"
	"net/http"
)

// ListBots returns bots matching the given filters
func (c *Client) ListBots(ctx context.Context, params *BotsListParams) ([]Bot, error) {
	var out []Bot
	if err := c.get(ctx, V1, "/bots", params.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBot returns a single bot by id
func (c *Client) GetBot(ctx context.Context, botID int64) (*Bot, error) {
	var out Bot
	if err := c.get(ctx, V1, fmt.Sprintf("/bots/%d/show", botID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBot creates a new bot on the given account
func (c *Client) CreateBot(ctx context.Context, params *CreateBotParams) (*Bot, error) {
	var out Bot
	if err := c.submit(ctx, http.MethodPost, V1, "/bots/create_bot", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBot edits an existing bot's configuration
func (c *Client) UpdateBot(ctx context.Context, botID int64, params *UpdateBotParams) (*Bot, error) {
	var out Bot
	if err := c.submit(ctx, http.MethodPatch, V1, fmt.Sprintf("/bots/%d/update", botID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnableBot starts the bot creating deals from its signals
func (c *Client) EnableBot(ctx context.Context, botID int64) (*Bot, error) {
	var out Bot
	if err := c.submit(ctx, http.MethodPost, V1, fmt.Sprintf("/bots/%d/enable", botID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DisableBot stops the bot from opening new deals. Active deals keep running.
func (c *Client) DisableBot(ctx context.Context, botID int64) (*Bot, error) {
	var out Bot
	if err := c.submit(ctx, http.MethodPost, V1, fmt.Sprintf("/bots/%d/disable", botID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartNewDeal asks the bot to open a deal immediately, bypassing its signal
// wait when the params say so
func (c *Client) StartNewDeal(ctx context.Context, botID int64, params *StartNewDealParams) (*Deal, error) {
	var out Deal
	if err := c.submit(ctx, http.MethodPost, V1, fmt.Sprintf("/bots/%d/start_new_deal", botID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBot removes a bot. Fails while the bot has active deals.
func (c *Client) DeleteBot(ctx context.Context, botID int64) error {
	return c.submit(ctx, http.MethodPost, V1, fmt.Sprintf("/bots/%d/delete", botID), nil, nil)
}

// BotStats returns aggregated profit figures, optionally scoped to one
// account or bot
func (c *Client) BotStats(ctx context.Context, params *BotStatsParams) (*BotStats, error) {
	var out BotStats
	if err := c.get(ctx, V1, "/bots/stats", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

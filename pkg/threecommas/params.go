package threecommas

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Parameter structs enumerate the fields each endpoint recognizes. Query
// parameters are encoded through values(); body parameters are serialized
// with their JSON tags. Zero values are omitted.

// DealsListParams filters ListDeals
type DealsListParams struct {
	AccountID int64
	BotID     int64

	// Scope is one of active, finished, completed, cancelled, failed
	Scope string

	// Order is the sort column, e.g. created_at or closed_at
	Order  string
	Limit  int
	Offset int
}

func (p *DealsListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.AccountID != 0 {
		v.Set("account_id", strconv.FormatInt(p.AccountID, 10))
	}
	if p.BotID != 0 {
		v.Set("bot_id", strconv.FormatInt(p.BotID, 10))
	}
	if p.Scope != "" {
		v.Set("scope", p.Scope)
	}
	if p.Order != "" {
		v.Set("order", p.Order)
	}
	if p.Limit != 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset != 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	return v
}

// UpdateDealParams carries the editable fields of a deal
type UpdateDealParams struct {
	TakeProfit             *decimal.Decimal `json:"take_profit,omitempty"`
	TakeProfitType         string           `json:"take_profit_type,omitempty"`
	ProfitCurrency         string           `json:"profit_currency,omitempty"`
	TrailingEnabled        *bool            `json:"trailing_enabled,omitempty"`
	TrailingDeviation      *decimal.Decimal `json:"trailing_deviation,omitempty"`
	MaxSafetyOrders        *int             `json:"max_safety_orders,omitempty"`
	ActiveSafetyOrders     *int             `json:"active_safety_orders_count,omitempty"`
	StopLossPercentage     *decimal.Decimal `json:"stop_loss_percentage,omitempty"`
	StopLossType           string           `json:"stop_loss_type,omitempty"`
	StopLossTimeoutEnabled *bool            `json:"stop_loss_timeout_enabled,omitempty"`
}

// BotsListParams filters ListBots
type BotsListParams struct {
	AccountID int64

	// Scope is one of enabled, disabled
	Scope         string
	SortBy        string
	SortDirection string
	Limit         int
	Offset        int
}

func (p *BotsListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.AccountID != 0 {
		v.Set("account_id", strconv.FormatInt(p.AccountID, 10))
	}
	if p.Scope != "" {
		v.Set("scope", p.Scope)
	}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if p.SortDirection != "" {
		v.Set("sort_direction", p.SortDirection)
	}
	if p.Limit != 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset != 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	return v
}

// BotStatsParams scopes BotStats to an account or a single bot
type BotStatsParams struct {
	AccountID int64
	BotID     int64
}

func (p *BotStatsParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.AccountID != 0 {
		v.Set("account_id", strconv.FormatInt(p.AccountID, 10))
	}
	if p.BotID != 0 {
		v.Set("bot_id", strconv.FormatInt(p.BotID, 10))
	}
	return v
}

// BotStrategy is one entry of a bot's signal strategy list
type BotStrategy map[string]interface{}

// CreateBotParams carries the fields accepted when creating a bot
type CreateBotParams struct {
	Name                    string           `json:"name"`
	AccountID               int64            `json:"account_id"`
	Pairs                   []string         `json:"pairs"`
	Strategy                string           `json:"strategy,omitempty"`
	BaseOrderVolume         decimal.Decimal  `json:"base_order_volume"`
	TakeProfit              decimal.Decimal  `json:"take_profit"`
	SafetyOrderVolume       decimal.Decimal  `json:"safety_order_volume"`
	MartingaleVolumeCoef    decimal.Decimal  `json:"martingale_volume_coefficient"`
	MartingaleStepCoef      decimal.Decimal  `json:"martingale_step_coefficient"`
	MaxSafetyOrders         int              `json:"max_safety_orders"`
	ActiveSafetyOrdersCount int              `json:"active_safety_orders_count"`
	SafetyOrderStepPct      decimal.Decimal  `json:"safety_order_step_percentage"`
	TakeProfitType          string           `json:"take_profit_type"`
	StrategyList            []BotStrategy    `json:"strategy_list"`
	Cooldown                *int             `json:"cooldown,omitempty"`
	StopLossPercentage      *decimal.Decimal `json:"stop_loss_percentage,omitempty"`
}

// UpdateBotParams carries the editable fields of a bot
type UpdateBotParams struct {
	Name                    string           `json:"name,omitempty"`
	Pairs                   []string         `json:"pairs,omitempty"`
	BaseOrderVolume         *decimal.Decimal `json:"base_order_volume,omitempty"`
	TakeProfit              *decimal.Decimal `json:"take_profit,omitempty"`
	SafetyOrderVolume       *decimal.Decimal `json:"safety_order_volume,omitempty"`
	MaxSafetyOrders         *int             `json:"max_safety_orders,omitempty"`
	ActiveSafetyOrdersCount *int             `json:"active_safety_orders_count,omitempty"`
	TakeProfitType          string           `json:"take_profit_type,omitempty"`
	StrategyList            []BotStrategy    `json:"strategy_list,omitempty"`
}

// StartNewDealParams controls a manually triggered deal
type StartNewDealParams struct {
	Pair                string `json:"pair,omitempty"`
	SkipSignalChecks    bool   `json:"skip_signal_checks,omitempty"`
	SkipOpenDealsChecks bool   `json:"skip_open_deals_checks,omitempty"`
}

// NewAccountParams connects an exchange account. APIKey and Secret here are
// the exchange's credentials, not the platform's.
type NewAccountParams struct {
	Type            string `json:"type"`
	Name            string `json:"name"`
	APIKey          string `json:"api_key"`
	Secret          string `json:"secret"`
	CustomerID      string `json:"customer_id,omitempty"`
	PassivePhrase   string `json:"passphrase,omitempty"`
	HowConnect      string `json:"how_connect,omitempty"`
	SupportedMarket string `json:"supported_market_types,omitempty"`
}

// CurrencyRatesParams identifies the market and pair to quote
type CurrencyRatesParams struct {
	MarketCode string
	Pair       string
}

func (p *CurrencyRatesParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.MarketCode != "" {
		v.Set("market_code", p.MarketCode)
	}
	if p.Pair != "" {
		v.Set("pair", p.Pair)
	}
	return v
}

// SmartTradesListParams filters ListSmartTrades
type SmartTradesListParams struct {
	AccountID int64
	Pair      string

	// Status is one of all, active, finished, cancelled, failed
	Status  string
	Page    int
	PerPage int
}

func (p *SmartTradesListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.AccountID != 0 {
		v.Set("account_id", strconv.FormatInt(p.AccountID, 10))
	}
	if p.Pair != "" {
		v.Set("pair", p.Pair)
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	if p.Page != 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage != 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return v
}

// SmartTradeValueParam wraps a value the way the v2 API nests it
type SmartTradeValueParam struct {
	Value decimal.Decimal `json:"value"`
}

// SmartTradePositionParams describes the entry of a new smart trade
type SmartTradePositionParams struct {
	Type      string                `json:"type"`
	OrderType string                `json:"order_type"`
	Units     SmartTradeValueParam  `json:"units"`
	Price     *SmartTradeValueParam `json:"price,omitempty"`
}

// SmartTradeTakeProfitStep is one take-profit target
type SmartTradeTakeProfitStep struct {
	OrderType string                `json:"order_type"`
	Price     *SmartTradeValueParam `json:"price,omitempty"`
	Volume    decimal.Decimal       `json:"volume"`
	Trailing  *SmartTradeTrailing   `json:"trailing,omitempty"`
	PriceType string                `json:"price_type,omitempty"`
	PricePct  *decimal.Decimal      `json:"price_percentage,omitempty"`
}

// SmartTradeTrailing enables trailing on a target
type SmartTradeTrailing struct {
	Enabled bool             `json:"enabled"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
}

// SmartTradeTakeProfitParams groups take-profit targets
type SmartTradeTakeProfitParams struct {
	Enabled bool                       `json:"enabled"`
	Steps   []SmartTradeTakeProfitStep `json:"steps,omitempty"`
}

// SmartTradeStopLossParams configures the stop loss side
type SmartTradeStopLossParams struct {
	Enabled          bool                  `json:"enabled"`
	OrderType        string                `json:"order_type,omitempty"`
	Price            *SmartTradeValueParam `json:"price,omitempty"`
	ConditionalPrice *SmartTradeValueParam `json:"conditional,omitempty"`
	TimeoutEnabled   *bool                 `json:"timeout_enabled,omitempty"`
	TimeoutSeconds   *int                  `json:"timeout,omitempty"`
}

// SmartTradeLeverageParams enables leverage on contract accounts
type SmartTradeLeverageParams struct {
	Enabled bool             `json:"enabled"`
	Type    string           `json:"type,omitempty"`
	Value   *decimal.Decimal `json:"value,omitempty"`
}

// CreateSmartTradeParams carries the fields accepted when opening a smart
// trade
type CreateSmartTradeParams struct {
	AccountID  int64                       `json:"account_id"`
	Pair       string                      `json:"pair"`
	Instant    *bool                       `json:"instant,omitempty"`
	Note       string                      `json:"note,omitempty"`
	Leverage   *SmartTradeLeverageParams   `json:"leverage,omitempty"`
	Position   SmartTradePositionParams    `json:"position"`
	TakeProfit *SmartTradeTakeProfitParams `json:"take_profit,omitempty"`
	StopLoss   *SmartTradeStopLossParams   `json:"stop_loss,omitempty"`
}

// UpdateSmartTradeParams carries the editable fields of a smart trade
type UpdateSmartTradeParams struct {
	Note       string                      `json:"note,omitempty"`
	TakeProfit *SmartTradeTakeProfitParams `json:"take_profit,omitempty"`
	StopLoss   *SmartTradeStopLossParams   `json:"stop_loss,omitempty"`
}

// SmartTradeFundsParams adds or removes funds from an open smart trade
type SmartTradeFundsParams struct {
	OrderType string                `json:"order_type"`
	Units     SmartTradeValueParam  `json:"units"`
	Price     *SmartTradeValueParam `json:"price,omitempty"`
}

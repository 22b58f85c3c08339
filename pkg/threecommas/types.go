package threecommas

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is an exchange account connected to the platform
type Account struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	MarketCode      string          `json:"market_code"`
	ExchangeName    string          `json:"exchange_name"`
	BTCAmount       decimal.Decimal `json:"btc_amount"`
	USDAmount       decimal.Decimal `json:"usd_amount"`
	DayProfitBTC    decimal.Decimal `json:"day_profit_btc"`
	DayProfitUSD    decimal.Decimal `json:"day_profit_usd"`
	IsLocked        bool            `json:"is_locked"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	LastAutoBalance *time.Time      `json:"last_auto_balance"`
}

// Market is an exchange supported by the platform
type Market struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CurrencyRate is the platform's view of a pair's current pricing
type CurrencyRate struct {
	Type string          `json:"type"`
	Last decimal.Decimal `json:"last"`
	Bid  decimal.Decimal `json:"bid"`
	Ask  decimal.Decimal `json:"ask"`
	High decimal.Decimal `json:"high"`
	Low  decimal.Decimal `json:"low"`
}

// Deal is one trade executed by a bot. Field names mirror the platform's
// payload, including its trailing question marks on boolean flags.
type Deal struct {
	ID                             int64            `json:"id"`
	Type                           string           `json:"type"`
	BotID                          int64            `json:"bot_id"`
	BotName                        string           `json:"bot_name"`
	AccountID                      int64            `json:"account_id"`
	Pair                           string           `json:"pair"`
	Status                         string           `json:"status"`
	DealHasError                   bool             `json:"deal_has_error"`
	ErrorMessage                   string           `json:"error_message"`
	Finished                       bool             `json:"finished?"`
	Cancellable                    bool             `json:"cancellable?"`
	PanicSellable                  bool             `json:"panic_sellable?"`
	MaxSafetyOrders                int              `json:"max_safety_orders"`
	ActiveSafetyOrdersCount        int              `json:"active_safety_orders_count"`
	CurrentActiveSafetyOrdersCount int              `json:"current_active_safety_orders_count"`
	CompletedSafetyOrdersCount     int              `json:"completed_safety_orders_count"`
	TakeProfit                     decimal.Decimal  `json:"take_profit"`
	BaseOrderVolume                decimal.Decimal  `json:"base_order_volume"`
	SafetyOrderVolume              decimal.Decimal  `json:"safety_order_volume"`
	BoughtAmount                   *decimal.Decimal `json:"bought_amount"`
	BoughtVolume                   *decimal.Decimal `json:"bought_volume"`
	BoughtAveragePrice             *decimal.Decimal `json:"bought_average_price"`
	SoldAmount                     *decimal.Decimal `json:"sold_amount"`
	SoldVolume                     *decimal.Decimal `json:"sold_volume"`
	SoldAveragePrice               *decimal.Decimal `json:"sold_average_price"`
	FinalProfit                    *decimal.Decimal `json:"final_profit"`
	CurrentPrice                   *decimal.Decimal `json:"current_price"`
	TakeProfitPrice                *decimal.Decimal `json:"take_profit_price"`
	CreatedAt                      time.Time        `json:"created_at"`
	UpdatedAt                      time.Time        `json:"updated_at"`
	ClosedAt                       *time.Time       `json:"closed_at"`
}

// DealMarketOrder is one exchange order placed for a deal
type DealMarketOrder struct {
	OrderID       string           `json:"order_id"`
	OrderType     string           `json:"order_type"`
	DealOrderType string           `json:"deal_order_type"`
	Status        string           `json:"status_string"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Rate          *decimal.Decimal `json:"rate"`
	Total         *decimal.Decimal `json:"total"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Bot is a trading bot configuration
type Bot struct {
	ID                      int64           `json:"id"`
	AccountID               int64           `json:"account_id"`
	AccountName             string          `json:"account_name"`
	Name                    string          `json:"name"`
	Type                    string          `json:"type"`
	IsEnabled               bool            `json:"is_enabled"`
	Pairs                   []string        `json:"pairs"`
	Strategy                string          `json:"strategy"`
	MaxSafetyOrders         int             `json:"max_safety_orders"`
	ActiveSafetyOrdersCount int             `json:"active_safety_orders_count"`
	ActiveDealsCount        int             `json:"active_deals_count"`
	TakeProfit              decimal.Decimal `json:"take_profit"`
	TakeProfitType          string          `json:"take_profit_type"`
	BaseOrderVolume         decimal.Decimal `json:"base_order_volume"`
	SafetyOrderVolume       decimal.Decimal `json:"safety_order_volume"`
	FinishedDealsCount      int64           `json:"finished_deals_count,string"`
	FinishedDealsProfitUSD  decimal.Decimal `json:"finished_deals_profit_usd"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// BotStats aggregates bot profit figures
type BotStats struct {
	OverallStats map[string]decimal.Decimal `json:"overall_stats"`
	TodayStats   map[string]decimal.Decimal `json:"today_stats"`
	ProfitsInUSD BotProfitsInUSD            `json:"profits_in_usd"`
}

// BotProfitsInUSD is the USD view of bot profits
type BotProfitsInUSD struct {
	OverallUSDProfit     decimal.Decimal `json:"overall_usd_profit"`
	TodayUSDProfit       decimal.Decimal `json:"today_usd_profit"`
	ActiveDealsUSDProfit decimal.Decimal `json:"active_deals_usd_profit"`
}

// SmartTradeValue wraps the platform's nested {"value": ...} shape
type SmartTradeValue struct {
	Value decimal.Decimal `json:"value"`
}

// SmartTradeStatus describes a smart trade's lifecycle state
type SmartTradeStatus struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// SmartTradeAccount identifies the account a smart trade runs on
type SmartTradeAccount struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// SmartTradePosition is the entry side of a smart trade
type SmartTradePosition struct {
	Type      string           `json:"type"`
	OrderType string           `json:"order_type"`
	Editable  bool             `json:"editable"`
	Units     SmartTradeValue  `json:"units"`
	Price     *SmartTradeValue `json:"price"`
	Total     *SmartTradeValue `json:"total"`
}

// SmartTradeProfit is the realized outcome of a smart trade
type SmartTradeProfit struct {
	Volume  *decimal.Decimal `json:"volume"`
	USD     *decimal.Decimal `json:"usd"`
	Percent *decimal.Decimal `json:"percent"`
}

// SmartTrade is a manual position managed through the v2 API
type SmartTrade struct {
	ID       int64              `json:"id"`
	Version  int                `json:"version"`
	Pair     string             `json:"pair"`
	Instant  bool               `json:"instant"`
	Note     string             `json:"note"`
	Account  SmartTradeAccount  `json:"account"`
	Status   SmartTradeStatus   `json:"status"`
	Position SmartTradePosition `json:"position"`
	Profit   SmartTradeProfit   `json:"profit"`
	Data     SmartTradeData     `json:"data"`
}

// SmartTradeData carries the trade's bookkeeping timestamps
type SmartTradeData struct {
	Editable  bool       `json:"editable"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

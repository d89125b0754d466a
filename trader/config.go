package trader

import (
	"github.com/quantadex/crossmarket/support/utils"
)

// BotConfig represents the configuration params for the bot
type BotConfig struct {
	HomeURL       string `toml:"HOME_URL"`
	HomeWsURL     string `toml:"HOME_WS_URL"`
	HomeAccountID string `toml:"HOME_ACCOUNT_ID"`
	AssetBase     string `toml:"ASSET_BASE"`
	AssetQuote    string `toml:"ASSET_QUOTE"`

	ExternalExchangeName string `toml:"EXTERNAL_EXCHANGE_NAME"`
	ExternalAPIKey       string `toml:"EXTERNAL_API_KEY"`
	ExternalAPISecret    string `toml:"EXTERNAL_API_SECRET"`
	ExternalAssetBase    string `toml:"EXTERNAL_ASSET_BASE"`
	ExternalAssetQuote   string `toml:"EXTERNAL_ASSET_QUOTE"`

	TickIntervalSeconds     int32 `toml:"TICK_INTERVAL_SECONDS"`
	MaxTickDelayMillis      int64 `toml:"MAX_TICK_DELAY_MILLIS"`
	MinCheckIntervalSeconds int32 `toml:"MIN_CHECK_INTERVAL_SECONDS"`
	SettlementDelaySeconds  int32 `toml:"SETTLEMENT_DELAY_SECONDS"`

	CenterPriceFeedType string `toml:"CENTER_PRICE_FEED_TYPE"`
	CenterPriceFeedURL  string `toml:"CENTER_PRICE_FEED_URL"`

	PostgresURL string `toml:"POSTGRES_URL"`

	AlertType   string `toml:"ALERT_TYPE"`
	AlertAPIKey string `toml:"ALERT_API_KEY"`
}

// String impl.
func (b BotConfig) String() string {
	return utils.StructString(b, 0, map[string]func(interface{}) interface{}{
		"EXTERNAL_API_KEY":    utils.Hide,
		"EXTERNAL_API_SECRET": utils.Hide,
		"ALERT_API_KEY":       utils.Hide,
		"POSTGRES_URL":        utils.Hide,
	})
}

// StrategyConfig contains the strategy parameters for one market pair
type StrategyConfig struct {
	MinSpreadPct          float64  `toml:"MIN_SPREAD_PCT"`
	DepthScalePct         float64  `toml:"DEPTH_SCALE_PCT"`
	MinBaseVolume         float64  `toml:"MIN_BASE_VOLUME"`
	DepthCount            int32    `toml:"DEPTH_COUNT"`
	PricePrecision        *int8    `toml:"PRICE_PRECISION"`
	VolumePrecision       *int8    `toml:"VOLUME_PRECISION"`
	ResetOnPriceChangePct *float64 `toml:"RESET_ON_PRICE_CHANGE_PCT"`
}

// String impl.
func (c StrategyConfig) String() string {
	return utils.StructString(c, 0, nil)
}

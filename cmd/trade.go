package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilsaraf/go-tools/multithreading"
	"github.com/openlyinc/pointy"
	"github.com/quantadex/crossmarket/api"
	"github.com/quantadex/crossmarket/model"
	"github.com/quantadex/crossmarket/plugins"
	"github.com/quantadex/crossmarket/support/logger"
	"github.com/quantadex/crossmarket/support/monitoring"
	"github.com/quantadex/crossmarket/support/utils"
	"github.com/quantadex/crossmarket/trader"
	"github.com/spf13/cobra"
)

const defaultPricePrecision int8 = 8
const defaultVolumePrecision int8 = 8

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Mirrors an external exchange's depth onto the home market",
}

func requiredFlag(flag string) {
	e := tradeCmd.MarkFlagRequired(flag)
	if e != nil {
		panic(e)
	}
}

func init() {
	// short-hand flags
	botConfigPath := tradeCmd.Flags().StringP("botConf", "c", "", "(required) trading bot's basic config file path")
	stratConfigPath := tradeCmd.Flags().StringP("stratConf", "f", "", "(required) strategy config file path")
	requiredFlag("botConf")
	requiredFlag("stratConf")

	tradeCmd.Run = func(ccmd *cobra.Command, args []string) {
		l := logger.MakeBasicLogger()

		var botConfig trader.BotConfig
		e := utils.ParseTomlConfig(*botConfigPath, &botConfig)
		utils.CheckConfigError(botConfig, e, *botConfigPath)
		var stratConfig trader.StrategyConfig
		e = utils.ParseTomlConfig(*stratConfigPath, &stratConfig)
		utils.CheckConfigError(stratConfig, e, *stratConfigPath)
		utils.LogConfig(botConfig)
		utils.LogConfig(stratConfig)

		worker, listener := makeStack(l, botConfig, stratConfig)
		worker.Start()
		if listener != nil {
			worker.Tomb().Go(func() error {
				return listener.Run(worker.Tomb())
			})
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		l.Info("shutdown signal received, stopping worker")
		e = worker.Stop()
		if e != nil {
			logger.Fatal(l, fmt.Errorf("error while stopping worker: %s", e))
		}
	}
}

func makeStack(l logger.Logger, botConfig trader.BotConfig, stratConfig trader.StrategyConfig) (*trader.Worker, *trader.MarketListener) {
	homePair := model.MakeTradingPair(model.ParseAsset(botConfig.AssetBase), model.ParseAsset(botConfig.AssetQuote))
	externalPair := model.MakeTradingPair(model.ParseAsset(botConfig.ExternalAssetBase), model.ParseAsset(botConfig.ExternalAssetQuote))

	homeMarket := plugins.MakeQuantaMarket(botConfig.HomeURL, botConfig.HomeAccountID, homePair)
	opsFeed := plugins.MakeHomeOpsFeed(botConfig.HomeURL)

	exchange, e := plugins.MakeCcxtExchange(botConfig.ExternalExchangeName, botConfig.ExternalAPIKey, botConfig.ExternalAPISecret)
	if e != nil {
		logger.Fatal(l, fmt.Errorf("could not make external exchange: %s", e))
	}

	var priceFeed api.PriceFeed
	if botConfig.CenterPriceFeedType != "" {
		priceFeed, e = plugins.MakePriceFeed(botConfig.CenterPriceFeedType, botConfig.CenterPriceFeedURL)
		if e != nil {
			logger.Fatal(l, fmt.Errorf("could not make center price feed: %s", e))
		}
	}

	var alert api.Alert
	if botConfig.AlertType != "" {
		alert, e = monitoring.MakeAlert(botConfig.AlertType, botConfig.AlertAPIKey)
		if e != nil {
			logger.Fatal(l, fmt.Errorf("could not make alert: %s", e))
		}
	}

	fillHandlers := []api.FillHandler{}
	if botConfig.PostgresURL != "" {
		db, e := plugins.ConnectInitializedDatabase(botConfig.PostgresURL)
		if e != nil {
			logger.Fatal(l, fmt.Errorf("could not connect to database: %s", e))
		}
		fillHandlers = append(fillHandlers, plugins.MakeFillDBWriter(db, homePair.String(), l))
	}

	if stratConfig.PricePrecision == nil {
		stratConfig.PricePrecision = pointy.Int8(defaultPricePrecision)
	}
	if stratConfig.VolumePrecision == nil {
		stratConfig.VolumePrecision = pointy.Int8(defaultVolumePrecision)
	}

	threadTracker := multithreading.MakeThreadTracker()
	counterFiller := plugins.MakeCounterFiller(
		externalPair,
		exchange,
		homeMarket,
		time.Duration(botConfig.SettlementDelaySeconds)*time.Second,
		*stratConfig.VolumePrecision,
		threadTracker,
		fillHandlers,
		l,
	)

	aggregator := plugins.MakeDepthAggregator(stratConfig.DepthScalePct)
	timeController := plugins.MakeIntervalTimeController(
		time.Duration(botConfig.TickIntervalSeconds)*time.Second,
		botConfig.MaxTickDelayMillis,
	)

	worker, e := trader.MakeWorker(
		homePair,
		externalPair,
		botConfig.HomeAccountID,
		homeMarket,
		exchange,
		opsFeed,
		priceFeed,
		counterFiller,
		aggregator,
		timeController,
		alert,
		stratConfig.MinSpreadPct,
		stratConfig.MinBaseVolume,
		stratConfig.DepthCount,
		*stratConfig.PricePrecision,
		*stratConfig.VolumePrecision,
		time.Duration(botConfig.MinCheckIntervalSeconds)*time.Second,
		stratConfig.ResetOnPriceChangePct,
		l,
	)
	if e != nil {
		logger.Fatal(l, fmt.Errorf("could not make worker: %s", e))
	}

	var listener *trader.MarketListener
	if botConfig.HomeWsURL != "" {
		listener = trader.MakeMarketListener(botConfig.HomeWsURL, homePair.String(), worker.Events(), l)
	}
	return worker, listener
}

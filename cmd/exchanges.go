package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// external exchanges reachable through the CCXT REST server that we have exercised
var supportedExchanges = []string{
	"binance",
	"bittrex",
	"kraken",
	"poloniex",
}

var exchangesCmd = &cobra.Command{
	Use:   "exchanges",
	Short: "Lists the external exchanges supported as reference markets",
	Run: func(ccmd *cobra.Command, args []string) {
		fmt.Printf("Supported external exchanges (via CCXT REST):\n")
		for _, name := range supportedExchanges {
			fmt.Printf("  %s\n", name)
		}
	},
}

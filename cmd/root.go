package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmdName = "crossmarket"

// RootCmd is the main command for this repo
var RootCmd = &cobra.Command{
	Use:   rootCmdName,
	Short: "Cross-market market-making bot for the Quanta DEX",
	Run: func(ccmd *cobra.Command, args []string) {
		fmt.Printf("%s is a cross-market market-making bot. It mirrors the depth of an external reference exchange onto the home market and hedges home fills with counter-orders on the reference exchange.\n", rootCmdName)
		fmt.Println()
		ccmd.Help()
	},
}

func init() {
	RootCmd.AddCommand(tradeCmd)
	RootCmd.AddCommand(exchangesCmd)
	RootCmd.AddCommand(versionCmd)
}

/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package main

/*****************************************************************************************************************/

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nyx-astro/startrack/internal/cli"
	"github.com/spf13/cobra"
)

/*****************************************************************************************************************/

var rootCommand = &cobra.Command{
	Use:   "startrack",
	Short: "startrack is a lost-in-space star identification engine.",
	Long:  "startrack recovers a camera's attitude from a list of centroided star observations, by indexing a star catalog on pair-wise angular separation, solving candidate correspondences with weighted TRIAD, and ranking them by Bayesian posterior confidence.",
}

/*****************************************************************************************************************/

func init() {
	rootCommand.AddCommand(cli.BuildCommand)
	rootCommand.AddCommand(cli.MatchCommand)
}

/*****************************************************************************************************************/

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM,
// so a long catalog build or batch match run can be interrupted cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

/*****************************************************************************************************************/

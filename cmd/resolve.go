package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <company name>",
	Short: "Resolve the LinkedIn profile URL of a single company",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r, err := buildResolver(ctx, flagOffline)
		if err != nil {
			return err
		}

		url, err := r.Resolve(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url) //nolint:errcheck
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

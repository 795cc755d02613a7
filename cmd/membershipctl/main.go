package main

import (
	"os"

	"course_platform/internal/pkg/config"
	"course_platform/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "membershipctl",
		Short: "会员订单运维工具",
		Long:  `Operational commands for the membership order engine: schema migrations, batch expiry of stale orders, ledger reports and test tokens.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig()
			return logger.Init(config.GlobalConfig.App.Env, false)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newExpireOrdersCommand(),
		newLedgerReportCommand(),
		newTokenCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

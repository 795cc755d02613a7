package main

import (
	"fmt"

	"course_platform/internal/domain/membership/repository"
	"course_platform/internal/domain/membership/service"
	"course_platform/internal/pkg/config"
	"course_platform/pkg/database"
	"course_platform/pkg/logger"
	"course_platform/pkg/metrics"

	"github.com/spf13/cobra"
)

func newExpireOrdersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-orders",
		Short: "Expire pending orders past the payment window",
		Long:  `Run one batch pass that marks every PENDING order older than the payment window as EXPIRED.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Named("membershipctl")
			db, err := database.InitDatabase(config.GlobalConfig.Database, false, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			expirer := service.NewExpirer(repository.NewOrderRepository(db), metrics.NewMetricsCollector(), log)
			n, err := expirer.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d orders\n", n)
			return nil
		},
	}
}

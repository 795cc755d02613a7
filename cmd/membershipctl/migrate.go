package main

import (
	"errors"
	"fmt"

	"course_platform/internal/pkg/config"
	"course_platform/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsPath string
	downSteps      int
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "file://migrations", "migration source url")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	}
	down := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runMigrateDown,
	}
	down.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to rollback")
	status := &cobra.Command{
		Use:   "status",
		Short: "Show current migration version",
		RunE:  runMigrateStatus,
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func newMigrator() (*migrate.Migrate, error) {
	m, err := migrate.New(migrationsPath, config.GlobalConfig.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	return m, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		// dirty 状态时回退到上一个干净版本后重试
		version, dirty, verr := m.Version()
		if verr != nil || !dirty {
			return fmt.Errorf("migrate up: %w", err)
		}
		logger.Log.Warn("database is dirty, forcing previous version", zap.Uint("version", version))
		if err := m.Force(int(version) - 1); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate up: %w", err)
		}
	}

	logger.Log.Info("migration successful")
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-downSteps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	logger.Log.Info("rollback successful", zap.Int("steps", downSteps))
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%v)\n", version, dirty)
	return nil
}

package cmd

import (
	"database/sql"

	"github.com/aitp-labs/aitp-server/app/migrations"
	"github.com/aitp-labs/aitp-server/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply the embedded schema migrations to the configured MySQL database.`,
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		logrus.WithError(err).Fatal("Failed to set migration dialect")
	}

	if err := goose.UpContext(cmd.Context(), db, "."); err != nil {
		logrus.WithError(err).Fatal("Failed to apply migrations")
	}
	logrus.Info("Migrations applied")
}

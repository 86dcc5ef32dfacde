package main

import (
	"context"
	"database/sql"
	"ecomap-score-service/internal/adapters/repositories"
	"ecomap-score-service/internal/config"
	"ecomap-score-service/internal/platform/db"
	"ecomap-score-service/internal/platform/logging"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Loaded during package initialization so flag defaults below see .env values.
var envLoaded = godotenv.Load() == nil

var (
	databaseURL string
	seedPath    string
	logger      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Manage the EcoMap challenge-area database",
	Long: `dbtool prepares the Postgres database used for curated challenge areas.
Run without a subcommand to create the schema and load the seed file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(databaseURL) == "" {
			return errors.New("DATABASE_URL (or --database-url) is required")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *sql.DB) error {
			if err := initSchema(conn); err != nil {
				return err
			}
			return seed(conn)
		})
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(initSchema)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert challenge areas from the seed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(seed)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored challenge areas",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *sql.DB) error {
			areas, err := repositories.NewPostgresChallengeRepository(conn).ListChallengeAreas(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range areas {
				c := a.Boundary().Centroid()
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-40s  [%.4f, %.4f]\n", a.ID, a.Location, c.Lat, c.Lng)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", config.Get("DATABASE_URL", ""), "Postgres connection URL")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed-path", config.Get("SEED_PATH", "data/seeds/challenge_areas.json"), "challenge area seed file")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	var err error
	logger, err = logging.New(config.Get("LOG_LEVEL", "info"), "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if !envLoaded {
		logger.Info("No .env file found (using environment variables)")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("dbtool failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func withDB(fn func(*sql.DB) error) error {
	conn, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func initSchema(conn *sql.DB) error {
	logger.Info("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	logger.Info("Schema ready.")
	return nil
}

func seed(conn *sql.DB) error {
	logger.Info("Seeding challenge areas...", zap.String("path", seedPath))
	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return err
	}
	logger.Info("Seeding complete.")
	return nil
}

package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/levibo0306/mentora/internal/config"
)

type options struct {
	dir     string
	envFile string
}

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "mentora-migrator").Logger()

	if err := rootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "migrator",
		Short:         "Apply and inspect database migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dir, "dir", "db/migrations", "Directory containing migration files")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "configs/.env", "Optional dotenv file read before the environment")

	root.AddCommand(
		dbCmd(opts, "up", "Apply all pending migrations", goose.Up),
		dbCmd(opts, "down", "Roll back the latest migration", goose.Down),
		dbCmd(opts, "status", "Print the status of every migration", goose.Status),
		dbCmd(opts, "version", "Print the current schema version", goose.Version),
		createCmd(opts),
	)
	return root
}

func dbCmd(opts *options, use, short string, run func(db *sql.DB, dir string, o ...goose.OptionsFunc) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := migrationDir(opts.dir)
			if err != nil {
				return err
			}
			db, err := openDB(opts.envFile)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("set goose dialect: %w", err)
			}
			if err := run(db, dir); err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			log.Info().Str("command", use).Str("migration_dir", dir).Msg("migration command finished")
			return nil
		},
	}
}

func createCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Scaffold a new SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := migrationDir(opts.dir)
			if err != nil {
				return err
			}
			goose.SetSequential(true)
			return goose.Create(nil, dir, args[0], "sql")
		},
	}
}

func migrationDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migration directory %q: %w", dir, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("migration directory %q: %w", abs, err)
	}
	return abs, nil
}

// openDB reads only the Postgres group so the API's other required settings stay optional.
func openDB(envFile string) (*sql.DB, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Debug().Err(err).Str("file", envFile).Msg("no dotenv file loaded")
	}

	var pg config.Postgres
	if err := env.ParseWithOptions(&pg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("invalid postgres configuration: %w", err)
	}
	pg.MaxConns = 0

	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s:%d: %w", pg.Host, pg.Port, err)
	}
	log.Info().Str("host", pg.Host).Str("database", pg.Database).Msg("connected to database")
	return db, nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/deliverydesk-backend/pkg/config"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/migrate"
)

const serviceName = "deliverydesk-migrate"

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "migrations directory for create and validate")
	flag.StringVar(&opts.name, "name", "", "migration name for -cmd=create")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", opts.cmd, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	// create and validate work on files only
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("-name is required")
		}
		paths, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(out, "created", p)
		}
		return nil
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations valid")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": opts.cmd, "driver": cfg.DB.Driver})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer client.Close()

	sqlDB, err := client.SQLDB()
	if err != nil {
		return err
	}
	return runOnline(ctx, logg, opts, cfg.DB.Driver, sqlDB, out)
}

func runOnline(ctx context.Context, logg *logger.Logger, opts options, driver string, sqlDB *sql.DB, out io.Writer) error {
	switch opts.cmd {
	case "up":
		applied, err := migrate.Up(ctx, driver, sqlDB)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "applied", applied), "migrations applied")
		fmt.Fprintf(out, "applied %d migration(s)\n", applied)
	case "down":
		if err := migrate.Down(ctx, driver, sqlDB); err != nil {
			return err
		}
		logg.Info(ctx, "rolled back one migration")
	case "status":
		statuses, err := migrate.Status(ctx, driver, sqlDB)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tFILE\tAPPLIED")
		for _, st := range statuses {
			applied := "pending"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", st.Source.Version, filepath.Base(st.Source.Path), applied)
		}
		return tw.Flush()
	case "version":
		if opts.version == "" {
			return errors.New("-version is required")
		}
		if err := migrate.MigrateToVersion(ctx, driver, sqlDB, opts.version); err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "version", opts.version), "migrated to version")
	default:
		return fmt.Errorf("unknown command %q", opts.cmd)
	}
	return nil
}

// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for the survey tool backend
// using the Cobra library. It defines the root command, the serve,
// migrate, maintenance, export and import subcommands, and the main
// entry point for execution.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yadem01/backend-survey-tool/buildvars"
	"github.com/yadem01/backend-survey-tool/internal/config"
	"github.com/yadem01/backend-survey-tool/internal/db"
	"github.com/yadem01/backend-survey-tool/internal/export"
	"github.com/yadem01/backend-survey-tool/internal/logging"
	"github.com/yadem01/backend-survey-tool/internal/model"
	"github.com/yadem01/backend-survey-tool/internal/upload"
	"github.com/yadem01/backend-survey-tool/internal/web"
)

var version = "dev" // this will be set by the linker

var (
	cfgFile string
	appCfg  config.Config
	// Resolved database target, after database.url parsing.
	dbType string
	dbDSN  string
)

// main is the entry point of the application.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

// newRootCmd creates and configures a new root cobra command. Running
// without a subcommand starts the HTTP server.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surveytool",
		Short: "Survey Tool is the backend for browser-based research surveys.",
		Long: `Survey Tool serves the HTTP API used by the survey frontend:
survey and element authoring, participant runs, response collection,
behavior tracking and image uploads. State lives in SQLite, PostgreSQL
or MySQL; schema migrations are embedded and applied on startup.

Running without a subcommand starts the server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			appCfg, err = config.LoadConfig(cmd, cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyFlagOverrides(cmd)

			logging.SetDebug(appCfg.Debug)
			db.SetDebug(appCfg.Debug)

			dbType = appCfg.Database.Type
			dbDSN = appCfg.Database.DSN
			if appCfg.Database.URL != "" {
				dbType, dbDSN, err = db.ParseDatabaseURL(appCfg.Database.URL)
				if err != nil {
					return fmt.Errorf("parse database url: %w", err)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.AddCommand(serveCmd)
	cmd.AddCommand(migrateCmd)
	cmd.AddCommand(maintenanceCmd)
	cmd.AddCommand(exportCmd)
	cmd.AddCommand(importCmd)

	cmd.Version = buildvars.VersionOrDefault(version)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./surveytool.yaml)")
	cmd.PersistentFlags().String("db-type", "", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "", "Database connection string (DSN)")
	cmd.PersistentFlags().String("db-url", "", "Database URL (overrides type and DSN)")
	cmd.PersistentFlags().String("addr", "", "HTTP listen address")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return cmd
}

// applyFlagOverrides lets explicitly set flags win over file and
// environment configuration.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("db-type") {
		appCfg.Database.Type, _ = flags.GetString("db-type")
	}
	if flags.Changed("db-dsn") {
		appCfg.Database.DSN, _ = flags.GetString("db-dsn")
	}
	if flags.Changed("db-url") {
		appCfg.Database.URL, _ = flags.GetString("db-url")
	}
	if flags.Changed("addr") {
		appCfg.Server.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("debug") {
		appCfg.Debug, _ = flags.GetBool("debug")
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	// Containerized databases can lag behind the app process; block until
	// the database answers before applying migrations.
	if err := db.WaitForDB(dbType, dbDSN, 30, 2*time.Second); err != nil {
		return err
	}
	if err := db.InitDB(dbType, dbDSN); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	logging.Infof("database ready (%s)", dbType)

	files, err := upload.New(appCfg.Uploads.Dir, appCfg.Uploads.MaxBytes)
	if err != nil {
		return err
	}

	engine := web.NewServer(web.ServerConfig{
		CORSOrigins: appCfg.Server.CORSOrigins,
	}, db.GetStore(), files)

	srv := &http.Server{
		Addr:              appCfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("listening on %s", appCfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		// InitDB runs all pending migrations.
		if err := db.InitDB(dbType, dbDSN); err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		logging.Infof("migrations applied (%s)", dbType)
		return nil
	},
}

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run database maintenance (vacuum, optimize)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.RunDBMaintenance(dbType, dbDSN); err != nil {
			return err
		}
		logging.Infof("maintenance completed (%s)", dbType)
		return nil
	},
}

var (
	exportOut      string
	exportSurveyID int64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a zstd-compressed JSON export of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.InitDB(dbType, dbDSN); err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		st := db.GetStore()

		out := os.Stdout
		if exportOut != "" && exportOut != "-" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			out = f
		}

		var err error
		if exportSurveyID > 0 {
			var d *model.ExportData
			d, err = export.BackupSurvey(st, exportSurveyID)
			if err == nil {
				err = export.WriteBackup(d, out)
			}
		} else {
			var d *model.ExportData
			d, err = export.Backup(st)
			if err == nil {
				err = export.WriteBackup(d, out)
			}
		}
		if err != nil {
			return err
		}
		if exportOut != "" && exportOut != "-" {
			logging.Infof("export written to %s", exportOut)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a zstd-compressed JSON export into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.InitDB(dbType, dbDSN); err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		if err := export.Restore(f, db.GetStore()); err != nil {
			return err
		}
		logging.Infof("import completed from %s", args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "Output file (- for stdout)")
	exportCmd.Flags().Int64Var(&exportSurveyID, "survey", 0, "Export only the given survey id")
}

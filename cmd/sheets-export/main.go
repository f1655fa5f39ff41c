// Command sheets-export mirrors one user's expenses to a Google spreadsheet.
// It is a one-shot job meant for cron: every run clears the target sheet and
// rewrites it from the database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"spendwise/internal/config"
	"spendwise/internal/core"
	"spendwise/internal/services"
	"spendwise/internal/sheets/google"
	"spendwise/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	userID := flag.Int64("user", 0, "profile ID whose expenses to export")
	startFlag := flag.String("start", "", "start date (yyyy-MM-dd, optional)")
	endFlag := flag.String("end", "", "end date (yyyy-MM-dd, optional)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall export timeout")
	flag.Parse()

	if *userID <= 0 {
		logger.Error("A positive -user flag is required")
		os.Exit(1)
	}

	var filter storage.ExpenseFilter
	var err error
	if *startFlag != "" {
		if filter.StartDate, err = core.ParseDate(*startFlag); err != nil {
			logger.Error("Invalid -start date", "value", *startFlag, "error", err)
			os.Exit(1)
		}
	}
	if *endFlag != "" {
		if filter.EndDate, err = core.ParseDate(*endFlag); err != nil {
			logger.Error("Invalid -end date", "value", *endFlag, "error", err)
			os.Exit(1)
		}
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateSheetsExport(); err != nil {
		logger.Error("Sheets export configuration failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := google.NewClient(ctx, google.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		CredentialsFile: cfg.GoogleCredentialsFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	expenseSvc := services.NewExpenseService(repo, nil)
	expenses, err := expenseSvc.List(ctx, *userID, filter)
	if err != nil {
		logger.Error("Failed to load expenses", "error", err, "user_id", *userID)
		os.Exit(1)
	}

	rows, err := client.ExportExpenses(ctx, expenses)
	if err != nil {
		logger.Error("Export failed", "error", err, "user_id", *userID)
		os.Exit(1)
	}

	logger.Info("Export complete",
		"user_id", *userID,
		"rows", rows,
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)
}

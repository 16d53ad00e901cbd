// Command reconcile is a terminal console for browsing marketplace and
// warehouse catalog rows, queueing them for export and watching the orders
// board.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/application/reconcile"
	"github.com/erp/reconciler/internal/infrastructure/apiclient"
	"github.com/erp/reconciler/internal/infrastructure/config"
	"github.com/erp/reconciler/internal/infrastructure/logger"
)

func main() {
	var (
		logFile   string
		exportDir string
	)
	flag.StringVar(&logFile, "log", "reconcile.log", "File the console logs to")
	flag.StringVar(&exportDir, "export-dir", ".", "Directory exported workbooks are written to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "json", Output: logFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.Client.BaseURL,
		Token:   cfg.Client.Token,
		Timeout: cfg.Client.Timeout,
	}, log.Named("apiclient"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if cfg.Client.Token == "" && cfg.Client.Username != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Client.Timeout)
		err := client.Login(ctx, cfg.Client.Username, cfg.Client.Password)
		cancel()
		if err != nil {
			log.Error("Login failed", zap.String("username", cfg.Client.Username), zap.Error(err))
			fmt.Fprintln(os.Stderr, "login failed:", err)
			os.Exit(1)
		}
	}

	m := newModel(
		reconcile.NewConnectionsSession(client, log.Named("connections")),
		reconcile.NewOrdersBoard(client, log.Named("orders")),
		options{exportDir: exportDir, timeout: cfg.Client.Timeout},
	)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

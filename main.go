package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"csmoney-watcher/config"
	"csmoney-watcher/notify"
	"csmoney-watcher/rates"
	"csmoney-watcher/scraper/csmoney"
	"csmoney-watcher/services"
	"csmoney-watcher/storage"
	"csmoney-watcher/utils"
)

func main() {
	watch := flag.Bool("watch", false, "keep running and scrape on the WATCH_CRON schedule")
	flag.Parse()

	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Config error: %v", err)
		os.Exit(1)
	}
	logger.SetDebug(cfg.Debug)

	logger.Info("=== cs.money listing watcher starting ===")
	logger.Info("Config — specs: %d | data dir: %s | browser client: %v",
		len(cfg.Specs), cfg.DataDir, cfg.UseBrowser)

	ledger, err := storage.NewFileLedger(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open ledger: %v", err)
		os.Exit(1)
	}
	rateStore, err := storage.NewFileRateStore(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open rate store: %v", err)
		os.Exit(1)
	}
	converter := rates.NewConverter(rateStore, rates.NewFixerClient(cfg.FixerAPIKey))

	timeout := time.Duration(cfg.FetchTimeoutSec) * time.Second
	var client csmoney.Client
	if cfg.UseBrowser {
		bc := csmoney.NewBrowserClient()
		defer bc.Close()
		client = bc
	} else {
		client = csmoney.NewHTTPClient(timeout)
	}

	watcher := services.NewWatcher(
		csmoney.NewFetcher(client, logger, timeout),
		services.NewNormalizer(converter),
		converter,
		ledger,
		notify.NewWebhookNotifier(cfg.WebhookURL),
		logger,
	)

	if !*watch {
		watcher.Run(context.Background(), cfg.Specs)
		return
	}

	logger.Info("Watch mode — schedule: %s", cfg.WatchCron)
	c := cron.New()
	if _, err := c.AddFunc(cfg.WatchCron, func() {
		watcher.Run(context.Background(), cfg.Specs)
	}); err != nil {
		logger.Error("Invalid WATCH_CRON %q: %v", cfg.WatchCron, err)
		os.Exit(1)
	}

	// First run immediately, then on schedule.
	watcher.Run(context.Background(), cfg.Specs)
	c.Run()
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"signalfeed/client"
	"signalfeed/config"
	"signalfeed/logging"
	"signalfeed/types"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	baseURL := flag.String("url", "", "Signal feed base URL (defaults to SIGNALFEED_URL)")
	schedule := flag.String("cron", "@every 30s", "Poll schedule")
	limit := flag.Int("limit", config.DefaultLimit, "Maximum signals per poll")
	category := flag.String("category", "", "Restrict polling to one category")
	featured := flag.Bool("featured", false, "Only fetch featured signals")
	logLevel := flag.String("log-level", config.GetEnvOrDefault("LOG_LEVEL", "info"), "Log level")
	flag.Parse()

	logging.Init(*logLevel)

	c := client.NewClient(*baseURL)
	opts := client.FetchOptions{
		Category: types.Category(*category),
		Limit:    *limit,
		Featured: *featured,
	}

	sched := cron.New()
	if _, err := sched.AddFunc(*schedule, func() { poll(c, opts) }); err != nil {
		logging.Logger.Fatal("invalid cron schedule", "schedule", *schedule, "err", err)
	}

	logging.Logger.Info("poller started", "schedule", *schedule, "category", opts.Category, "limit", opts.Limit)
	poll(c, opts)
	sched.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logging.Logger.Info("shutting down poller")
	<-sched.Stop().Done()
}

func poll(c *client.SignalClient, opts client.FetchOptions) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	feed, err := c.FetchSignals(ctx, opts)
	if err != nil {
		logging.Logger.Error("poll failed", "err", err)
		return
	}

	summary := client.Summarize(feed.All())
	logging.Logger.Info("poll complete",
		"count", summary.Total,
		"critical", summary.Critical,
		"featured", summary.Featured,
		"categories", feed.TotalCategories,
		"generated", feed.Timestamp.Format(time.RFC3339))

	cats := make([]types.Category, 0, len(summary.ByCategory))
	for cat := range summary.ByCategory {
		cats = append(cats, cat)
	}
	slices.Sort(cats)
	for _, cat := range cats {
		logging.Logger.Info("category", "name", cat, "signals", summary.ByCategory[cat])
	}
}

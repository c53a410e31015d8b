package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trade-publisher-go/internal/client"
	"trade-publisher-go/internal/config"
	"trade-publisher-go/internal/logger"

	"go.uber.org/zap"
)

// eaclient simulates an expert-advisor process: it publishes the account
// snapshot on a fixed interval, then polls for pending signals and
// acknowledges each one.
func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	apiClient := client.NewClient(&cfg.Client, cfg.API.Key, log)
	if _, err := apiClient.ServiceInfo(); err != nil {
		log.Fatal("Failed to connect to Trade Publisher API", zap.Error(err))
	}
	log.Info("Successfully connected to Trade Publisher API.")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	interval := time.Duration(cfg.Client.PublishInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Starting publish loop",
		zap.Int64("account", cfg.Client.Account),
		zap.Duration("interval", interval),
	)

	for {
		tick(apiClient, &cfg, log)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			log.Info("Client has been shut down.")
			return
		}
	}
}

// tick runs one publish-and-poll cycle.
func tick(apiClient client.ClientInterface, cfg *config.Config, log *zap.Logger) {
	now := time.Now().Unix()

	// In a real deployment the snapshot comes from the trading terminal;
	// here we publish a heartbeat snapshot with no open positions.
	resp, err := apiClient.Publish(&client.PublishRequest{
		Account:   cfg.Client.Account,
		Server:    cfg.Client.TradeServer,
		Timestamp: now,
	})
	if err != nil {
		log.Error("Publish failed", zap.Error(err))
		return
	}
	log.Debug("Publish acknowledged", zap.Int("trades_count", resp.TradesCount))

	signals, err := apiClient.GetSignals(cfg.Client.Account)
	if err != nil {
		log.Error("Signal poll failed", zap.Error(err))
		return
	}

	for _, sig := range signals.Signals {
		log.Info("Received signal",
			zap.Uint("signal_id", sig.ID),
			zap.String("signal_type", sig.SignalType),
			zap.Int64("ticket", sig.Ticket),
		)
		// Acting on the signal is the trading terminal's job; acknowledge it
		// so it is not delivered again.
		if err := apiClient.MarkProcessed(sig.ID); err != nil {
			log.Error("Failed to acknowledge signal", zap.Error(err), zap.Uint("signal_id", sig.ID))
		}
	}
}

package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/teampulse/dailybot/config"
	"github.com/teampulse/dailybot/engine"
	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/routes"
	"github.com/teampulse/dailybot/storage"
	"github.com/teampulse/dailybot/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	loc := cfg.Location()
	schedule := storage.NewScheduleStore(filepath.Join(cfg.DataDir, "schedule.json"))
	ledger := storage.NewLedger(filepath.Join(cfg.DataDir, "dailies.json"), loc)
	prompts := storage.NewPromptStore(filepath.Join(cfg.DataDir, "messages.json"))

	messenger := messaging.NewDiscord(cfg)
	eng := engine.New(cfg, schedule, ledger, prompts, messenger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Deactivate prompts that went stale while the process was down before
	// any trigger can fire.
	eng.Reconcile(ctx)
	eng.Start(ctx)
	eng.StartPruner(ctx, time.Hour, cfg.PromptRetention)

	r := routes.SetupRouter(eng, schedule, messenger)

	utils.Sugar.Infof("starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(ctx, ":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
	}
	eng.Stop()
}

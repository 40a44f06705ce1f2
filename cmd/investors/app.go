package main

import (
	"fmt"
	"investor-lab/contract"
	"investor-lab/internal"
	"investor-lab/repositories"
	"investor-lab/services"
	"investor-lab/storage"
	"log/slog"

	"github.com/mama165/sdk-go/logs"
)

// app is everything a command needs, opened from the environment.
type app struct {
	config internal.Config
	log    *slog.Logger
	slot   contract.Slot
	store  *services.InvestorService
}

func openApp() (*app, error) {
	config, err := internal.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	locale, err := config.Locale()
	if err != nil {
		return nil, err
	}

	slot, err := storage.Open(config.Backend(), config.SlotPath, log)
	if err != nil {
		return nil, fmt.Errorf("opening %s slot: %w", config.SlotBackend, err)
	}

	repository := repositories.NewInvestorRepository(slot, log)
	store := services.NewInvestorService(log, repository, locale, nil)
	return &app{config: config, log: log, slot: slot, store: store}, nil
}

func (a *app) Close() {
	if err := a.slot.Close(); err != nil {
		a.log.Error("Closing slot failed", "error", err)
	}
}

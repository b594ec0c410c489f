package main

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/fraperfra/TELEMARKETING/internal/config"
	"github.com/fraperfra/TELEMARKETING/internal/db"
	"github.com/fraperfra/TELEMARKETING/internal/repository"
	"github.com/fraperfra/TELEMARKETING/internal/scheduling"
)

// app bundles the database, repositories and scheduler every command needs.
type app struct {
	db           *gorm.DB
	availability *repository.GormAvailabilityRepository
	appointments *repository.GormAppointmentRepository
	contacts     *repository.GormContactRepository
	scheduler    *scheduling.Scheduler
}

func openApp(cfg *config.Config) (*app, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}

	gormDB, err := db.NewGormDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	opts, err := scheduling.OptionsFromConfig(cfg.Scheduler)
	if err != nil {
		return nil, fmt.Errorf("scheduler config: %w", err)
	}
	opts.Logger = slog.Default()

	a := &app{
		db:           gormDB,
		availability: repository.NewGormAvailabilityRepository(gormDB),
		appointments: repository.NewGormAppointmentRepository(gormDB),
		contacts:     repository.NewGormContactRepository(gormDB),
	}
	a.scheduler = scheduling.New(a.availability, a.appointments, a.contacts, opts)
	return a, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

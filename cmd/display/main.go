package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/api"
	"github.com/masjidtech/minaret/internal/clock"
	"github.com/masjidtech/minaret/internal/config"
	"github.com/masjidtech/minaret/internal/content"
	"github.com/masjidtech/minaret/internal/db"
	"github.com/masjidtech/minaret/internal/engine"
	"github.com/masjidtech/minaret/internal/prayer"
	"github.com/masjidtech/minaret/internal/screen"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := db.Open(cfg.StorePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.StorePath).Msg("failed to open store")
	}
	defer store.Close()

	reg := prayer.NewRegistry()
	basis := clock.NewBasis(clock.Real{})

	days := loadTimetable(cfg, store)
	applyToday(days, basis, reg)

	var surface engine.Surface
	if cfg.MQTTBroker != "" {
		mqttSurface, err := screen.NewMQTTSurface(cfg.MQTTBroker, "minaret-display", cfg.ScreenID)
		if err != nil {
			log.Fatal().Err(err).Str("broker", cfg.MQTTBroker).Msg("failed to connect to MQTT broker")
		}
		defer mqttSurface.Close()
		surface = mqttSurface
	} else {
		log.Warn().Msg("MQTT_BROKER not set, rendering to in-memory surface")
		surface = screen.NewMemorySurface()
	}

	source := content.NewSource(cfg.RulesURL)
	director := engine.NewDirector(basis, reg, surface, engine.WallScheduler{}, source)
	refresher := content.NewRefresher(source, director, store, cfg.RefreshInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go refresher.Run(ctx)

	router := api.NewRouter(api.Deps{
		Director:  director,
		Registry:  reg,
		Basis:     basis,
		Refresher: refresher,
		JWTSecret: cfg.JWTSecret,
	})
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("control API listening")
		if err := router.Run(cfg.ServerAddress); err != nil {
			log.Fatal().Err(err).Msg("control API server error")
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastDate := basis.Today()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case <-ticker.C:
			if today := basis.Today(); today.Day() != lastDate.Day() || today.Month() != lastDate.Month() {
				lastDate = today
				applyToday(days, basis, reg)
			}
			director.Tick()
		}
	}
}

// loadTimetable prefers the CSV on disk, persisting it for offline starts;
// if the file is missing it falls back to the stored copy.
func loadTimetable(cfg *config.Config, store *db.Store) []prayer.TimetableDay {
	f, err := os.Open(cfg.TimetablePath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.TimetablePath).Msg("timetable file unavailable, loading stored copy")
		days, err := store.LoadTimetable()
		if err != nil {
			log.Error().Err(err).Msg("no timetable available, prayer references default to midnight")
			return nil
		}
		return days
	}
	defer f.Close()

	days, err := prayer.LoadTimetable(f)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.TimetablePath).Msg("failed to parse timetable")
	}
	for _, v := range prayer.ValidateTimetable(days) {
		log.Warn().Str("violation", v.String()).Msg("timetable drift check failed")
	}
	if err := store.ReplaceTimetable(days); err != nil {
		log.Error().Err(err).Msg("failed to persist timetable")
	}
	return days
}

func applyToday(days []prayer.TimetableDay, basis *clock.Basis, reg *prayer.Registry) {
	today := basis.Today()
	day, ok := prayer.DayFor(days, today.Month(), today.Day())
	if !ok {
		log.Error().
			Str("month", today.Month().String()).
			Int("date", today.Day()).
			Msg("no timetable row for today")
		return
	}
	day.Apply(reg)
	log.Info().Str("month", today.Month().String()).Int("date", today.Day()).Msg("prayer times loaded")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	lotto "github.com/Ashenafi-pixel/gamecrafter-lotto"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/config"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/metrics"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/server"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/settlement"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/sim"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/treasury"
)

func main() {
	// Load .env so DATABASE_URL is set: cwd .env or project root .env/.env.local
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../.env.local")
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logrus.NewEntry(cfg.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archive, err := openArchive(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("open draw archive")
	}
	m := metrics.New()
	rng := sim.NewRand(cfg.Seed)
	engine, err := settlement.New(cfg.Rules, treasury.New(log),
		settlement.WithLogger(log),
		settlement.WithMetrics(m),
		settlement.WithArchive(archive),
		settlement.WithSource(sim.DrawSource(rng)),
	)
	if err != nil {
		log.WithError(err).Fatal("create engine")
	}
	world, err := sim.NewWorld(engine, cfg.Sim(), rng, log)
	if err != nil {
		log.WithError(err).Fatal("create world")
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := scheduler.AddFunc(cfg.DrawSchedule, func() {
		if _, err := world.Step(ctx); err != nil {
			log.WithError(err).Error("simulation step failed")
		}
	}); err != nil {
		log.WithError(err).Fatal("schedule draws")
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.WithFields(logrus.Fields{"schedule": cfg.DrawSchedule, "run_id": engine.RunID()}).Info("draws scheduled")

	srv := server.New(engine, m, log, server.WithHistory(archive))
	if err := srv.Run(ctx, ":"+strconv.Itoa(cfg.Port)); err != nil {
		log.WithError(err).Fatal("serve")
	}
}

// drawArchive stores finalized draws and reads runs back for the API.
type drawArchive interface {
	round.Archive
	round.History
}

// openArchive picks Postgres when DATABASE_URL is set and the JSON file otherwise.
func openArchive(ctx context.Context, cfg *config.Config) (drawArchive, error) {
	db, err := lotto.GetDB()
	if err != nil {
		return nil, err
	}
	if db == nil {
		return round.NewResultsStore(cfg.DataDir), nil
	}
	store := round.NewSQLStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/config"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/report"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/settlement"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/sim"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/treasury"
)

func main() {
	app := cli.NewApp()
	app.Name = "simulate"
	app.Usage = "run a closed lottery simulation and print the books"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "draws", Value: 20, Usage: "number of time steps (one draw each)"},
		cli.IntFlag{Name: "outlets", Usage: "override LOTTO_OUTLETS"},
		cli.IntFlag{Name: "players", Usage: "override LOTTO_PLAYERS_PER_STRATEGY"},
		cli.Uint64Flag{Name: "seed", Usage: "override LOTTO_SEED"},
		cli.BoolFlag{Name: "archive", Usage: "append every draw to the JSON archive in LOTTO_DATA_DIR"},
		cli.BoolFlag{Name: "quiet", Usage: "skip the per-draw reports"},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.IsSet("outlets") {
		cfg.Outlets = c.Int("outlets")
	}
	if c.IsSet("players") {
		cfg.PlayersPerStrategy = c.Int("players")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logrus.NewEntry(cfg.Logger())

	rng := sim.NewRand(cfg.Seed)
	opts := []settlement.Option{
		settlement.WithLogger(log),
		settlement.WithSource(sim.DrawSource(rng)),
	}
	if c.Bool("archive") {
		opts = append(opts, settlement.WithArchive(round.NewResultsStore(cfg.DataDir)))
	}
	engine, err := settlement.New(cfg.Rules, treasury.New(log), opts...)
	if err != nil {
		return err
	}
	world, err := sim.NewWorld(engine, cfg.Sim(), rng, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := world.Run(ctx, c.Int("draws")); err != nil {
		return err
	}

	out := os.Stdout
	if !c.Bool("quiet") {
		if err := report.WriteDraws(out, engine.Draws()); err != nil {
			return err
		}
	}
	if err := report.WriteLedger(out, report.LedgerOf(engine)); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return report.WriteMillionaires(out, world.Millionaires())
}

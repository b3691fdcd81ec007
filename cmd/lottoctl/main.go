package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/platform"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/report"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/ticket"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lottoctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lottoctl"
	app.Usage = "query a running lottery server"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "server",
			Value:  "http://localhost:8081",
			EnvVar: "LOTTO_SERVER_URL",
			Usage:  "reporting API base URL",
		},
		cli.DurationFlag{Name: "timeout", Value: 10 * time.Second},
	}
	app.Commands = []cli.Command{
		{
			Name:  "health",
			Usage: "check the server is up",
			Action: func(c *cli.Context) error {
				ctx, cancel, client := dial(c)
				defer cancel()
				if err := client.Health(ctx); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, "ok")
				return nil
			},
		},
		{
			Name:  "draws",
			Usage: "print every finalized draw",
			Action: func(c *cli.Context) error {
				ctx, cancel, client := dial(c)
				defer cancel()
				draws, err := client.Draws(ctx)
				if err != nil {
					return err
				}
				return report.WriteDraws(c.App.Writer, draws)
			},
		},
		{
			Name:      "draw",
			Usage:     "print one draw",
			ArgsUsage: "<number>",
			Action: func(c *cli.Context) error {
				n, err := strconv.Atoi(c.Args().First())
				if err != nil {
					return fmt.Errorf("draw number: %w", err)
				}
				ctx, cancel, client := dial(c)
				defer cancel()
				d, err := client.Draw(ctx, n)
				if err != nil {
					return err
				}
				return report.WriteDraw(c.App.Writer, d)
			},
		},
		{
			Name:      "run",
			Usage:     "print the archived draws of a run",
			ArgsUsage: "<run-id>",
			Action: func(c *cli.Context) error {
				runID := c.Args().First()
				if runID == "" {
					return fmt.Errorf("run id is required")
				}
				ctx, cancel, client := dial(c)
				defer cancel()
				draws, err := client.Run(ctx, runID)
				if err != nil {
					return err
				}
				return report.WriteDraws(c.App.Writer, draws)
			},
		},
		{
			Name:      "ticket",
			Usage:     "check a ticket by its identity",
			ArgsUsage: "<ticket-id>",
			Action: func(c *cli.Context) error {
				id, err := ticket.ParseID(c.Args().First())
				if err != nil {
					return err
				}
				ctx, cancel, client := dial(c)
				defer cancel()
				s, err := client.Ticket(ctx, id.String())
				if err != nil {
					return err
				}
				return report.WriteTicket(c.App.Writer, s)
			},
		},
		{
			Name:  "ledger",
			Usage: "print operator and treasury balances",
			Action: func(c *cli.Context) error {
				ctx, cancel, client := dial(c)
				defer cancel()
				l, err := client.Ledger(ctx)
				if err != nil {
					return err
				}
				return report.WriteLedger(c.App.Writer, l)
			},
		},
	}
	return app
}

func dial(c *cli.Context) (context.Context, context.CancelFunc, *platform.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), c.GlobalDuration("timeout"))
	return ctx, cancel, platform.NewClient(c.GlobalString("server"))
}

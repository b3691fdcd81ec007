package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	lotto "github.com/Ashenafi-pixel/gamecrafter-lotto"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
)

func main() {
	dataDir := flag.String("data-dir", "data", "Directory holding draw_results.json")
	runID := flag.String("run", "", "Only import draws of this run ID")
	flag.Parse()

	_ = godotenv.Load(".env")
	if err := run(context.Background(), *dataDir, *runID); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dataDir, runID string) error {
	db, err := lotto.GetDB()
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if db == nil {
		return fmt.Errorf("DATABASE_URL is not set; cannot connect to DB")
	}
	results, err := round.NewResultsStore(dataDir).List()
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	n, err := importDraws(ctx, round.NewSQLStore(db), results, runID)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d draws from %s\n", n, dataDir)
	return nil
}

// sink is the part of round.SQLStore the importer writes to.
type sink interface {
	EnsureSchema(ctx context.Context) error
	round.Archive
}

func importDraws(ctx context.Context, dst sink, results []*round.Result, runID string) (int, error) {
	if err := dst.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("ensure schema: %w", err)
	}
	n := 0
	for _, r := range results {
		if runID != "" && r.RunID != runID {
			continue
		}
		if err := dst.Append(ctx, r); err != nil {
			return n, fmt.Errorf("draw %d of run %s: %w", r.Number, r.RunID, err)
		}
		n++
	}
	return n, nil
}

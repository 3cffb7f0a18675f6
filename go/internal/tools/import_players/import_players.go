package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/mcdev12/pickswap/go/internal/dbconfig"
)

// upsertPlayer keeps ownership columns untouched on re-import
const upsertPlayer = `
INSERT INTO players (
  id, external_id, name, team, position, headshot_url, jersey_number, bio
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (external_id) DO UPDATE SET
  name = EXCLUDED.name,
  team = EXCLUDED.team,
  position = EXCLUDED.position,
  headshot_url = EXCLUDED.headshot_url,
  jersey_number = EXCLUDED.jersey_number,
  bio = EXCLUDED.bio,
  updated_at = now()`

const batchSize = 500

func main() {
	path := flag.String("csv", "engine_data/Player Bios/Skaters/skater_bios.csv", "path to the skater bios CSV")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	// 1) Parse the CSV
	f, err := os.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open csv: %v\n", err)
		os.Exit(1)
	}
	parsed, err := parseCSV(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse csv: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Found %d players in CSV\n", len(parsed.Rows)+parsed.Skipped)

	// 2) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert in batches
	imported, skipped := 0, parsed.Skipped
	for start := 0; start < len(parsed.Rows); start += batchSize {
		end := min(start+batchSize, len(parsed.Rows))
		ok, failed := upsertBatch(ctx, pool, parsed.Rows[start:end])
		imported += ok
		skipped += failed
		fmt.Printf("Imported %d players...\n", imported)
	}

	fmt.Printf("Import complete: imported=%d skipped=%d\n", imported, skipped)
}

func upsertBatch(ctx context.Context, pool *pgxpool.Pool, rows []Row) (ok, failed int) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		bio, err := r.BioJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "encode bio for %s: %v\n", r.ExternalID, err)
			failed++
			continue
		}
		batch.Queue(upsertPlayer,
			uuid.New(), r.ExternalID, r.Name, r.Team, r.Position, r.HeadshotURL, r.JerseyNumber, string(bio),
		)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			fmt.Fprintf(os.Stderr, "upsert player: %v\n", err)
			failed++
			continue
		}
		ok++
	}
	return ok, failed
}

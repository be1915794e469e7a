// Command setup applies the database migrations. Run it once before starting
// the app, and again after every deploy that ships new migrations.
package main

import (
	"database/sql"
	"flag"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mkrelic/casevault/internal/config"
	"github.com/mkrelic/casevault/migrations"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration instead of migrating up")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("pgx", cfg.GetDBConnString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}

	if *down {
		if err := goose.Down(db, "."); err != nil {
			log.Fatalf("Migration rollback failed: %v", err)
		}
		log.Println("Migration rollback complete")
		return
	}

	if err := goose.Up(db, "."); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}
	log.Println("Migrations complete")
}

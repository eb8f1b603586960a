package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"grocigo/pkg/config"
	"grocigo/pkg/database"
	"grocigo/pkg/migrate"

	"github.com/joho/godotenv"
)

func main() {
	cmd := flag.String("cmd", "up", "goose command: up, down, status or version")
	version := flag.String("version", "", "migrate up or down to this version instead")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fail("config", err)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		fail("config", fmt.Errorf("migrations target postgres, got driver %q", cfg.DB.Driver))
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		fail("database", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		fail("database", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if *version != "" {
		err = migrate.MigrateToVersion(ctx, sqlDB, *version)
	} else {
		err = migrate.Run(ctx, sqlDB, *cmd)
	}
	if err != nil {
		sqlDB.Close()
		fail("migrate", err)
	}
	fmt.Println("migrations done")
}

func fail(stage string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", stage, err)
	os.Exit(1)
}

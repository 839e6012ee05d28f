// cmd/migrate/main.go
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/listing-intake/internal/config"
	"github.com/javajoker/listing-intake/internal/database"
	"github.com/javajoker/listing-intake/internal/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: migrate COMMAND\n\nCommands:\n  up\n  down\n  status")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	if err := database.Migrate(db, flag.Arg(0)); err != nil {
		logrus.Fatal(err)
	}
}

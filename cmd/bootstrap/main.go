// Command bootstrap provisions the superadmin identity from config. It
// is a one-shot operational tool: run it once per deployment, re-run it
// only after reconciling a partial failure by hand.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"punchease/internal/bootstrap"
	"punchease/internal/config"
	"punchease/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.NewStorage(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.DB.Close()

	identity := bootstrap.Identity{
		Email:     cfg.Superadmin.Email,
		Password:  cfg.Superadmin.Password,
		FirstName: cfg.Superadmin.FirstName,
		LastName:  cfg.Superadmin.LastName,
	}

	res, err := bootstrap.Provision(db, identity, cfg.Auth.BcryptCost)
	if err != nil {
		// No rollback happens on a partial failure; the message names the
		// step so the operator can reconcile manually.
		json.NewEncoder(os.Stderr).Encode(map[string]string{"error": err.Error()})
		os.Exit(1)
	}

	json.NewEncoder(os.Stdout).Encode(res)
}

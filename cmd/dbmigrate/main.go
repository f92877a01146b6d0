package main

import (
	"flag"
	"fmt"
	"log"

	"tg-groupwarden/internal/config"
	"tg-groupwarden/internal/models"
	"tg-groupwarden/internal/service"
	"tg-groupwarden/internal/storage"

	"gorm.io/gorm"
)

var tables = []struct {
	name  string
	model interface{}
}{
	{"group configs", &models.GroupConfig{}},
	{"restrictions", &models.Restriction{}},
	{"warnings", &models.Warning{}},
	{"filters", &models.Filter{}},
	{"locks", &models.Lock{}},
	{"federations", &models.Federation{}},
	{"federation bans", &models.FederationBan{}},
	{"disabled commands", &models.DisabledCommand{}},
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	action := flag.String("action", "migrate", "Action to perform (migrate, reset, status)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.Database.Enabled {
		log.Fatalf("Database is not enabled in configuration")
	}

	if err := storage.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	db := storage.GetDB()
	if db == nil {
		log.Fatalf("Failed to get database connection")
	}

	switch *action {
	case "migrate":
		if _, err := service.NewRepositories(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "reset":
		if err := resetDatabase(db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Database reset completed successfully")
	case "status":
		if err := checkStatus(db); err != nil {
			log.Fatalf("Status check failed: %v", err)
		}
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// resetDatabase drops all tables and recreates them
func resetDatabase(db *gorm.DB) error {
	fmt.Print("WARNING: This will delete all data! Are you sure? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		return fmt.Errorf("operation cancelled by user")
	}

	for _, t := range tables {
		if err := db.Migrator().DropTable(t.model); err != nil {
			return fmt.Errorf("failed to drop %s table: %w", t.name, err)
		}
	}

	_, err := service.NewRepositories(db)
	return err
}

// checkStatus reports which tables exist and how many rows they hold
func checkStatus(db *gorm.DB) error {
	fmt.Println("Checking database status...")

	for _, t := range tables {
		if !db.Migrator().HasTable(t.model) {
			fmt.Printf("missing: %s\n", t.name)
			continue
		}
		var count int64
		db.Model(t.model).Count(&count)
		fmt.Printf("ok: %s (%d rows)\n", t.name, count)
	}
	return nil
}

// Command main runs the database seeder for Toolgate.
package main

import (
	"flag"
	"log"

	"toolgate/internal/config"
	"toolgate/internal/database"
	"toolgate/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numRequests := flag.Int("requests", 60, "Number of tool requests to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Seed(seed.Options{
		NumUsers:    *numUsers,
		NumRequests: *numRequests,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done. All seeded accounts use the password:", seed.DemoPassword)
	log.Println("Demo accounts: admin@toolgate.local / user@toolgate.local")
}

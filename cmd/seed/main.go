// Command main runs the database seeder for Glory Harbor.
package main

import (
	"flag"
	"log"

	"gloryharbor/internal/config"
	"gloryharbor/internal/database"
	"gloryharbor/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 30, "Number of users to create")
	numSermons := flag.Int("sermons", 40, "Number of sermons to create")
	numContacts := flag.Int("contacts", 15, "Number of contact submissions to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d sermons, %d contacts, clean=%v\n",
		*numUsers, *numSermons, *numContacts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *numUsers,
		NumSermons:  *numSermons,
		NumContacts: *numContacts,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✅ Seeding complete")
}

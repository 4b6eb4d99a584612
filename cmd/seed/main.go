// Command main runs the database seeder for Campfire.
package main

import (
	"flag"
	"log"

	"campfire/internal/config"
	"campfire/internal/database"
	"campfire/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numCamps := flag.Int("camps", 10, "Number of users that get a camp profile")
	numPosts := flag.Int("posts", 100, "Number of blog posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	rngSeed := flag.Int64("seed", 0, "Random seed (0 = random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d users, %d camps, %d posts, clean=%v\n", *numUsers, *numCamps, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumCamps:    *numCamps,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		Seed:        *rngSeed,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ Done: %d users, %d camps, %d follows, %d posts", summary.Users, summary.Camps, summary.Follows, summary.Posts)
	log.Printf("📧 All seeded users have the password: %s", seed.DemoPassword)
}

// Package seed populates a database with demo data for development.
package seed

import (
	"fmt"
	"log"

	"campfire/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "Campfire#2024!"

// Options configure a seeding run.
type Options struct {
	NumUsers    int
	NumCamps    int
	NumPosts    int
	ShouldClean bool
	// Seed makes runs reproducible; 0 means random.
	Seed int64
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
}

// Summary reports what a run created.
type Summary struct {
	Users   int
	Camps   int
	Follows int
	Posts   int
}

// Seed populates the database. The first user is an administrator, and the
// first NumCamps users each own a camp followed by a slice of the others.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	if opts.NumCamps > opts.NumUsers {
		opts.NumCamps = opts.NumUsers
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	f := NewFactory(db, opts.Seed, string(hash))
	summary := &Summary{}

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return nil, err
	}
	summary.Users = len(users)
	if len(users) > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", users[0].ID).Update("is_admin", true).Error; err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		users[0].IsAdmin = true
	}
	log.Printf("✓ %d users created", summary.Users)

	for i := 0; i < opts.NumCamps; i++ {
		camp, err := f.CreateCamp(&users[i])
		if err != nil {
			return nil, err
		}
		summary.Camps++

		// Every (i+2)th user follows camp i, so follower counts differ between camps.
		var followers []models.User
		for j := range users {
			if j%(i+2) == 0 {
				followers = append(followers, users[j])
			}
		}
		n, err := f.Follow(camp, followers)
		if err != nil {
			return nil, err
		}
		summary.Follows += n
	}
	log.Printf("✓ %d camps with %d follows created", summary.Camps, summary.Follows)

	posts, err := f.CreatePosts(opts.NumPosts)
	if err != nil {
		return nil, err
	}
	summary.Posts = len(posts)
	log.Printf("✓ %d posts created", summary.Posts)

	return summary, nil
}

// ClearAll deletes every seeded table, children first.
func ClearAll(db *gorm.DB) error {
	tables := []interface{}{
		&models.CampProfileFollower{},
		&models.BannedUser{},
		&models.CampProfile{},
		&models.Post{},
		&models.User{},
	}
	for _, t := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(t).Error; err != nil {
			return fmt.Errorf("clear %T: %w", t, err)
		}
	}
	return nil
}

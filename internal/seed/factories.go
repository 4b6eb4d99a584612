package seed

import (
	"fmt"
	"strings"
	"time"

	"campfire/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds demo entities and persists them to the database.
type Factory struct {
	db       *gorm.DB
	faker    *gofakeit.Faker
	password string
	maxDays  int
}

// NewFactory returns a Factory. A zero seed picks a random one; passwordHash is
// stored on every user it creates.
func NewFactory(db *gorm.DB, seed int64, passwordHash string) *Factory {
	return &Factory{
		db:       db,
		faker:    gofakeit.New(seed),
		password: passwordHash,
		maxDays:  400,
	}
}

var genders = []string{models.GenderUnspecified, models.GenderMale, models.GenderFemale, models.GenderOther}

// BuildUser constructs an unsaved user. n keeps usernames and emails unique within a run.
func (f *Factory) BuildUser(n int) *models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()

	base := strings.ToLower(first + "." + last)
	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\'' {
			return -1
		}
		return r
	}, base)
	username := fmt.Sprintf("%s%d", base, n)
	if len(username) > 30 {
		username = fmt.Sprintf("%s%d", base[:30-len(fmt.Sprint(n))], n)
	}
	for len(username) < 6 {
		username += "_"
	}

	return &models.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@%s", username, f.faker.DomainName()),
		Password:  f.password,
		FirstName: first,
		LastName:  last,
		Gender:    genders[f.faker.Number(0, len(genders)-1)],
		Image:     fmt.Sprintf("https://picsum.photos/seed/%s/256/256", f.faker.UUID()),
	}
}

// CreateUsers persists count users in one batch.
func (f *Factory) CreateUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, *f.BuildUser(i + 1))
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := f.db.Omit("FollowedCamps").CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

// CreateCamp persists a camp profile for owner.
func (f *Factory) CreateCamp(owner *models.User) (*models.CampProfile, error) {
	camp := &models.CampProfile{
		OwnerID:     owner.ID,
		Name:        strings.TrimSpace(f.faker.Adjective() + " " + f.faker.Noun() + " Camp"),
		Description: f.faker.Paragraph(1, 2, 8, " "),
	}
	if len(camp.Name) > 120 {
		camp.Name = camp.Name[:120]
	}
	if err := f.db.Omit("Owner", "Followers").Create(camp).Error; err != nil {
		return nil, fmt.Errorf("create camp for %s: %w", owner.Username, err)
	}
	return camp, nil
}

// Follow records that each follower follows camp, skipping the camp's owner.
func (f *Factory) Follow(camp *models.CampProfile, followers []models.User) (int, error) {
	rows := make([]models.CampProfileFollower, 0, len(followers))
	for _, u := range followers {
		if u.ID == camp.OwnerID {
			continue
		}
		rows = append(rows, models.CampProfileFollower{CampProfileID: camp.ID, UserID: u.ID})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := f.db.Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("follow camp %d: %w", camp.ID, err)
	}
	return len(rows), nil
}

// BuildPost constructs an unsaved post with timestamps spread over the past year
// so every admin date filter has something to match.
func (f *Factory) BuildPost() *models.Post {
	created := time.Now().Add(-time.Duration(f.faker.Number(0, f.maxDays*24)) * time.Hour)
	updated := created.Add(time.Duration(f.faker.Number(0, 72)) * time.Hour)
	if updated.After(time.Now()) {
		updated = time.Now()
	}

	title := f.faker.Sentence(6)
	if len(title) > 120 {
		title = title[:120]
	}
	return &models.Post{
		Title:     title,
		Content:   f.faker.Paragraph(2, 4, 12, "\n\n"),
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// CreatePosts persists count posts in one batch.
func (f *Factory) CreatePosts(count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, *f.BuildPost())
	}
	if len(posts) == 0 {
		return posts, nil
	}
	if err := f.db.CreateInBatches(&posts, 100).Error; err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

package seed

import (
	"fmt"
	"log"

	"plume/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	NumComments int
	NumFollows  int
	MaxDays     int
	SkipBcrypt  bool
	ShouldClean bool
}

// Seed populates the database with test data: users, groups, posts spread
// over the recent past, comments, and a follow mesh.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database: %d users, %d groups, %d posts...", opts.NumUsers, opts.NumGroups, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear existing data: %w", err)
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	groups := make([]*models.Group, 0, opts.NumGroups)
	for i := 0; i < opts.NumGroups; i++ {
		group, err := f.CreateGroup()
		if err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		groups = append(groups, group)
	}

	if len(users) == 0 {
		log.Println("Seeding done: no users requested, skipping posts")
		return nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rnd.Intn(len(users))]
		post, err := f.CreatePost(author, func(p *models.Post) {
			// roughly two thirds of posts belong to a group
			if len(groups) > 0 && f.rnd.Intn(3) != 0 {
				id := groups[f.rnd.Intn(len(groups))].ID
				p.GroupID = &id
			}
		})
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}

	for i := 0; i < opts.NumComments && len(posts) > 0; i++ {
		post := posts[f.rnd.Intn(len(posts))]
		author := users[f.rnd.Intn(len(users))]
		if _, err := f.CreateComment(post, author); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
	}

	for i := 0; i < opts.NumFollows && len(users) > 1; i++ {
		user := users[f.rnd.Intn(len(users))]
		author := users[f.rnd.Intn(len(users))]
		if err := f.CreateFollow(user, author); err != nil {
			return fmt.Errorf("create follow: %w", err)
		}
	}

	log.Printf("Seeding done: %d users, %d groups, %d posts", len(users), len(groups), len(posts))
	return nil
}

// clearData removes all seeded rows, children first so the statements also
// work on databases that do enforce the declared constraints.
func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

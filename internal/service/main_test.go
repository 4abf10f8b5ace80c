package service

import (
	"testing"
	"time"

	"plume/internal/database"
	"plume/internal/models"
	"plume/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPageSize = 10

// testEnv bundles a fresh in-memory database with the repositories the
// services under test are built on.
type testEnv struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return &testEnv{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		groupRepo:   repository.NewGroupRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}
}

func (e *testEnv) feedService(t *testing.T) *FeedService {
	t.Helper()
	return NewFeedService(e.postRepo, e.groupRepo, e.userRepo, nil, testPageSize)
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (e *testEnv) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug}
	if err := e.db.Create(g).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return g
}

func (e *testEnv) post(t *testing.T, author *models.User, pubDate time.Time, mutate ...func(*models.Post)) *models.Post {
	t.Helper()
	p := &models.Post{Text: "post by " + author.Username, PubDate: pubDate, AuthorID: author.ID}
	for _, m := range mutate {
		m(p)
	}
	if err := e.db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

package store

import (
	"database/sql"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/larder/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	us := NewUserStore(setupTestDB(t))
	us.cost = bcrypt.MinCost
	return us
}

func TestUserCreate(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("alice", "secret1")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
	if len(u.ID) != 36 {
		t.Errorf("id = %q, want a uuid", u.ID)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("alice", "secret1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := us.Create("alice", "secret2")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByID("missing")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserGetByUsername(t *testing.T) {
	us := setupUserTestDB(t)

	created, _ := us.Create("alice", "secret1")
	u, err := us.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Errorf("user = %+v, want id %q", u, created.ID)
	}
}

func TestUserAuthenticate(t *testing.T) {
	us := setupUserTestDB(t)
	created, _ := us.Create("alice", "secret1")

	u, err := us.Authenticate("alice", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("user = %+v, want %q", u, created.ID)
	}

	u, err = us.Authenticate("alice", "wrong")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u != nil {
		t.Error("expected nil for wrong password")
	}

	u, err = us.Authenticate("bob", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown user")
	}
}

func TestUserDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	us.cost = bcrypt.MinCost
	fs := NewFoodItemStore(db)

	u, _ := us.Create("alice", "secret1")
	if _, err := fs.Create(u.ID, sampleFields("Milk")); err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := us.Delete(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	items, err := fs.List(u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0 after cascade", len(items))
	}
}

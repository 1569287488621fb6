package survey

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Alexotieno1717/bonga-survey-sub000/database"
	"github.com/Alexotieno1717/bonga-survey-sub000/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO users (username, password_hash) VALUES (?, 'x') RETURNING id`, username).Scan(&id)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func seedContacts(t *testing.T, db *sql.DB, ownerID int64, n int) []int64 {
	t.Helper()
	store := &Store{DB: db}
	ids := make([]int64, n)
	for i := range ids {
		c, err := store.CreateContact(context.Background(), model.Contact{UserID: ownerID, Name: "Contact", Phone: "+2547000000"})
		if err != nil {
			t.Fatalf("seed contact: %v", err)
		}
		ids[i] = c.ID
	}
	return ids
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mediashelf/mediashelf-backend/internal/database"
	"github.com/mediashelf/mediashelf-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingNotifier struct {
	mu      sync.Mutex
	changes []Change
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, c Change) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
	return n.err
}

func (n *recordingNotifier) paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, c := range n.changes {
		out = append(out, c.Paths...)
	}
	return out
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.changes)
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(
		sqlite.Open("file:"+name+"?mode=memory&cache=shared&_foreign_keys=1"),
		logger.Default.LogMode(logger.Silent),
	)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestEngine(t *testing.T) (*Engine, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewEngine(newTestDB(t), nil, n), n
}

func seedUser(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	u := models.User{Name: name}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func seedMedia(t *testing.T, db *gorm.DB, title string) string {
	t.Helper()
	m := models.MediaItem{Title: title, Type: models.MediaTypeMovie}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed media: %v", err)
	}
	return m.ID
}

func loadMedia(t *testing.T, db *gorm.DB, id string) models.MediaItem {
	t.Helper()
	var m models.MediaItem
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		t.Fatalf("load media: %v", err)
	}
	return m
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func wantKind(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

var errNotifierDown = errors.New("notifier down")

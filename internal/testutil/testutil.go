// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"

	"ragrids/internal/cache"
	"ragrids/internal/db"
	"ragrids/internal/model"
)

// SQLiteDB opens a migrated in-memory database private to the test.
func SQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// every pooled connection would otherwise see its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gormDB.AutoMigrate(&model.Admin{}, &model.User{}, &model.FileRef{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return gormDB
}

// Cache starts a miniredis server and returns a cache client bound to it.
func Cache(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	return cache.New(mr.Addr(), "", 0), mr
}

// BlobStore keeps uploaded blobs in memory.
type BlobStore struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
}

// NewBlobStore returns an empty BlobStore serving from http://blobs.test.
func NewBlobStore() *BlobStore {
	return &BlobStore{BaseURL: "http://blobs.test", Objects: map[string][]byte{}}
}

// Put stores the blob and returns its URL.
func (s *BlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = data
	return s.BaseURL + "/" + key, nil
}

// Delete drops the blob under key.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	return nil
}

// Keys lists the stored keys.
func (s *BlobStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.Objects))
	for k := range s.Objects {
		keys = append(keys, k)
	}
	return keys
}

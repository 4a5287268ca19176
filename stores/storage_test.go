package stores

import (
	"path/filepath"
	"testing"

	"scenery/stores/filesystem"
	"scenery/stores/httpstore"
	"scenery/stores/memory"
	"scenery/stores/sqlite"
)

func TestGetStoreDefaultsToMemory(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "")

	store, err := GetStore()
	if err != nil {
		t.Fatalf("GetStore: %v", err)
	}
	if _, ok := store.(*memory.ProjectStore); !ok {
		t.Fatalf("store = %T, want *memory.ProjectStore", store)
	}
}

func TestGetStoreFilesystem(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "filesystem")
	t.Setenv("LOCAL_STORAGE_PATH", filepath.Join(t.TempDir(), "projects"))

	store, err := GetStore()
	if err != nil {
		t.Fatalf("GetStore: %v", err)
	}
	if _, ok := store.(*filesystem.ProjectStore); !ok {
		t.Fatalf("store = %T, want *filesystem.ProjectStore", store)
	}
}

func TestGetStoreSQLite(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("DATA_SOURCE_NAME", filepath.Join(t.TempDir(), "scenery.db"))

	store, err := GetStore()
	if err != nil {
		t.Fatalf("GetStore: %v", err)
	}
	s, ok := store.(*sqlite.ProjectStore)
	if !ok {
		t.Fatalf("store = %T, want *sqlite.ProjectStore", store)
	}
	s.Close()
}

func TestGetStoreHTTP(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "http")
	t.Setenv("STORAGE_URL", "http://localhost:3002")

	store, err := GetStore()
	if err != nil {
		t.Fatalf("GetStore: %v", err)
	}
	if _, ok := store.(*httpstore.ProjectStore); !ok {
		t.Fatalf("store = %T, want *httpstore.ProjectStore", store)
	}
}

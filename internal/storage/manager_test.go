// manager_test.go - Tests for storage layer
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1shevadin1/NACHA-converter/internal/models"
)

func createTestStore(t *testing.T) *LocalStore {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestNewLocalStore(t *testing.T) {
	t.Run("creates upload directory", func(t *testing.T) {
		uploadDir := filepath.Join(t.TempDir(), "uploads")

		_, err := NewLocalStore(uploadDir)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}

		if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
			t.Error("Expected upload directory to be created")
		}
	})

	t.Run("removes uploads left by a previous run", func(t *testing.T) {
		uploadDir := t.TempDir()

		first, err := NewLocalStore(uploadDir)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		saved, err := first.Save("payment1", strings.NewReader("9000001"))
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		keep := filepath.Join(uploadDir, "README.txt")
		if err := os.WriteFile(keep, []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}

		second, err := NewLocalStore(uploadDir)
		if err != nil {
			t.Fatalf("Failed to reopen store: %v", err)
		}

		if _, err := os.Stat(filepath.Join(uploadDir, saved.ID)); !os.IsNotExist(err) {
			t.Errorf("Expected stale upload %s to be removed", saved.ID)
		}
		if _, err := os.Stat(keep); err != nil {
			t.Errorf("Expected unrelated file to stay: %v", err)
		}
		if files, _ := second.List(0); len(files) != 0 {
			t.Errorf("Expected empty store, got %d files", len(files))
		}
	})
}

func TestLocalStore_Save(t *testing.T) {
	t.Run("saves file from reader", func(t *testing.T) {
		store := createTestStore(t)
		content := "9000001000001000000420009100001000000150000000000200000"

		info, err := store.Save("payment1", strings.NewReader(content))
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}

		if info.ID == "" {
			t.Error("Expected ID to be set")
		}
		if info.Name != "payment1" {
			t.Errorf("Expected name 'payment1', got %v", info.Name)
		}
		if info.Size != int64(len(content)) {
			t.Errorf("Expected size %d, got %d", len(content), info.Size)
		}
		if info.Status != models.FileStatusUploaded {
			t.Errorf("Expected status 'uploaded', got %v", info.Status)
		}

		data, err := os.ReadFile(filepath.Join(store.uploadDir, info.ID))
		if err != nil {
			t.Fatalf("Failed to read saved file: %v", err)
		}
		if string(data) != content {
			t.Errorf("Expected content %q, got %q", content, string(data))
		}
	})

	t.Run("saves empty file", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.Save("empty.txt", strings.NewReader(""))
		if err != nil {
			t.Fatalf("Failed to save empty file: %v", err)
		}
		if info.Size != 0 {
			t.Errorf("Expected size 0, got %d", info.Size)
		}
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestLocalStore_SaveReadError(t *testing.T) {
	store := createTestStore(t)

	if _, err := store.Save("broken", errReader{}); err == nil {
		t.Fatal("Expected error from failing reader")
	}

	entries, _ := os.ReadDir(store.uploadDir)
	if len(entries) != 0 {
		t.Errorf("Expected partial file to be removed, found %d entries", len(entries))
	}
}

func TestLocalStore_Get(t *testing.T) {
	store := createTestStore(t)
	saved, _ := store.Save("payment1", strings.NewReader("x"))

	t.Run("gets existing file", func(t *testing.T) {
		info, err := store.Get(saved.ID)
		if err != nil {
			t.Fatalf("Failed to get file: %v", err)
		}
		if info.Name != "payment1" {
			t.Errorf("Expected name 'payment1', got %v", info.Name)
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := store.Get("missing")
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Expected ErrFileNotFound, got %v", err)
		}
	})
}

func TestLocalStore_List(t *testing.T) {
	store := createTestStore(t)
	for i := 0; i < 3; i++ {
		if _, err := store.Save(fmt.Sprintf("file%d", i), strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	t.Run("sorts by upload time descending", func(t *testing.T) {
		list, err := store.List(10)
		if err != nil {
			t.Fatalf("Failed to list files: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("Expected 3 files, got %d", len(list))
		}
		if list[0].Name != "file2" || list[2].Name != "file0" {
			t.Errorf("Unexpected order: %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
		}
	})

	t.Run("limits results", func(t *testing.T) {
		list, _ := store.List(2)
		if len(list) != 2 {
			t.Errorf("Expected 2 files, got %d", len(list))
		}
	})
}

func TestLocalStore_Delete(t *testing.T) {
	store := createTestStore(t)
	saved, _ := store.Save("payment1", strings.NewReader("x"))

	if err := store.Delete(saved.ID); err != nil {
		t.Fatalf("Failed to delete file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.uploadDir, saved.ID)); !os.IsNotExist(err) {
		t.Error("Expected physical file to be removed")
	}
	if err := store.Delete(saved.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound on second delete, got %v", err)
	}
}

func TestLocalStore_SetStatusAndPath(t *testing.T) {
	store := createTestStore(t)
	saved, _ := store.Save("payment1", strings.NewReader("x"))

	if err := store.SetStatus(saved.ID, models.FileStatusGenerated); err != nil {
		t.Fatalf("Failed to set status: %v", err)
	}
	info, _ := store.Get(saved.ID)
	if info.Status != models.FileStatusGenerated {
		t.Errorf("Expected status 'generated', got %v", info.Status)
	}

	path, err := store.GetFilePath(saved.ID)
	if err != nil {
		t.Fatalf("Failed to get path: %v", err)
	}
	if path != filepath.Join(store.uploadDir, saved.ID) {
		t.Errorf("Unexpected path %s", path)
	}

	if err := store.SetStatus("missing", models.FileStatusGenerated); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
	if _, err := store.GetFilePath("missing"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestLocalStore_ConcurrentAccess(t *testing.T) {
	store := createTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Save(fmt.Sprintf("file%d", i), strings.NewReader("content")); err != nil {
				t.Errorf("Concurrent save failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	list, _ := store.List(0)
	if len(list) != 10 {
		t.Errorf("Expected 10 files, got %d", len(list))
	}
}

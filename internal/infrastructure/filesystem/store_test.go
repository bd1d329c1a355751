package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	store := NewStore(filepath.Join(root, "uploads"), filepath.Join(root, "watermarked"))
	if err := store.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	return store
}

func TestSaveUpload_RandomNameKeepsExtension(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveUpload(strings.NewReader("payload"), "Holiday.MP4")
	if err != nil {
		t.Fatalf("save upload: %v", err)
	}

	if filepath.Dir(path) != store.UploadsDir {
		t.Fatalf("upload stored outside uploads dir: %s", path)
	}
	if !strings.HasSuffix(path, ".mp4") {
		t.Fatalf("expected lowercased .mp4 extension, got %s", path)
	}
	if strings.Contains(filepath.Base(path), "Holiday") {
		t.Fatalf("original name must not leak into stored name: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored upload: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected stored content: %q", data)
	}
}

func TestSaveUpload_UniquePaths(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SaveUpload(strings.NewReader("a"), "clip.mp4")
	if err != nil {
		t.Fatalf("save upload: %v", err)
	}
	second, err := store.SaveUpload(strings.NewReader("b"), "clip.mp4")
	if err != nil {
		t.Fatalf("save upload: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct paths for identical upload names, got %s", first)
	}
}

func TestRemove_MissingFileIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveUpload(strings.NewReader("payload"), "clip.mp4")
	if err != nil {
		t.Fatalf("save upload: %v", err)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(path); err != nil {
		t.Fatalf("second remove must be idempotent: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("upload still exists after remove")
	}
}

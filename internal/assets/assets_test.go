package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestLoadPriorityAndCache(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{
		"models/temp.glb": {Data: []byte("base")},
		"images/1.png":    {Data: []byte("png")},
	})
	m.AddFS(fstest.MapFS{
		"models/temp.glb": {Data: []byte("override")},
	})

	data, err := m.Load("models/temp.glb")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "override" {
		t.Errorf("expected last source to win, got %q", data)
	}

	if _, err := m.Load("./images/1.png"); err != nil {
		t.Fatalf("Load with ./ prefix: %v", err)
	}
	if _, err := m.Load("models/temp.glb"); err != nil {
		t.Fatalf("Load cached: %v", err)
	}

	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("expected 1 hit and 2 misses, got %d/%d", hits, misses)
	}
}

func TestLoadNotFound(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{})

	_, err := m.Load("models/missing.glb")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if m.Exists("models/missing.glb") {
		t.Error("Exists reported a missing file")
	}
}

func TestAddRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "models"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "models", "fox.glb"), []byte("glTF"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.AddRoot(dir); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	if !m.Exists("models/fox.glb") {
		t.Error("expected fox.glb to exist")
	}
	if m.Exists("models") {
		t.Error("directories must not count as assets")
	}

	if err := m.AddRoot(filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestClose(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{"a.txt": {Data: []byte("a")}})
	if _, err := m.Load("a.txt"); err != nil {
		t.Fatal(err)
	}

	m.Close()
	if _, err := m.Load("a.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Close, got %v", err)
	}
}

func TestManagerAsFS(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{"models/scene.gltf": {Data: []byte("{}")}})
	m.AddFS(fstest.MapFS{"models/scene.bin": {Data: []byte{1, 2, 3}}})

	data, err := fs.ReadFile(m, "models/scene.gltf")
	if err != nil || string(data) != "{}" {
		t.Fatalf("ReadFile through manager: %q, %v", data, err)
	}
	sub, err := fs.Sub(m, "models")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.ReadFile(sub, "scene.bin"); err != nil {
		t.Errorf("sub FS read: %v", err)
	}
	if _, err := m.Open("models/nope.bin"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}

	m.Load("models/scene.bin")
	m.Clear()
	if _, ok := m.cache.Get("models/scene.bin"); ok {
		t.Error("Clear left cached data")
	}
}

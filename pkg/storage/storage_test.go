package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveFile_Overwrites(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "homepage-en.ts")

	if err := s.SaveFile(path, []byte("first")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if err := s.SaveFile(path, []byte("second")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want 1 (temp file leaked?)", len(entries))
	}
}

func TestSaveFile_MissingDir(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "missing", "index.ts")
	if err := s.SaveFile(path, []byte("x")); err == nil {
		t.Error("SaveFile() error = nil, want error for missing directory")
	}
}

func TestReadOptional(t *testing.T) {
	s := &Storage{}
	dir := t.TempDir()

	data, found, err := s.ReadOptional(filepath.Join(dir, ".env.local"))
	if err != nil || found || data != nil {
		t.Errorf("ReadOptional(missing) = %q, %v, %v", data, found, err)
	}

	path := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(path, []byte("A=1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	data, found, err = s.ReadOptional(path)
	if err != nil || !found || string(data) != "A=1\n" {
		t.Errorf("ReadOptional(existing) = %q, %v, %v", data, found, err)
	}
}

func TestPrune(t *testing.T) {
	s := &Storage{}
	dir := t.TempDir()
	files := map[string]string{
		"homepage-en.ts": "// Code generated by contentc from homepage.yml. DO NOT EDIT.\n",
		"old-en.ts":      "// Code generated by contentc from old.yml. DO NOT EDIT.\n",
		"handwritten.ts": "export const x = 1;\n",
		"notes.md":       "// Code generated by contentc\n",
		"empty.ts":       "",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := s.Prune(dir, ".ts", "// Code generated by contentc", map[string]bool{"homepage-en.ts": true})
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if len(removed) != 1 || filepath.Base(removed[0]) != "old-en.ts" {
		t.Errorf("Prune() removed %v, want [old-en.ts]", removed)
	}
	for _, name := range []string{"homepage-en.ts", "handwritten.ts", "notes.md", "empty.ts"} {
		if !s.HasFile(filepath.Join(dir, name)) {
			t.Errorf("Prune() removed %s", name)
		}
	}
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateBlobStore_Memory(t *testing.T) {
	store, err := CreateBlobStore(context.Background(), &BlobConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("Failed to create memory blob store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Save(context.Background(), "k", []byte("v")); err != nil {
		t.Errorf("Save failed: %v", err)
	}
}

func TestCreateBlobStore_Badger(t *testing.T) {
	store, err := CreateBlobStore(context.Background(), &BlobConfig{
		Type:   "badger",
		Badger: map[string]any{"path": t.TempDir()},
	})
	if err != nil {
		t.Fatalf("Failed to create badger blob store: %v", err)
	}
	defer func() { _ = store.Close() }()
}

func TestCreateBlobStore_BadgerWithoutPath(t *testing.T) {
	_, err := CreateBlobStore(context.Background(), &BlobConfig{Type: "badger"})
	if err == nil {
		t.Error("Expected error for badger store without path")
	}
}

func TestCreateBlobStore_UnknownType(t *testing.T) {
	_, err := CreateBlobStore(context.Background(), &BlobConfig{Type: "etcd"})
	if err == nil {
		t.Error("Expected error for unknown blob store type")
	}
}

func TestCreateBaselineSource_Default(t *testing.T) {
	source, err := CreateBaselineSource(&BaselineConfig{})
	if err != nil {
		t.Fatalf("Failed to create baseline source: %v", err)
	}
	if len(source.All()) == 0 {
		t.Error("Expected the built-in dataset to be non-empty")
	}
}

func TestCreateBaselineSource_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	content := `
entries:
  - name: "9"
    path: "9"
    kind: folder
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write dataset file: %v", err)
	}

	source, err := CreateBaselineSource(&BaselineConfig{DatasetFile: path})
	if err != nil {
		t.Fatalf("Failed to load dataset file: %v", err)
	}
	if len(source.All()) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(source.All()))
	}
}

func TestCreateRemoteSource_Disabled(t *testing.T) {
	source, err := CreateRemoteSource(&RemoteConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if source != nil {
		t.Error("Expected nil source when the remote is disabled")
	}
}

func TestCreateRemoteSource_Enabled(t *testing.T) {
	source, err := CreateRemoteSource(&RemoteConfig{Enabled: true, Token: "abcd1234"})
	if err != nil {
		t.Fatalf("Failed to create remote source: %v", err)
	}
	if source == nil {
		t.Fatal("Expected a remote source")
	}
}

package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	content := "ecosystem: pypi\ninput_file: names.txt\nnum_partitions: 16\npartition: 3\nworkers: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	want := Manifest{Ecosystem: "pypi", InputFile: "names.txt", NumPartitions: 16, Partition: 3, Workers: 8}
	if m != want {
		t.Errorf("LoadManifest = %+v, want %+v", m, want)
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing manifest file")
	}
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadNamesSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	content := "requests\n\n  \nflask\nnumpy\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	names, err := readNames(path)
	if err != nil {
		t.Fatalf("readNames: %v", err)
	}
	want := []string{"requests", "flask", "numpy"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestReadNamesMissingFile(t *testing.T) {
	if _, err := readNames(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Errorf("expected an error for a missing input file")
	}
}

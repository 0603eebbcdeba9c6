package cmd

import "testing"

func TestNewRegistersEverySubcommand(t *testing.T) {
	root := New()
	want := map[string]bool{"serve": true, "score": true, "batch": true, "version": true}

	for _, c := range root.Commands() {
		delete(want, c.Name())
	}
	if len(want) != 0 {
		t.Errorf("missing subcommands: %v", want)
	}
}

// Package main is the opensourcescore.dev command-line entrypoint: the
// same thin main() the teacher repo uses, delegating everything to
// cmd.New().Execute().
package main

import (
	"context"
	"log"

	"github.com/openteamsinc/opensourcescore.dev/cmd"
)

func main() {
	if err := cmd.New().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}

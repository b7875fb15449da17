// Command emojicache inspects, builds and maintains serialized animated
// emoji caches.
package main

import (
	"os"

	"github.com/go-drift/emojicache/cmd/emojicache/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

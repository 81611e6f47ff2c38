// Command piecetext is a minimal terminal front end proving the
// editing core end to end: it loads an optional file, drives a tcell
// frame loop, and saves back on quit.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var path string
	if len(args) > 0 {
		path = args[0]
	}

	session, err := openSession(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "piecetext: %v\n", err)
		return 1
	}

	if err := session.runLoop(); err != nil {
		if errors.Is(err, errQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "piecetext: %v\n", err)
		return 1
	}
	return 0
}

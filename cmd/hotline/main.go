// Command hotline is a thin CLI over the hotline package: connect,
// chat, browse files, transfer, and list tracker servers from a
// terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

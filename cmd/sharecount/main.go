// Command sharecount is the terminal front end of the local-first
// expense splitter: every mutation lands in the local SQLite store
// immediately and is pushed to the remote authority on a best-effort
// basis, so the tool is fully usable offline.
package main

import (
	"fmt"
	"os"

	"github.com/sharecount/sharecount/pkg/logging"
)

func main() {
	logging.Setup()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

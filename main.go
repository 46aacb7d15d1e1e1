// main holds the entry logic for the splinefit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/karsk/splinefit/cmd"
	"github.com/karsk/splinefit/internal/fitstore"
)

func main() {
	code := 0
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		code = 1
	}
	fitstore.CloseHistory()
	os.Exit(code)
}

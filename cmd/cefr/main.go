// cefr estimates the CEFR level of English text.
package main

import (
	"os"

	"github.com/corey/cefr/cmd/cefr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

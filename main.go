// ABOUTME: Entry point for the myteams CLI
// ABOUTME: Follow football teams and track fixtures from the terminal

package main

import (
	"fmt"
	"os"

	"github.com/markalston/myteams/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

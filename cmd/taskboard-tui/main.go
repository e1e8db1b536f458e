// taskboard-tui opens the interactive taskboard UI directly.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/antopolskiy/taskboard/cmd"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := cmd.RunTUI(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

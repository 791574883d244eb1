package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/taskdeck/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	apiURL := flag.String("api-url", "", "tracker API base URL (overrides TASKDECK_API_URL)")
	flag.Parse()

	// Hand the remaining args to the CLI runner; no args means the
	// interactive screens.
	code := cli.Run(flag.Args(), cli.Options{
		APIURL: *apiURL,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

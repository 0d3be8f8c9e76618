package main

import (
	"os"

	"github.com/aquasecurity/rustsec-vex/pkg"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
)

var (
	version = "0.0.1"
)

func main() {
	app := pkg.NewApp(version)
	if err := app.Run(os.Args); err != nil {
		log.Error("Failed to run rustsec-vex", log.Err(err))
		os.Exit(1)
	}
}

package main

import (
	"log"
	"os"

	"github.com/fuzumoe/sitescope-api/internal/app"
)

// run is a variable so it can be overridden in tests.
var run = app.Run

// exitFunc is a variable wrapping os.Exit so it can be overridden in tests.
var exitFunc = os.Exit

func main() {
	if err := run(); err != nil {
		log.Printf("error: %v", err)
		exitFunc(1)
	}
}

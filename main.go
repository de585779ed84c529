package main

import (
	"os"

	"github.com/OpticaApp/OpticaApp/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}

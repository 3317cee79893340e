package main

import (
	"os"

	"github.com/rgcpoolandspa/poolsite/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}

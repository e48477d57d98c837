package main

import (
	"log"
	"os"

	"mixerboard/internal/adapters/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("mixerboard: %v", err)
		os.Exit(1)
	}
}

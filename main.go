package main

import (
	"log"

	"histview/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("histview: %v", err)
	}
}

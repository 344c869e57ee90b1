package main

import (
	"log"

	"github.com/relabs-tech/attitude_computer/internal/app"
)

func main() {
	log.Println("starting attitude-computer mock console (no hardware, no broker)")

	if err := app.RunMockConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

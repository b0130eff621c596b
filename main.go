package main

import (
	"log"

	"github.com/leadspark/upwork-radar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"log"

	"katydid-common-idgen/internal/app"
)

func main() {
	log.SetFlags(log.Llongfile | log.Ldate | log.Ltime | log.Lmicroseconds)

	if err := app.NewRootCmd().Execute(); err != nil {
		log.Fatalf("command error: %v", err)
	}
}

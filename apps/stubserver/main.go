// Command stubserver runs the stub data-collection API locally so the client
// can be developed and demoed without the real backend.
package main

import (
	"log"
	"os"

	"github.com/tharun-r1705/data-frontend-new/services/stubapi"
)

func main() {
	addr := os.Getenv("STUB_ADDR")
	if addr == "" {
		addr = ":8000"
	}
	secret := os.Getenv("STUB_SECRET")
	if secret == "" {
		secret = "stub-secret"
	}

	log.Printf("stub API listening on %s", addr)
	app := stubapi.NewServer(&stubapi.Options{
		Addr:         addr,
		SecretKey:    []byte(secret),
		SeedStudents: true,
	})
	app.Start()
}

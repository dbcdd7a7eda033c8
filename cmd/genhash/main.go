package main

import (
	"fmt"
	"log"
	"os"

	"pox-ledger.backend/pkg/crypto"
)

// genhash prints the bcrypt hash for an application secret, for use as
// APP_SECRET_HASH.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: genhash <secret>")
	}

	hash, err := crypto.HashSecret(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hash)
}

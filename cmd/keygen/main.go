package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"pox-ledger.backend/pkg/canonical"
	"pox-ledger.backend/pkg/crypto"
)

// keygen generates an ed25519 keypair, or signs a canonical payload with an
// existing key so the output can be submitted to the payments endpoint.
func main() {
	signKey := flag.String("sign", "", "hex private key; sign the JSON payload given as the first argument")
	flag.Parse()

	if *signKey == "" {
		kp, err := crypto.GenerateKeyPair()
		if err != nil {
			log.Fatal(err)
		}
		out, _ := json.MarshalIndent(kp, "", "  ")
		fmt.Println(string(out))
		return
	}

	if flag.NArg() < 1 {
		log.Fatal("usage: keygen -sign <privateKey> '<json payload>'")
	}

	payload, err := canonical.MarshalRaw([]byte(flag.Arg(0)))
	if err != nil {
		log.Fatalf("invalid payload: %v", err)
	}

	sig, err := crypto.Sign(*signKey, payload)
	if err != nil {
		log.Fatal(err)
	}

	out, _ := json.MarshalIndent(map[string]string{
		"canonical": string(payload),
		"signature": sig,
	}, "", "  ")
	fmt.Fprintln(os.Stdout, string(out))
}

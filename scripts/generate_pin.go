package main

import (
	"fmt"
	"log"
	"os"

	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_pin.go <pin>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}

	pin := os.Args[1]
	passwords := auth.NewPasswordManager(cfg)

	if err := passwords.ValidatePIN(pin); err != nil {
		log.Fatal("Rejected PIN:", err)
	}

	hash, err := passwords.HashPIN(pin)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	if err := passwords.VerifyPIN(pin, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Printf("PIN: %s\n", pin)
	fmt.Printf("Hash: %s\n", hash)
	fmt.Println("Hash verified successfully")
}

// Command devtoken signs an access token with the configured JWT_SECRET, the
// same way the identity provider does, for calling the API locally.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mediashelf/mediashelf-backend/internal/config"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
)

func main() {
	userID := flag.String("user", "", "user id to put in the token")
	role := flag.String("role", "member", "role: member or admin")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if *userID == "" || !utils.IsValidRole(*role) {
		flag.Usage()
		os.Exit(2)
	}

	token, expiresAt, err := utils.GenerateAccessToken(*userID, *role, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
	log.Printf("expires at %s", expiresAt.Format("2006-01-02 15:04:05 MST"))
}

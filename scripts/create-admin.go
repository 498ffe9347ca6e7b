package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"labstore/internal/config"
	"labstore/internal/database"
	"labstore/internal/repository"
	"labstore/internal/services"
)

// One-shot admin bootstrap. Prompts for credentials and inserts an admin row.
func main() {
	fmt.Println("===========================================")
	fmt.Println("Admin Account Creation")
	fmt.Println("===========================================")

	reader := bufio.NewReader(os.Stdin)

	email := prompt(reader, "Enter admin email: ")
	if !strings.Contains(email, "@") {
		log.Fatal("Invalid email address")
	}

	password := prompt(reader, "Enter password (min 6 characters): ")
	if len(password) < 6 {
		log.Fatal("Password must be at least 6 characters")
	}

	confirm := prompt(reader, "Confirm password: ")
	if password != confirm {
		log.Fatal("Passwords do not match")
	}

	name := prompt(reader, "Enter admin name (optional): ")

	cfg := config.Load()
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo, cfg.JWTSecret)

	user, err := userService.CreateAdmin(email, password, name)
	if err != nil {
		log.Fatal("Failed to create admin account:", err)
	}

	fmt.Println("Admin account created successfully!")
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("User ID: %d\n", user.ID)
}

func prompt(reader *bufio.Reader, question string) string {
	fmt.Print(question)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

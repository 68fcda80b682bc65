package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Name      string
	Role      string `gorm:"default:'RESEARCHER'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Creates (or reports) an account directly in the database, bypassing the
// API. Useful for bootstrapping the first admin, since accounts are never
// self-registered.
func main() {
	dbPath := flag.String("db", "experiments.sqlite", "Path to the SQLite database")
	email := flag.String("email", "admin@example.com", "Account email")
	password := flag.String("password", "admin123", "Account password")
	name := flag.String("name", "Administrator", "Display name")
	role := flag.String("role", "ADMIN", "Account role (ADMIN or RESEARCHER)")
	flag.Parse()

	if *role != "ADMIN" && *role != "RESEARCHER" {
		log.Fatalf("Invalid role %q, must be ADMIN or RESEARCHER", *role)
	}

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	// Check if the account already exists
	var existing User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		fmt.Printf("Account already exists: %s (ID: %d, Role: %s)\n", existing.Email, existing.ID, existing.Role)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 10)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := User{
		Email:    *email,
		Password: string(hash),
		Name:     *name,
		Role:     *role,
	}

	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create account:", err)
	}

	fmt.Printf("✓ Account created: %s (ID: %d, Role: %s)\n", user.Email, user.ID, user.Role)
	fmt.Println("\nLog in with:")
	fmt.Printf("curl -X POST http://localhost:3001/api/auth/login \\\n")
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", *email, *password)
}

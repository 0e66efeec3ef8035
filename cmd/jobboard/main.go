package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/jobboard-dev/jobboard/db"
	"github.com/jobboard-dev/jobboard/internal/auth"
	"github.com/jobboard-dev/jobboard/internal/models"
	"github.com/jobboard-dev/jobboard/internal/router"
	"github.com/jobboard-dev/jobboard/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	conn, err := db.ConnectDatabase(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := seedAdmin(conn); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	var resumeDir string

	if resumeDir = os.Getenv("RESUME_DIR"); resumeDir == "" {
		resumeDir = "resumes"
	}

	resumes, err := services.NewResumeStore(resumeDir)

	if err != nil {
		log.Fatalf("Failed to initialize resume store: %v", err)
	}

	r := router.NewRouter(conn, resumes)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err = r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAdmin creates the bootstrap admin account when none exists.
// Registration never grants the admin role, so without this seed there would
// be no way to moderate.
func seedAdmin(conn *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User

	err := conn.Where("role = ?", models.RoleAdmin).First(&existing).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "Admin",
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleAdmin,
	}

	if err := conn.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", email)

	return nil
}

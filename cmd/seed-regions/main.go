package main

import (
	"log"
	"os"

	"pmajay-api/config"
	"pmajay-api/controllers"
	"pmajay-api/models"

	"github.com/joho/godotenv"
)

var seedStates = []struct {
	Name      string
	Code      string
	Districts []string
}{
	{"Uttar Pradesh", "UP", []string{"Lucknow", "Varanasi", "Agra", "Kanpur Nagar"}},
	{"Maharashtra", "MH", []string{"Mumbai Suburban", "Pune", "Nagpur"}},
	{"Bihar", "BR", []string{"Patna", "Gaya", "Muzaffarpur"}},
	{"Tamil Nadu", "TN", []string{"Chennai", "Coimbatore", "Madurai"}},
	{"Rajasthan", "RJ", []string{"Jaipur", "Jodhpur", "Udaipur"}},
}

// seed-regions loads an initial set of states and districts and creates the
// ministry admin account from ADMIN_EMAIL/ADMIN_PASSWORD. Safe to re-run:
// existing rows are left alone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	for _, s := range seedStates {
		var state models.State
		err := config.DB.Where("name = ?", s.Name).First(&state).Error
		if err != nil {
			state = models.State{Name: s.Name, Code: s.Code}
			if err := config.DB.Create(&state).Error; err != nil {
				log.Fatalf("Failed to seed state %s: %v", s.Name, err)
			}
			log.Printf("Created state %s", s.Name)
		}

		for _, d := range s.Districts {
			var district models.District
			err := config.DB.Where("state_id = ? AND name = ?", state.StateID, d).First(&district).Error
			if err != nil {
				district = models.District{StateID: state.StateID, Name: d}
				if err := config.DB.Create(&district).Error; err != nil {
					log.Fatalf("Failed to seed district %s: %v", d, err)
				}
				log.Printf("Created district %s (%s)", d, s.Name)
			}
		}
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Admin account %s already exists", email)
		return
	}

	hashed, err := controllers.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.User{
		FullName: "Ministry Admin",
		Email:    email,
		Password: hashed,
		RoleID:   models.RoleMinistry,
		IsActive: true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Created ministry admin %s", email)
}

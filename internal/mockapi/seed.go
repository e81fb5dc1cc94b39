package mockapi

import (
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Chaturved5/estate-portal/internal/models"
)

// Seed fills an empty database with demo accounts and a starter catalog.
// Idempotent: an existing user table short-circuits.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("portal123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users := []models.User{
		{ID: uuid.NewString(), Name: "Asha Verma", Email: "admin@estateportal.in", Role: models.RoleAdmin, PasswordHash: string(hash)},
		{ID: uuid.NewString(), Name: "Rohan Mehta", Email: "owner@estateportal.in", Role: models.RoleOwner, Phone: "+91 98200 11223", PasswordHash: string(hash)},
		{ID: uuid.NewString(), Name: "Priya Nair", Email: "agent@estateportal.in", Role: models.RoleAgent, Company: "Skyline Realty", PasswordHash: string(hash)},
		{ID: uuid.NewString(), Name: "Karan Singh", Email: "buyer@estateportal.in", Role: models.RoleBuyer, PasswordHash: string(hash)},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	owner, agent := users[1], users[2]

	props := []models.Property{
		{
			ID: uuid.NewString(), Title: "Sea-Facing 3BHK at Marine Drive", City: "Mumbai",
			Location: "Marine Drive", Type: "apartment", Price: 45_000_000,
			Bedrooms: 3, Bathrooms: 3, Area: 1650, Status: models.PropertyAvailable,
			Amenities: []string{"lift", "parking", "gym"}, Highlights: []string{"Uninterrupted sea view"},
			OwnerID: owner.ID, AgentID: agent.ID,
		},
		{
			ID: uuid.NewString(), Title: "Whitefield Garden Villa", City: "Bangalore",
			Location: "Whitefield", Type: "villa", Price: 32_000_000,
			Bedrooms: 4, Bathrooms: 4, Area: 3200, Status: models.PropertyAvailable,
			Amenities: []string{"private garden", "clubhouse"}, Highlights: []string{"Gated community"},
			OwnerID: owner.ID,
		},
		{
			ID: uuid.NewString(), Title: "Koregaon Park Studio", City: "Pune",
			Location: "Koregaon Park", Type: "apartment", Price: 9_500_000,
			Bedrooms: 1, Bathrooms: 1, Area: 620, Status: models.PropertyAvailable,
			Amenities: []string{"lift", "parking"}, Highlights: []string{"Furnished, ready to move"},
			OwnerID: owner.ID, AgentID: agent.ID,
		},
	}
	if err := db.Create(&props).Error; err != nil {
		return err
	}
	log.Printf("mockapi: seeded %d users and %d listings", len(users), len(props))
	return nil
}

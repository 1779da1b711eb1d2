package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"covoit/internal/config"
	"covoit/internal/database"
	"covoit/internal/domain"
)

// Seeds a local database with an admin, two users, a group and an open
// travel so the API is explorable right after start.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	admin := &domain.User{
		Email: "admin@covoit.local", Name: "Admin", PasswordHash: string(hash),
		Role: domain.RoleAdmin, Locale: domain.LocaleEN, EmailVerified: true,
	}
	driver := &domain.User{
		Email: "driver@covoit.local", Name: "Diane Driver", PasswordHash: string(hash),
		Role: domain.RoleUser, Locale: domain.LocaleFR, EmailVerified: true,
	}
	passenger := &domain.User{
		Email: "passenger@covoit.local", Name: "Paul Passenger", PasswordHash: string(hash),
		Role: domain.RoleUser, Locale: domain.LocaleEN, EmailVerified: true,
	}
	for _, u := range []*domain.User{admin, driver, passenger} {
		if err := db.Where("email = ?", u.Email).FirstOrCreate(u).Error; err != nil {
			log.Fatal(err)
		}
	}

	group := &domain.Group{Name: "Commute club", CreatorID: driver.ID}
	if err := db.Where("name = ? AND creator_id = ?", group.Name, driver.ID).FirstOrCreate(group).Error; err != nil {
		log.Fatal(err)
	}
	member := &domain.GroupMember{GroupID: group.ID, UserID: passenger.ID}
	if err := db.Where("group_id = ? AND user_id = ?", group.ID, passenger.ID).FirstOrCreate(member).Error; err != nil {
		log.Fatal(err)
	}

	var travelCount int64
	if err := db.Model(&domain.Travel{}).Where("driver_id = ?", driver.ID).Count(&travelCount).Error; err != nil {
		log.Fatal(err)
	}
	if travelCount == 0 {
		departure := time.Now().Add(72 * time.Hour).Truncate(time.Hour)
		travel := &domain.Travel{
			DriverID:      driver.ID,
			MaxPassengers: 3,
			Price:         18,
			Description:   "Weekend ride, small luggage only",
			Status:        domain.TravelOpen,
			Steps: []domain.Step{
				{City: "Paris", Label: "Porte d'Orléans", Date: departure, Latitude: 48.8231, Longitude: 2.3253, Position: 0},
				{City: "Lyon", Label: "Perrache", Date: departure.Add(5 * time.Hour), Latitude: 45.7485, Longitude: 4.8260, Position: 1},
				{City: "Marseille", Label: "Saint-Charles", Date: departure.Add(8 * time.Hour), Latitude: 43.3028, Longitude: 5.3806, Position: 2},
			},
		}
		if err := db.Create(travel).Error; err != nil {
			log.Fatal(err)
		}

		b := &domain.Booking{
			TravelID:        travel.ID,
			PassengerID:     passenger.ID,
			DepartureStepID: travel.Steps[0].ID,
			ArrivalStepID:   travel.Steps[1].ID,
			Status:          domain.BookingPending,
		}
		if err := db.Create(b).Error; err != nil {
			log.Fatal(err)
		}
	}

	log.Println("seed complete: admin@covoit.local / driver@covoit.local / passenger@covoit.local, password 'password123'")
}

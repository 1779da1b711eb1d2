package domain

import "time"

type TravelStatus string

const (
	TravelOpen      TravelStatus = "open"
	TravelCancelled TravelStatus = "cancelled"
	TravelEnded     TravelStatus = "ended"
)

type Travel struct {
	ID            int64        `json:"id"`
	DriverID      int64        `json:"driver_id" validate:"required"`
	MaxPassengers int          `json:"max_passengers" validate:"required,gte=1"`
	Price         float64      `json:"price" validate:"gte=0"`
	Description   string       `json:"description,omitempty" gorm:"type:text"`
	Status        TravelStatus `json:"status"`
	GroupID       *int64       `json:"group_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	Driver *User  `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Steps  []Step `json:"steps,omitempty" gorm:"foreignKey:TravelID"`
}

// Step is an ordered waypoint of a travel. Position is the 0-based index in
// the travel's route; dates strictly increase with position.
type Step struct {
	ID        int64     `json:"id"`
	TravelID  int64     `json:"travel_id"`
	Date      time.Time `json:"date" validate:"required"`
	Label     string    `json:"label"`
	City      string    `json:"city" validate:"required"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Position  int       `json:"position"`
}

// FirstStep returns the earliest step of the travel, or nil when steps are
// not loaded. Steps are kept ordered by position.
func (t *Travel) FirstStep() *Step {
	if len(t.Steps) == 0 {
		return nil
	}
	return &t.Steps[0]
}

func (t *Travel) LastStep() *Step {
	if len(t.Steps) == 0 {
		return nil
	}
	return &t.Steps[len(t.Steps)-1]
}

// StepByID looks a step up within the travel's loaded steps.
func (t *Travel) StepByID(id int64) *Step {
	for i := range t.Steps {
		if t.Steps[i].ID == id {
			return &t.Steps[i]
		}
	}
	return nil
}

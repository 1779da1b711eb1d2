package travel

import "time"

// StepInput describes one waypoint of the submitted route. On update, a zero
// ID means a new step; a non-zero ID must belong to the travel being edited.
type StepInput struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date" binding:"required"`
	Label     string    `json:"label"`
	City      string    `json:"city" binding:"required"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

type CreateTravelRequest struct {
	MaxPassengers int         `json:"max_passengers" binding:"required,gte=1"`
	Price         float64     `json:"price" binding:"gte=0"`
	Description   string      `json:"description"`
	GroupID       *int64      `json:"group_id"`
	Steps         []StepInput `json:"steps" binding:"required,min=2,dive"`
}

// UpdateTravelRequest replaces the travel's editable fields and its whole
// step list in one call. Steps absent from the list are removed.
type UpdateTravelRequest struct {
	MaxPassengers int         `json:"max_passengers" binding:"required,gte=1"`
	Price         float64     `json:"price" binding:"gte=0"`
	Description   string      `json:"description"`
	Steps         []StepInput `json:"steps" binding:"required,min=2,dive"`
}

type CloseTravelRequest struct {
	Reason string `json:"reason"`
}

package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s.
// accepted is only reachable from pending; cancellation is reachable from
// pending or accepted.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingRejected || s == BookingCancelled
}

type Booking struct {
	ID              int64         `json:"id"`
	TravelID        int64         `json:"travel_id" validate:"required"`
	PassengerID     int64         `json:"passenger_id" validate:"required"`
	DepartureStepID int64         `json:"departure_step_id" validate:"required"`
	ArrivalStepID   int64         `json:"arrival_step_id" validate:"required"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Passenger     *User   `json:"passenger,omitempty" gorm:"foreignKey:PassengerID"`
	Travel        *Travel `json:"travel,omitempty" gorm:"foreignKey:TravelID"`
	DepartureStep *Step   `json:"departure_step,omitempty" gorm:"foreignKey:DepartureStepID"`
	ArrivalStep   *Step   `json:"arrival_step,omitempty" gorm:"foreignKey:ArrivalStepID"`
}

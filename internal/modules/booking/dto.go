package booking

type CreateBookingRequest struct {
	TravelID    int64 `json:"travel_id" binding:"required"`
	DepartureID int64 `json:"departure_id" binding:"required"`
	ArrivalID   int64 `json:"arrival_id" binding:"required"`
}

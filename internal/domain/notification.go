package domain

import "time"

type NotificationType string

const (
	NotifBookingRequested   NotificationType = "booking_requested"
	NotifBookingAnswered    NotificationType = "booking_answered"
	NotifBookingAccepted    NotificationType = "booking_accepted"
	NotifBookingRejected    NotificationType = "booking_rejected"
	NotifBookingCancelled   NotificationType = "booking_cancelled"
	NotifBookingDropped     NotificationType = "booking_dropped"
	NotifTravelUpdated      NotificationType = "travel_updated"
	NotifTravelCancelled    NotificationType = "travel_cancelled"
	NotifTravelEnded        NotificationType = "travel_ended"
	NotifAdminTravelUpdated NotificationType = "admin_travel_updated"
	NotifAdminTravelClosed  NotificationType = "admin_travel_closed"
	NotifGroupDeleted       NotificationType = "group_deleted"
)

// Notification is a persisted, user-addressed record of a domain event.
// Title and body are rendered in both supported languages at creation time;
// the client picks the one matching its locale.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	TitleEN   string           `json:"title_en"`
	TitleFR   string           `json:"title_fr"`
	BodyEN    string           `json:"body_en" gorm:"type:text"`
	BodyFR    string           `json:"body_fr" gorm:"type:text"`
	BookingID *int64           `json:"booking_id,omitempty"`
	TravelID  *int64           `json:"travel_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Title returns the rendered title for the requested locale.
func (n *Notification) Title(l Locale) string {
	if l == LocaleFR {
		return n.TitleFR
	}
	return n.TitleEN
}

func (n *Notification) Body(l Locale) string {
	if l == LocaleFR {
		return n.BodyFR
	}
	return n.BodyEN
}

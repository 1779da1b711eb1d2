package notification

import (
	"time"

	"covoit/internal/domain"
	"covoit/internal/pkg/i18n"
)

// One constructor per domain event. Each produces a fixed-shape record with
// both language renderings filled in, so downstream code never assembles
// notification payloads ad hoc.

func build(userID int64, t domain.NotificationType, title, body i18n.Text, bookingID, travelID *int64) domain.Notification {
	return domain.Notification{
		UserID:    userID,
		Type:      t,
		TitleEN:   title.EN,
		TitleFR:   title.FR,
		BodyEN:    body.EN,
		BodyFR:    body.FR,
		BookingID: bookingID,
		TravelID:  travelID,
	}
}

func NewBookingRequested(driverID, bookingID, travelID int64, passengerName, fromCity, toCity string) domain.Notification {
	title, body := i18n.Render(i18n.KeyBookingRequested, passengerName, fromCity, toCity)
	return build(driverID, domain.NotifBookingRequested, title, body, &bookingID, &travelID)
}

func NewBookingAccepted(passengerID, bookingID, travelID int64, fromCity, toCity string) domain.Notification {
	title, body := i18n.Render(i18n.KeyBookingAccepted, fromCity, toCity)
	return build(passengerID, domain.NotifBookingAccepted, title, body, &bookingID, &travelID)
}

func NewBookingRejected(passengerID, bookingID, travelID int64, fromCity, toCity string) domain.Notification {
	title, body := i18n.Render(i18n.KeyBookingRejected, fromCity, toCity)
	return build(passengerID, domain.NotifBookingRejected, title, body, &bookingID, &travelID)
}

// NewBookingCancelled carries the three-way message variant: the body tells
// the driver whether the cancelled booking had been accepted, rejected, or
// was still unanswered. Informational only, not a transition guard.
func NewBookingCancelled(driverID, bookingID, travelID int64, prior domain.BookingStatus, passengerName, fromCity, toCity string) domain.Notification {
	key := i18n.KeyBookingCancelledPending
	switch prior {
	case domain.BookingAccepted:
		key = i18n.KeyBookingCancelledWasAccepted
	case domain.BookingRejected:
		key = i18n.KeyBookingCancelledWasRejected
	}
	title, body := i18n.Render(key, passengerName, fromCity, toCity)
	return build(driverID, domain.NotifBookingCancelled, title, body, &bookingID, &travelID)
}

// NewBookingDropped is the "deleted" variant of a travel update: the
// booking's departure or arrival step was removed from the route. The
// booking row is gone by the time this is read, so only the travel is
// linked.
func NewBookingDropped(passengerID, travelID int64, fromCity, toCity string) domain.Notification {
	title, body := i18n.Render(i18n.KeyBookingDropped, fromCity, toCity)
	return build(passengerID, domain.NotifBookingDropped, title, body, nil, &travelID)
}

func NewTravelUpdated(passengerID, bookingID, travelID int64, fromCity, toCity string) domain.Notification {
	title, body := i18n.Render(i18n.KeyTravelUpdated, fromCity, toCity)
	return build(passengerID, domain.NotifTravelUpdated, title, body, &bookingID, &travelID)
}

func NewTravelCancelled(passengerID, travelID int64, fromCity, toCity string, date time.Time, reason string) domain.Notification {
	title, body := i18n.Render(i18n.KeyTravelCancelled, fromCity, toCity, date.Format("2006-01-02"))
	return build(passengerID, domain.NotifTravelCancelled, title, body.WithReason(reason), nil, &travelID)
}

func NewTravelEnded(passengerID, travelID int64, fromCity, toCity string, reason string) domain.Notification {
	title, body := i18n.Render(i18n.KeyTravelEnded, fromCity, toCity)
	return build(passengerID, domain.NotifTravelEnded, title, body.WithReason(reason), nil, &travelID)
}

func NewAdminTravelUpdated(driverID, travelID int64, fromCity, toCity string) domain.Notification {
	title, body := i18n.Render(i18n.KeyAdminTravelUpdated, fromCity, toCity)
	return build(driverID, domain.NotifAdminTravelUpdated, title, body, nil, &travelID)
}

func NewAdminTravelCancelled(driverID, travelID int64, fromCity, toCity string, reason string) domain.Notification {
	title, body := i18n.Render(i18n.KeyAdminTravelCancelled, fromCity, toCity)
	return build(driverID, domain.NotifAdminTravelClosed, title, body.WithReason(reason), nil, &travelID)
}

func NewAdminTravelEnded(driverID, travelID int64, fromCity, toCity string, reason string) domain.Notification {
	title, body := i18n.Render(i18n.KeyAdminTravelEnded, fromCity, toCity)
	return build(driverID, domain.NotifAdminTravelClosed, title, body.WithReason(reason), nil, &travelID)
}

func NewGroupDeleted(userID int64, groupName string) domain.Notification {
	title, body := i18n.Render(i18n.KeyGroupDeleted, groupName)
	return build(userID, domain.NotifGroupDeleted, title, body, nil, nil)
}

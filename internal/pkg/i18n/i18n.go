package i18n

import "fmt"

// Text carries one message rendered in both supported languages. Records keep
// both renderings so the client picks its locale without a second round trip.
type Text struct {
	EN string `json:"en"`
	FR string `json:"fr"`
}

// Pick returns the rendering for a locale code, defaulting to English.
func (t Text) Pick(locale string) string {
	if locale == "fr" {
		return t.FR
	}
	return t.EN
}

// WithReason appends an optional free-text reason to both renderings.
func (t Text) WithReason(reason string) Text {
	if reason == "" {
		return t
	}
	t.EN = t.EN + ". Reason: " + reason
	t.FR = t.FR + ". Motif : " + reason
	return t
}

type Key string

const (
	KeyBookingRequested            Key = "booking.requested"
	KeyBookingAnsweredAccepted     Key = "booking.answered.accepted"
	KeyBookingAnsweredRejected     Key = "booking.answered.rejected"
	KeyBookingAccepted             Key = "booking.accepted"
	KeyBookingRejected             Key = "booking.rejected"
	KeyBookingCancelledWasAccepted Key = "booking.cancelled.was_accepted"
	KeyBookingCancelledWasRejected Key = "booking.cancelled.was_rejected"
	KeyBookingCancelledPending     Key = "booking.cancelled.pending"
	KeyBookingDropped              Key = "booking.dropped"
	KeyTravelUpdated               Key = "travel.updated"
	KeyTravelCancelled             Key = "travel.cancelled"
	KeyTravelEnded                 Key = "travel.ended"
	KeyAdminTravelUpdated          Key = "admin.travel.updated"
	KeyAdminTravelCancelled        Key = "admin.travel.cancelled"
	KeyAdminTravelEnded            Key = "admin.travel.ended"
	KeyGroupDeleted                Key = "group.deleted"
	KeyVerificationCode            Key = "auth.verification_code"
)

type entry struct {
	titleEN, titleFR string
	bodyEN, bodyFR   string
}

// Both language bodies of an entry take the same fmt arguments in the same
// order.
var catalog = map[Key]entry{
	KeyBookingRequested: {
		titleEN: "New booking request",
		titleFR: "Nouvelle demande de réservation",
		bodyEN:  "%s asked to ride with you from %s to %s",
		bodyFR:  "%s souhaite voyager avec vous de %s à %s",
	},
	KeyBookingAnsweredAccepted: {
		titleEN: "Booking request accepted",
		titleFR: "Demande de réservation acceptée",
		bodyEN:  "You accepted the booking request from %s",
		bodyFR:  "Vous avez accepté la demande de réservation de %s",
	},
	KeyBookingAnsweredRejected: {
		titleEN: "Booking request rejected",
		titleFR: "Demande de réservation refusée",
		bodyEN:  "You rejected the booking request from %s",
		bodyFR:  "Vous avez refusé la demande de réservation de %s",
	},
	KeyBookingAccepted: {
		titleEN: "Booking accepted",
		titleFR: "Réservation acceptée",
		bodyEN:  "Your booking from %s to %s was accepted by the driver",
		bodyFR:  "Votre réservation de %s à %s a été acceptée par le conducteur",
	},
	KeyBookingRejected: {
		titleEN: "Booking rejected",
		titleFR: "Réservation refusée",
		bodyEN:  "Your booking from %s to %s was rejected by the driver",
		bodyFR:  "Votre réservation de %s à %s a été refusée par le conducteur",
	},
	KeyBookingCancelledWasAccepted: {
		titleEN: "Booking cancelled",
		titleFR: "Réservation annulée",
		bodyEN:  "%s cancelled the booking from %s to %s that you had accepted",
		bodyFR:  "%s a annulé la réservation de %s à %s que vous aviez acceptée",
	},
	KeyBookingCancelledWasRejected: {
		titleEN: "Booking cancelled",
		titleFR: "Réservation annulée",
		bodyEN:  "%s cancelled the booking from %s to %s that you had rejected",
		bodyFR:  "%s a annulé la réservation de %s à %s que vous aviez refusée",
	},
	KeyBookingCancelledPending: {
		titleEN: "Booking cancelled",
		titleFR: "Réservation annulée",
		bodyEN:  "%s cancelled the booking request from %s to %s before you answered it",
		bodyFR:  "%s a annulé la demande de réservation de %s à %s avant votre réponse",
	},
	KeyBookingDropped: {
		titleEN: "Booking removed",
		titleFR: "Réservation supprimée",
		bodyEN:  "Your booking from %s to %s no longer matches the updated route and was removed",
		bodyFR:  "Votre réservation de %s à %s ne correspond plus au nouvel itinéraire et a été supprimée",
	},
	KeyTravelUpdated: {
		titleEN: "Travel updated",
		titleFR: "Trajet modifié",
		bodyEN:  "The travel from %s to %s you booked was modified",
		bodyFR:  "Le trajet de %s à %s que vous avez réservé a été modifié",
	},
	KeyTravelCancelled: {
		titleEN: "Travel cancelled",
		titleFR: "Trajet annulé",
		bodyEN:  "The travel from %s to %s on %s was cancelled",
		bodyFR:  "Le trajet de %s à %s du %s a été annulé",
	},
	KeyTravelEnded: {
		titleEN: "Travel ended",
		titleFR: "Trajet terminé",
		bodyEN:  "The travel from %s to %s has ended",
		bodyFR:  "Le trajet de %s à %s est terminé",
	},
	KeyAdminTravelUpdated: {
		titleEN: "Travel updated by an administrator",
		titleFR: "Trajet modifié par un administrateur",
		bodyEN:  "An administrator modified your travel from %s to %s",
		bodyFR:  "Un administrateur a modifié votre trajet de %s à %s",
	},
	KeyAdminTravelCancelled: {
		titleEN: "Travel cancelled by an administrator",
		titleFR: "Trajet annulé par un administrateur",
		bodyEN:  "An administrator cancelled your travel from %s to %s",
		bodyFR:  "Un administrateur a annulé votre trajet de %s à %s",
	},
	KeyAdminTravelEnded: {
		titleEN: "Travel ended by an administrator",
		titleFR: "Trajet terminé par un administrateur",
		bodyEN:  "An administrator ended your travel from %s to %s",
		bodyFR:  "Un administrateur a terminé votre trajet de %s à %s",
	},
	KeyGroupDeleted: {
		titleEN: "Group deleted",
		titleFR: "Groupe supprimé",
		bodyEN:  "The group %q was deleted; its open travels were cancelled",
		bodyFR:  "Le groupe %q a été supprimé ; ses trajets ouverts ont été annulés",
	},
	KeyVerificationCode: {
		titleEN: "Your verification code",
		titleFR: "Votre code de vérification",
		bodyEN:  "Your email verification code is %s",
		bodyFR:  "Votre code de vérification est %s",
	},
}

// Render produces the bilingual title and body for a message key. Unknown
// keys render empty, which would surface immediately in tests.
func Render(k Key, args ...any) (title Text, body Text) {
	e, ok := catalog[k]
	if !ok {
		return Text{}, Text{}
	}
	title = Text{EN: e.titleEN, FR: e.titleFR}
	body = Text{
		EN: fmt.Sprintf(e.bodyEN, args...),
		FR: fmt.Sprintf(e.bodyFR, args...),
	}
	return title, body
}

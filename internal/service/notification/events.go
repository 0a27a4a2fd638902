package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
)

// CancelledBy names who cancelled an appointment; the other party is notified.
type CancelledBy string

const (
	CancelledByDoctor CancelledBy = "doctor"
	CancelledByAdmin  CancelledBy = "admin"
)

// AppointmentParties carries what the appointment messages need.
type AppointmentParties struct {
	AppointmentID uuid.UUID
	PatientID     uuid.UUID
	DoctorUserID  uuid.UUID
	PatientName   string
	DoctorName    string
	Date          string
	Time          string
	Disease       string
}

func (s *service) AppointmentBooked(ctx context.Context, a AppointmentParties) {
	related := a.AppointmentID

	s.Notify(ctx, Message{
		RecipientID: a.DoctorUserID,
		Type:        model.NotificationAppointmentBooked,
		Title:       "New Appointment Request",
		Message: fmt.Sprintf("%s has booked an appointment with you on %s at %s for %s.",
			a.PatientName, a.Date, a.Time, a.Disease),
		RelatedID: &related,
	})

	s.Notify(ctx, Message{
		RecipientID: a.PatientID,
		Type:        model.NotificationAppointmentBooked,
		Title:       "Appointment Booked",
		Message: fmt.Sprintf("Your appointment with Dr. %s on %s at %s is pending confirmation.",
			a.DoctorName, a.Date, a.Time),
		RelatedID: &related,
	})
}

func (s *service) AppointmentAccepted(ctx context.Context, a AppointmentParties) {
	related := a.AppointmentID
	s.Notify(ctx, Message{
		RecipientID: a.PatientID,
		Type:        model.NotificationAppointmentAccepted,
		Title:       "Appointment Confirmed",
		Message: fmt.Sprintf("Dr. %s has accepted your appointment on %s at %s.",
			a.DoctorName, a.Date, a.Time),
		RelatedID: &related,
	})
}

func (s *service) AppointmentCompleted(ctx context.Context, a AppointmentParties) {
	related := a.AppointmentID
	s.Notify(ctx, Message{
		RecipientID: a.PatientID,
		Type:        model.NotificationAppointmentCompleted,
		Title:       "Appointment Completed",
		Message: fmt.Sprintf("Your appointment with Dr. %s on %s has been marked as completed.",
			a.DoctorName, a.Date),
		RelatedID: &related,
	})
}

func (s *service) AppointmentCancelled(ctx context.Context, a AppointmentParties, by CancelledBy, actorName string) {
	recipient := a.DoctorUserID
	if by == CancelledByDoctor {
		recipient = a.PatientID
	}

	related := a.AppointmentID
	s.Notify(ctx, Message{
		RecipientID: recipient,
		Type:        model.NotificationAppointmentCancelled,
		Title:       "Appointment Cancelled",
		Message: fmt.Sprintf("%s has cancelled the appointment scheduled for %s at %s.",
			actorName, a.Date, a.Time),
		RelatedID: &related,
	})
}

func (s *service) PrescriptionIssued(ctx context.Context, patientID, prescriptionID uuid.UUID, doctorName string, medicineCount int) {
	related := prescriptionID
	s.Notify(ctx, Message{
		RecipientID: patientID,
		Type:        model.NotificationPrescriptionIssued,
		Title:       "New Prescription",
		Message: fmt.Sprintf("Dr. %s has issued a prescription for you with %d medicine(s).",
			doctorName, medicineCount),
		RelatedID: &related,
	})
}

func (s *service) DoctorEnabled(ctx context.Context, doctorUserID uuid.UUID) {
	s.Notify(ctx, Message{
		RecipientID: doctorUserID,
		Type:        model.NotificationDoctorEnabled,
		Title:       "Account Approved",
		Message:     "Your doctor account has been approved by an administrator. You can now accept appointments and manage your schedule.",
	})
}

package mongodb

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
)

// Documents mirror the models with string ids so records stay readable in the shell.

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func base(id string, created, updated time.Time) model.Base {
	return model.Base{ID: parseID(id), CreatedAt: created, UpdatedAt: updated}
}

type userDocument struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Email         string    `bson:"email"`
	Password      string    `bson:"password"`
	Role          string    `bson:"role"`
	EmailVerified bool      `bson:"emailVerified"`
	IsActive      bool      `bson:"isActive"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func toUserDocument(u *model.User) userDocument {
	return userDocument{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Password:      u.PasswordHash,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (d userDocument) model() *model.User {
	return &model.User{
		Base:          base(d.ID, d.CreatedAt, d.UpdatedAt),
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.Password,
		Role:          model.Role(d.Role),
		EmailVerified: d.EmailVerified,
		IsActive:      d.IsActive,
	}
}

type doctorDocument struct {
	ID            string                              `bson:"_id"`
	UserID        string                              `bson:"userId"`
	Specialty     string                              `bson:"specialty"`
	LicenseNumber string                              `bson:"licenseNumber"`
	Experience    int                                 `bson:"experience"`
	Phone         string                              `bson:"phone"`
	Bio           string                              `bson:"bio"`
	Status        string                              `bson:"status"`
	Availability  map[model.Weekday]model.DaySchedule `bson:"availability"`
	Notifications model.NotificationPrefs             `bson:"notifications"`
	CreatedAt     time.Time                           `bson:"createdAt"`
	UpdatedAt     time.Time                           `bson:"updatedAt"`
}

func toDoctorDocument(d *model.DoctorProfile) doctorDocument {
	return doctorDocument{
		ID:            d.ID.String(),
		UserID:        d.UserID.String(),
		Specialty:     d.Specialty,
		LicenseNumber: d.LicenseNumber,
		Experience:    d.Experience,
		Phone:         d.Phone,
		Bio:           d.Bio,
		Status:        string(d.Status),
		Availability:  d.Availability,
		Notifications: d.Notifications,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (d doctorDocument) model() *model.DoctorProfile {
	return &model.DoctorProfile{
		Base:          base(d.ID, d.CreatedAt, d.UpdatedAt),
		UserID:        parseID(d.UserID),
		Specialty:     d.Specialty,
		LicenseNumber: d.LicenseNumber,
		Experience:    d.Experience,
		Phone:         d.Phone,
		Bio:           d.Bio,
		Status:        model.DoctorStatus(d.Status),
		Availability:  model.Availability(d.Availability),
		Notifications: d.Notifications,
	}
}

type patientDocument struct {
	ID               string                  `bson:"_id"`
	UserID           string                  `bson:"userId"`
	DOB              string                  `bson:"dob"`
	Phone            string                  `bson:"phone"`
	Address          string                  `bson:"address"`
	EmergencyContact model.EmergencyContact  `bson:"emergencyContact"`
	Notifications    model.NotificationPrefs `bson:"notifications"`
	CreatedAt        time.Time               `bson:"createdAt"`
	UpdatedAt        time.Time               `bson:"updatedAt"`
}

func toPatientDocument(p *model.PatientProfile) patientDocument {
	return patientDocument{
		ID:               p.ID.String(),
		UserID:           p.UserID.String(),
		DOB:              p.DOB,
		Phone:            p.Phone,
		Address:          p.Address,
		EmergencyContact: p.EmergencyContact,
		Notifications:    p.Notifications,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (d patientDocument) model() *model.PatientProfile {
	return &model.PatientProfile{
		Base:             base(d.ID, d.CreatedAt, d.UpdatedAt),
		UserID:           parseID(d.UserID),
		DOB:              d.DOB,
		Phone:            d.Phone,
		Address:          d.Address,
		EmergencyContact: d.EmergencyContact,
		Notifications:    d.Notifications,
	}
}

type appointmentDocument struct {
	ID        string    `bson:"_id"`
	PatientID string    `bson:"patientId"`
	DoctorID  string    `bson:"doctorId"`
	Disease   string    `bson:"disease"`
	Specialty string    `bson:"specialty"`
	Date      string    `bson:"date"`
	Time      string    `bson:"time"`
	Status    string    `bson:"status"`
	Notes     string    `bson:"notes"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toAppointmentDocument(a *model.Appointment) appointmentDocument {
	return appointmentDocument{
		ID:        a.ID.String(),
		PatientID: a.PatientID.String(),
		DoctorID:  a.DoctorID.String(),
		Disease:   a.Disease,
		Specialty: a.Specialty,
		Date:      a.Date,
		Time:      a.Time,
		Status:    string(a.Status),
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (d appointmentDocument) model() *model.Appointment {
	return &model.Appointment{
		Base:      base(d.ID, d.CreatedAt, d.UpdatedAt),
		PatientID: parseID(d.PatientID),
		DoctorID:  parseID(d.DoctorID),
		Disease:   d.Disease,
		Specialty: d.Specialty,
		Date:      d.Date,
		Time:      d.Time,
		Status:    model.AppointmentStatus(d.Status),
		Notes:     d.Notes,
	}
}

type prescriptionDocument struct {
	ID        string           `bson:"_id"`
	DoctorID  string           `bson:"doctorId"`
	PatientID string           `bson:"patientId"`
	Medicines []model.Medicine `bson:"medicines"`
	Notes     string           `bson:"notes"`
	CreatedAt time.Time        `bson:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt"`
}

func toPrescriptionDocument(p *model.Prescription) prescriptionDocument {
	return prescriptionDocument{
		ID:        p.ID.String(),
		DoctorID:  p.DoctorID.String(),
		PatientID: p.PatientID.String(),
		Medicines: p.Medicines,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d prescriptionDocument) model() *model.Prescription {
	return &model.Prescription{
		Base:      base(d.ID, d.CreatedAt, d.UpdatedAt),
		DoctorID:  parseID(d.DoctorID),
		PatientID: parseID(d.PatientID),
		Medicines: d.Medicines,
		Notes:     d.Notes,
	}
}

type notificationDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Type      string    `bson:"type"`
	Title     string    `bson:"title"`
	Message   string    `bson:"message"`
	Read      bool      `bson:"read"`
	EmailSent bool      `bson:"emailSent"`
	RelatedID string    `bson:"relatedId,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toNotificationDocument(n *model.Notification) notificationDocument {
	doc := notificationDocument{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		EmailSent: n.EmailSent,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.RelatedID != nil {
		doc.RelatedID = n.RelatedID.String()
	}
	return doc
}

func (d notificationDocument) model() *model.Notification {
	n := &model.Notification{
		Base:      base(d.ID, d.CreatedAt, d.UpdatedAt),
		UserID:    parseID(d.UserID),
		Type:      model.NotificationType(d.Type),
		Title:     d.Title,
		Message:   d.Message,
		Read:      d.Read,
		EmailSent: d.EmailSent,
	}
	if d.RelatedID != "" {
		related := parseID(d.RelatedID)
		n.RelatedID = &related
	}
	return n
}

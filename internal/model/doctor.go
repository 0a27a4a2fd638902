package model

import (
	"fmt"

	"github.com/google/uuid"
)

type DoctorStatus string

const (
	DoctorStatusPending  DoctorStatus = "Pending"
	DoctorStatusEnabled  DoctorStatus = "Enabled"
	DoctorStatusDisabled DoctorStatus = "Disabled"
)

func (s DoctorStatus) Valid() bool {
	switch s {
	case DoctorStatusPending, DoctorStatusEnabled, DoctorStatusDisabled:
		return true
	}
	return false
}

// Weekday keys of an availability map.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

type DaySchedule struct {
	On    bool     `json:"on" bson:"on"`
	Slots []string `json:"slots" bson:"slots"`
}

// Availability is the weekly schedule of a doctor.
type Availability map[Weekday]DaySchedule

// DefaultAvailability returns all seven days switched off.
func DefaultAvailability() Availability {
	a := make(Availability, len(Weekdays))
	for _, d := range Weekdays {
		a[d] = DaySchedule{On: false, Slots: []string{}}
	}
	return a
}

// Validate rejects unknown day keys.
func (a Availability) Validate() error {
	for day := range a {
		if !day.Valid() {
			return fmt.Errorf("unknown day %q", day)
		}
	}
	return nil
}

// Merge overlays the given days onto a full week, keeping days not mentioned.
func (a Availability) Merge(update Availability) Availability {
	out := DefaultAvailability()
	for d, s := range a {
		out[d] = s
	}
	for d, s := range update {
		if s.Slots == nil {
			s.Slots = []string{}
		}
		out[d] = s
	}
	return out
}

type DoctorProfile struct {
	Base
	UserID        uuid.UUID         `json:"userId" db:"user_id"`
	Specialty     string            `json:"specialty" db:"specialty"`
	LicenseNumber string            `json:"licenseNumber" db:"license_number"`
	Experience    int               `json:"experience" db:"experience"`
	Phone         string            `json:"phone" db:"phone"`
	Bio           string            `json:"bio" db:"bio"`
	Status        DoctorStatus      `json:"status" db:"status"`
	Availability  Availability      `json:"availability" db:"availability"`
	Notifications NotificationPrefs `json:"notifications" db:"notifications"`
}

func (d *DoctorProfile) EmailNotificationsEnabled() bool {
	return d.Notifications.Email
}

// NewDoctorProfile builds the profile created alongside a doctor registration.
func NewDoctorProfile(userID uuid.UUID, specialty, licenseNumber, phone string) *DoctorProfile {
	return &DoctorProfile{
		Base:          NewBase(),
		UserID:        userID,
		Specialty:     specialty,
		LicenseNumber: licenseNumber,
		Phone:         phone,
		Status:        DoctorStatusPending,
		Availability:  DefaultAvailability(),
		Notifications: DefaultNotificationPrefs(),
	}
}

// DoctorWithUser is a profile joined with its identity summary.
type DoctorWithUser struct {
	*DoctorProfile
	User *UserSummary `json:"user,omitempty"`
}

type DoctorFilter struct {
	Specialty string
	Status    DoctorStatus
}

type UpdateDoctorStatusRequest struct {
	Status DoctorStatus `json:"status" binding:"required,doctor_status"`
}

type UpdateAvailabilityRequest struct {
	Availability Availability `json:"availability" binding:"required"`
}

type UpdateDoctorProfileRequest struct {
	Phone         *string            `json:"phone"`
	Bio           *string            `json:"bio"`
	Experience    *int               `json:"experience" binding:"omitempty,min=0"`
	LicenseNumber *string            `json:"licenseNumber"`
	Notifications *NotificationPrefs `json:"notifications"`
}

// Apply copies the non-nil fields onto the profile.
func (r *UpdateDoctorProfileRequest) Apply(d *DoctorProfile) {
	if r.Phone != nil {
		d.Phone = *r.Phone
	}
	if r.Bio != nil {
		d.Bio = *r.Bio
	}
	if r.Experience != nil {
		d.Experience = *r.Experience
	}
	if r.LicenseNumber != nil {
		d.LicenseNumber = *r.LicenseNumber
	}
	if r.Notifications != nil {
		d.Notifications = *r.Notifications
	}
}

// Package memory is an in-process store used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
)

// NewStore returns a Store whose repositories share nothing but the process.
func NewStore() *repository.Store {
	return &repository.Store{
		Users:         NewUserRepository(),
		Doctors:       NewDoctorRepository(),
		Patients:      NewPatientRepository(),
		Appointments:  NewAppointmentRepository(),
		Prescriptions: NewPrescriptionRepository(),
		Notifications: NewNotificationRepository(),
		Ping:          func(context.Context) error { return nil },
		Close:         func(context.Context) error { return nil },
	}
}

func newestFirst[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).After(created(items[j]))
	})
}

type userRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *userRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = model.NormalizeEmail(user.Email)
	if _, ok := r.byEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.Stamp()
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *userRepository) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *userRepository) List(_ context.Context, filter model.UserFilter) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.byID))
	for _, u := range r.byID {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		u := u
		users = append(users, &u)
	}
	newestFirst(users, func(u *model.User) time.Time { return u.CreatedAt })
	return users, nil
}

func (r *userRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = active
	u.Touch()
	r.byID[id] = u
	return nil
}

func (r *userRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byEmail, model.NormalizeEmail(u.Email))
	delete(r.byID, id)
	return nil
}

func copyAvailability(a model.Availability) model.Availability {
	if a == nil {
		return nil
	}
	out := make(model.Availability, len(a))
	for d, s := range a {
		slots := make([]string, len(s.Slots))
		copy(slots, s.Slots)
		out[d] = model.DaySchedule{On: s.On, Slots: slots}
	}
	return out
}

func copyDoctor(d model.DoctorProfile) *model.DoctorProfile {
	d.Availability = copyAvailability(d.Availability)
	return &d
}

type doctorRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]model.DoctorProfile
	byUser map[uuid.UUID]uuid.UUID
}

func NewDoctorRepository() repository.DoctorRepository {
	return &doctorRepository{
		byID:   make(map[uuid.UUID]model.DoctorProfile),
		byUser: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *doctorRepository) Create(_ context.Context, doctor *model.DoctorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[doctor.UserID]; ok {
		return repository.ErrDuplicate
	}
	doctor.Stamp()
	r.byID[doctor.ID] = *copyDoctor(*doctor)
	r.byUser[doctor.UserID] = doctor.ID
	return nil
}

func (r *doctorRepository) Get(_ context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyDoctor(d), nil
}

func (r *doctorRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyDoctor(r.byID[id]), nil
}

func (r *doctorRepository) List(_ context.Context, filter model.DoctorFilter) ([]*model.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doctors := make([]*model.DoctorProfile, 0, len(r.byID))
	for _, d := range r.byID {
		if filter.Specialty != "" && d.Specialty != filter.Specialty {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		doctors = append(doctors, copyDoctor(d))
	}
	newestFirst(doctors, func(d *model.DoctorProfile) time.Time { return d.CreatedAt })
	return doctors, nil
}

func (r *doctorRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.DoctorStatus) error {
	return r.mutate(id, func(d *model.DoctorProfile) { d.Status = status })
}

func (r *doctorRepository) UpdateAvailability(_ context.Context, id uuid.UUID, availability model.Availability) error {
	return r.mutate(id, func(d *model.DoctorProfile) { d.Availability = copyAvailability(availability) })
}

func (r *doctorRepository) UpdateProfile(_ context.Context, doctor *model.DoctorProfile) error {
	return r.mutate(doctor.ID, func(d *model.DoctorProfile) {
		d.Phone = doctor.Phone
		d.Bio = doctor.Bio
		d.Experience = doctor.Experience
		d.LicenseNumber = doctor.LicenseNumber
		d.Notifications = doctor.Notifications
	})
}

func (r *doctorRepository) mutate(id uuid.UUID, fn func(*model.DoctorProfile)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&d)
	d.Touch()
	r.byID[id] = d
	return nil
}

type patientRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]model.PatientProfile
	byUser map[uuid.UUID]uuid.UUID
}

func NewPatientRepository() repository.PatientRepository {
	return &patientRepository{
		byID:   make(map[uuid.UUID]model.PatientProfile),
		byUser: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *patientRepository) Create(_ context.Context, patient *model.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[patient.UserID]; ok {
		return repository.ErrDuplicate
	}
	patient.Stamp()
	r.byID[patient.ID] = *patient
	r.byUser[patient.UserID] = patient.ID
	return nil
}

func (r *patientRepository) Get(_ context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *patientRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := r.byID[id]
	return &p, nil
}

func (r *patientRepository) List(_ context.Context) ([]*model.PatientProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patients := make([]*model.PatientProfile, 0, len(r.byID))
	for _, p := range r.byID {
		p := p
		patients = append(patients, &p)
	}
	newestFirst(patients, func(p *model.PatientProfile) time.Time { return p.CreatedAt })
	return patients, nil
}

func (r *patientRepository) Update(_ context.Context, patient *model.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[patient.ID]
	if !ok {
		return repository.ErrNotFound
	}
	patient.UserID = existing.UserID
	patient.CreatedAt = existing.CreatedAt
	patient.Touch()
	r.byID[patient.ID] = *patient
	return nil
}

type appointmentRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]model.Appointment
}

func NewAppointmentRepository() repository.AppointmentRepository {
	return &appointmentRepository{byID: make(map[uuid.UUID]model.Appointment)}
}

func (r *appointmentRepository) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appointment.Stamp()
	r.byID[appointment.ID] = *appointment
	return nil
}

func (r *appointmentRepository) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *appointmentRepository) List(_ context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Appointment, 0)
	for _, a := range r.byID {
		if filter.PatientID != uuid.Nil && a.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != uuid.Nil && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		a := a
		out = append(out, &a)
	}
	newestFirst(out, func(a *model.Appointment) time.Time { return a.CreatedAt })
	return out, nil
}

func (r *appointmentRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.Touch()
	r.byID[id] = a
	return nil
}

type prescriptionRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]model.Prescription
}

func NewPrescriptionRepository() repository.PrescriptionRepository {
	return &prescriptionRepository{byID: make(map[uuid.UUID]model.Prescription)}
}

func copyPrescription(p model.Prescription) *model.Prescription {
	meds := make(model.Medicines, len(p.Medicines))
	copy(meds, p.Medicines)
	p.Medicines = meds
	return &p
}

func (r *prescriptionRepository) Create(_ context.Context, prescription *model.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prescription.Stamp()
	r.byID[prescription.ID] = *copyPrescription(*prescription)
	return nil
}

func (r *prescriptionRepository) Get(_ context.Context, id uuid.UUID) (*model.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyPrescription(p), nil
}

func (r *prescriptionRepository) List(_ context.Context, filter model.PrescriptionFilter) ([]*model.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Prescription, 0)
	for _, p := range r.byID {
		if filter.PatientID != uuid.Nil && p.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != uuid.Nil && p.DoctorID != filter.DoctorID {
			continue
		}
		out = append(out, copyPrescription(p))
	}
	newestFirst(out, func(p *model.Prescription) time.Time { return p.CreatedAt })
	return out, nil
}

type notificationRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]model.Notification
}

func NewNotificationRepository() repository.NotificationRepository {
	return &notificationRepository{byID: make(map[uuid.UUID]model.Notification)}
}

func (r *notificationRepository) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.Stamp()
	r.byID[n.ID] = *n
	return nil
}

func (r *notificationRepository) Get(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Notification, 0)
	for _, n := range r.byID {
		if n.UserID != userID {
			continue
		}
		n := n
		out = append(out, &n)
	}
	newestFirst(out, func(n *model.Notification) time.Time { return n.CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationRepository) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.byID {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, func(n *model.Notification) { n.Read = true })
}

func (r *notificationRepository) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.byID {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.Touch()
			r.byID[id] = n
		}
	}
	return nil
}

func (r *notificationRepository) MarkEmailSent(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, func(n *model.Notification) { n.EmailSent = true })
}

func (r *notificationRepository) mutate(id uuid.UUID, fn func(*model.Notification)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&n)
	n.Touch()
	r.byID[id] = n
	return nil
}

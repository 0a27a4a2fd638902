package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/repository"
)

type doctorRepository struct {
	coll *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) repository.DoctorRepository {
	return &doctorRepository{coll: db.Collection(doctorsCollection)}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.DoctorProfile) error {
	doctor.Stamp()
	if _, err := r.coll.InsertOne(ctx, toDoctorDocument(doctor)); err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", duplicate(err))
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	return r.findOne(ctx, bson.M{"userId": userID.String()})
}

func (r *doctorRepository) findOne(ctx context.Context, filter bson.M) (*model.DoctorProfile, error) {
	var doc doctorDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", notFound(err))
	}
	return doc.model(), nil
}

func (r *doctorRepository) List(ctx context.Context, filter model.DoctorFilter) ([]*model.DoctorProfile, error) {
	query := bson.M{}
	if filter.Specialty != "" {
		query["specialty"] = filter.Specialty
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	var docs []doctorDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}

	doctors := make([]*model.DoctorProfile, 0, len(docs))
	for _, d := range docs {
		doctors = append(doctors, d.model())
	}
	return doctors, nil
}

func (r *doctorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DoctorStatus) error {
	return r.set(ctx, id, bson.M{"status": string(status)})
}

func (r *doctorRepository) UpdateAvailability(ctx context.Context, id uuid.UUID, availability model.Availability) error {
	return r.set(ctx, id, bson.M{"availability": map[model.Weekday]model.DaySchedule(availability)})
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, doctor *model.DoctorProfile) error {
	return r.set(ctx, doctor.ID, bson.M{
		"phone":         doctor.Phone,
		"bio":           doctor.Bio,
		"experience":    doctor.Experience,
		"licenseNumber": doctor.LicenseNumber,
		"notifications": doctor.Notifications,
	})
}

func (r *doctorRepository) set(ctx context.Context, id uuid.UUID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	return matched(res)
}

type patientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) repository.PatientRepository {
	return &patientRepository{coll: db.Collection(patientsCollection)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.PatientProfile) error {
	patient.Stamp()
	if _, err := r.coll.InsertOne(ctx, toPatientDocument(patient)); err != nil {
		return fmt.Errorf("failed to create patient profile: %w", duplicate(err))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	return r.findOne(ctx, bson.M{"userId": userID.String()})
}

func (r *patientRepository) findOne(ctx context.Context, filter bson.M) (*model.PatientProfile, error) {
	var doc patientDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get patient profile: %w", notFound(err))
	}
	return doc.model(), nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.PatientProfile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	var docs []patientDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode patients: %w", err)
	}

	patients := make([]*model.PatientProfile, 0, len(docs))
	for _, d := range docs {
		patients = append(patients, d.model())
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.PatientProfile) error {
	patient.Touch()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": patient.ID.String()}, bson.M{"$set": bson.M{
		"dob":              patient.DOB,
		"phone":            patient.Phone,
		"address":          patient.Address,
		"emergencyContact": patient.EmergencyContact,
		"notifications":    patient.Notifications,
		"updatedAt":        patient.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update patient profile: %w", err)
	}
	return matched(res)
}

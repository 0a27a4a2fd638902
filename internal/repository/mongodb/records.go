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

type appointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) repository.AppointmentRepository {
	return &appointmentRepository{coll: db.Collection(appointmentsCollection)}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	appointment.Stamp()
	if _, err := r.coll.InsertOne(ctx, toAppointmentDocument(appointment)); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var doc appointmentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", notFound(err))
	}
	return doc.model(), nil
}

func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	query := bson.M{}
	if filter.PatientID != uuid.Nil {
		query["patientId"] = filter.PatientID.String()
	}
	if filter.DoctorID != uuid.Nil {
		query["doctorId"] = filter.DoctorID.String()
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	var docs []appointmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}

	out := make([]*model.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return matched(res)
}

type prescriptionRepository struct {
	coll *mongo.Collection
}

func NewPrescriptionRepository(db *mongo.Database) repository.PrescriptionRepository {
	return &prescriptionRepository{coll: db.Collection(prescriptionsCollection)}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	prescription.Stamp()
	if _, err := r.coll.InsertOne(ctx, toPrescriptionDocument(prescription)); err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var doc prescriptionDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", notFound(err))
	}
	return doc.model(), nil
}

func (r *prescriptionRepository) List(ctx context.Context, filter model.PrescriptionFilter) ([]*model.Prescription, error) {
	query := bson.M{}
	if filter.PatientID != uuid.Nil {
		query["patientId"] = filter.PatientID.String()
	}
	if filter.DoctorID != uuid.Nil {
		query["doctorId"] = filter.DoctorID.String()
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	var docs []prescriptionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode prescriptions: %w", err)
	}

	out := make([]*model.Prescription, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

type notificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &notificationRepository{coll: db.Collection(notificationsCollection)}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	n.Stamp()
	if _, err := r.coll.InsertOne(ctx, toNotificationDocument(n)); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var doc notificationDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", notFound(err))
	}
	return doc.model(), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	var docs []notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	out := make([]*model.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID.String(), "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.set(ctx, id, bson.M{"read": true})
}

func (r *notificationRepository) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	return r.set(ctx, id, bson.M{"emailSent": true})
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"userId": userID.String(), "read": false},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) set(ctx context.Context, id uuid.UUID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return matched(res)
}

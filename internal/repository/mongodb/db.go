// Package mongodb is the MongoDB document store, the default backend.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jwalitptl/medibook-api/internal/repository"
)

const (
	usersCollection         = "users"
	doctorsCollection       = "doctors"
	patientsCollection      = "patients"
	appointmentsCollection  = "appointments"
	prescriptionsCollection = "prescriptions"
	notificationsCollection = "notifications"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	// Test the connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, nil
}

// NewStore wires every repository onto one database.
func NewStore(client *mongo.Client, database string) *repository.Store {
	db := client.Database(database)
	return &repository.Store{
		Users:         NewUserRepository(db),
		Doctors:       NewDoctorRepository(db),
		Patients:      NewPatientRepository(db),
		Appointments:  NewAppointmentRepository(db),
		Prescriptions: NewPrescriptionRepository(db),
		Notifications: NewNotificationRepository(db),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: client.Disconnect,
	}
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		doctorsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "specialty", Value: 1}, {Key: "status", Value: 1}}},
		},
		patientsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		appointmentsCollection: {
			{Keys: bson.D{{Key: "patientId", Value: 1}}},
			{Keys: bson.D{{Key: "doctorId", Value: 1}}},
		},
		prescriptionsCollection: {
			{Keys: bson.D{{Key: "patientId", Value: 1}}},
			{Keys: bson.D{{Key: "doctorId", Value: 1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func matched(res *mongo.UpdateResult) error {
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if err == mongo.ErrNoDocuments {
		return repository.ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

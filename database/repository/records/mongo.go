package recordsRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agendapro/models"
	"agendapro/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const settingsDocID = "settings"

// settingsDoc wraps the free-form settings as JSON so nested values round-trip
// with the same types as the other backends.
type settingsDoc struct {
	ID        string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRecordStore keeps services and appointments one document per record.
type MongoRecordStore struct {
	client       *mongo.Client
	services     *mongo.Collection
	appointments *mongo.Collection
	settings     *mongo.Collection
}

// NewMongoRecordStore binds the store to dbName and creates its indexes.
func NewMongoRecordStore(client *mongo.Client, dbName string) *MongoRecordStore {
	db := client.Database(dbName)
	store := &MongoRecordStore{
		client:       client,
		services:     db.Collection(ServicesCollection),
		appointments: db.Collection(AppointmentsCollection),
		settings:     db.Collection(SettingsCollection),
	}
	if err := store.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create record indexes", zap.Error(err))
	}
	return store
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates the unique id indexes and the per-day lookup index.
func (s *MongoRecordStore) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := s.services.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}

	_, err := s.appointments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}

func (s *MongoRecordStore) LoadServices(ctx context.Context) ([]models.Service, error) {
	return findAll[models.Service](ctx, s.services, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *MongoRecordStore) LoadAppointments(ctx context.Context) ([]models.Appointment, error) {
	return findAll[models.Appointment](ctx, s.appointments,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}))
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func (s *MongoRecordStore) LoadSettings(ctx context.Context) (map[string]any, error) {
	var doc settingsDoc
	err := s.settings.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(doc.Data), &out); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

func (s *MongoRecordStore) SaveServices(ctx context.Context, services []models.Service) error {
	writes := make([]mongo.WriteModel, 0, len(services)+1)
	ids := make([]string, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": svc.ID}).
			SetReplacement(svc).
			SetUpsert(true))
	}
	return replaceCollection(ctx, s.services, writes, ids)
}

func (s *MongoRecordStore) SaveAppointments(ctx context.Context, appointments []models.Appointment) error {
	writes := make([]mongo.WriteModel, 0, len(appointments)+1)
	ids := make([]string, 0, len(appointments))
	for _, apt := range appointments {
		ids = append(ids, apt.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": apt.ID}).
			SetReplacement(apt).
			SetUpsert(true))
	}
	return replaceCollection(ctx, s.appointments, writes, ids)
}

// replaceCollection upserts every record and removes the ones no longer present.
func replaceCollection(ctx context.Context, coll *mongo.Collection, writes []mongo.WriteModel, keep []string) error {
	writes = append(writes, mongo.NewDeleteManyModel().
		SetFilter(bson.M{"id": bson.M{"$nin": keep}}))

	if _, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("save %s: %w", coll.Name(), err)
	}
	return nil
}

func (s *MongoRecordStore) SaveSettings(ctx context.Context, settings map[string]any) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	doc := settingsDoc{ID: settingsDocID, Data: string(raw), UpdatedAt: time.Now()}
	_, err = s.settings.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *MongoRecordStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoRecordStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "smartstep"
	DefaultMongoCollection = "scenes"
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	// ConnectTimeout bounds connect and ping; zero uses 5s.
	ConnectTimeout time.Duration
}

// MongoStore keeps scenes as documents whose body field holds the scene's
// JSON encoding, so the stored form matches the file format exactly.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
	now    func() time.Time
}

// sceneDoc is the stored document.
type sceneDoc struct {
	Info `bson:",inline"`
	Body string `bson:"body"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, opts MongoOptions, logger *log.Logger) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo: empty URI")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(opts.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Debug("mongo connected", "database", opts.Database, "collection", opts.Collection)

	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Get implements [Store].
func (m *MongoStore) Get(ctx context.Context, id string) (*scene.Scene, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	var doc sceneDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeSceneNotFound, "scene %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", id, err)
	}
	return decodeBody(doc.Body)
}

// Put implements [Store].
func (m *MongoStore) Put(ctx context.Context, s *scene.Scene) error {
	if err := errors.ValidateID(s.ID); err != nil {
		return err
	}
	body, err := encodeBody(s)
	if err != nil {
		return err
	}
	doc := sceneDoc{Info: infoOf(s, m.now()), Body: body}
	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", s.ID, err)
	}
	m.logger.Debug("scene stored", "id", s.ID, "bytes", len(body))
	return nil
}

// Delete implements [Store].
func (m *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateID(id); err != nil {
		return err
	}
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", id, err)
	}
	return nil
}

// List implements [Store].
func (m *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.M{"body": 0}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	var infos []Info
	if err := cur.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	return infos, nil
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

package clients

import (
	"context"
	"time"

	"activity-tracking-svc/src/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	cfg      *config.Database
}

// NewMongoDB connects to MongoDB, retrying on a fixed timer until the
// connection succeeds or ctx is cancelled at shutdown.
func NewMongoDB(ctx context.Context, cfg *config.Database) (*MongoDB, error) {
	delay := time.Duration(cfg.ReconnectDelay) * time.Second
	if delay <= 0 {
		delay = 2 * time.Second
	}

	for {
		log.WithField("url", cfg.Url).Info("Connecting to MongoDB...")

		client, err := connect(ctx, cfg)
		if err == nil {
			log.Infof("Connected to MongoDB database %s", cfg.DbName)
			return &MongoDB{
				Client:   client,
				Database: client.Database(cfg.DbName),
				cfg:      cfg,
			}, nil
		}

		log.WithError(err).Errorf("Failed to connect to MongoDB, retrying in %s", delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func connect(ctx context.Context, cfg *config.Database) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Timeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Url))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// EnsureIndexes creates the unique indexes the service relies on: one user
// per email and one activity per (user, start_time). The application-level
// duplicate checks are racy; these indexes are the actual guard.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	users := m.Database.Collection(m.cfg.UserCollection)
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	activities := m.Database.Collection(m.cfg.ActivityCollection)
	_, err = activities.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "start_time", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	if err := m.Client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("Failed to disconnect from MongoDB")
		return err
	}
	log.Info("MongoDB connection closed")
	return nil
}

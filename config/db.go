// Package config owns process-wide connections: mongo and the optional
// redis client backing the rate limiter.
package config

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	db     *mongo.Database
	client *mongo.Client
	once   sync.Once
)

// ConnectDB initializes and returns the MongoDB database connection.
func ConnectDB() *mongo.Database {
	once.Do(func() {
		mongoURI := os.Getenv("MONGODB_URI")
		if mongoURI == "" {
			logrus.Fatal("Please define the MONGODB_URI environment variable")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to MongoDB")
		}
		if err := c.Ping(ctx, nil); err != nil {
			logrus.WithError(err).Fatal("Failed to reach MongoDB")
		}

		logrus.Info("Connected to MongoDB")

		client = c
		db = client.Database("civicpulse")
	})

	return db
}

package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type App struct {
	cfg     Config
	log     *zap.Logger
	mongo   *mongo.Client
	db      *mongo.Database
	users   *mongo.Collection
	tests   *mongo.Collection
	rules   *mongo.Collection
	recs    *mongo.Collection
	reports *mongo.Collection
	weather *mongo.Collection
	plans   *mongo.Collection

	ml *MLClient
	wx *WeatherClient
}

func newApp(ctx context.Context, cfg Config, log *zap.Logger) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)

	app := &App{
		cfg:     cfg,
		log:     log,
		mongo:   client,
		db:      db,
		users:   db.Collection("users"),
		tests:   db.Collection("soiltests"),
		rules:   db.Collection("soilrules"),
		recs:    db.Collection("recommendations"),
		reports: db.Collection("reports"),
		weather: db.Collection("weather"),
		plans:   db.Collection("irrigationplans"),
		ml:      NewMLClient(cfg.MLServiceURL, log),
		wx:      NewWeatherClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, log),
	}

	// Indexes
	if _, err := app.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	if _, err := app.tests.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	// At most one non-proposed recommendation per soil test. Proposed
	// recommendations never set soilTest, so the partial index skips them.
	if _, err := app.recs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "soilTest", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"soilTest": bson.M{"$exists": true}}),
	}); err != nil {
		return nil, err
	}
	if _, err := app.rules.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "updatedOn", Value: -1}},
	}); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) close(ctx context.Context) { _ = a.mongo.Disconnect(ctx) }

//go:build integration

package main

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/domain/interest"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/domain/offer"
	"github.com/Naya-01/PAE/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration ./cmd/api

func testConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	if schema := os.Getenv("TEST_DB_SCHEMA"); schema != "" {
		cfg.DB.Schema = schema
	}
	return cfg
}

func TestDatabaseConnection(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.Close(db)

	assert.NoError(t, postgres.HealthCheck(db), "Should be able to ping the database")
}

func TestContainerRunsLifecycle(t *testing.T) {
	container, err := postgres.NewContainer(testConfig())
	require.NoError(t, err, "Should be able to migrate and check the test database")
	defer container.Close()

	ctx := context.Background()
	engine := lifecycle.NewEngine(container)

	created, err := engine.AddOffer(ctx, offer.NewOffer{
		OfferorID: 1, Description: "Integration chair", TimeSlot: "any evening", TypeName: "Meuble",
	})
	require.NoError(t, err)

	_, err = engine.AddInterest(ctx, created.ObjectID, 2)
	require.NoError(t, err)
	_, err = engine.AddInterest(ctx, created.ObjectID, 3)
	require.NoError(t, err)

	assigned, err := engine.AssignOffer(ctx, created.ObjectID, 2)
	require.NoError(t, err)
	assert.Equal(t, interest.StatusAssigned, assigned.Status)

	_, err = engine.AssignOffer(ctx, created.ObjectID, 3)
	assert.True(t, apierr.IsForbidden(err))

	given, err := engine.MarkGiven(ctx, created.ObjectID)
	require.NoError(t, err)
	assert.Equal(t, offer.StatusGiven, given.Status)
}

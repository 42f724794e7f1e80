package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surflist/backend/config"
	"github.com/surflist/backend/models"
)

// Round-trip tests against a real MongoDB, enabled by TEST_DATABASE_URL.
func setupTestCollection(t *testing.T) {
	t.Helper()

	uri := os.Getenv("TEST_DATABASE_URL")
	if uri == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	config.BoardCollection = client.Database("surflist_test").Collection("boards")
	_, err = config.BoardCollection.DeleteMany(ctx, bson.M{})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = config.BoardCollection.DeleteMany(ctx, bson.M{})
		_ = client.Disconnect(ctx)
		config.BoardCollection = nil
	})
}

func insertSampleBoard(t *testing.T) string {
	t.Helper()
	res, err := config.BoardCollection.InsertOne(context.Background(), sampleBoard())
	require.NoError(t, err)
	return res.InsertedID.(primitive.ObjectID).Hex()
}

func TestBoardRoundTrip(t *testing.T) {
	setupTestCollection(t)

	board := sampleBoard()
	id := insertSampleBoard(t)

	// Fetch by id through the handler and the filter builder.
	req := httptest.NewRequest(http.MethodGet, "/api/boards?_id="+id, nil)
	rec := httptest.NewRecorder()
	GetBoards(nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var fetched []models.Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.Len(t, fetched, 1)

	got := fetched[0]
	assert.Equal(t, board.Title, got.Title)
	assert.Equal(t, board.Price, got.Price)
	assert.Equal(t, board.Description, got.Description)
	assert.Equal(t, board.State, got.State)
	assert.Equal(t, board.Zip, got.Zip)
	assert.Equal(t, board.BoardType, got.BoardType)
	assert.Equal(t, board.Condition, got.Condition)
	assert.Equal(t, board.Image, got.Image)
	assert.Equal(t, board.Email, got.Email)
	assert.Equal(t, board.Location.Type, got.Location.Type)
	// Longitude first, exactly as stored.
	assert.Equal(t, board.Location.Coordinates, got.Location.Coordinates)
}

func TestDeleteThenGetReturnsEmpty(t *testing.T) {
	setupTestCollection(t)

	id := insertSampleBoard(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/boards?_id="+id, nil)
	rec := httptest.NewRecorder()
	DeleteBoard(nil)(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/boards?_id="+id, nil)
	rec = httptest.NewRecorder()
	GetBoards(nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var fetched []models.Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Empty(t, fetched)
}

func TestUpdateBoardReplacesDocument(t *testing.T) {
	setupTestCollection(t)

	id := insertSampleBoard(t)
	objID, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)

	updated := sampleBoard()
	updated.ID = objID
	updated.Title = "6'1 rounded pin, price drop"
	updated.Price = 300
	body, err := json.Marshal(updated)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/boards?_id="+id, strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	UpdateBoard(nil)(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.Board
	err = config.BoardCollection.FindOne(context.Background(), bson.M{"_id": objID}).Decode(&got)
	require.NoError(t, err)
	assert.Equal(t, updated.Title, got.Title)
	assert.Equal(t, updated.Price, got.Price)
}

func TestUpdateBoardUnknownIDIsNotFound(t *testing.T) {
	setupTestCollection(t)

	board := sampleBoard()
	board.ID = primitive.NewObjectID()
	body, err := json.Marshal(board)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/boards?_id="+board.ID.Hex(), strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	UpdateBoard(nil)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

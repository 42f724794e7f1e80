package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/surflist/backend/config"
	"github.com/surflist/backend/models"
	"github.com/surflist/backend/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func GetBoards(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filter, err := BuildBoardFilter(query)
		if err != nil {
			log.Printf("Rejected board query: %v", err)
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		cacheKey := generateCacheKey(query)
		if redisClient != nil {
			cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
			if err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(cachedData))
				return
			}
			if err != redis.Nil {
				log.Printf("Redis GET error for key %s: %v", cacheKey, err)
			}
		}

		cursor, err := config.BoardCollection.Find(r.Context(), filter)
		if err != nil {
			log.Printf("Error fetching boards with filter %+v: %v", filter, err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		boards := []models.Board{}
		if err := cursor.All(r.Context(), &boards); err != nil {
			log.Printf("Error decoding boards: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		resultBytes, err := json.Marshal(boards)
		if err != nil {
			log.Printf("Failed to serialize boards: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if redisClient != nil {
			if err := redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err(); err != nil {
				log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

func CreateBoard(redisClient *redis.Client, mailer *utils.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var board models.Board
		if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
			log.Printf("Invalid request body: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validateBoard(board); err != nil {
			log.Printf("Rejected board: %v", err)
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		board.ID = primitive.NewObjectID()

		_, err := config.BoardCollection.InsertOne(r.Context(), board)
		if err != nil {
			log.Printf("Insert failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to create board")
			return
		}
		log.Printf("Added board with _id: %s", board.ID.Hex())

		go func() {
			deleteBoardCache(redisClient)
		}()

		// The listing is committed at this point. If the confirmation email
		// fails we report the failure, we do not roll the write back.
		if err := mailer.SendBoardCreated(r.Context(), board); err != nil {
			log.Printf("Failed to send creation email for board %s: %v", board.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Board added but confirmation email failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":   "Board successfully added",
			"id":        board.ID.Hex(),
			"emailSent": true,
		})
	}
}

func UpdateBoard(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryID := r.URL.Query().Get("_id")

		var board models.Board
		if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
			log.Printf("Invalid request body: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if queryID != board.ID.Hex() {
			log.Printf("Update id mismatch: query %q vs body %q", queryID, board.ID.Hex())
			respondError(w, http.StatusBadRequest, "Request query id must match request body id")
			return
		}

		objID, err := primitive.ObjectIDFromHex(queryID)
		if err != nil {
			log.Printf("Invalid board ID %s: %v", queryID, err)
			respondError(w, http.StatusBadRequest, "Invalid board id")
			return
		}

		if err := validateBoard(board); err != nil {
			log.Printf("Rejected board update: %v", err)
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := config.BoardCollection.ReplaceOne(r.Context(), bson.M{"_id": objID}, board)
		if err != nil {
			log.Printf("Update failed for board %s: %v", queryID, err)
			respondError(w, http.StatusInternalServerError, "Update failed")
			return
		}
		if res.MatchedCount == 0 {
			log.Printf("No board found with ID %s", queryID)
			respondError(w, http.StatusNotFound, "No board found")
			return
		}
		log.Printf("Updated board with _id: %s", queryID)

		go func() {
			deleteBoardCache(redisClient)
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Board successfully updated",
			"id":      queryID,
		})
	}
}

func DeleteBoard(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryID := r.URL.Query().Get("_id")
		objID, err := primitive.ObjectIDFromHex(queryID)
		if err != nil {
			log.Printf("Invalid board ID %s: %v", queryID, err)
			respondError(w, http.StatusBadRequest, "Invalid board id")
			return
		}

		res, err := config.BoardCollection.DeleteOne(r.Context(), bson.M{"_id": objID})
		if err != nil {
			log.Printf("Delete failed for board %s: %v", queryID, err)
			respondError(w, http.StatusInternalServerError, "Delete failed")
			return
		}
		if res.DeletedCount == 0 {
			log.Printf("No board found with ID %s", queryID)
			respondError(w, http.StatusNotFound, "No board found")
			return
		}
		log.Printf("Deleted board with _id: %s", queryID)

		go func() {
			deleteBoardCache(redisClient)
		}()

		w.WriteHeader(http.StatusNoContent)
	}
}

// validateBoard enforces the every-field-required schema rule. Zip 0 and an
// empty coordinate pair count as missing since a decoded struct cannot tell
// absent numbers from zeroes; a price of 0 is a legal free board.
func validateBoard(b models.Board) error {
	required := map[string]string{
		"title":           b.Title,
		"description":     b.Description,
		"state":           b.State,
		"board-type":      b.BoardType,
		"board-condition": b.Condition,
		"image":           b.Image,
		"email":           b.Email,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("missing required field %q", field)
		}
	}
	if b.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if b.Zip <= 0 {
		return fmt.Errorf("missing required field %q", "zip")
	}
	if b.Location.Type != "Point" {
		return fmt.Errorf("location type must be %q", "Point")
	}
	if len(b.Location.Coordinates) != 2 {
		return fmt.Errorf("location coordinates must be [longitude, latitude]")
	}
	return nil
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func generateCacheKey(queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "boards:" + hex.EncodeToString(sum[:])
}

func deleteBoardCache(redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	ctx := context.Background()
	const scanPattern = "boards:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error deleting %d board cache keys: %v", len(keysToDelete), err)
	} else {
		log.Printf("Board cache invalidated, deleted %d keys", len(keysToDelete))
	}
}

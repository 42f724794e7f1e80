package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/surflist/backend/config"
	"github.com/surflist/backend/models"
	"github.com/surflist/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MakeOffer looks up the targeted board and forwards the offer to the
// seller's contact address. Nothing is persisted; the offer lives only in
// the email.
func MakeOffer(mailer *utils.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryID := r.URL.Query().Get("_id")
		objID, err := primitive.ObjectIDFromHex(queryID)
		if err != nil {
			log.Printf("Invalid board ID %s: %v", queryID, err)
			respondError(w, http.StatusBadRequest, "Invalid board id")
			return
		}

		var offer models.Offer
		if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
			log.Printf("Invalid request body: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if offer.Email == "" || offer.Message == "" {
			respondError(w, http.StatusBadRequest, "Offer requires both email and message")
			return
		}

		var board models.Board
		err = config.BoardCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&board)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Printf("No board found with ID %s", queryID)
				respondError(w, http.StatusNotFound, "No board found")
				return
			}
			log.Printf("Error fetching board %s: %v", queryID, err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if err := mailer.SendOfferReceived(r.Context(), board, offer); err != nil {
			log.Printf("Failed to send offer email for board %s: %v", queryID, err)
			respondError(w, http.StatusInternalServerError, "Failed to deliver offer email")
			return
		}
		log.Printf("Offer forwarded for board %s to %s", queryID, board.Email)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":   "Offer successfully sent",
			"id":        queryID,
			"emailSent": true,
		})
	}
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoJSON point. Coordinates are [longitude, latitude] — the order the
// 2dsphere index expects, not the lat/lng order humans write.
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Board is a surfboard-for-sale listing. Field names match the collection
// schema, including the hyphenated categorical fields.
type Board struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	State       string             `bson:"state" json:"state"`
	Zip         int                `bson:"zip" json:"zip"`
	Location    Location           `bson:"location" json:"location"`
	BoardType   string             `bson:"board-type" json:"board-type"`
	Condition   string             `bson:"board-condition" json:"board-condition"`
	Image       string             `bson:"image" json:"image"`
	Email       string             `bson:"email" json:"email"`
}

// Offer is the body of POST /api/offer: who is asking, and what they said.
type Offer struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

package routes

import (
	"github.com/surflist/backend/controllers"
	"github.com/surflist/backend/middleware"
	"github.com/surflist/backend/utils"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

func Routes(router *mux.Router, redisClient *redis.Client, mailer *utils.Mailer) {
	router.Use(middleware.RequestLogger)

	api := router.PathPrefix("/api").Subrouter()

	// Board routes
	api.HandleFunc("/boards", controllers.GetBoards(redisClient)).Methods("GET")
	api.HandleFunc("/boards", controllers.CreateBoard(redisClient, mailer)).Methods("POST")
	api.HandleFunc("/boards", controllers.UpdateBoard(redisClient)).Methods("PUT")
	api.HandleFunc("/boards", controllers.DeleteBoard(redisClient)).Methods("DELETE")

	// Offer route
	api.HandleFunc("/offer", controllers.MakeOffer(mailer)).Methods("POST")
}

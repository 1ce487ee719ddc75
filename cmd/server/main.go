package main

import (
	"log"
	"os"
	"resourcehub/internal/db"
	"resourcehub/internal/router"
	"resourcehub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Configure the search index client up front so a misconfigured
	// endpoint shows up in the logs at boot, not on the first mutation.
	search := services.GetSearchService()
	if search.Strict() {
		log.Println("Search index failures will abort mutations (strict mode)")
	} else {
		log.Println("Search index failures will be tolerated (development mode)")
	}

	// Initialize Gin
	r := gin.Default()

	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Resource directory API starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

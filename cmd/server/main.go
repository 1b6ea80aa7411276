package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"freshkart_back_end/internal/config"
	"freshkart_back_end/internal/database"
	"freshkart_back_end/internal/handlers/payment"
	"freshkart_back_end/internal/handlers/user"
	"freshkart_back_end/internal/routes"
)

func main() {
	config.Load()

	payment.InitStripe()
	database.ConnectDatabases()
	user.InitOAuthProviders()

	r := gin.Default()
	r.Use(cors.New(corsConfig()))
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 FreshKart server listening on port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}

func corsConfig() cors.Config {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		origins = append(origins, strings.Split(extra, ",")...)
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

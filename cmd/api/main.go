package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BrokenHeaven/storage/internal/api/handlers"
	"github.com/BrokenHeaven/storage/internal/api/middleware"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	valuationHandler := handlers.NewValuationHandler()

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/value/intrinsic", valuationHandler.RunIntrinsic)
		v1.POST("/value/tree", valuationHandler.RunTree)
	}

	log.Printf("storage valuation API listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

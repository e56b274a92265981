package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/routes"
	"courseplatform/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	logger := utils.InitLogger()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Public assets referenced by relative paths in the database.
	app.Static("/videos", "./public/videos")
	app.Static("/images", "./public/images")
	app.Static("/materials", "./public/materials")

	routes.SetupRoutes(app, db, cfg)

	log.Fatal(app.Listen(":" + cfg.ServerPort))
}

package main

import (
	"log"

	"github.com/shemigam1/dream-devs-assesment/internal/config"
	"github.com/shemigam1/dream-devs-assesment/internal/httpserver"
	"github.com/shemigam1/dream-devs-assesment/internal/store"
)

// main boots the service: config → DB → schema → HTTP server.
func main() {
	// Load runtime config from environment (DB_URL, PORT, API_ROUTE).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Connect to durable storage (Postgres) using a connection pool.
	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Ensure required tables/indexes exist so `docker compose up --build` is enough.
	if err := db.EnsureSchema(); err != nil {
		log.Fatal(err)
	}

	// Build HTTP router (public health + analytics APIs).
	router := httpserver.NewRouter(cfg, db)

	log.Println("server started on :" + cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}

package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mkorchagin/scenecut/internal/api"
	"github.com/mkorchagin/scenecut/internal/backend"
	"github.com/mkorchagin/scenecut/internal/catalog"
	"github.com/mkorchagin/scenecut/internal/logging"
	"github.com/mkorchagin/scenecut/internal/session"
	"github.com/mkorchagin/scenecut/internal/storage"
)

func main() {
	// Best effort: local development keeps its config in .env.
	godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "./media"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./scenecut.db"
	}

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://localhost:8000"
	}

	maxUploadSize := os.Getenv("MAX_UPLOAD_SIZE")
	if maxUploadSize == "" {
		maxUploadSize = "20971520"
	}
	maxSize, err := strconv.ParseInt(maxUploadSize, 10, 64)
	if err != nil {
		log.Fatal("Invalid MAX_UPLOAD_SIZE:", err)
	}

	logger := logging.NewLogger(os.Getenv("LOG_LEVEL"))

	store, err := storage.NewMediaStore(mediaDir)
	if err != nil {
		log.Fatal("Failed to initialize media store:", err)
	}

	db, err := catalog.NewDB(dbPath)
	if err != nil {
		log.Fatal("Failed to initialize catalog:", err)
	}
	defer db.Close()

	files := catalog.NewFileRepo(db)
	if err := catalog.SeedFromScan(store, files); err != nil {
		log.Fatal("Failed to seed catalog:", err)
	}

	app := &api.App{
		Sessions:      session.NewManager(),
		Backend:       backend.New(backendURL),
		Store:         store,
		Files:         files,
		Logger:        logging.WithComponent(logger, "api"),
		MaxUploadSize: maxSize,
	}

	router := api.NewRouter(app)

	logger.Info("server starting",
		"port", port,
		"media_dir", mediaDir,
		"db_path", dbPath,
		"backend_url", backendURL,
		"max_upload_size", maxSize,
	)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

// Package main is the entry point for the LacyLights console server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/bbernstein/lacylights-console/internal/api"
	"github.com/bbernstein/lacylights-console/internal/config"
	"github.com/bbernstein/lacylights-console/internal/database"
	"github.com/bbernstein/lacylights-console/internal/database/repositories"
	"github.com/bbernstein/lacylights-console/internal/scene"
	"github.com/bbernstein/lacylights-console/internal/services/dmx"
	"github.com/bbernstein/lacylights-console/internal/services/pubsub"
	"github.com/bbernstein/lacylights-console/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.NonInteractive {
		log.Printf("🎭 LacyLights Console %s starting (env=%s, port=%s)", Version, cfg.Env, cfg.Port)
	} else {
		printBanner(cfg)
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	sink, stopSink, err := newSink(cfg)
	if err != nil {
		log.Printf("Warning: DMX sink initialization failed, falling back to log output: %v", err)
		sink, stopSink = dmx.LogSink{}, func() {}
	}

	sceneStore := scene.New(context.Background(), scene.Config{
		Storage:         store,
		Sink:            sink,
		SceneKey:        cfg.SceneStorageKey,
		ChannelNamesKey: cfg.ChannelNamesKey,
		PersistTimeout:  cfg.PersistTimeout,
		Fallback:        loadFallback(cfg),
	})

	apiServer := api.NewServer(sceneStore, pubsub.New(), Version)
	if out, ok := sink.(api.DMXOutput); ok {
		apiServer.SetDMXOutput(out)
	}
	router := apiServer.Routes()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		Debug:            cfg.IsDevelopment(),
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost:%s\n", cfg.Port)
		log.Printf("WebSocket endpoint: ws://localhost:%s/ws\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	stopSink()

	log.Println("Server stopped")
}

// openStorage opens the record store selected by STORAGE_DRIVER.
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite, "":
		db, err := database.Connect(database.Config{
			URL:         cfg.DatabaseURL,
			MaxIdleConn: 5,
			MaxOpenConn: 10,
			Debug:       cfg.IsDevelopment(),
		})
		if err != nil {
			return nil, err
		}
		log.Println("Running database migrations...")
		if err := database.Migrate(db); err != nil {
			_ = database.Close()
			return nil, err
		}
		log.Println("Database migrations complete")
		return &closingStorage{
			Storage: storage.NewDatabaseStorage(repositories.NewRecordRepository(db)),
			close:   database.Close,
		}, nil
	case config.StorageBolt:
		s, err := storage.NewBoltStorage(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		log.Printf("💾 Bolt storage opened: %s", cfg.BoltPath)
		return s, nil
	case config.StorageMemory:
		log.Println("⚠️  Using in-memory storage; the scene will not survive a restart")
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// closingStorage also closes the database connection.
type closingStorage struct {
	storage.Storage
	close func() error
}

func (c *closingStorage) Close() error {
	_ = c.Storage.Close()
	return c.close()
}

// newSink creates the DMX sink selected by DMX_SINK and returns its
// shutdown function.
func newSink(cfg *config.Config) (scene.Sink, func(), error) {
	switch cfg.DMXSink {
	case config.SinkLog, "":
		return dmx.LogSink{}, func() {}, nil
	case config.SinkArtNet:
		sink := dmx.NewArtNetSink(dmx.Config{
			BroadcastAddr: cfg.ArtNetBroadcast,
			Port:          cfg.ArtNetPort,
			Universe:      cfg.ArtNetUniverse,
		})
		if err := sink.Initialize(); err != nil {
			return nil, nil, err
		}
		return sink, sink.Stop, nil
	default:
		return nil, nil, fmt.Errorf("unknown DMX sink %q", cfg.DMXSink)
	}
}

// allowedOrigins adds the local development origins outside production.
func allowedOrigins(cfg *config.Config) []string {
	if cfg.IsProduction() {
		return []string{cfg.CORSOrigin}
	}
	return []string{cfg.CORSOrigin, "http://localhost:3000", "http://localhost:4000"}
}

// loadFallback returns the seed scene from SEED_SCENE_PATH, or nil for
// the built-in demo scene.
func loadFallback(cfg *config.Config) []scene.Group {
	if cfg.SeedScenePath == "" {
		return nil
	}
	groups, err := scene.LoadSeedFile(cfg.SeedScenePath)
	if err != nil {
		log.Printf("⚠️  Ignoring seed scene: %v", err)
		return nil
	}
	log.Printf("🎭 Loaded seed scene from %s", cfg.SeedScenePath)
	return groups
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println("============================================")
	fmt.Println("  LacyLights Console")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Storage:     %s\n", cfg.StorageDriver)
	fmt.Printf("  DMX sink:    %s\n", cfg.DMXSink)
	fmt.Println("============================================")
}

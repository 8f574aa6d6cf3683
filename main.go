package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"resolvex/internal/api"
	"resolvex/internal/complaint"
	"resolvex/internal/config"
	"resolvex/internal/core"
	"resolvex/internal/notify"
	"resolvex/internal/server"
	"resolvex/internal/store"
)

func main() {
	log.Println("🚀 Starting ResolveX service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}
	log.Println("✓ Configuration loaded")

	log.Println("📋 Opening backend database...")
	doc := server.NewDocumentStore(cfg.DBFile)

	log.Println("📋 Opening local cache...")
	st, err := store.New(cfg.CacheDir)
	if err != nil {
		log.Fatal("❌ Failed to open cache directory: ", err)
	}

	log.Println("📨 Initializing Telegram...")
	notifier := notify.New(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.DebugMode)

	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	app := core.New(st, client, notifier)

	srv := server.New(doc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Port)
	}()

	log.Printf("✅ ResolveX listening on port %d", cfg.Port)
	log.Printf("   Database file: %s", filepath.Clean(cfg.DBFile))
	log.Println("═══════════════════════════════════════════════════════════")

	// Give the listener a moment, then seed the local cache on first
	// run, preferring backend data over the bundled demo dataset.
	time.Sleep(200 * time.Millisecond)

	ctx := context.Background()
	err = st.SeedIfAbsent(func() (*complaint.Snapshot, bool) {
		return client.PullSnapshot(ctx)
	})
	if err != nil {
		log.Printf("⚠️  Seeding local cache failed: %v", err)
	}

	if app.Synced(ctx) {
		log.Println("✓ Backend reachable, local cache in sync mode")
	} else {
		log.Println("⚠️  Backend unreachable, working from local cache")
	}

	log.Fatal("❌ Server stopped: ", <-errCh)
}

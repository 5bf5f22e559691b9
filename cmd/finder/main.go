package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/matst80/moment-finder/pkg/common"
	"github.com/matst80/moment-finder/pkg/config"
	"github.com/matst80/moment-finder/pkg/index"
	"github.com/matst80/moment-finder/pkg/presets"
	"github.com/matst80/moment-finder/pkg/server"
	"github.com/matst80/moment-finder/pkg/storage"
)

var configFile = os.Getenv("CONFIG_FILE")

type app struct {
	cfg     *config.Config
	catalog *index.Catalog
	hooks   []common.ShutdownHook
}

func (a *app) loadCollections() {
	accounts, err := storage.Accounts(a.cfg.DataDir)
	if err != nil {
		log.Printf("No collections loaded from %s: %v", a.cfg.DataDir, err)
		return
	}
	for _, account := range accounts {
		moments, err := storage.NewDiskStorage(account, a.cfg.DataDir).LoadMoments()
		if err != nil {
			log.Printf("Failed to load collection for %s: %v", account, err)
			continue
		}
		a.catalog.Replace(account, moments)
	}
}

// openPresetStore returns the configured key value backend and registers
// its shutdown.
func (a *app) openPresetStore() (presets.KeyValueStore, error) {
	sc := a.cfg.PresetStore
	switch sc.Kind {
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil
	case config.StoreFile:
		return storage.NewFileStore(sc.Path), nil
	case config.StoreRedis:
		r := storage.NewRedisStore(sc.RedisAddr, sc.RedisPassword, sc.RedisDB, sc.Prefix)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			log.Printf("Redis not reachable yet at %s: %v", sc.RedisAddr, err)
		}
		a.hooks = append(a.hooks, func(context.Context) error {
			return r.Close()
		})
		return r, nil
	case config.StoreBadger:
		b, err := storage.OpenBadger(storage.DefaultBadgerConfig(sc.Path))
		if err != nil {
			return nil, err
		}
		a.hooks = append(a.hooks, func(context.Context) error {
			return b.Close()
		})
		return b, nil
	}
	return nil, errors.New("unknown preset store " + sc.Kind)
}

func main() {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Print()

	a := &app{
		cfg:     cfg,
		catalog: index.NewCatalog(),
	}
	a.loadCollections()

	kv, err := a.openPresetStore()
	if err != nil {
		log.Fatalf("Failed to open preset store: %v", err)
	}

	memo := index.NewMemo(256)
	sessions := server.NewSessions(cfg, a.catalog, memo, kv)
	// sessions flush their preset writes before the backend closes
	a.hooks = append([]common.ShutdownHook{func(context.Context) error {
		sessions.Close()
		return nil
	}}, a.hooks...)

	if cfg.Rabbit.Url != "" {
		if err = a.connectAmqp(); err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.expireSessions(ctx, sessions)

	api := server.NewApp(cfg, a.catalog, memo, sessions)
	srv := common.NewServerWithTimeouts(cfg.Listen, api.Routes(), cfg.Timeouts)
	log.Printf("Starting moment finder on %s with %d accounts", cfg.Listen, len(a.catalog.Accounts()))
	if err = common.RunServerWithShutdown(ctx, srv, "moment finder", cfg.Timeouts, a.hooks...); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func (a *app) expireSessions(ctx context.Context, sessions *server.Sessions) {
	ticker := time.NewTicker(time.Minute * 5)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Expire(time.Hour * 12); n > 0 {
				log.Printf("Expired %d sessions, %d active", n, sessions.Len())
			}
		}
	}
}

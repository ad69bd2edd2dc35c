package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/imkonsowa/foodorder-chatbot/catalog"
	"github.com/imkonsowa/foodorder-chatbot/config"
	"github.com/nats-io/nats.go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ReloadMessage struct {
	Source string        `json:"source"`
	Stats  catalog.Stats `json:"stats"`
}

// seed replaces the postgres catalog with a JSON feed:
//
//	seed [feed.json]
//
// The feed path defaults to catalog.path from the config.
func main() {
	cfg := config.LoadConfig()

	path := cfg.Catalog.Path
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	store, err := catalog.LoadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.ConnStr()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to postgres:", err)
	}

	if err := catalog.Migrate(db); err != nil {
		log.Fatal("failed to migrate catalog tables:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := catalog.Save(ctx, db, store); err != nil {
		log.Fatal("failed to save catalog:", err)
	}

	stats := store.Stats()
	slog.Info("catalog seeded", "feed", path, "foods", stats.Foods, "categories", stats.Categories, "locations", stats.Locations)

	if !cfg.Nats.Enabled {
		return
	}

	if err := announce(&cfg.Nats, ReloadMessage{Source: path, Stats: stats}); err != nil {
		log.Fatal("failed to announce catalog reload:", err)
	}
	slog.Info("announced catalog reload", "subject", cfg.Nats.ReloadSubject)
}

func announce(cfg *config.Nats, msg ReloadMessage) error {
	nc, err := nats.Connect(cfg.ConnStr())
	if err != nil {
		return err
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		return err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  cfg.Subjects(),
		Storage:   nats.FileStorage,
		Retention: nats.LimitsPolicy,
		MaxAge:    time.Hour * 24 * 7,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	_, err = js.Publish(cfg.ReloadSubject, data)

	return err
}

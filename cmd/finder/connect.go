package main

import (
	"context"
	"log"

	"github.com/matst80/moment-finder/pkg/messaging"
	"github.com/matst80/moment-finder/pkg/storage"
	amqp "github.com/rabbitmq/amqp091-go"
)

// connectAmqp replaces collections from the snapshot topic and keeps the
// disk copy current so a restart starts from the latest snapshot.
func (a *app) connectAmqp() error {
	conn, err := amqp.DialConfig(a.cfg.Rabbit.Url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	err = messaging.ListenToCollectionChanges(ch, a.cfg.Rabbit.Prefix, func(change messaging.CollectionChange) {
		a.catalog.Replace(change.Account, change.Moments)
		if err := storage.NewDiskStorage(change.Account, a.cfg.DataDir).SaveMoments(change.Moments); err != nil {
			log.Printf("Failed to save collection for %s: %v", change.Account, err)
		}
	})
	if err != nil {
		return err
	}
	log.Printf("Listening for collection changes")
	a.hooks = append(a.hooks, func(_ context.Context) error {
		return conn.Close()
	})
	return nil
}

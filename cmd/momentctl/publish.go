package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/matst80/moment-finder/pkg/messaging"
	"github.com/spf13/cobra"

	amqp "github.com/rabbitmq/amqp091-go"
)

var publishCmd = &cobra.Command{
	Use:   "publish <account> <snapshot>",
	Short: "Replace an account's collection on every finder instance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("rabbit")
		if url == "" {
			return fmt.Errorf("no rabbit url, set --rabbit or RABBIT_HOST")
		}
		prefix, _ := cmd.Flags().GetString("prefix")
		moments, err := readSnapshot(args[1])
		if err != nil {
			return err
		}

		conn, err := amqp.DialConfig(url, amqp.Config{
			Properties: amqp.NewConnectionProperties(),
		})
		if err != nil {
			return fmt.Errorf("connect to rabbit: %w", err)
		}
		defer conn.Close()

		change := messaging.CollectionChange{Account: args[0], Moments: moments}
		if err = messaging.PublishCollection(conn, prefix, change); err != nil {
			return err
		}
		log.Printf("Published %s moments for %s", humanize.Comma(int64(len(moments))), args[0])
		return nil
	},
}

func init() {
	publishCmd.Flags().String("rabbit", os.Getenv("RABBIT_HOST"), "amqp url")
	publishCmd.Flags().String("prefix", "moments", "topic prefix")
}

package messaging

import (
	"fmt"
	"log"

	"github.com/matst80/moment-finder/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	if err := DefineTopic(ch, prefix, topic); err != nil {
		return nil, err
	}
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic acks handled deliveries. A delivery the handler fails on is
// dropped without requeue so one bad message does not stop the consumer.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	fc, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			if err := handler(d); err != nil {
				log.Printf("Error processing %s message: %v", topic, err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
		log.Printf("Stopped listening to %s", getName(prefix, topic))
	}(fc)
	return nil
}

func DecodeCollectionChange(body []byte) (CollectionChange, error) {
	var change CollectionChange
	if err := jsoncompat.Unmarshal(body, &change); err != nil {
		return change, err
	}
	if change.Account == "" {
		return change, fmt.Errorf("collection change without account")
	}
	return change, nil
}

// ListenToCollectionChanges calls fn with every decoded snapshot.
func ListenToCollectionChanges(ch *amqp.Channel, prefix string, fn func(CollectionChange)) error {
	return ListenToTopic(ch, prefix, CollectionChanged, func(d amqp.Delivery) error {
		change, err := DecodeCollectionChange(d.Body)
		if err != nil {
			return err
		}
		fn(change)
		return nil
	})
}

// Package queue_publisher publishes domain events to RabbitMQ.  Errors
// are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/movie-crowdfund/internal/queue"
)

const investmentQueueName = "investment.confirmed"

// Publisher publishes to the investment.confirmed queue.  A connection
// is dialed per publish; the event volume here is a handful of messages
// per payment, not a throughput concern.
type Publisher struct {
	url string
}

// New builds a Publisher from RABBITMQ_URL / AMQP_URL.  Callers only
// construct one when queue.BrokerURL reports a configured broker.
func New() *Publisher {
	return &Publisher{url: q.BrokerURL()}
}

// PublishInvestmentConfirmed publishes an InvestmentConfirmedEvent.
// Messages are marked persistent and the queue is declared durable so
// they survive broker restarts.
func (p *Publisher) PublishInvestmentConfirmed(ctx context.Context, event q.InvestmentConfirmedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		investmentQueueName, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                  // default exchange
		investmentQueueName, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

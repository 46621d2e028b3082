package queue

// consumer.go contains the background consumer that listens to the
// investment.confirmed queue and appends an audit line per confirmed
// payment to logs/investments.log.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const investmentQueueName = "investment.confirmed"

// BrokerURL returns the RabbitMQ URL from RABBITMQ_URL, falling back
// to AMQP_URL.  An empty string means no broker is configured and the
// event pipeline stays off.
func BrokerURL() string {
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		return url
	}
	return os.Getenv("AMQP_URL")
}

// StartInvestmentConsumer connects to RabbitMQ, declares the durable
// investment.confirmed queue and starts consuming.  It runs a
// reconnect loop with exponential backoff and never panics: processing
// errors are logged and the offending message is rejected without
// requeueing so the server keeps operating.
func StartInvestmentConsumer() error {
	url := BrokerURL()
	if url == "" {
		return errors.New("no broker configured")
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("investment-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("investment-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("investment-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(investmentQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(investmentQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("investment-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev InvestmentConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "investments.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Investment confirmed | investment_id=%s | movie=%q | investor_id=%s | stocks=%d | total=%.2f | method=%s\n",
		ev.ConfirmedAt, ev.InvestmentID, ev.MovieTitle, ev.InvestorID, ev.StockCount, ev.TotalAmount, ev.PaymentMethod)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

package queue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBrokerURLPrecedence(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "")
	if got := BrokerURL(); got != "" {
		t.Fatalf("expected empty URL with no env, got %q", got)
	}

	t.Setenv("AMQP_URL", "amqp://fallback:5672/")
	if got := BrokerURL(); got != "amqp://fallback:5672/" {
		t.Fatalf("AMQP_URL fallback not used, got %q", got)
	}

	t.Setenv("RABBITMQ_URL", "amqp://primary:5672/")
	if got := BrokerURL(); got != "amqp://primary:5672/" {
		t.Fatalf("RABBITMQ_URL should win, got %q", got)
	}
}

func TestStartInvestmentConsumerWithoutBroker(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "")
	// Must return instead of looping on dial failures forever.
	if err := StartInvestmentConsumer(); err == nil {
		t.Fatal("expected an error when no broker is configured")
	}
}

func TestHandleMessageAppendsAuditLine(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})

	ev := `{"investment_id":"i-1","movie_id":"m-1","movie_title":"First Light",` +
		`"creator_id":"c-1","investor_id":"u-1","stock_count":25,"total_amount":2500,` +
		`"payment_method":"upi","confirmed_at":"2026-08-29T12:00:00Z"}`
	if err := handleMessage([]byte(ev)); err != nil {
		t.Fatalf("handle message: %v", err)
	}

	b, err := os.ReadFile(filepath.Join("logs", "investments.log"))
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	line := string(b)
	for _, want := range []string{"i-1", `"First Light"`, "u-1", "stocks=25", "total=2500.00", "method=upi"} {
		if !strings.Contains(line, want) {
			t.Fatalf("audit line missing %q: %s", want, line)
		}
	}

	if err := handleMessage([]byte("not json")); err == nil {
		t.Fatal("expected an error for malformed payload")
	}
}

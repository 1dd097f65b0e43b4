package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "development" || cfg.HTTP.Port != 7090 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Orders.StoreDriver != StoreMemory || !cfg.Orders.SeedMockData || !cfg.Orders.StrictTransitions {
		t.Errorf("orders = %+v", cfg.Orders)
	}
	if cfg.Orders.IdempotencyTTL != 24*time.Hour || cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Errorf("durations = %v / %v", cfg.Orders.IdempotencyTTL, cfg.HTTP.ShutdownTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://localhost/icontrol")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	t.Setenv("ORDERS_STRICT_TRANSITIONS", "false")
	t.Setenv("IDEMPOTENCY_TTL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Orders.StoreDriver != StorePostgres || cfg.Orders.StrictTransitions {
		t.Errorf("orders = %+v", cfg.Orders)
	}
	if want := []string{"kafka-1:9092", "kafka-2:9092"}; !reflect.DeepEqual(cfg.Kafka.Brokers, want) {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Orders.IdempotencyTTL != 15*time.Minute {
		t.Errorf("ttl = %v", cfg.Orders.IdempotencyTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{HTTP: HTTPConfig{Port: 80}, Orders: OrdersConfig{StoreDriver: StoreMemory}}, false},
		{"postgres without dsn", Config{HTTP: HTTPConfig{Port: 80}, Orders: OrdersConfig{StoreDriver: StorePostgres}}, true},
		{"unknown driver", Config{HTTP: HTTPConfig{Port: 80}, Orders: OrdersConfig{StoreDriver: "sqlite"}}, true},
		{"bad port", Config{HTTP: HTTPConfig{Port: 70000}, Orders: OrdersConfig{StoreDriver: StoreMemory}}, true},
		{"kafka without topic", Config{
			HTTP:   HTTPConfig{Port: 80},
			Kafka:  KafkaConfig{Brokers: []string{"k:9092"}},
			Orders: OrdersConfig{StoreDriver: StoreMemory},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore Chdir: %v", err)
		}
	})
}

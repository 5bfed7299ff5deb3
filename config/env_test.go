package config

import (
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"sunday", time.Sunday, false},
		{"Sat", time.Saturday, false},
		{" FRIDAY ", time.Friday, false},
		{"someday", time.Sunday, true},
	}
	for _, tt := range tests {
		got, err := ParseWeekday(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseWeekday(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "-3")
	t.Setenv("PAYROLL_WEEKLY_OFF", "friday")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg := LoadConfig()
	if cfg.Inventory.LowStockThreshold != 5 {
		t.Errorf("low stock threshold = %d, want 5", cfg.Inventory.LowStockThreshold)
	}
	if cfg.Payroll.WeeklyOff != time.Friday {
		t.Errorf("weekly off = %v, want Friday", cfg.Payroll.WeeklyOff)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestDBConfigDSN(t *testing.T) {
	c := DBConfig{URL: "postgres://x"}
	if c.DSN() != "postgres://x" {
		t.Errorf("explicit DSN not preferred: %s", c.DSN())
	}
	c = DBConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	want := "host=h port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC"
	if c.DSN() != want {
		t.Errorf("DSN() = %q, want %q", c.DSN(), want)
	}
}

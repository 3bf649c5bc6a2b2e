package utils

import (
	"testing"
	"time"
)

func TestRedisConfigDefaults(t *testing.T) {
	cfg := RedisConfig{Addr: "localhost:6379"}.withDefaults()
	if cfg.DialTimeout != 3*time.Second {
		t.Fatalf("unexpected dial timeout %v", cfg.DialTimeout)
	}
	if cfg.PoolSize != 20 {
		t.Fatalf("unexpected pool size %d", cfg.PoolSize)
	}
	if cfg.PingTimeout != 2*time.Second {
		t.Fatalf("unexpected ping timeout %v", cfg.PingTimeout)
	}
}

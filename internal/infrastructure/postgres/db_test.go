package postgres

import (
	"context"
	"testing"
)

func TestNewPoolWithConfigRejectsBadURL(t *testing.T) {
	if _, err := NewPoolWithConfig(context.Background(), PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatal("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	cfg := PoolConfig{
		DatabaseURL: "postgres://invalid:5432/db",
		MaxConns:    1,
	}

	if _, err := NewPoolWithConfig(context.Background(), cfg); err == nil {
		t.Fatal("expected error when pool cannot connect")
	}
}

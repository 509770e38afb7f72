package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/shooter/internal/config"
)

func TestNewPool_GivesUpWhenContextEnds(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "127.0.0.1",
		Port:            1,
		User:            "nobody",
		Password:        "nobody",
		Name:            "nothing",
		SSLMode:         "disable",
		MaxConns:        1,
		MaxConnLifetime: time.Minute,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewPool(ctx, cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pinging database after")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewPool_RejectsBadConfig(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "localhost", Port: 5432, SSLMode: "bogus"}
	_, err := NewPool(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing database config")
}

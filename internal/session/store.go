// Package session хранит состояние публичного мастера записи между запросами.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound — сессии нет или истёк её TTL.
var ErrNotFound = errors.New("session not found or expired")

// Store — хранилище сессий. Значения сериализуются в JSON.
type Store interface {
	Save(ctx context.Context, id string, value any, ttl time.Duration) error
	// Load декодирует сохранённое значение в dst. ErrNotFound, если сессии нет.
	Load(ctx context.Context, id string, dst any) error
	Delete(ctx context.Context, id string) error
}

package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/utafrali/storefront/internal/kvstore"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// storage is the write-through persistence shared by the stores. Failures are
// logged and swallowed: in-memory state stays authoritative.
type storage struct {
	kv     kvstore.Store
	logger *slog.Logger
}

// write encodes v as JSON and stores it under key.
func (s storage) write(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode state",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.kv.Set(ctx, key, string(data), ttl); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist state",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// load decodes the JSON stored under key. ok is false when the key is absent,
// unreadable or malformed.
func load[T any](ctx context.Context, s storage, key string) (v T, ok bool) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to read state",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return v, false
	}

	var decoded T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.WarnContext(ctx, "discarding malformed state",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return v, false
	}
	return decoded, true
}

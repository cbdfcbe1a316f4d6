package cache

import (
	"context"
	"strings"

	"github.com/matzehuels/framegrid/pkg/errors"
)

// Open returns the backend named by target:
//
//	""  or "none"                 NullCache
//	redis://... or rediss://...   RedisCache
//	mongodb://... or mongodb+srv  MongoCache
//	file:///path or a plain path  FileCache
func Open(ctx context.Context, target string) (Cache, error) {
	switch {
	case target == "" || target == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		return wrapOpen(NewRedisCache(ctx, target))
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		return wrapOpen(NewMongoCache(ctx, target))
	case strings.HasPrefix(target, "file://"):
		return wrapOpen(NewFileCache(strings.TrimPrefix(target, "file://")))
	case strings.Contains(target, "://"):
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported cache backend %q", target)
	default:
		return wrapOpen(NewFileCache(target))
	}
}

func wrapOpen[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open cache")
	}
	return c, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"quizpair_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// The current-game cache is a fast-reject hint only; the games table stays
// authoritative. Entries expire on their own in case an invalidation is lost.
const currentGameTTL = 24 * time.Hour

func currentGameKey(userID uint) string {
	return fmt.Sprintf("game:current:%d", userID)
}

func cachedCurrentGame(ctx context.Context, rdb *redis.Client, userID uint) string {
	if rdb == nil {
		return ""
	}
	v, err := rdb.Get(ctx, currentGameKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("current game cache read failed", zap.Uint("userId", userID), zap.Error(err))
		}
		return ""
	}
	return v
}

func cacheCurrentGame(ctx context.Context, rdb *redis.Client, userID uint, gameID string) {
	if rdb == nil {
		return
	}
	if err := rdb.Set(ctx, currentGameKey(userID), gameID, currentGameTTL).Err(); err != nil {
		logger.Log.Warn("current game cache write failed", zap.Uint("userId", userID), zap.Error(err))
	}
}

func dropCurrentGame(ctx context.Context, rdb *redis.Client, userIDs ...uint) {
	if rdb == nil {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = currentGameKey(id)
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("current game cache invalidation failed", zap.Error(err))
	}
}

package app

import (
	"strconv"
	"time"

	"Gin_postgres_redis_task_api/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TouchLastSeen 用 Redis SETNX 节流，每个用户每个 throttle 周期最多写一次库
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.Next()
			return
		}

		key := "user:lastseen:" + strconv.FormatUint(uint64(u.ID), 10)
		if ok, _ := rdb.SetNX(c.Request.Context(), key, "1", throttle).Result(); ok {
			if err := repo.TouchUserSeen(c.Request.Context(), u.ID); err != nil {
				// 忽略错误，不阻塞请求
				logger.Warn("touch last seen", zap.Uint("user_id", u.ID), zap.Error(err))
			}
		}
		c.Next()
	}
}

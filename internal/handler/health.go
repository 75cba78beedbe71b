package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthProbeTimeout = 3 * time.Second

// Health pings both backing stores. A degraded store turns the response
// into a 503 so load balancers stop routing here.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()

		dbUp := false
		if sqlDB, err := db.DB(); err == nil && sqlDB.PingContext(ctx) == nil {
			dbUp = true
		}
		redisUp := rdb.Ping(ctx).Err() == nil

		status := http.StatusOK
		if !dbUp || !redisUp {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    storeStatus(dbUp),
			"redis": storeStatus(redisUp),
		})
	}
}

func storeStatus(up bool) string {
	if up {
		return "connected"
	}
	return "error"
}

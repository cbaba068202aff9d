package handlers

import (
	"net/http"

	"pharmakiosk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports database and cache reachability.
type HealthHandler struct {
	Mongo *mongo.Client
	Redis *redis.Client // nil when running without a cache
}

func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{Mongo: mongoClient, Redis: redisClient}
}

// HealthCheckHandler answers 503 when the database is unreachable. A missing
// cache only degrades the dashboard and is reported without failing.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	status := utils.CheckHealth(c.Request.Context(), h.Mongo, h.Redis)
	code := http.StatusOK
	state := "ok"
	if !status.Mongo {
		code = http.StatusServiceUnavailable
		state = "unavailable"
	}
	c.JSON(code, gin.H{"status": state, "services": status})
}

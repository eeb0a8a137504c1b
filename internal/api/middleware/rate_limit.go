package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/config"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware allows Burst requests per window, where the window is
// sized so the long-run rate stays at RPS.
func RateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	rate := rateFor(cfg.RateLimitRPS, cfg.RateLimitBurst)

	store := memory.NewStore()
	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(true))

	return mgin.NewMiddleware(instance, mgin.WithKeyGetter(func(c *gin.Context) string {
		return fmt.Sprintf("%s:%s", c.ClientIP(), c.FullPath())
	}))
}

func rateFor(rps, burst int) limiter.Rate {
	if rps < 1 {
		rps = 1
	}
	if burst < rps {
		burst = rps
	}
	return limiter.Rate{
		Period: time.Duration(burst) * time.Second / time.Duration(rps),
		Limit:  int64(burst),
	}
}

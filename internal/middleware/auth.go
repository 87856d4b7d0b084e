package middleware

import (
	"session_metrics_backend/internal/util"
	"session_metrics_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngestAuth 校验上报客户端的 Bearer 令牌，secret 为空时直接放行
func IngestAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Warn("Rejected ingestion token", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			util.Unauthorized(c)
			return
		}

		c.Set("client", claims)
		c.Next()
	}
}

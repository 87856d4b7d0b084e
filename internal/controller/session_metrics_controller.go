package controller

import (
	"errors"
	"fmt"
	"net/http"
	"session_metrics_backend/internal/model"
	"session_metrics_backend/internal/repository"
	"session_metrics_backend/internal/service"
	"session_metrics_backend/internal/util"
	"session_metrics_backend/pkg/logger"
	"session_metrics_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	insertFailedMessage = "Database insertion failed"
	queryFailedMessage  = "Database query failed"
)

type SessionMetricsController struct {
	SessionMetricsService *service.SessionMetricsService
}

func NewSessionMetricsController(sessionMetricsService *service.SessionMetricsService) *SessionMetricsController {
	return &SessionMetricsController{SessionMetricsService: sessionMetricsService}
}

// @Summary 上报会话指标
// @Description 写入一条会话专注度指标，saved_at 由服务端生成。业务错误以 HTTP 200 返回，code 字段为 401 或 500
// @Tags 会话指标
// @Accept json
// @Produce json
// @Param body body model.SessionMetricsPayload true "会话指标"
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /insert-session-metrics [post]
func (c *SessionMetricsController) InsertSessionMetrics(ctx *gin.Context) {
	defer recoverUnexpected(ctx, service.OpInsertSessionMetrics, insertFailedMessage)

	var req model.SessionMetricsPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationError(ctx, err.Error())
		return
	}

	if err := c.SessionMetricsService.InsertSessionMetrics(ctx.Request.Context(), &req); err != nil {
		respondError(ctx, service.OpInsertSessionMetrics, insertFailedMessage, err)
		return
	}

	if claims := util.GetClientFromContext(ctx); claims != nil {
		logger.Log.Debug("Session metrics accepted from client",
			zap.String("client", claims.Client),
			zap.String("session_id", *req.SessionID),
		)
	}

	monitoring.ObserveOperation(service.OpInsertSessionMetrics, http.StatusOK)
	util.Success(ctx, nil)
}

// @Summary 本周平均专注时长前五名
// @Description 统计本周（周日至周六，服务器本地时间）按用户分组的平均专注时长，降序取前五，保留一位小数
// @Tags 会话指标
// @Produce json
// @Success 200 {object} util.Response{data=model.WeeklyTopAttention}
// @Router /weekly-top5-attention-span [get]
func (c *SessionMetricsController) WeeklyTopAttention(ctx *gin.Context) {
	defer recoverUnexpected(ctx, service.OpWeeklyTopAttention, queryFailedMessage)

	result, err := c.SessionMetricsService.WeeklyTopAttention(ctx.Request.Context())
	if err != nil {
		respondError(ctx, service.OpWeeklyTopAttention, queryFailedMessage, err)
		return
	}

	monitoring.ObserveOperation(service.OpWeeklyTopAttention, http.StatusOK)
	util.Success(ctx, result)
}

// respondError 按错误类型映射为 JSON 错误信封，优先级：认证 > 其他数据库错误 > 配置/取值错误 > 其他
func respondError(ctx *gin.Context, op, dbMessage string, err error) {
	var (
		dbErr    *repository.DBError
		valueErr *service.ValueError
		code     = http.StatusInternalServerError
		message  string
	)

	switch {
	case errors.As(err, &dbErr) && dbErr.IsAuthentication():
		code = http.StatusUnauthorized
		message = fmt.Sprintf("Authentication failed for SQL Database. Please check your credentials. Error: %v", err)
		logger.Log.Error("SQL authentication error", zap.String("operation", op), zap.Error(err))
	case errors.As(err, &dbErr):
		message = fmt.Sprintf("%s: %v", dbMessage, err)
		logger.Log.Error("SQL database error", zap.String("operation", op), zap.Error(err))
	case errors.As(err, &valueErr):
		message = fmt.Sprintf("Server configuration error: %v", err)
		logger.Log.Error("Configuration error", zap.String("operation", op), zap.Error(err))
	default:
		message = fmt.Sprintf("An unexpected error occurred: %v", err)
		logger.Log.Error("Unexpected error", zap.String("operation", op), zap.Error(err))
	}

	monitoring.ObserveOperation(op, code)
	util.Error(ctx, code, message)
}

func recoverUnexpected(ctx *gin.Context, op, dbMessage string) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		respondError(ctx, op, dbMessage, err)
	}
}

package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
// 业务错误同样以 HTTP 200 返回，code 字段承载逻辑状态
type Response struct {
	Status  string      `json:"status"`
	Code    int         `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusError,
		Code:    code,
		Message: message,
	})
}

// Abort 在传输层返回错误状态，用于请求未进入处理逻辑的情况
func Abort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Status:  StatusError,
		Code:    httpStatus,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Abort(c, http.StatusUnauthorized, "Unauthorized")
}

func ValidationError(c *gin.Context, message string) {
	Abort(c, http.StatusUnprocessableEntity, message)
}

func TooManyRequests(c *gin.Context) {
	Abort(c, http.StatusTooManyRequests, "too many requests")
}

func ServiceUnavailable(c *gin.Context, message string) {
	Abort(c, http.StatusServiceUnavailable, message)
}

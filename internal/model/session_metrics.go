package model

import "time"

// SessionMetrics 一次已结束的用户活动会话，只追加写入
type SessionMetrics struct {
	SessionID        string    `gorm:"column:session_id;size:64;not null" json:"session_id"`
	SavedAt          time.Time `gorm:"column:saved_at;type:datetime(6);not null" json:"saved_at"`
	UserID           string    `gorm:"column:user_id;size:64;not null;index:idx_session_metrics_user" json:"user_id"`
	Username         string    `gorm:"column:username;size:255;not null;index:idx_session_metrics_user" json:"username"`
	StartTime        time.Time `gorm:"column:start_time;type:datetime(6);not null;index" json:"start_time"`
	EndTime          time.Time `gorm:"column:end_time;type:datetime(6);not null" json:"end_time"`
	ActiveDuration   float64   `gorm:"column:active_duration;not null" json:"active_duration"`
	PauseDuration    float64   `gorm:"column:pause_duration;not null" json:"pause_duration"`
	AttentionSpan    float64   `gorm:"column:attention_span;not null" json:"attention_span"`
	FrequencyUnfocus int64     `gorm:"column:frequency_unfocus;not null" json:"frequency_unfocus"`
	FocusDuration    float64   `gorm:"column:focus_duration;not null" json:"focus_duration"`
	UnfocusDuration  float64   `gorm:"column:unfocus_duration;not null" json:"unfocus_duration"`
}

func (SessionMetrics) TableName() string {
	return "session_metrics"
}

// SessionMetricsPayload 上报接口的请求体，saved_at 由服务端生成
// 所有字段使用指针，使 binding:"required" 只拒绝缺失或 null，允许空字符串和 0
// 整数字段按 JSON 整数解码，3.0 这类带小数点的值会被拒绝
type SessionMetricsPayload struct {
	SessionID        *string  `json:"session_id" binding:"required"`
	UserID           *string  `json:"user_id" binding:"required"`
	Username         *string  `json:"username" binding:"required"`
	StartTime        *string  `json:"start_time" binding:"required" example:"2024-06-12 09:30:00.000000"`
	EndTime          *string  `json:"end_time" binding:"required" example:"2024-06-12 10:15:42.125000"`
	ActiveDuration   *float64 `json:"active_duration" binding:"required"`
	PauseDuration    *float64 `json:"pause_duration" binding:"required"`
	AttentionSpan    *float64 `json:"attention_span" binding:"required"`
	FrequencyUnfocus *int64   `json:"frequency_unfocus" binding:"required"`
	FocusDuration    *float64 `json:"focus_duration" binding:"required"`
	UnfocusDuration  *float64 `json:"unfocus_duration" binding:"required"`
}

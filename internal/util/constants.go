package util

const (
	DateFormat = "2006-01-02"

	// SessionTimeFormat 上报时间格式 YYYY-MM-DD HH:MM:SS.ffffff，小数位 1~6 位
	SessionTimeFormat      = "2006-01-02 15:04:05.999999"
	SessionTimeMaxFraction = 6
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// 周排行取前几名
const TopAttentionLimit = 5

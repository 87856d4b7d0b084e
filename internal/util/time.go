package util

import (
	"fmt"
	"strings"
	"time"
)

// ParseSessionTime 按服务器本地时区解析上报时间，小数秒必须存在且为 1~6 位
func ParseSessionTime(value string) (time.Time, error) {
	dot := strings.LastIndexByte(value, '.')
	if dot < 0 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeValue, value)
	}
	if digits := len(value) - dot - 1; digits < 1 || digits > SessionTimeMaxFraction {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeValue, value)
	}

	t, err := time.ParseInLocation(SessionTimeFormat, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeValue, value)
	}
	return t, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"session_metrics_backend/internal/model"
	"session_metrics_backend/internal/repository"
	"session_metrics_backend/internal/util"
	"session_metrics_backend/pkg/logger"
	"session_metrics_backend/pkg/monitoring"
	"session_metrics_backend/pkg/tracing"
	"time"

	"go.uber.org/zap"
)

const (
	OpInsertSessionMetrics = "insert_session_metrics"
	OpWeeklyTopAttention   = "weekly_top5_attention_span"
)

// ValueError 配置或取值错误，例如时间格式不符
type ValueError struct {
	Err error
}

func (e *ValueError) Error() string {
	return e.Err.Error()
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

type SessionMetricsService struct {
	Connector repository.Connector
	Clock     func() time.Time
}

func NewSessionMetricsService(connector repository.Connector) *SessionMetricsService {
	return &SessionMetricsService{
		Connector: connector,
		Clock:     time.Now,
	}
}

func (s *SessionMetricsService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// open 打开连接并返回释放函数，释放函数在所有退出路径上都必须调用
func (s *SessionMetricsService) open(ctx context.Context, op string) (repository.SessionMetricsConn, func(), error) {
	if s.Connector == nil {
		return nil, nil, &ValueError{Err: util.ErrMissingConnector}
	}

	conn, err := s.Connector.Open(ctx)
	if err != nil {
		return nil, nil, err
	}

	opened := time.Now()
	release := func() {
		if err := conn.Close(); err != nil {
			logger.Log.Warn("Failed to close database connection", zap.String("operation", op), zap.Error(err))
		}
		monitoring.ObserveConnection(op, opened)
	}
	return conn, release, nil
}

func (s *SessionMetricsService) buildRecord(payload *model.SessionMetricsPayload, savedAt time.Time) (*model.SessionMetrics, error) {
	if payload.SessionID == nil || payload.UserID == nil || payload.Username == nil ||
		payload.StartTime == nil || payload.EndTime == nil ||
		payload.ActiveDuration == nil || payload.PauseDuration == nil || payload.AttentionSpan == nil ||
		payload.FrequencyUnfocus == nil || payload.FocusDuration == nil || payload.UnfocusDuration == nil {
		return nil, &ValueError{Err: errors.New("session metrics payload is missing required fields")}
	}

	startTime, err := util.ParseSessionTime(*payload.StartTime)
	if err != nil {
		return nil, &ValueError{Err: fmt.Errorf("start_time: %w", err)}
	}
	endTime, err := util.ParseSessionTime(*payload.EndTime)
	if err != nil {
		return nil, &ValueError{Err: fmt.Errorf("end_time: %w", err)}
	}

	return &model.SessionMetrics{
		SessionID:        *payload.SessionID,
		SavedAt:          savedAt,
		UserID:           *payload.UserID,
		Username:         *payload.Username,
		StartTime:        startTime,
		EndTime:          endTime,
		ActiveDuration:   *payload.ActiveDuration,
		PauseDuration:    *payload.PauseDuration,
		AttentionSpan:    *payload.AttentionSpan,
		FrequencyUnfocus: *payload.FrequencyUnfocus,
		FocusDuration:    *payload.FocusDuration,
		UnfocusDuration:  *payload.UnfocusDuration,
	}, nil
}

func (s *SessionMetricsService) InsertSessionMetrics(ctx context.Context, payload *model.SessionMetricsPayload) (err error) {
	ctx, span := tracing.Start(ctx, "SessionMetricsService.InsertSessionMetrics")
	defer func() { tracing.End(span, err) }()

	savedAt := s.now()

	record, err := s.buildRecord(payload, savedAt)
	if err != nil {
		return err
	}

	conn, release, err := s.open(ctx, OpInsertSessionMetrics)
	if err != nil {
		return err
	}
	defer release()

	if err := conn.InsertSessionMetrics(ctx, record); err != nil {
		return err
	}

	logger.Log.Info("Data successfully inserted",
		zap.String("session_id", record.SessionID),
		zap.String("user_id", record.UserID),
	)
	return nil
}

// WeekWindow 返回 now 所在周的周日 00:00:00 至周六 23:59:59，使用 now 的时区
func WeekWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	start := today.AddDate(0, 0, -int(today.Weekday()))
	last := start.AddDate(0, 0, 6)
	end := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, now.Location())
	return start, end
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *SessionMetricsService) WeeklyTopAttention(ctx context.Context) (result *model.WeeklyTopAttention, err error) {
	ctx, span := tracing.Start(ctx, "SessionMetricsService.WeeklyTopAttention")
	defer func() { tracing.End(span, err) }()

	start, end := WeekWindow(s.now())

	conn, release, err := s.open(ctx, OpWeeklyTopAttention)
	if err != nil {
		return nil, err
	}
	defer release()

	ranks, err := conn.WeeklyTopAttention(ctx, start, end, util.TopAttentionLimit)
	if err != nil {
		return nil, err
	}

	top := make([]model.AttentionRank, 0, len(ranks))
	for _, r := range ranks {
		if len(top) == util.TopAttentionLimit {
			break
		}
		r.AvgAttentionSpan = roundOneDecimal(r.AvgAttentionSpan)
		top = append(top, r)
	}

	logger.Log.Debug("Weekly attention ranking computed",
		zap.String("week_start", start.Format(util.DateFormat)),
		zap.Int("users", len(top)),
	)

	return &model.WeeklyTopAttention{
		WeekPeriod: model.WeekPeriod{
			Start: start.Format(util.DateFormat),
			End:   end.Format(util.DateFormat),
		},
		Top5Users: top,
	}, nil
}

package repository

import (
	"context"
	"database/sql"
	"session_metrics_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// Connector 每次调用打开一条独立连接，由调用方负责 Close
type Connector interface {
	Open(ctx context.Context) (SessionMetricsConn, error)
}

type SessionMetricsConn interface {
	InsertSessionMetrics(ctx context.Context, record *model.SessionMetrics) error
	WeeklyTopAttention(ctx context.Context, start, end time.Time, limit int) ([]model.AttentionRank, error)
	Close() error
}

type GormConnector struct {
	DB *gorm.DB
}

func NewGormConnector(db *gorm.DB) *GormConnector {
	return &GormConnector{DB: db}
}

func (c *GormConnector) Open(ctx context.Context) (SessionMetricsConn, error) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return nil, classify("open connection", err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, classify("open connection", err)
	}

	// 与 gorm.DB.Connection 相同：让该会话上的语句都走这条连接
	tx := c.DB.WithContext(ctx)
	tx.Statement.ConnPool = conn

	return &SessionMetricsRepository{DB: tx, conn: conn}, nil
}

// SessionMetricsRepository 绑定在单条连接上的会话指标读写
type SessionMetricsRepository struct {
	DB   *gorm.DB
	conn *sql.Conn
}

func (r *SessionMetricsRepository) InsertSessionMetrics(ctx context.Context, record *model.SessionMetrics) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	return classify("insert session metrics", err)
}

func (r *SessionMetricsRepository) WeeklyTopAttention(ctx context.Context, start, end time.Time, limit int) ([]model.AttentionRank, error) {
	var ranks []model.AttentionRank

	err := r.DB.WithContext(ctx).
		Model(&model.SessionMetrics{}).
		Select("user_id, username, CAST(AVG(attention_span) AS DOUBLE) AS avg_attention_span, COUNT(*) AS session_count").
		Where("start_time BETWEEN ? AND ?", start, end).
		Group("user_id, username").
		Having("COUNT(*) >= ?", 1).
		Order("avg_attention_span DESC").
		Limit(limit).
		Scan(&ranks).Error
	if err != nil {
		return nil, classify("query weekly attention", err)
	}

	return ranks, nil
}

func (r *SessionMetricsRepository) Close() error {
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	if err == sql.ErrConnDone {
		return nil
	}
	return classify("close connection", err)
}

package model

// AttentionRank 周排行中的一行
type AttentionRank struct {
	UserID           string  `gorm:"column:user_id" json:"user_id"`
	Username         string  `gorm:"column:username" json:"username"`
	AvgAttentionSpan float64 `gorm:"column:avg_attention_span" json:"avg_attention_span"`
	SessionCount     int64   `gorm:"column:session_count" json:"-"`
}

type WeekPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type WeeklyTopAttention struct {
	WeekPeriod WeekPeriod      `json:"week_period"`
	Top5Users  []AttentionRank `json:"top5_users"`
}

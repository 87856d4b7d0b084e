package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"session_metrics_backend/internal/model"
	"session_metrics_backend/internal/repository"
	"session_metrics_backend/internal/service"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	closes    int
	inserted  []*model.SessionMetrics
	insertErr error
	ranks     []model.AttentionRank
	queryErr  error
}

func (s *stubConn) InsertSessionMetrics(ctx context.Context, record *model.SessionMetrics) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, record)
	return nil
}

func (s *stubConn) WeeklyTopAttention(ctx context.Context, start, end time.Time, limit int) ([]model.AttentionRank, error) {
	return s.ranks, s.queryErr
}

func (s *stubConn) Close() error {
	s.closes++
	return nil
}

type stubConnector struct {
	conn      *stubConn
	openErr   error
	panicWith interface{}
}

func (s *stubConnector) Open(ctx context.Context) (repository.SessionMetricsConn, error) {
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.conn, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(connector repository.Connector) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewSessionMetricsService(connector)
	svc.Clock = func() time.Time { return time.Date(2024, 6, 12, 14, 5, 0, 0, time.Local) }
	ctrl := NewSessionMetricsController(svc)

	router := gin.New()
	router.POST("/insert-session-metrics", ctrl.InsertSessionMetrics)
	router.GET("/weekly-top5-attention-span", ctrl.WeeklyTopAttention)
	return router
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"session_id":        "sess-1",
		"user_id":           "u-1",
		"username":          "alice",
		"start_time":        "2024-06-12 09:30:00.000000",
		"end_time":          "2024-06-12 10:00:00.250000",
		"active_duration":   1700.25,
		"pause_duration":    100,
		"attention_span":    42.5,
		"frequency_unfocus": 3,
		"focus_duration":    1500,
		"unfocus_duration":  200.25,
	}
}

func post(t *testing.T, router *gin.Engine, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/insert-session-metrics", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func get(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/weekly-top5-attention-span", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestInsertSessionMetrics_Success(t *testing.T) {
	conn := &stubConn{}
	router := newTestRouter(&stubConnector{conn: conn})

	rr, _ := post(t, router, validBody())

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success"}`, rr.Body.String())
	require.Len(t, conn.inserted, 1)
	assert.Equal(t, 42.5, conn.inserted[0].AttentionSpan)
	assert.Equal(t, int64(3), conn.inserted[0].FrequencyUnfocus)
	assert.Equal(t, 1, conn.closes)
}

func TestInsertSessionMetrics_IgnoresClientSavedAt(t *testing.T) {
	conn := &stubConn{}
	router := newTestRouter(&stubConnector{conn: conn})

	body := validBody()
	body["saved_at"] = "1999-01-01 00:00:00.000000"
	rr, _ := post(t, router, body)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, conn.inserted, 1)
	assert.Equal(t, time.Date(2024, 6, 12, 14, 5, 0, 0, time.Local), conn.inserted[0].SavedAt)
}

func TestInsertSessionMetrics_ZeroMetricsAccepted(t *testing.T) {
	conn := &stubConn{}
	router := newTestRouter(&stubConnector{conn: conn})

	body := validBody()
	body["pause_duration"] = 0
	body["frequency_unfocus"] = 0
	rr, env := post(t, router, body)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", env.Status)
	require.Len(t, conn.inserted, 1)
}

func TestInsertSessionMetrics_SchemaRejections(t *testing.T) {
	cases := map[string]func(map[string]interface{}){
		"missing user_id":             func(b map[string]interface{}) { delete(b, "user_id") },
		"null session_id":             func(b map[string]interface{}) { b["session_id"] = nil },
		"missing start_time":          func(b map[string]interface{}) { delete(b, "start_time") },
		"missing attention_span":      func(b map[string]interface{}) { delete(b, "attention_span") },
		"fractional unfocus count":    func(b map[string]interface{}) { b["frequency_unfocus"] = 1.5 },
		"non numeric active_duration": func(b map[string]interface{}) { b["active_duration"] = "long" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			conn := &stubConn{}
			router := newTestRouter(&stubConnector{conn: conn})

			body := validBody()
			mutate(body)
			rr, env := post(t, router, body)

			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, http.StatusUnprocessableEntity, env.Code)
			assert.Empty(t, conn.inserted)
			assert.Equal(t, 0, conn.closes)
		})
	}
}

func TestInsertSessionMetrics_ErrorEnvelopes(t *testing.T) {
	authErr := &repository.DBError{
		Kind: repository.KindAuthentication,
		Op:   "insert session metrics",
		Err:  &mysql.MySQLError{Number: 1045, Message: "Access denied for user 'metrics'"},
	}
	dbErr := &repository.DBError{Kind: repository.KindDatabase, Op: "insert session metrics", Err: errors.New("Lock wait timeout exceeded")}

	cases := []struct {
		name       string
		insertErr  error
		wantCode   int
		wantPrefix string
	}{
		{"authentication", authErr, http.StatusUnauthorized, "Authentication failed for SQL Database. Please check your credentials. Error: "},
		{"database", dbErr, http.StatusInternalServerError, "Database insertion failed: "},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred: boom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := &stubConn{insertErr: tc.insertErr}
			router := newTestRouter(&stubConnector{conn: conn})

			rr, env := post(t, router, validBody())

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tc.wantCode, env.Code)
			assert.True(t, strings.HasPrefix(env.Message, tc.wantPrefix), env.Message)
			assert.Equal(t, 1, conn.closes)
		})
	}
}

func TestInsertSessionMetrics_AuthFailureOnOpen(t *testing.T) {
	openErr := &repository.DBError{Kind: repository.KindAuthentication, Op: "open connection", Err: errors.New("Access denied")}
	router := newTestRouter(&stubConnector{openErr: openErr})

	rr, env := post(t, router, validBody())

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusUnauthorized, env.Code)
}

func TestInsertSessionMetrics_MalformedTime(t *testing.T) {
	cases := map[string]string{
		"iso layout": "2024-06-12T09:30:00Z",
		"empty":      "",
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			conn := &stubConn{}
			router := newTestRouter(&stubConnector{conn: conn})

			body := validBody()
			body["start_time"] = value
			rr, env := post(t, router, body)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, http.StatusInternalServerError, env.Code)
			assert.True(t, strings.HasPrefix(env.Message, "Server configuration error: "), env.Message)
			assert.Empty(t, conn.inserted)
			assert.Equal(t, 0, conn.closes)
		})
	}
}

func TestInsertSessionMetrics_EmptyIdentifiers(t *testing.T) {
	conn := &stubConn{}
	router := newTestRouter(&stubConnector{conn: conn})

	body := validBody()
	body["session_id"] = ""
	body["user_id"] = ""
	body["username"] = ""
	rr, env := post(t, router, body)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", env.Status)
	require.Len(t, conn.inserted, 1)
	assert.Equal(t, "", conn.inserted[0].UserID)
	assert.Equal(t, 1, conn.closes)
}

func TestInsertSessionMetrics_PanicBecomesEnvelope(t *testing.T) {
	router := newTestRouter(&stubConnector{panicWith: "driver exploded"})

	rr, env := post(t, router, validBody())

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusInternalServerError, env.Code)
	assert.Equal(t, "An unexpected error occurred: driver exploded", env.Message)
}

func TestWeeklyTopAttention_PanickedDatabaseError(t *testing.T) {
	router := newTestRouter(&stubConnector{panicWith: &repository.DBError{
		Kind: repository.KindDatabase,
		Op:   "open connection",
		Err:  errors.New("bad connection"),
	}})

	rr, env := get(t, router)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusInternalServerError, env.Code)
	assert.Equal(t, "Database query failed: open connection: bad connection", env.Message)
}

func TestWeeklyTopAttention_Success(t *testing.T) {
	conn := &stubConn{ranks: []model.AttentionRank{
		{UserID: "u-2", Username: "bob", AvgAttentionSpan: 51.04, SessionCount: 2},
		{UserID: "u-1", Username: "alice", AvgAttentionSpan: 42.56, SessionCount: 4},
	}}
	router := newTestRouter(&stubConnector{conn: conn})

	rr, _ := get(t, router)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"status": "success",
		"data": {
			"week_period": {"start": "2024-06-09", "end": "2024-06-15"},
			"top5_users": [
				{"user_id": "u-2", "username": "bob", "avg_attention_span": 51},
				{"user_id": "u-1", "username": "alice", "avg_attention_span": 42.6}
			]
		}
	}`, rr.Body.String())
	assert.Equal(t, 1, conn.closes)
}

func TestWeeklyTopAttention_EmptyList(t *testing.T) {
	router := newTestRouter(&stubConnector{conn: &stubConn{}})

	rr, _ := get(t, router)

	assert.JSONEq(t, `{
		"status": "success",
		"data": {"week_period": {"start": "2024-06-09", "end": "2024-06-15"}, "top5_users": []}
	}`, rr.Body.String())
}

func TestWeeklyTopAttention_ErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name       string
		queryErr   error
		wantCode   int
		wantPrefix string
	}{
		{"authentication", &repository.DBError{Kind: repository.KindAuthentication, Op: "query", Err: errors.New("denied")}, http.StatusUnauthorized, "Authentication failed"},
		{"database", &repository.DBError{Kind: repository.KindDatabase, Op: "query", Err: errors.New("gone away")}, http.StatusInternalServerError, "Database query failed: "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := &stubConn{queryErr: tc.queryErr}
			router := newTestRouter(&stubConnector{conn: conn})

			rr, env := get(t, router)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.wantCode, env.Code)
			assert.True(t, strings.HasPrefix(env.Message, tc.wantPrefix), env.Message)
			assert.Equal(t, 1, conn.closes)
		})
	}
}

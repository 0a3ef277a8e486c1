package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// 这里的请求都在访问数据库、redis、rabbitmq 之前就返回，因此依赖可以为 nil
func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Scheduler.PopulationSize = 30
	cfg.Scheduler.EliteCount = 2
	cfg.Scheduler.TournamentSize = 8
	cfg.Scheduler.MutationRate = 0.05
	cfg.Scheduler.CrossoverBias = 0.5
	cfg.Scheduler.MaxGenerations = 100

	h, err := NewHandler(cfg, nil, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func do(t *testing.T, h *Handler, method, path, body string) (int, Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestRequestValidation(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		msg    string
	}{
		{"malformed json", http.MethodPost, "/timetables/generate", `{"populationSize":`, ""},
		{"unknown field", http.MethodPost, "/timetables/generate", `{"crossoverRate": 0.8}`, ""},
		{"population size too small", http.MethodPost, "/timetables/generate", `{"populationSize": 0}`, "PopulationSize"},
		{"mutation rate out of range", http.MethodPost, "/timetables/generate", `{"mutationRate": 1.5}`, "MutationRate"},
		{"invalid notify email", http.MethodPost, "/timetables/jobs", `{"notifyEmail": "not-an-email"}`, "NotifyEmail"},
		{"elite count not below population size", http.MethodPost, "/timetables/jobs", `{"populationSize": 4, "eliteCount": 4, "tournamentSize": 2}`, "EliteCount"},
		{"empty submitted timetable", http.MethodPost, "/timetables", `{"classes": []}`, ""},
		{"submitted class without room", http.MethodPost, "/timetables", `{"classes": [{"sectionID": 1, "courseID": 1, "meetingTimeID": 1, "instructorID": 1}]}`, "RoomID"},
		{"invalid job id", http.MethodGet, "/timetables/jobs/123", "", "任务ID无效"},
		{"invalid timetable id", http.MethodGet, "/timetables/abc", "", "课表ID无效"},
		{"malformed catalog", http.MethodPost, "/catalog", `{"rooms": "LH101"}`, ""},
		{"inconsistent catalog", http.MethodPost, "/catalog", `{"sections": [{"id": 1, "code": "CS-1A", "departmentID": 9, "classesPerWeek": 3}]}`, "院系 9 不存在"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := do(t, h, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusOK, status)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
			assert.Contains(t, resp.Message, tt.msg)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestParametersRequestApply(t *testing.T) {
	defaults := domain.TimetableJobParameters{
		PopulationSize: 30,
		EliteCount:     2,
		TournamentSize: 8,
		MutationRate:   0.05,
		CrossoverBias:  0.5,
		MaxGenerations: 100,
	}

	t.Run("empty request keeps defaults", func(t *testing.T) {
		req := parametersRequest{}
		assert.Equal(t, defaults, req.apply(defaults))
	})

	t.Run("given fields override defaults", func(t *testing.T) {
		var req parametersRequest
		require.NoError(t, json.Unmarshal([]byte(`{"populationSize": 50, "mutationRate": 0, "seed": 7}`), &req))

		p := req.apply(defaults)

		assert.Equal(t, 50, p.PopulationSize)
		assert.Equal(t, 0.0, p.MutationRate)
		require.NotNil(t, p.Seed)
		assert.Equal(t, int64(7), *p.Seed)
		assert.Equal(t, 8, p.TournamentSize)
	})
}

func TestRecoverer(t *testing.T) {
	h := newTestHandler(t)
	h.Mux.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	status, resp := do(t, h, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, resp.Success)
	assert.Equal(t, "服务器内部错误", resp.Message)
}

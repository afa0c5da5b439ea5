package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/store"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

const testKey = "com.tasksOfToday.tasks"

type testEnv struct {
	srv    *httptest.Server
	kv     *store.MemoryKV
	tasks  *store.BlobStore
	center *reminder.TimerCenter
}

func setupTest(t *testing.T, apiKey string) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	kv := store.NewMemoryKV()
	blob := store.NewBlobStore(kv, testKey, logger)
	center := reminder.NewTimerCenter(reminder.NotifierFunc(func(reminder.Request) {}))
	svc := tasks.NewService(blob, reminder.NewScheduler(center, logger), logger)

	srv := httptest.NewServer(NewRouter(svc, kv, testKey, center, apiKey, logger))
	t.Cleanup(func() {
		srv.Close()
		center.Close()
	})
	return &testEnv{srv: srv, kv: kv, tasks: blob, center: center}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func futureDue() string {
	return time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
}

func TestHealth(t *testing.T) {
	env := setupTest(t, "")

	resp := env.do(t, http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body healthResponse
	decodeBody(t, resp, &body)
	if body.Status != "ok" || body.Store.Status != "ok" {
		t.Errorf("unexpected health: %+v", body)
	}
}

func TestCreateAndGet(t *testing.T) {
	env := setupTest(t, "")

	resp := env.do(t, http.MethodPost, "/tasks",
		`{"title":"  Buy milk ","note":"2%","dueDate":"`+futureDue()+`","priority":3}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created models.Task
	decodeBody(t, resp, &created)
	if created.Title != "Buy milk" || created.Priority != models.PriorityHigh || created.IsComplete() {
		t.Errorf("unexpected task: %+v", created)
	}

	stored := env.tasks.LoadAll(context.Background())
	if len(stored) != 1 || stored[0].ID() != created.ID() {
		t.Fatalf("task not persisted: %+v", stored)
	}

	pending := env.center.Pending()
	if len(pending) != 1 || pending[0].ID != created.ID() {
		t.Errorf("expected one reminder for the new task, got %+v", pending)
	}

	resp = env.do(t, http.MethodGet, "/tasks/"+created.ID(), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCreateDefaultsToMediumPriority(t *testing.T) {
	env := setupTest(t, "")

	resp := env.do(t, http.MethodPost, "/tasks", `{"title":"Call mom"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created models.Task
	decodeBody(t, resp, &created)
	if created.Priority != models.PriorityMedium {
		t.Errorf("Priority = %v, want Medium", created.Priority)
	}
}

func TestCreateMissingTitle(t *testing.T) {
	for _, body := range []string{`{}`, `{"title":""}`, `{"title":"   ","note":"x"}`} {
		t.Run(body, func(t *testing.T) {
			env := setupTest(t, "")

			resp := env.do(t, http.MethodPost, "/tasks", body)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", resp.StatusCode)
			}
			var alert tasks.Alert
			decodeBody(t, resp, &alert)
			if alert.Title != "Oops..." || alert.Message != "Make sure to add a title!" {
				t.Errorf("unexpected alert: %+v", alert)
			}

			if _, err := env.kv.Get(context.Background(), testKey); err != store.ErrNotFound {
				t.Errorf("store should be untouched, got err=%v", err)
			}
		})
	}
}

func TestCreateSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `{"title":"x","color":"red"}`},
		{"bad priority", `{"title":"x","priority":7}`},
		{"priority as string", `{"title":"x","priority":"high"}`},
		{"bad date", `{"title":"x","dueDate":"tomorrow"}`},
		{"not an object", `["x"]`},
		{"malformed", `{"title":`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t, "")
			resp := env.do(t, http.MethodPost, "/tasks", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestUpdateKeepsIdentityAndPosition(t *testing.T) {
	env := setupTest(t, "")
	ctx := context.Background()

	first := models.NewTask("First", "", time.Now().Add(time.Hour))
	second := models.NewTask("Second", "keep me", time.Now().Add(2*time.Hour))
	second.Priority = models.PriorityHigh
	env.tasks.SaveAll(ctx, []models.Task{first, second})

	resp := env.do(t, http.MethodPut, "/tasks/"+second.ID(), `{"title":"Second, renamed"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	stored := env.tasks.LoadAll(ctx)
	if len(stored) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(stored))
	}
	got := stored[1]
	if got.ID() != second.ID() || got.Title != "Second, renamed" {
		t.Errorf("edit not applied in place: %+v", got)
	}
	if got.Note != "keep me" || got.Priority != models.PriorityHigh {
		t.Errorf("absent fields should keep prefilled values: %+v", got)
	}
}

func TestUpdateKeepsToggleMadeWhileBodyArrives(t *testing.T) {
	env := setupTest(t, "")
	ctx := context.Background()
	task := models.NewTask("Laundry", "", time.Now().Add(time.Hour))
	env.tasks.SaveAll(ctx, []models.Task{task})

	body, bodyW := io.Pipe()
	req, err := http.NewRequest(http.MethodPut, env.srv.URL+"/tasks/"+task.ID(), body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	type result struct {
		status int
		err    error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			done <- result{err: err}
			return
		}
		resp.Body.Close()
		done <- result{status: resp.StatusCode}
	}()

	if _, err := io.WriteString(bodyW, `{"title":`); err != nil {
		t.Fatalf("write first half: %v", err)
	}

	// The PUT is still open; complete the task from another request.
	if resp := env.do(t, http.MethodPost, "/tasks/"+task.ID()+"/toggle", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", resp.StatusCode)
	}

	if _, err := io.WriteString(bodyW, `"Laundry (darks)"}`); err != nil {
		t.Fatalf("write second half: %v", err)
	}
	bodyW.Close()

	res := <-done
	if res.err != nil || res.status != http.StatusOK {
		t.Fatalf("PUT: status=%d err=%v", res.status, res.err)
	}

	stored, _ := env.tasks.Get(ctx, task.ID())
	if stored.Title != "Laundry (darks)" {
		t.Errorf("edit lost: title = %q", stored.Title)
	}
	if !stored.IsComplete() {
		t.Error("completion made during the edit was overwritten")
	}
}

func TestCreateTitleTooLong(t *testing.T) {
	env := setupTest(t, "")

	resp := env.do(t, http.MethodPost, "/tasks", `{"title":"`+strings.Repeat("a", tasks.MaxTitleLen+1)+`"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var alert tasks.Alert
	decodeBody(t, resp, &alert)
	if alert.Title != "Oops..." || !strings.Contains(alert.Message, "200") {
		t.Errorf("unexpected alert: %+v", alert)
	}
}

func TestUpdateUnknownTask(t *testing.T) {
	env := setupTest(t, "")
	resp := env.do(t, http.MethodPut, "/tasks/nope", `{"title":"x"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestToggle(t *testing.T) {
	env := setupTest(t, "")
	task := models.NewTask("Laundry", "", time.Now())
	env.tasks.SaveAll(context.Background(), []models.Task{task})

	resp := env.do(t, http.MethodPost, "/tasks/"+task.ID()+"/toggle", "")
	var toggled models.Task
	decodeBody(t, resp, &toggled)
	if !toggled.IsComplete() {
		t.Fatal("expected task to be complete")
	}
	if _, ok := toggled.CompletedDate(); !ok {
		t.Error("completedDate should be set")
	}

	stored, _ := env.tasks.Get(context.Background(), task.ID())
	if !stored.IsComplete() {
		t.Error("toggle not persisted")
	}
}

func TestListByUrgency(t *testing.T) {
	env := setupTest(t, "")
	base := time.Now().Add(time.Hour)
	low := models.NewTask("low", "", base)
	low.Priority = models.PriorityLow
	high := models.NewTask("high", "", base.Add(time.Hour))
	high.Priority = models.PriorityHigh
	env.tasks.SaveAll(context.Background(), []models.Task{low, high})

	resp := env.do(t, http.MethodGet, "/tasks?sort=urgency", "")
	var body struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	decodeBody(t, resp, &body)
	if body.Count != 2 || body.Tasks[0].Title != "high" {
		t.Errorf("unexpected order: %+v", body.Tasks)
	}

	resp = env.do(t, http.MethodGet, "/tasks?sort=alpha", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown sort, got %d", resp.StatusCode)
	}
}

func TestListEmpty(t *testing.T) {
	env := setupTest(t, "")
	resp := env.do(t, http.MethodGet, "/tasks", "")
	data, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(data, []byte(`"tasks":[]`)) {
		t.Errorf("expected empty array, got %s", data)
	}
}

func TestCalendarExport(t *testing.T) {
	env := setupTest(t, "")
	task := models.NewTask("Dentist", "", time.Now().Add(24*time.Hour))
	env.tasks.SaveAll(context.Background(), []models.Task{task})

	resp := env.do(t, http.MethodGet, "/tasks/"+task.ID()+"/calendar.ics", "")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("unexpected content type %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "SUMMARY:Dentist") {
		t.Errorf("missing event: %s", data)
	}

	resp = env.do(t, http.MethodGet, "/tasks/calendar.ics", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for full export, got %d", resp.StatusCode)
	}
}

func TestReminders(t *testing.T) {
	env := setupTest(t, "")
	env.do(t, http.MethodPost, "/tasks", `{"title":"Soon","dueDate":"`+futureDue()+`"}`)

	resp := env.do(t, http.MethodGet, "/reminders", "")
	var body struct {
		Reminders []reminder.Request `json:"reminders"`
		Count     int                `json:"count"`
	}
	decodeBody(t, resp, &body)
	if body.Count != 1 || body.Reminders[0].Title != "Task Reminder" {
		t.Errorf("unexpected reminders: %+v", body)
	}
}

func TestBearerAuth(t *testing.T) {
	env := setupTest(t, "secret")

	if resp := env.do(t, http.MethodGet, "/tasks", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/health", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("health should not need auth, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/tasks", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := setupTest(t, "")
	resp := env.do(t, http.MethodGet, "/health", "")
	if len(resp.Header.Get("X-Request-ID")) != 8 {
		t.Errorf("unexpected request id %q", resp.Header.Get("X-Request-ID"))
	}
}

func TestCORSPreflightSkipsAuth(t *testing.T) {
	env := setupTest(t, "secret")

	resp := env.do(t, http.MethodOptions, "/tasks/abc", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPut) {
		t.Errorf("PUT missing from allowed methods: %q", got)
	}
}

func TestRecoveryWritesJSONError(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks/abc/toggle", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("expected JSON error body, got %q", rec.Body.String())
	}
}

package tailoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/ledger"
	"cvtailor-backend/internal/llm"
)

func newTestRouter(f *serviceFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(f.svc).RegisterRoutes(api)
	return router
}

func TestStartTailoringEndpoint(t *testing.T) {
	f := newServiceFixture(t, nil)
	_, jd := f.seed(t)
	router := newTestRouter(f)

	body := `{"jobDescriptionId":"` + jd.ID + `","companyName":"Acme","includeCoverLetter":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tailorings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		RunID  string `json:"runId"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.RunID == "" || payload.Status != StatusQueued {
		t.Fatalf("payload = %+v", payload)
	}
	if len(f.queue.msgs) != 1 {
		t.Fatalf("queue msgs = %d, want 1", len(f.queue.msgs))
	}

	// Omitted useAITailoring defaults to on.
	run, err := f.runs.Get(context.Background(), payload.RunID)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if !run.Options.UseAITailoring || !run.Options.IncludeCoverLetter {
		t.Fatalf("options = %+v", run.Options)
	}
}

func TestStartTailoringQuotaDenied(t *testing.T) {
	f := newServiceFixture(t, nil)
	_, jd := f.seed(t)
	router := newTestRouter(f)

	for i := 0; i < 3; i++ {
		if _, err := f.ledger.Append(context.Background(), ledger.Consumption{UserID: "user-1", CreatedAt: serviceNow.Add(-time.Hour)}); err != nil {
			t.Fatalf("append consumption: %v", err)
		}
	}

	body := `{"jobDescriptionId":"` + jd.ID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tailorings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After header missing")
	}
	if !strings.Contains(resp.Body.String(), "retryAfterSeconds") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestStartTailoringValidation(t *testing.T) {
	f := newServiceFixture(t, nil)
	f.seed(t)
	router := newTestRouter(f)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tailorings", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestGetTailoringEndpoint(t *testing.T) {
	f := newServiceFixture(t, []llm.Generation{{Text: "summary", TokensUsed: 10}})
	_, jd := f.seed(t)
	router := newTestRouter(f)

	run, err := f.svc.Start(context.Background(), StartRequest{
		UserID:           "user-1",
		JobDescriptionID: jd.ID,
		UseAITailoring:   false,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := f.svc.Execute(context.Background(), run.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tailorings/"+run.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Status     string `json:"status"`
		Progress   int    `json:"progress"`
		TokensUsed int    `json:"tokensUsed"`
		CVID       string `json:"cvId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != StatusCompleted || payload.Progress != 100 || payload.CVID == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestGetTailoringNotFound(t *testing.T) {
	f := newServiceFixture(t, nil)
	router := newTestRouter(f)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tailorings/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestGetQuotaEndpoint(t *testing.T) {
	f := newServiceFixture(t, nil)
	router := newTestRouter(f)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quota", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		PlanName       string `json:"planName"`
		DailyRateLimit int    `json:"dailyRateLimit"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.PlanName != "free" || payload.DailyRateLimit != 3 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	f := newServiceFixture(t, []llm.Generation{
		{Text: `{"title":"Lebenslauf","basics":{"headline":"Entwickler"},"skills":[{"name":"Go"},{"name":"Rust"}],"experience":[{"id":"e1","description":"Dienste gebaut","achievements":["v1 ausgeliefert"]}]}`, TokensUsed: 25},
	})
	master, _ := f.seed(t)
	router := newTestRouter(f)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cvs/"+master.ID+"/translate", strings.NewReader(`{"targetLanguage":"de"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	translated, err := f.cvs.GetByID(context.Background(), "user-1", master.ID)
	if err != nil {
		t.Fatalf("load cv: %v", err)
	}
	if translated.Title != "Lebenslauf" {
		t.Fatalf("title = %q", translated.Title)
	}

	count, _ := f.ledger.CountInRange(context.Background(), "user-1", serviceNow.Add(-time.Minute), serviceNow.Add(time.Minute))
	if count != 1 {
		t.Fatalf("consumptions = %d, want 1", count)
	}
}

func TestTranslateEndpointProviderUnavailable(t *testing.T) {
	f := newServiceFixture(t, nil)
	overloaded := &llm.ProviderError{StatusCode: 503, Message: "overloaded"}
	f.client.errs = []error{overloaded, overloaded, overloaded, overloaded, overloaded}
	master, _ := f.seed(t)
	router := newTestRouter(f)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cvs/"+master.ID+"/translate", strings.NewReader(`{"targetLanguage":"de"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "translation_unavailable") {
		t.Fatalf("body = %s", resp.Body.String())
	}
	if f.client.calls != 5 {
		t.Fatalf("provider calls = %d, want the full retry budget", f.client.calls)
	}

	// Failed translations are never billed.
	count, _ := f.ledger.CountInRange(context.Background(), "user-1", serviceNow.Add(-time.Minute), serviceNow.Add(time.Minute))
	if count != 0 {
		t.Fatalf("consumptions = %d, want 0", count)
	}
}

func TestTranslateEndpointUnsupportedLanguage(t *testing.T) {
	f := newServiceFixture(t, nil)
	master, _ := f.seed(t)
	router := newTestRouter(f)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cvs/"+master.ID+"/translate", strings.NewReader(`{"targetLanguage":"klingon"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
}

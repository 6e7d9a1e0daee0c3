package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

type fakeAgent struct {
	verified []model.VerifyRequest
}

func (a *fakeAgent) VerifyClaim(_ context.Context, req model.VerifyRequest) model.VerifyResult {
	a.verified = append(a.verified, req)
	return model.VerifyResult{Claim: req.Text, Verdict: "False", Summary: "No evidence.", Sources: []string{}}
}

func (a *fakeAgent) ChatWithAgent(_ context.Context, req model.ChatRequest) model.ChatReply {
	return model.ChatReply{Reply: "About " + req.Context.ClaimText}
}

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(context.Context, model.AnalysisRequest) *model.AnalysisResult {
	panic("boom")
}

func newTestServer(agent Agent) http.Handler {
	return New(model.ServerConfig{MaxBodyBytes: 1 << 16}, pipeline.NewAnalyzer(), agent, nil, "test").Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	h := newTestServer(nil)
	rec := do(t, h, http.MethodPost, "/v1/analyze", `{"text":"Shocking miracle cure guaranteed!!!","url":"https://www.bbc.com/news/1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got model.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.FinalScore < 11 || got.FinalScore > 20 {
		t.Errorf("final_score = %d, want tier 80 range", got.FinalScore)
	}
	if got.Host != "bbc.com" || len(got.Flags) == 0 {
		t.Errorf("unexpected result host=%q flags=%v", got.Host, got.Flags)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestAnalyzeEndpoint_Errors(t *testing.T) {
	h := newTestServer(nil)
	tests := []struct {
		desc   string
		body   string
		status int
	}{
		{"malformed json", `{"text":`, http.StatusBadRequest},
		{"empty text", `{"text":"   "}`, http.StatusBadRequest},
		{"unknown mode", `{"text":"hello","mode":"tab"}`, http.StatusBadRequest},
		{"text too long", `{"text":"` + strings.Repeat("a", MaxTextBytes+1) + `"}`, http.StatusRequestEntityTooLarge},
		{"body too large", `{"text":"` + strings.Repeat("a", 1<<16) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/analyze", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Errorf("expected JSON error body, got %s", rec.Body.String())
			}
		})
	}
}

func TestVerifyAndChat(t *testing.T) {
	agent := &fakeAgent{}
	h := newTestServer(agent)

	rec := do(t, h, http.MethodPost, "/v1/verify", `{"text":"The moon is cheese","author":{"handle":"@a","name":"A","verified":true}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d", rec.Code)
	}
	var vr model.VerifyResult
	if err := json.Unmarshal(rec.Body.Bytes(), &vr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if vr.Verdict != "False" || len(agent.verified) != 1 || agent.verified[0].Author == nil || !agent.verified[0].Author.Verified {
		t.Errorf("unexpected verify result %+v", vr)
	}

	rec = do(t, h, http.MethodPost, "/v1/chat", `{"question":"Why?","context":{"claim_text":"cheese"}}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "About cheese") {
		t.Errorf("chat status %d body %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, h, http.MethodPost, "/v1/chat", `{"question":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty question status = %d", rec.Code)
	}
}

func TestAgentNotConfigured(t *testing.T) {
	h := newTestServer(nil)
	if rec := do(t, h, http.MethodPost, "/v1/verify", `{"text":"x"}`); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRoutingAndCORS(t *testing.T) {
	h := newTestServer(nil)

	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/v1/analyze", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET analyze status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d", rec.Code)
	}

	rec := do(t, h, http.MethodOptions, "/v1/analyze", "")
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight: %d %v", rec.Code, rec.Header())
	}
}

func TestRoutingErrorsAreJSON(t *testing.T) {
	h := newTestServer(nil)
	tests := []struct {
		desc   string
		method string
		path   string
		status int
		msg    string
	}{
		{"wrong method on analyze", http.MethodGet, "/v1/analyze", http.StatusMethodNotAllowed, "method not allowed"},
		{"wrong method on verify", http.MethodPut, "/v1/verify", http.StatusMethodNotAllowed, "method not allowed"},
		{"wrong method on healthz", http.MethodPost, "/healthz", http.StatusMethodNotAllowed, "method not allowed"},
		{"unknown v1 route", http.MethodPost, "/v1/nope", http.StatusNotFound, "not found"},
		{"unknown root route", http.MethodGet, "/nope", http.StatusNotFound, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %q", rec.Body.String())
			}
			if body["error"] != tt.msg {
				t.Errorf("error = %q, want %q", body["error"], tt.msg)
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("request id not propagated: %q", seen)
	}
}

func TestRecoverReturnsJSON(t *testing.T) {
	h := New(model.ServerConfig{}, panicAnalyzer{}, nil, nil, "test").Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewBufferString(`{"text":"x"}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestChainOrder(t *testing.T) {
	var order []int
	mw := func(n int) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, n)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, 0)
	}), mw(1), mw(2))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 0 {
		t.Fatalf("expected [1,2,0], got %v", order)
	}
}

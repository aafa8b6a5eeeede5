package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appent "github.com/bryanwahyu/collegeplan-api/internal/application/entitlements"
	apppay "github.com/bryanwahyu/collegeplan-api/internal/application/payments"
	apprep "github.com/bryanwahyu/collegeplan-api/internal/application/reports"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/payment"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
	memstore "github.com/bryanwahyu/collegeplan-api/internal/infra/db/memory"
	"github.com/bryanwahyu/collegeplan-api/internal/infra/token"
)

const betaCode = "EARLY-ACCESS-2025"

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, _ report.StudentProfile) (report.ReportContent, error) {
	timeline := make([]report.TimelinePeriod, 6)
	for i := range timeline {
		timeline[i] = report.TimelinePeriod{
			Period: fmt.Sprintf("Semester %d", i+1),
			Events: []report.TimelineEvent{{Title: "event", Category: "academics"}},
		}
	}
	return report.ReportContent{
		Overview: "a four-year plan",
		Timeline: timeline,
		NextSteps: []report.NextStep{
			{Title: "step one", Priority: "high"},
			{Title: "step two", Priority: "medium"},
			{Title: "step three", Priority: "medium"},
			{Title: "step four", Priority: "low"},
			{Title: "step five", Priority: "low"},
		},
	}, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(_ *report.Report) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type stubCard struct{ rejected map[string]bool }

func (s stubCard) VerifyOrder(_ context.Context, orderID string) error {
	if s.rejected[orderID] {
		return payment.ErrVerificationFailed
	}
	return nil
}

type stubCrypto struct {
	status payment.CryptoStatus
}

func (stubCrypto) CreatePayment(_ context.Context, _, _, _ string) (string, string, error) {
	return "pay-ref-1", "https://pay.example/pay-ref-1", nil
}

func (s stubCrypto) GetStatus(_ context.Context, _ string) (payment.CryptoStatus, error) {
	return s.status, nil
}

type testClock struct{}

func (testClock) Now() time.Time { return time.Now() }

type testEnv struct {
	handler http.Handler
	ents    *appent.Service
}

func newTestEnv(t *testing.T, crypto stubCrypto) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	tokens := token.NewJWT("test-secret", time.Hour)

	reportsSvc := &apprep.Service{
		Repo:     memstore.NewReportStore(),
		Gen:      stubGenerator{},
		Renderer: stubRenderer{},
		Clock:    testClock{},
		Log:      log,
	}
	paymentsSvc := &apppay.Service{
		Payments: memstore.NewPaymentStore(),
		Card:     stubCard{rejected: map[string]bool{"ord-declined": true}},
		Crypto:   crypto,
		Tokens:   tokens,
		Clock:    testClock{},
		Log:      log,
		Amount:   "19.99",
		Currency: "USDT",
	}
	entitlementsSvc := &appent.Service{
		Issuer:    tokens,
		Verifier:  tokens,
		BetaCodes: []string{betaCode},
	}

	h := NewRouter(reportsSvc, paymentsSvc, entitlementsSvc, log, Options{
		RateCapacity: 1000,
		RateRefill:   100,
		Verifier:     tokens,
	})
	return &testEnv{handler: h, ents: entitlementsSvc}
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) generateReport(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/report/generate", "", map[string]any{
		"studentData": map[string]any{"studentName": "Ada", "currentGrade": "11"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		ReportID string `json:"reportId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.ReportID)
	return out.ReportID
}

func TestReportFlow_RedactedThenUnlocked(t *testing.T) {
	env := newTestEnv(t, stubCrypto{})
	id := env.generateReport(t)

	// anonymous read gets the redacted view
	rec := env.do(t, http.MethodGet, "/report/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		IsPaid bool `json:"isPaid"`
		Report struct {
			Content report.ReportContent `json:"content"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.False(t, view.IsPaid)
	assert.Len(t, view.Report.Content.Timeline, 3)
	assert.Len(t, view.Report.Content.NextSteps, 3)

	// beta code unlocks the full view
	rec = env.do(t, http.MethodPost, "/auth/verify-beta", "", map[string]string{
		"betaCode": betaCode,
		"reportId": id,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)

	rec = env.do(t, http.MethodGet, "/report/"+id, tok.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.IsPaid)
	assert.Len(t, view.Report.Content.Timeline, 6)
	assert.Len(t, view.Report.Content.NextSteps, 5)

	// token introspection
	rec = env.do(t, http.MethodGet, "/auth/validate-token", tok.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReportFlow_ErrorPaths(t *testing.T) {
	env := newTestEnv(t, stubCrypto{})
	id := env.generateReport(t)

	// unknown report id (well-formed) is 404
	rec := env.do(t, http.MethodGet, "/report/11111111-2222-3333-4444-555555555555", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// malformed id is 400
	rec = env.do(t, http.MethodGet, "/report/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// wrong beta code is 401
	rec = env.do(t, http.MethodPost, "/auth/verify-beta", "", map[string]string{
		"betaCode": "WRONG-CODE", "reportId": id,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// garbage bearer degrades reads to redacted, never errors
	rec = env.do(t, http.MethodGet, "/report/"+id, "garbage.token.here", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		IsPaid bool `json:"isPaid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.False(t, view.IsPaid)
}

func TestPDF_EntitlementBinding(t *testing.T) {
	env := newTestEnv(t, stubCrypto{})
	id := env.generateReport(t)
	other := env.generateReport(t)

	// no token: 403
	rec := env.do(t, http.MethodGet, "/report/"+id+"/pdf", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// token bound to a different report: still 403
	wrongTok, err := env.ents.VerifyBeta(context.Background(), betaCode, other)
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/report/"+id+"/pdf", wrongTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// matching token downloads the rendered document
	tok, err := env.ents.VerifyBeta(context.Background(), betaCode, id)
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/report/"+id+"/pdf", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), id)
	assert.Equal(t, "%PDF-1.4 stub", rec.Body.String())
}

func TestCardVerify(t *testing.T) {
	env := newTestEnv(t, stubCrypto{})
	id := env.generateReport(t)

	rec := env.do(t, http.MethodPost, "/lemon-squeezy/verify", "", map[string]string{
		"reportId": id,
		"order_id": "ord-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Token   string `json:"token"`
		OrderID string `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "ord-1", out.OrderID)

	// the issued token unlocks exactly this report
	rec = env.do(t, http.MethodGet, "/report/"+id, out.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		IsPaid bool `json:"isPaid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.IsPaid)

	// a declined order is 402 and marked retryable
	rec = env.do(t, http.MethodPost, "/lemon-squeezy/verify", "", map[string]string{
		"reportId": id,
		"order_id": "ord-declined",
	})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	var errBody struct {
		Error     string `json:"error"`
		Retryable bool   `json:"retryable"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "PaymentVerificationFailed", errBody.Error)
	assert.True(t, errBody.Retryable)
}

func TestCryptoPaymentFlow(t *testing.T) {
	env := newTestEnv(t, stubCrypto{status: payment.CryptoStatus{Status: payment.StatusSuccess, TxHash: "0xabc"}})
	id := env.generateReport(t)

	rec := env.do(t, http.MethodPost, "/payment/initialize", "", map[string]string{"reportId": id})
	require.Equal(t, http.StatusOK, rec.Code)
	var p payment.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, payment.StatusPending, p.Status)
	assert.NotEmpty(t, p.CheckoutURL)

	rec = env.do(t, http.MethodPost, "/payment/verify", "", map[string]string{"paymentId": string(p.ID)})
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Payment payment.Payment `json:"payment"`
		Token   string          `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, payment.StatusSuccess, res.Payment.Status)
	require.NotEmpty(t, res.Token)

	rec = env.do(t, http.MethodGet, "/report/"+id, res.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		IsPaid bool `json:"isPaid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.IsPaid)
}

func TestCryptoPaymentFlow_Expired(t *testing.T) {
	env := newTestEnv(t, stubCrypto{status: payment.CryptoStatus{Status: payment.StatusExpired}})
	id := env.generateReport(t)

	rec := env.do(t, http.MethodPost, "/payment/initialize", "", map[string]string{"reportId": id})
	require.Equal(t, http.StatusOK, rec.Code)
	var p payment.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))

	rec = env.do(t, http.MethodPost, "/payment/verify", "", map[string]string{"paymentId": string(p.ID)})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = env.do(t, http.MethodGet, "/payment/"+string(p.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, payment.StatusExpired, p.Status)
}

func TestGetPayment_RejectsMalformedID(t *testing.T) {
	env := newTestEnv(t, stubCrypto{})

	rec := env.do(t, http.MethodGet, "/payment/bad.id", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// a well-formed but unknown id is 404, not 400
	rec = env.do(t, http.MethodGet, "/payment/unknown-ref", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhook(t *testing.T) {
	env := newTestEnv(t, stubCrypto{})
	id := env.generateReport(t)

	rec := env.do(t, http.MethodPost, "/payment/initialize", "", map[string]string{"reportId": id})
	require.Equal(t, http.StatusOK, rec.Code)
	var p payment.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))

	rec = env.do(t, http.MethodPost, "/payment/webhook", "", map[string]string{
		"payment_id": string(p.ID),
		"status":     "success",
		"tx_hash":    "0xdef",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/payment/"+string(p.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, payment.StatusSuccess, p.Status)
	assert.Equal(t, "0xdef", p.TxHash)
}

func TestOperationalEndpoints(t *testing.T) {
	env := newTestEnv(t, stubCrypto{})

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requests")
}

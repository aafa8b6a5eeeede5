package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	appent "github.com/bryanwahyu/collegeplan-api/internal/application/entitlements"
	apppay "github.com/bryanwahyu/collegeplan-api/internal/application/payments"
	apprep "github.com/bryanwahyu/collegeplan-api/internal/application/reports"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/entitlement"
	dompay "github.com/bryanwahyu/collegeplan-api/internal/domain/payment"
	domrep "github.com/bryanwahyu/collegeplan-api/internal/domain/report"
	"github.com/bryanwahyu/collegeplan-api/internal/middleware"
)

type Router struct {
	reports      *apprep.Service
	payments     *apppay.Service
	entitlements *appent.Service
	log          zerolog.Logger
}

type Options struct {
	AllowedOrigins []string
	RateCapacity   int
	RateRefill     int
	HealthCheckers map[string]middleware.HealthChecker
	Verifier       entitlement.Verifier
}

func NewRouter(reports *apprep.Service, payments *apppay.Service, entitlements *appent.Service, log zerolog.Logger, opts Options) http.Handler {
	r := &Router{reports: reports, payments: payments, entitlements: entitlements, log: log}
	mux := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	if opts.RateCapacity <= 0 {
		opts.RateCapacity = 30
	}
	if opts.RateRefill <= 0 {
		opts.RateRefill = 1
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.Logging(&log))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill))

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/auth", func(rt chi.Router) {
		rt.Post("/verify-beta", r.wrap(r.handleVerifyBeta))
		rt.Get("/validate-token", r.wrap(r.handleValidateToken))
	})

	mux.Route("/report", func(rt chi.Router) {
		rt.Use(middleware.OptionalEntitlement(opts.Verifier))
		rt.Post("/generate", r.wrap(r.handleGenerate))
		rt.Get("/{id}", r.wrap(r.handleGetReport))
		rt.Get("/{id}/pdf", r.wrap(r.handleReportPDF))
	})

	mux.Post("/lemon-squeezy/verify", r.wrap(r.handleLemonVerify))

	mux.Route("/payment", func(rt chi.Router) {
		rt.Post("/initialize", r.wrap(r.handlePaymentInitialize))
		rt.Post("/verify", r.wrap(r.handlePaymentVerify))
		rt.Post("/webhook", r.wrap(r.handlePaymentWebhook))
		rt.Get("/{id}", r.wrap(r.handleGetPayment))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap translates domain errors to the HTTP taxonomy. No error path ever
// carries unredacted report content.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domrep.ErrNotFound) || errors.Is(err, dompay.ErrNotFound):
			writeError(w, http.StatusNotFound, "NotFound", err)
		case errors.Is(err, domrep.ErrGenerationUnavailable):
			middleware.IncrementGenerationsFailed()
			writeError(w, http.StatusServiceUnavailable, "GenerationUnavailable", err)
		case errors.Is(err, entitlement.ErrAccessDenied):
			writeError(w, http.StatusForbidden, "InvalidClaim", err)
		case errors.Is(err, entitlement.ErrInvalidClaim), errors.Is(err, entitlement.ErrInvalidBetaCode):
			writeError(w, http.StatusUnauthorized, "InvalidClaim", err)
		case errors.Is(err, dompay.ErrVerificationFailed):
			middleware.IncrementPaymentsFailed()
			writeError(w, http.StatusPaymentRequired, "PaymentVerificationFailed", err)
		default:
			r.log.Error().Err(err).Str("path", req.URL.Path).Msg("handler error")
			writeError(w, http.StatusInternalServerError, "Internal", errors.New("internal error"))
		}
	}
}

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeError(w http.ResponseWriter, status int, taxonomy string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := errorBody{Error: taxonomy, Message: err.Error()}
	if taxonomy == "PaymentVerificationFailed" {
		body.Retryable = true
	}
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /auth/verify-beta
// Body: {"betaCode": "...", "reportId": "..."} (reportId optional)
func (r *Router) handleVerifyBeta(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		BetaCode string `json:"betaCode"`
		ReportID string `json:"reportId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "betaCode is required")
	}
	if err := middleware.ValidateBetaCode(body.BetaCode); err != nil {
		return badRequest(w, err.Error())
	}

	token, err := r.entitlements.VerifyBeta(req.Context(), body.BetaCode, body.ReportID)
	if err != nil {
		return err
	}
	middleware.IncrementTokensIssued()
	return writeJSON(w, map[string]string{"token": token})
}

// GET /auth/validate-token (Bearer)
func (r *Router) handleValidateToken(w http.ResponseWriter, req *http.Request) error {
	claim, err := r.entitlements.Validate(req.Context(), middleware.BearerToken(req))
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"isPaid": claim.IsPaid,
		"source": claim.Source,
	})
}

// POST /report/generate
// Body: {"studentData": {...profile}}
func (r *Router) handleGenerate(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		StudentData domrep.StudentProfile `json:"studentData"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "studentData is required")
	}
	if err := middleware.ValidateGrade(body.StudentData.Grade); err != nil {
		return badRequest(w, err.Error())
	}
	body.StudentData.Name = middleware.SanitizeString(body.StudentData.Name)
	body.StudentData.Notes = middleware.SanitizeString(body.StudentData.Notes)

	rep, err := r.reports.Generate(req.Context(), body.StudentData)
	if err != nil {
		return err
	}
	middleware.IncrementReportsGenerated()
	return writeJSON(w, map[string]any{
		"reportId":   rep.ID,
		"reportData": rep.Content,
	})
}

// GET /report/{id} (optional Bearer) — full or redacted per entitlement
func (r *Router) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateReportID(id); err != nil {
		return badRequest(w, err.Error())
	}

	view, err := r.reports.Get(req.Context(), domrep.ReportID(id), middleware.ClaimFromContext(req.Context()))
	if err != nil {
		return err
	}
	return writeJSON(w, view)
}

// GET /report/{id}/pdf (Bearer required) — rejects on claim mismatch
func (r *Router) handleReportPDF(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateReportID(id); err != nil {
		return badRequest(w, err.Error())
	}

	data, err := r.reports.PDF(req.Context(), domrep.ReportID(id), middleware.ClaimFromContext(req.Context()))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="college-plan-%s.pdf"`, id))
	_, err = w.Write(data)
	return err
}

// POST /lemon-squeezy/verify
// The whole body is treated as the checkout callback payload; the bridge
// probes the known order-id locations inside it.
func (r *Router) handleLemonVerify(w http.ResponseWriter, req *http.Request) error {
	payload, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
	if err != nil {
		return badRequest(w, "unreadable payload")
	}
	var meta struct {
		ReportID string `json:"reportId"`
	}
	_ = json.Unmarshal(payload, &meta)
	if err := middleware.ValidateReportID(meta.ReportID); err != nil {
		return badRequest(w, err.Error())
	}

	res, err := r.payments.VerifyCard(req.Context(), payload, meta.ReportID)
	if err != nil {
		return err
	}
	middleware.IncrementTokensIssued()
	return writeJSON(w, res)
}

// POST /payment/initialize {reportId}
func (r *Router) handlePaymentInitialize(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ReportID string `json:"reportId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "reportId is required")
	}
	if err := middleware.ValidateReportID(body.ReportID); err != nil {
		return badRequest(w, err.Error())
	}

	p, err := r.payments.Initialize(req.Context(), body.ReportID, "", "")
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// POST /payment/verify {paymentId}
func (r *Router) handlePaymentVerify(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		PaymentID string `json:"paymentId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.PaymentID == "" {
		return badRequest(w, "paymentId is required")
	}

	res, err := r.payments.Verify(req.Context(), dompay.PaymentID(body.PaymentID))
	if err != nil {
		return err
	}
	if res.Token != "" {
		middleware.IncrementTokensIssued()
	}
	return writeJSON(w, res)
}

// POST /payment/webhook — provider callback; signature check is permissive
func (r *Router) handlePaymentWebhook(w http.ResponseWriter, req *http.Request) error {
	payload, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
	if err != nil {
		return badRequest(w, "unreadable payload")
	}
	if err := r.payments.HandleWebhook(req.Context(), payload); err != nil {
		return err
	}
	return writeJSON(w, map[string]bool{"received": true})
}

// GET /payment/{id}
func (r *Router) handleGetPayment(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateOrderID(id); err != nil {
		return badRequest(w, err.Error())
	}
	p, err := r.payments.Get(req.Context(), dompay.PaymentID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, p)
}

// badRequest writes a 400 directly and reports the handler as done.
func badRequest(w http.ResponseWriter, msg string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorBody{Error: "BadRequest", Message: msg})
	return nil
}

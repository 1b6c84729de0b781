// Package server exposes the price-check pipeline over HTTP: a small HTML
// form for humans and a JSON API for machines.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hargabekas/hargabekas/internal/logger"
	"github.com/hargabekas/hargabekas/internal/metrics"
	"github.com/hargabekas/hargabekas/internal/report"
	"github.com/hargabekas/hargabekas/internal/version"
	"github.com/hargabekas/hargabekas/pkg/pricecheck"
	"github.com/hargabekas/hargabekas/pkg/search"
)

// CheckRunner runs one price check. *pricecheck.Checker satisfies it.
type CheckRunner interface {
	Run(ctx context.Context, product pricecheck.ProductIdentity) (*pricecheck.Report, error)
}

// Config holds the HTTP server settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default server settings.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
}

// Server wires the pipeline behind a chi router.
type Server struct {
	checker CheckRunner
	cfg     Config
	router  chi.Router
}

// New creates a Server around checker.
func New(checker CheckRunner, cfg Config) *Server {
	s := &Server{checker: checker, cfg: cfg}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/", s.handleForm)
	r.Post("/", s.handleForm)
	r.Post("/api/v1/check", s.handleCheck)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler returns the root http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

// checkRequest is the JSON API request body.
type checkRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Spec  string `json:"spec,omitempty"`
}

// errorResponse is the JSON API error body. For the soft pipeline states the
// partial report rides along so clients can see how far the run got.
type errorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Report  *pricecheck.Report `json:"report,omitempty"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "bad_request", Message: "invalid JSON body",
		})
		metrics.ObserveCheck("bad_request", 0, 0, 0)
		return
	}

	product := pricecheck.ProductIdentity{Brand: req.Brand, Model: req.Model, Spec: req.Spec}
	rep, err := s.checker.Run(r.Context(), product)

	switch {
	case err == nil:
		metrics.ObserveCheck("ok", rep.RawCount, rep.QualifiedCount, rep.CleanedCount)
		writeJSON(w, http.StatusOK, rep)

	case errors.Is(err, pricecheck.ErrNoResults):
		metrics.ObserveCheck("no_results", rep.RawCount, 0, 0)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code: "no_results", Message: err.Error(), Report: rep,
		})

	case errors.Is(err, pricecheck.ErrNoValidListings):
		metrics.ObserveCheck("no_valid_listings", rep.RawCount, rep.QualifiedCount, 0)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code: "no_valid_listings", Message: err.Error(), Report: rep,
		})

	case errors.Is(err, pricecheck.ErrTooVariable):
		metrics.ObserveCheck("too_variable", rep.RawCount, rep.QualifiedCount, rep.CleanedCount)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code: "too_variable", Message: err.Error(), Report: rep,
		})

	case isTransportError(err):
		metrics.ObserveCheck("upstream_error", 0, 0, 0)
		logger.Error("search backend failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Code: "upstream_error", Message: "search backend failed",
		})

	default:
		metrics.ObserveCheck("bad_request", 0, 0, 0)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "bad_request", Message: err.Error(),
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	data := formData{}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		product := pricecheck.ProductIdentity{
			Brand: r.FormValue("brand"),
			Model: r.FormValue("model"),
			Spec:  r.FormValue("spec"),
		}
		data.Brand, data.Model, data.Spec = product.Brand, product.Model, product.Spec

		rep, err := s.checker.Run(r.Context(), product)
		data.Report = rep
		if err != nil {
			data.Error = userMessage(err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Error("template render failed", "error", err)
	}
}

// userMessage translates pipeline errors into copy fit for the form page.
func userMessage(err error) string {
	switch {
	case errors.Is(err, pricecheck.ErrNoResults):
		return "No listings found. Try a broader product name."
	case errors.Is(err, pricecheck.ErrNoValidListings):
		return "Listings were found but none looked like a genuine used-item offer with a price."
	case errors.Is(err, pricecheck.ErrTooVariable):
		return "Prices varied too much to produce a reliable estimate."
	case isTransportError(err):
		return "The search backend is unavailable right now. Please try again later."
	default:
		return err.Error()
	}
}

func isTransportError(err error) bool {
	var apiErr *search.APIError
	return errors.As(err, &apiErr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type formData struct {
	Brand  string
	Model  string
	Spec   string
	Error  string
	Report *pricecheck.Report
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"rupiah":  report.Rupiah,
	"rupiahF": func(v float64) string { return report.Rupiah(int64(v)) },
}).Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>harga bekas</title>
<style>
body { font-family: sans-serif; max-width: 42rem; margin: 2rem auto; padding: 0 1rem; }
input { padding: .4rem; margin-right: .5rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
td, th { border-bottom: 1px solid #ddd; padding: .4rem; text-align: left; }
.error { color: #b00020; }
.stats { background: #f5f5f5; padding: .8rem; margin-top: 1rem; }
</style>
</head>
<body>
<h1>harga bekas</h1>
<form method="post" action="/">
  <input name="brand" placeholder="Brand" value="{{.Brand}}" required>
  <input name="model" placeholder="Model" value="{{.Model}}" required>
  <input name="spec" placeholder="Spec (optional)" value="{{.Spec}}">
  <button type="submit">Check price</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{with .Report}}
<p>{{.RawCount}} raw, {{.QualifiedCount}} qualified, {{.CleanedCount}} after outlier removal</p>
{{if gt .Stats.Count 0}}
<div class="stats">
  <div>Average: {{rupiahF .Stats.Mean}}</div>
  <div>Median: {{rupiahF .Stats.Median}}</div>
  <div>Range: {{rupiah .Stats.Min}} to {{rupiah .Stats.Max}}</div>
</div>
{{end}}
{{if .Listings}}
<table>
<tr><th>Price</th><th>Listing</th></tr>
{{range .Listings}}
<tr><td>{{rupiah .Price}}</td><td><a href="{{.Link}}" rel="nofollow">{{.Title}}</a></td></tr>
{{end}}
</table>
{{end}}
{{end}}
</body>
</html>
`))

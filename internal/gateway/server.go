package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/hashicorp/go-retryablehttp"

	"keepsake/internal/config"
	"keepsake/internal/logging"
)

const (
	apiKeyHeader = "WLT-Api-Key"

	generateUpstreamPath   = "/worlds:generate"
	operationsUpstreamPath = "/operations/"
)

// Server proxies job submissions and status polls to the provider, adding
// the API credential on the way out.
type Server struct {
	bind        string
	upstreamURL string
	apiKey      string
	logger      *slog.Logger
	upstream    *retryablehttp.Client

	listener net.Listener
	server   *http.Server
}

// NewServer builds the gateway from configuration. The upstream client
// retries transport failures only; provider responses, including errors,
// are returned to the caller untouched.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	upstream := retryablehttp.NewClient()
	upstream.Logger = nil
	upstream.RetryMax = cfg.Gateway.RetryMax
	upstream.HTTPClient.Timeout = time.Duration(cfg.Gateway.RequestTimeout) * time.Second
	upstream.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return err != nil, nil
	}

	srv := &Server{
		bind:        cfg.Gateway.Bind,
		upstreamURL: strings.TrimRight(cfg.Gateway.UpstreamURL, "/"),
		apiKey:      cfg.Gateway.APIKey,
		logger:      logging.NewComponentLogger(logger, "gateway"),
		upstream:    upstream,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", srv.handleJobs)
	mux.HandleFunc("/jobs/", srv.handleJobStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return srv
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured bind address and serves until ctx is
// canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("gateway server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("gateway listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("credential_configured", s.apiKey != ""),
	)
	return nil
}

// Stop shuts the server down, draining in-flight requests briefly.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound address, once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.apiKey == "" {
		s.logger.Error("provider api key is not configured")
		s.writeError(w, http.StatusInternalServerError, "server configuration error: missing API key")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := retryablehttp.NewRequestWithContext(r.Context(), http.MethodPost,
		s.upstreamURL+generateUpstreamPath, bytes.NewReader(body))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	s.forward(w, req, "submit")
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.apiKey == "" {
		s.logger.Error("provider api key is not configured")
		s.writeError(w, http.StatusInternalServerError, "server configuration error: missing API key")
		return
	}

	operationID := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if operationID == "" || strings.Contains(operationID, "/") {
		s.writeError(w, http.StatusBadRequest, "invalid operation id")
		return
	}

	req, err := retryablehttp.NewRequestWithContext(r.Context(), http.MethodGet,
		s.upstreamURL+operationsUpstreamPath+operationID, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	s.forward(w, req, "poll")
}

// forward sends the prepared request upstream and relays status, content
// type, and body back without interpretation.
func (s *Server) forward(w http.ResponseWriter, req *retryablehttp.Request, operation string) {
	req.Header.Set(apiKeyHeader, s.apiKey)

	resp, err := s.upstream.Do(req)
	if err != nil {
		s.logger.Error("upstream request failed",
			logging.String("operation", operation),
			logging.Error(err),
		)
		s.writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.Warn("failed to relay upstream body", logging.Error(err))
	}

	s.logger.Info("request forwarded",
		logging.String("operation", operation),
		logging.Int("status", resp.StatusCode),
	)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		s.logger.Error("failed to encode error response", logging.Error(err))
	}
}

package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reporta a saúde de uma dependência (cache, broker).
type HealthCheck func(ctx context.Context) error

//nolint:revive // nome mantido por clareza no pacote cmd
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
	port   int

	mu     sync.RWMutex
	checks map[string]HealthCheck
}

func NewMetricsServer(port int, logger *slog.Logger) *MetricsServer {
	s := &MetricsServer{
		logger: logger,
		port:   port,
		checks: make(map[string]HealthCheck),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s
}

func (s *MetricsServer) RegisterHealthCheck(name string, check HealthCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checks[name] = check
}

// Handler expõe o mux para testes sem abrir porta.
func (s *MetricsServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *MetricsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checks := make(map[string]HealthCheck, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	report := make(map[string]string, len(checks))

	for name, check := range checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			report[name] = err.Error()

			continue
		}

		report[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.logger.Warn("Falha ao escrever resposta de saúde", "error", err)
	}
}

func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("Iniciando servidor de métricas",
		"port", s.port,
		"endpoint", "/metrics",
	)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Erro ao parar servidor de métricas", "error", err)
		} else {
			s.logger.Info("Servidor de métricas parado")
		}
	}()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("erro ao iniciar servidor de métricas: %w", err)
	}

	return nil
}

func (s *MetricsServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

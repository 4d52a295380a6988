package cmd

import (
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// startPrometheusServer serves /metrics on port in a background goroutine.
// Errors after startup are logged, not returned.
func startPrometheusServer(port int, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("prometheus server error", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", server.Addr)
	return server
}

package service

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Diagnostics serves liveness and the client-side request metrics of a
// long running session.
type Diagnostics struct {
	Server http.Server
}

func NewDiagnostics(port int, gatherer prometheus.Gatherer) *Diagnostics {
	mux := http.NewServeMux()
	mux.Handle("/healthz", handleHealthcheck())
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &Diagnostics{
		Server: http.Server{
			Addr:    fmt.Sprintf("127.0.0.1:%d", port),
			Handler: mux,
		},
	}
}

func handleHealthcheck() http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			log.Debug("received healthcheck request")
			fmt.Fprintf(w, "ok")
		},
	)
}

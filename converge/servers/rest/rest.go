// Package rest implements the read-only status server of the converge
// agent.
package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/praekeltfoundation/puppet-gluster/converge/metrics"
	"github.com/praekeltfoundation/puppet-gluster/converge/middleware"
	"github.com/praekeltfoundation/puppet-gluster/converge/servers/rest/route"
	"github.com/praekeltfoundation/puppet-gluster/pkg/api"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	log "github.com/sirupsen/logrus"
	"go.opencensus.io/plugin/ochttp"
)

const (
	httpReadTimeout  = 10
	httpWriteTimeout = 30
	maxHeaderBytes   = 1 << 13 // 8KB
)

// ReportSource provides the state served by the server.
type ReportSource interface {
	LastReport() (*api.Report, error)
}

// Server is the status server. It implements the suture.Service interface.
type Server struct {
	Routes    *mux.Router
	AllRoutes route.Routes
	addr      string
	reports   ReportSource
	server    *http.Server
}

// New returns a Server that will listen on addr.
func New(addr string, reports ReportSource) *Server {
	s := &Server{
		Routes:  mux.NewRouter(),
		addr:    addr,
		reports: reports,
	}
	s.setRoutes(s.routes())
	s.server = &http.Server{
		ReadTimeout:    httpReadTimeout * time.Second,
		WriteTimeout:   httpWriteTimeout * time.Second,
		MaxHeaderBytes: maxHeaderBytes,
		Handler:        s.Handler(),
	}
	return s
}

func (s *Server) String() string {
	return "converge-rest"
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return &ochttp.Handler{
		Handler: alice.New(
			middleware.Recover,
			middleware.ReqIDGenerator,
			middleware.LogRequest,
		).Then(s.Routes),
	}
}

func (s *Server) setRoutes(routes route.Routes) {
	var urlPattern string
	for _, r := range routes {
		if r.Version == 0 {
			urlPattern = r.Pattern
		} else {
			urlPattern = fmt.Sprintf("/v%d%s", r.Version, r.Pattern)
		}
		log.WithFields(log.Fields{
			"name":   r.Name,
			"path":   urlPattern,
			"method": r.Method,
		}).Debug("Registering new mux route")
		s.Routes.
			Methods(r.Method).
			Path(urlPattern).
			Name(r.Name).
			Handler(r.HandlerFunc)

		r.Pattern = urlPattern
		s.AllRoutes = append(s.AllRoutes, r)
	}
}

// Serve listens on the configured address until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	log.WithField("ip:port", l.Addr().String()).Info("Started converge status server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(l)
	}()

	select {
	case err := <-errCh:
		log.WithError(err).Error("converge status server failed")
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	log.Debug("stopping converge status server gracefully")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to gracefully stop converge status server")
		if err == context.DeadlineExceeded {
			s.server.Close()
		}
	}
	log.Info("stopped converge status server")
	return nil
}

func (s *Server) routes() route.Routes {
	return route.Routes{
		{
			Name:        "ReportGet",
			Description: "Report of the last reconciliation pass",
			Method:      "GET",
			Pattern:     "/report",
			Version:     1,
			HandlerFunc: s.reportHandler,
		},
		{
			Name:        "HealthGet",
			Description: "Whether the last pass converged without failures",
			Method:      "GET",
			Pattern:     "/health",
			Version:     1,
			HandlerFunc: s.healthHandler,
		},
		{
			Name:        "VersionGet",
			Method:      "GET",
			Pattern:     "/version",
			Version:     1,
			HandlerFunc: s.versionHandler,
		},
		{
			Name:        "EndpointsList",
			Method:      "GET",
			Pattern:     "/endpoints",
			Version:     1,
			HandlerFunc: s.listEndpointsHandler,
		},
		{
			Name:        "Metrics",
			Description: "Prometheus metrics",
			Method:      "GET",
			Pattern:     "/metrics",
			HandlerFunc: metrics.Handler().ServeHTTP,
		},
	}
}

package api

import (
	"net/http"
	"time"

	"cryptotracker/src/api/handlers"
	"cryptotracker/src/utils"
	"cryptotracker/src/utils/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router   *chi.Mux
	Handler  *handlers.Handler
	Recorder *metrics.Recorder
}

func NewServer(handler *handlers.Handler, recorder *metrics.Recorder, logger *logrus.Logger) *Server {
	server := &Server{
		Router:   chi.NewRouter(),
		Handler:  handler,
		Recorder: recorder,
	}
	server.Router.Use(middleware.RequestID)
	server.Router.Use(middleware.RealIP)
	server.Router.Use(utils.RequestLogger(logger))
	server.Router.Use(middleware.Recoverer)
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Method(http.MethodGet, "/metrics", s.Recorder.Handler())

	s.Router.Post("/api/token", s.Handler.PostToken)

	s.Router.Route("/api/portfolio", func(r chi.Router) {
		r.Get("/holdings", s.Handler.GetHoldings)
		r.Post("/holdings/manual", s.Handler.SaveManualHolding)
		r.Delete("/holdings/manual/{symbol}", s.Handler.DeleteManualHolding)
		r.Get("/metrics", s.Handler.GetPortfolioMetrics)
		r.Get("/assets/{symbol}", s.Handler.GetAssetDetail)
	})

	s.Router.Route("/api/risk", func(r chi.Router) {
		r.Get("/alerts", s.Handler.GetRiskAlerts)
		r.Get("/alerts/stream", s.Handler.StreamRiskAlerts)
	})

	s.Router.Route("/api/trades", func(r chi.Router) {
		r.Get("/", s.Handler.GetTrades)
		r.Post("/sync", s.Handler.SyncTrades)
	})

	s.Router.Get("/api/reports/pnl", s.Handler.GetPnLReport)
	s.Router.Post("/api/exchanges", s.Handler.AddExchange)
}

func NewHTTPServer(server http.Handler, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      server,
	}
	return httpServer
}

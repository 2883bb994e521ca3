package worker

import (
	"net/http"
	"time"

	"cryptotracker/src/utils"
	"cryptotracker/src/utils/metrics"
	handlers "cryptotracker/src/worker/handlers"

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
	s.Router.Route("/api/sweep", func(r chi.Router) {
		r.Post("/", s.Handler.RunSweep)
		r.Post("/schedule", s.Handler.ReloadSchedule)
	})
}

func NewHTTPServer(server http.Handler, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		Handler:      server,
	}
	return httpServer
}

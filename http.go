package sitemapper

import (
	"encoding/json"
	"net/http"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Handler exposes the extracted snapshot read-only. The hierarchy is
// assembled once per run; nothing here re-extracts.
func (s *SiteMapper) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(logger.Logger("sitemapper", log.StandardLogger()))

	router.Head("/status", s.statusHandler)
	router.Get("/status", s.statusHandler)
	router.Get("/sites.json", s.sitesHandler)
	router.Get("/sites/{site}", s.siteHandler)
	router.Get("/metrics", promhttp.Handler().ServeHTTP)

	return router
}

// Serve binds the snapshot server when a bind address is configured.
func (s *SiteMapper) Serve() {
	if s.config.Bind == "" {
		return
	}

	log.WithField("bind", s.config.Bind).Info("Binding to address")

	go http.ListenAndServe(s.config.Bind, s.Handler())
}

func (s *SiteMapper) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *SiteMapper) sitesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(s.export)
}

func (s *SiteMapper) siteHandler(w http.ResponseWriter, r *http.Request) {
	site, ok := s.export[chi.URLParam(r, "site")]

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(site)
}

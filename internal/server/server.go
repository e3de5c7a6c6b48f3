// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes title lookups over HTTP.
//
//	POST /search  {"title": "..."}  -> lookup outcome
//	POST /find    alias of /search
//	GET  /healthz
//	GET  /metrics Prometheus exposition
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/kanoon-match/internal/logging"
	"github.com/pdiddy/kanoon-match/internal/lookup"
	"github.com/pdiddy/kanoon-match/internal/search"
)

// slowLookup is the duration above which a lookup is logged as slow.
const slowLookup = 2 * time.Second

// Config wires a Server.
type Config struct {
	Finder *lookup.Finder

	// TokenSet reports whether the Finder's client carries an API token.
	// Without one every lookup is refused with 500.
	TokenSet bool

	Log *logrus.Logger

	// Registry receives the server metrics. A nil Registry gets a fresh one.
	Registry *prometheus.Registry
}

// Server is the HTTP front end.
type Server struct {
	app      *fiber.App
	finder   *lookup.Finder
	tokenSet bool
	log      *logrus.Logger
	metrics  *metrics
}

type searchRequest struct {
	Title *string `json:"title"`
}

// New builds the fiber app and registers routes.
func New(cfg Config) *Server {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "kanoon-match",
			DisableStartupMessage: true,
		}),
		finder:   cfg.Finder,
		tokenSet: cfg.TokenSet,
		log:      log,
		metrics:  newMetrics(reg),
	}

	s.app.Use(s.requestLogger)
	s.app.Post("/search", s.handleSearch)
	s.app.Post("/find", s.handleSearch)
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return s
}

// App returns the underlying fiber app (tests drive it with app.Test).
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.WithField("addr", addr).Info("listening")
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil || req.Title == nil || *req.Title == "" {
		s.metrics.lookups.WithLabelValues(outcomeInvalid).Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": `Missing or invalid "title" in request body`,
		})
	}
	if !s.tokenSet {
		s.metrics.lookups.WithLabelValues(outcomeFailed).Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server missing token",
		})
	}

	title := *req.Title
	entry := s.log.WithField("input", title)
	done := logging.Track(entry, "lookup", slowLookup)
	start := time.Now()

	out, err := s.finder.Find(c.UserContext(), search.NewQuery(title, s.finder.Config))
	s.metrics.duration.Observe(time.Since(start).Seconds())
	done()
	if err != nil {
		entry.WithError(err).Error("lookup failed")
		s.metrics.lookups.WithLabelValues(outcomeFailed).Inc()
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Search failed",
			"details": err.Error(),
		})
	}

	if out.Found() {
		s.metrics.lookups.WithLabelValues(outcomeMatched).Inc()
	} else {
		s.metrics.lookups.WithLabelValues(outcomeNoResults).Inc()
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": c.Response().StatusCode(),
		"remote": c.IP(),
		"took":   time.Since(start),
	}).Info("http.request")
	return err
}

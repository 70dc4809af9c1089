// Package rest exposes the playback session over a small JSON API.
package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-radio/internal/domain/device"
	"github.com/edumarques81/stellar-radio/internal/domain/player"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

// Prefix is the path every API route lives under.
const Prefix = "/api/v1"

// API serves the session controller over HTTP.
type API struct {
	ctrl    *player.Controller
	devices *device.Service
}

// NewRouter builds the echo router. When secret is not empty every route
// except health and version requires a bearer token signed with it.
// devices may be nil.
func NewRouter(ctrl *player.Controller, devices *device.Service, secret string) *echo.Echo {
	api := &API{ctrl: ctrl, devices: devices}

	r := echo.New()
	r.HideBanner = true
	r.Use(middleware.Recover())
	r.Use(requestLogger())

	router := r.Group(Prefix)
	router.GET("/health", api.health)
	router.GET("/version", api.version)

	session := router.Group("")
	if secret != "" {
		session.Use(middleware.JWT([]byte(secret)))
	}
	{
		session.GET("/state", api.state)
		session.GET("/stations", api.stations)
		session.GET("/players", api.players)
		session.POST("/play", api.play)
		session.POST("/stop", api.stop)
		session.POST("/toggle", api.toggle)
		session.POST("/next", api.next)
		session.POST("/prev", api.prev)
		session.GET("/favorites/export", api.exportFavorites)
		session.POST("/favorites/import", api.importFavorites)
	}

	return r
}

// requestLogger logs each request through zerolog.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.Debug().
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Int("status", c.Response().Status).
				Dur("took", time.Since(start)).
				Msg("HTTP request")
			return nil
		}
	}
}

// httpError maps session errors to HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, player.ErrInvalidStation),
		errors.Is(err, player.ErrInvalidTheme),
		errors.Is(err, player.ErrInvalidVisualizer),
		errors.Is(err, station.ErrInvalidFile),
		errors.Is(err, station.ErrInvalidStreamURL):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, player.ErrStationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, player.ErrNoDevice), errors.Is(err, player.ErrNoLocalPlayer):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, player.ErrPlaybackFailed):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	log.Error().Err(err).Msg("Request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo"

	"github.com/edumarques81/stellar-radio/internal/domain/device"
	"github.com/edumarques81/stellar-radio/internal/version"
)

func (a *API) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"device": a.ctrl.Device(),
		"phase":  a.ctrl.View().Phase.String(),
	})
}

func (a *API) version(c echo.Context) error {
	return c.JSON(http.StatusOK, version.GetInfo())
}

func (a *API) state(c echo.Context) error {
	return c.JSON(http.StatusOK, a.ctrl.View().ToJSON())
}

func (a *API) stations(c echo.Context) error {
	return c.JSON(http.StatusOK, a.ctrl.Stations())
}

func (a *API) players(c echo.Context) error {
	if a.devices == nil {
		return c.JSON(http.StatusOK, []device.Player{})
	}
	return c.JSON(http.StatusOK, a.devices.Players())
}

func (a *API) play(c echo.Context) error {
	form := struct {
		Index *int `json:"index" form:"index"`
	}{}
	if err := c.Bind(&form); err != nil || form.Index == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing index")
	}
	if err := a.ctrl.PlayIndex(c.Request().Context(), *form.Index); err != nil {
		return httpError(err)
	}
	return a.state(c)
}

// command runs a session command and answers with the new state.
func (a *API) command(c echo.Context, fn func(ctx context.Context) error) error {
	if err := fn(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return a.state(c)
}

func (a *API) stop(c echo.Context) error {
	return a.command(c, a.ctrl.Stop)
}

func (a *API) toggle(c echo.Context) error {
	return a.command(c, a.ctrl.TogglePlay)
}

func (a *API) next(c echo.Context) error {
	return a.command(c, a.ctrl.Next)
}

func (a *API) prev(c echo.Context) error {
	return a.command(c, a.ctrl.Previous)
}

func (a *API) exportFavorites(c echo.Context) error {
	name := fmt.Sprintf("radio-favorites-%s.json", time.Now().Format("2006-01-02"))
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	res.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	res.WriteHeader(http.StatusOK)
	return a.ctrl.ExportFavorites(res)
}

func (a *API) importFavorites(c echo.Context) error {
	n, err := a.ctrl.ImportFavorites(c.Request().Body)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"imported": n,
	})
}

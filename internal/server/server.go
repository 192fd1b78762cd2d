package server

import (
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/labstack/echo/v4"
)

func Start(addr string, deps Deps) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{deps.Config.FEURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, deps)

	return e.Start(addr)
}

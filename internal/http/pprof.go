package http

import (
	stdhttp "net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

const pprofPrefix = "/debug/pprof"

var pprofProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// registerPprof mounts the runtime profiler. Only enabled through PPROF_ENABLED
// since it is unauthenticated.
func registerPprof(e *echo.Echo) {
	g := e.Group(pprofPrefix)
	g.GET("", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Trace)))
	for _, name := range pprofProfiles {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
}

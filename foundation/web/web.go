// Package web is a small layer on top of gin that lets handlers work with a
// request scoped Context and return errors instead of writing responses
// inline.
package web

import (
	"net/http"
	"os"
	"syscall"

	"github.com/gin-gonic/gin"
)

// Handler is the signature all application handlers implement.
type Handler func(c *Context) error

// Middleware runs some code before and/or after a handler.
type Middleware func(Handler) Handler

// App is the entrypoint for the web application. It wraps a gin engine and
// converts application handlers into gin handlers.
type App struct {
	*gin.Engine
	shutdown chan os.Signal
}

// NewApp constructs an App with the given gin engine.
func NewApp(shutdown chan os.Signal) *App {
	return &App{
		Engine:   gin.New(),
		shutdown: shutdown,
	}
}

// SignalShutdown gracefully shuts down the app when an integrity issue is
// identified.
func (a *App) SignalShutdown() {
	a.shutdown <- syscall.SIGTERM
}

func (a *App) handle(method, path string, handler Handler, mw ...Middleware) {
	// Wrap middlewares around the handler, last registered runs closest to
	// the handler.
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			handler = mw[i](handler)
		}
	}

	h := func(gc *gin.Context) {
		c := NewContext(gc)

		if err := handler(c); err != nil {
			// The handler chain could not respond. Nothing left to do but
			// shut down.
			a.SignalShutdown()
			return
		}
	}

	a.Engine.Handle(method, path, h)
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodDelete, path, handler, mw...)
}

// Package web is a small framework layer on top of gin. Handlers return
// errors instead of writing responses ad hoc, and middleware is composed
// around handlers per route.
package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler is the signature every application handler implements.
type Handler func(c *Context) error

// Middleware wraps a Handler with additional behavior.
type Middleware func(Handler) Handler

// App is the entrypoint for the web application. It embeds the gin engine
// so plain gin routes (static files, raw handlers) stay available.
type App struct {
	*gin.Engine
}

func NewApp() *App {
	return &App{Engine: gin.New()}
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

func (a *App) handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)

	h := func(gc *gin.Context) {
		c := &Context{Context: gc, Ctx: gc.Request.Context()}

		if err := handler(c); err != nil {
			// Handlers respond themselves; anything reaching here slipped past.
			log.Println("unhandled handler error:", err)
		}
	}

	a.Engine.Handle(method, path, h)
}

// wrapMiddleware chains the middleware around the handler so the first
// middleware in the slice runs first.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}

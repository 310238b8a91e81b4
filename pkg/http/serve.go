package xhttp

import (
	"os"
	"os/signal"
	"reflect"
	"runtime"
	"slices"
	"syscall"
	"time"

	"github.com/paykit/order-gateway/pkg/logger"
	"github.com/valyala/fasthttp"
)

var DefaultServerOption = ServerOption{
	IdleTimeout:           time.Second * 10,
	MaxIdleWorkerDuration: time.Minute * 1,
	TCPKeepalivePeriod:    time.Minute * 120,
	MaxRequestBodySize:    4 * 1024 * 1024, // 4MB
	ReadBufferSize:        1024 * 4,        // also, max header size
	WriteBufferSize:       1024 * 4,
	ReadTimeout:           time.Millisecond * 2500,
	WriteTimeout:          time.Millisecond * 2500,
	Concurrency:           30_000,
	MaxConnsPerIP:         10_000,
	NoDefaultServerHeader: true,
	NoDefaultDate:         true,
	NoDefaultContentType:  true,
	CloseOnShutdown:       true,
	TCPKeepalive:          true,
}

type Server = fasthttp.Server

type ServerOption struct {
	// idle connections held open too long exhaust file descriptors,
	// so both the per-connection and per-worker idle windows are bounded
	IdleTimeout           time.Duration
	MaxIdleWorkerDuration time.Duration
	TCPKeepalivePeriod    time.Duration
	MaxRequestBodySize    int
	ReadBufferSize        int
	WriteBufferSize       int
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	Concurrency           int
	MaxConnsPerIP         int
	Name                  string
	NoDefaultServerHeader bool
	NoDefaultDate         bool
	NoDefaultContentType  bool
	CloseOnShutdown       bool
	TCPKeepalive          bool
}

type Engine struct {
	*Router
	*Server
	option ServerOption
	middle []MiddlewareFunc
}

func newServer(options ServerOption) *fasthttp.Server {
	return &fasthttp.Server{
		Name:                  options.Name,
		Concurrency:           options.Concurrency,
		ReadBufferSize:        options.ReadBufferSize,
		WriteBufferSize:       options.WriteBufferSize,
		ReadTimeout:           options.ReadTimeout,
		WriteTimeout:          options.WriteTimeout,
		IdleTimeout:           options.IdleTimeout,
		MaxConnsPerIP:         options.MaxConnsPerIP,
		MaxIdleWorkerDuration: options.MaxIdleWorkerDuration,
		TCPKeepalivePeriod:    options.TCPKeepalivePeriod,
		TCPKeepalive:          options.TCPKeepalive,
		MaxRequestBodySize:    options.MaxRequestBodySize,
		NoDefaultServerHeader: options.NoDefaultServerHeader,
		NoDefaultDate:         options.NoDefaultDate,
		NoDefaultContentType:  options.NoDefaultContentType,
		CloseOnShutdown:       options.CloseOnShutdown,
		Logger:                logger.GetLogger(),
	}
}

func NewServer(options ServerOption) *Engine {
	return &Engine{
		Server: newServer(options),
		Router: NewRouter(),
		option: options,
	}
}

func CreateServer() *Engine {
	s := NewServer(DefaultServerOption)
	s.Router = CreateDefaultRouter()
	return s
}

func (e *Engine) ListenAndServe(addr string) error {
	err := e.DoRouting()
	if err != nil {
		return err
	}
	e.Server.Logger.Printf("[xhttp] server is listening on %s", addr)
	return e.Server.ListenAndServe(addr)
}

func (e *Engine) DoRouting() error {
	for method, route := range e.Router.List() {
		for _, r := range route {
			e.Server.Logger.Printf("[xhttp] method: %s, path: %s", method, r)
		}
	}
	e.Server.Handler = e.Router.Handler
	// middlewares are applied in reverse so the first registered one
	// is the outermost wrapper
	slices.Reverse(e.middle)
	for i, m := range e.middle {
		e.Server.Handler = m(e.Server.Handler)
		e.Server.Logger.Printf("[xhttp] middleware %d registered - %s", i+1, runtime.FuncForPC(reflect.ValueOf(m).Pointer()).Name())
	}
	return nil
}

func (e *Engine) CloseOnSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig
		e.Shutdown()
	}()
}

// Use adds middleware to the chain which is run for every request.
func (e *Engine) Use(middleware MiddlewareFunc) {
	e.middle = append(e.middle, middleware)
}

// Shutdown gracefully shuts down the server without interrupting
// any active connections.
func (e *Engine) Shutdown() {
	e.Server.Logger.Printf("[xhttp] server is shutting down, process id: %d", os.Getpid())
	if err := e.Server.Shutdown(); err != nil {
		e.Server.Logger.Printf("[xhttp] error while shutting down: %v", err)
	}
}

package engine

import (
	"servicetrack/config"
	"servicetrack/store"
	"servicetrack/tracking"
)

// LogFunc is the logging callback signature.
type LogFunc func(format string, args ...interface{})

// Engine centralizes business logic wiring: it owns the event bus and the
// tracking manager, and hands both to the HTTP and messaging layers.
type Engine struct {
	cfg        *config.Config
	configPath string
	db         *store.DB
	logFn      LogFunc
	debugFn    LogFunc

	trackMgr *tracking.Manager

	Events   *EventBus
	stopChan chan struct{}
}

// Config holds the parameters needed to create an Engine.
type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	DB         *store.DB
	LogFunc    LogFunc
	Debug      bool
}

// New creates a new Engine. Call Start() to wire subsystems.
func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = func(string, ...interface{}) {}
	}
	debugFn := LogFunc(func(string, ...interface{}) {})
	if c.Debug {
		debugFn = logFn
	}
	return &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		db:         c.DB,
		logFn:      logFn,
		debugFn:    debugFn,
		Events:     NewEventBus(),
		stopChan:   make(chan struct{}),
	}
}

// Start creates the tracking manager and wires event handlers.
func (e *Engine) Start() {
	emitter := &trackingEmitter{bus: e.Events}
	e.trackMgr = tracking.NewManager(e.db, emitter, e.cfg.Tracking.EndDebounce)

	e.wireEventHandlers()

	e.logFn("Engine started: center=%s driver=%s", e.cfg.CenterID, e.db.Driver())
}

// Stop shuts down the engine.
func (e *Engine) Stop() {
	select {
	case <-e.stopChan:
	default:
		close(e.stopChan)
	}
	e.logFn("Engine stopped")
}

// DB returns the database handle.
func (e *Engine) DB() *store.DB { return e.db }

// AppConfig returns the app config.
func (e *Engine) AppConfig() *config.Config { return e.cfg }

// ConfigPath returns the config file path.
func (e *Engine) ConfigPath() string { return e.configPath }

// Tracker returns the tracking manager.
func (e *Engine) Tracker() *tracking.Manager { return e.trackMgr }

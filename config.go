package wlclient

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DefaultDisplay is the socket name used when WAYLAND_DISPLAY is unset.
const DefaultDisplay = "wayland-0"

// Config selects the compositor socket. ConfigFromEnv fills it from the
// environment variables libwayland honours.
type Config struct {
	// Display is a socket name relative to RuntimeDir or an absolute path.
	Display    string
	RuntimeDir string
	// SocketFD is an already connected socket handed over by the parent
	// process, or -1.
	SocketFD int
	Debug    bool
}

// ConfigFromEnv reads WAYLAND_DISPLAY, XDG_RUNTIME_DIR, WAYLAND_SOCKET and
// WAYLAND_DEBUG. WAYLAND_SOCKET is removed from the environment so child
// processes do not inherit a descriptor they cannot own.
func ConfigFromEnv() (Config, error) {
	c := Config{
		Display:    os.Getenv("WAYLAND_DISPLAY"),
		RuntimeDir: os.Getenv("XDG_RUNTIME_DIR"),
		SocketFD:   -1,
		Debug:      debugEnabled(os.Getenv("WAYLAND_DEBUG")),
	}
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		_ = os.Unsetenv("WAYLAND_SOCKET")
		fd, err := strconv.Atoi(v)
		if err != nil || fd < 0 {
			return c, fmt.Errorf("invalid WAYLAND_SOCKET %q", v)
		}
		c.SocketFD = fd
	}
	return c, nil
}

// SocketPath resolves the socket to connect to.
func (c Config) SocketPath() (string, error) {
	name := c.Display
	if name == "" {
		name = DefaultDisplay
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	if c.RuntimeDir == "" {
		return "", fmt.Errorf("XDG_RUNTIME_DIR not set, cannot locate %s", name)
	}
	return filepath.Join(c.RuntimeDir, name), nil
}

// DropPolicy decides what happens when the last handle to an object is
// dropped.
type DropPolicy uint8

const (
	// DropSendsDestructor sends the interface's argument-less destructor
	// request, if it has one.
	DropSendsDestructor DropPolicy = iota
	// DropSilently only forgets the object locally.
	DropSilently
)

type options struct {
	log        *logrus.Logger
	debug      *bool
	debugOut   io.Writer
	dropPolicy DropPolicy
}

// Option configures a Display.
type Option func(*options)

// WithLogger sets the logger for connection diagnostics. The default logs
// warnings and errors to stderr.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithDebug forces message tracing on or off, overriding WAYLAND_DEBUG.
func WithDebug(on bool) Option {
	return func(o *options) { o.debug = &on }
}

// WithDebugOutput redirects message traces, stderr by default.
func WithDebugOutput(w io.Writer) Option {
	return func(o *options) { o.debugOut = w }
}

func WithDropPolicy(p DropPolicy) Option {
	return func(o *options) { o.dropPolicy = p }
}

func buildOptions(cfg Config, opts []Option) options {
	o := options{debugOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logrus.New()
		o.log.SetLevel(logrus.WarnLevel)
	}
	if o.debug == nil {
		o.debug = &cfg.Debug
	}
	return o
}

// Connect opens a connection to the compositor. A socket inherited through
// WAYLAND_SOCKET always wins, as with libwayland. Otherwise name is a socket
// name or an absolute path, and an empty name falls back to WAYLAND_DISPLAY
// under XDG_RUNTIME_DIR.
func Connect(name string, opts ...Option) (*Display, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, &Error{Kind: TransportError, Op: "connect", Err: err}
	}
	if name != "" {
		cfg.Display = name
	}
	return ConnectConfig(cfg, opts...)
}

// ConnectConfig opens a connection described by cfg.
func ConnectConfig(cfg Config, opts ...Option) (*Display, error) {
	if cfg.SocketFD >= 0 {
		return newDisplay(cfg.SocketFD, buildOptions(cfg, opts))
	}
	path, err := cfg.SocketPath()
	if err != nil {
		return nil, &Error{Kind: TransportError, Op: "connect", Err: err}
	}
	fd, err := dialSocket(path)
	if err != nil {
		return nil, &Error{Kind: TransportError, Op: "connect", Err: err}
	}
	return newDisplay(fd, buildOptions(cfg, opts))
}

// ConnectFD wraps an already connected socket. The Display takes ownership
// of fd.
func ConnectFD(fd int, opts ...Option) (*Display, error) {
	cfg := Config{SocketFD: fd, Debug: debugEnabled(os.Getenv("WAYLAND_DEBUG"))}
	return newDisplay(fd, buildOptions(cfg, opts))
}

package shutdown

import (
	"context"
	"io"
)

// Shutdowner is implemented by servers that drain in-flight requests,
// such as *http.Server and the dashboard's api.Server.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ServerComponent stops a Shutdowner, letting in-flight requests finish
// until the context deadline.
type ServerComponent struct {
	name   string
	server Shutdowner
}

// NewServerComponent creates a server shutdown component.
func NewServerComponent(name string, server Shutdowner) *ServerComponent {
	return &ServerComponent{name: name, server: server}
}

// Name returns the component name.
func (c *ServerComponent) Name() string {
	return c.name
}

// Shutdown stops the server.
func (c *ServerComponent) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

// CloserComponent wraps an io.Closer, typically the audit store.
type CloserComponent struct {
	name   string
	closer io.Closer
}

// NewCloserComponent creates a new closer shutdown component.
func NewCloserComponent(name string, closer io.Closer) *CloserComponent {
	return &CloserComponent{name: name, closer: closer}
}

// Name returns the component name.
func (c *CloserComponent) Name() string {
	return c.name
}

// Shutdown closes the underlying resource. Close is not interruptible, so
// the call runs in the background and the deadline wins if it passes first.
func (c *CloserComponent) Shutdown(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- c.closer.Close() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FuncComponent wraps a shutdown function as a component.
type FuncComponent struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFuncComponent creates a new function-based shutdown component.
func NewFuncComponent(name string, fn func(ctx context.Context) error) *FuncComponent {
	return &FuncComponent{name: name, fn: fn}
}

// Name returns the component name.
func (c *FuncComponent) Name() string {
	return c.name
}

// Shutdown calls the wrapped function.
func (c *FuncComponent) Shutdown(ctx context.Context) error {
	return c.fn(ctx)
}

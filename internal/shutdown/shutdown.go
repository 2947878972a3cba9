// Package shutdown provides a context which is cancelled on SIGINT or SIGTERM.
package shutdown

import (
	"context"
	"os/signal"
	"syscall"
)

func New() (context.Context, func()) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

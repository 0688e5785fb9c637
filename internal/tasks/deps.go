// Package tasks implements scheduled maintenance tasks for the gateway:
// sweeping expired quota entries and vacuuming the audit database.
package tasks

import (
	"log/slog"

	"github.com/chromabiz/chromabiz/internal/database"
	"github.com/chromabiz/chromabiz/internal/quota"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Quota  quota.Store
}

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/store/sqlstore"
)

// Backend names accepted by OpenSlot.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// SQLiteFileName is the database file used by the sqlite backend.
const SQLiteFileName = "tada.sqlite"

// SlotOptions selects and locates a backend.
type SlotOptions struct {
	Backend string
	Dir     string // file and sqlite backends
	DSN     string // mysql backend
}

// OpenSlot opens the backend named by opts.Backend ("" means file).
func OpenSlot(ctx context.Context, opts SlotOptions) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return jsonstore.New(opts.Dir), nil
	case BackendSQLite:
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
		return sqlstore.OpenSQLite(ctx, filepath.Join(dir, SQLiteFileName))
	case BackendMySQL:
		return sqlstore.OpenMySQL(ctx, opts.DSN)
	case BackendMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want file|sqlite|mysql|memory)", opts.Backend)
	}
}

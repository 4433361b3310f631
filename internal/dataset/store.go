// Package dataset holds the air-quality table shared by every request. The
// table is loaded once and replaced wholesale on reload; readers never see a
// partially built table.
package dataset

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/chrissnell/airquality/internal/types"
	"go.uber.org/zap"
)

// TableLoader produces a complete table from the configured source
type TableLoader interface {
	Load(ctx context.Context) (*types.Table, error)
}

// ReloadObserver is notified after every reload attempt
type ReloadObserver func(table *types.Table, err error)

// Store memoizes the loaded table
type Store struct {
	loader    TableLoader
	logger    *zap.SugaredLogger
	table     atomic.Pointer[types.Table]
	reloadMu  sync.Mutex
	observers []ReloadObserver
}

// NewStore performs the initial load. A load failure is returned unchanged so
// that callers can abort startup.
func NewStore(ctx context.Context, loader TableLoader, logger *zap.SugaredLogger, observers ...ReloadObserver) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Store{
		loader:    loader,
		logger:    logger,
		observers: observers,
	}

	table, err := loader.Load(ctx)
	s.notify(table, err)
	if err != nil {
		return nil, err
	}
	s.table.Store(table)
	return s, nil
}

// Table returns the current table. The returned table must not be modified.
func (s *Store) Table() *types.Table {
	return s.table.Load()
}

// Reload loads the source again and swaps in the new table. If loading fails
// the previous table stays in place and the error is returned.
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	table, err := s.loader.Load(ctx)
	s.notify(table, err)
	if err != nil {
		s.logger.Errorw("reload failed; keeping previous table", "error", err)
		return err
	}

	prev := s.table.Swap(table)
	s.logger.Infow("table reloaded", "rows", table.Len(), "previous_rows", prev.Len())
	return nil
}

func (s *Store) notify(table *types.Table, err error) {
	for _, o := range s.observers {
		o(table, err)
	}
}

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/chrissnell/airquality/internal/loader"
	"github.com/chrissnell/airquality/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	mu     sync.Mutex
	tables []*types.Table
	errs   []error
	calls  int
}

func (f *fakeLoader) Load(ctx context.Context) (*types.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	return f.tables[i], f.errs[i]
}

func tableOf(n int) *types.Table {
	return &types.Table{Records: make([]types.Record, n)}
}

func TestNewStoreFailsOnLoadError(t *testing.T) {
	loadErr := errors.New("boom")
	fl := &fakeLoader{tables: []*types.Table{nil}, errs: []error{loadErr}}

	var observed error
	store, err := NewStore(context.Background(), fl, nil, func(_ *types.Table, err error) { observed = err })
	assert.Nil(t, store)
	assert.ErrorIs(t, err, loadErr)
	assert.ErrorIs(t, observed, loadErr)
}

func TestStoreMemoizesTable(t *testing.T) {
	fl := &fakeLoader{tables: []*types.Table{tableOf(3)}, errs: []error{nil}}

	store, err := NewStore(context.Background(), fl, nil)
	require.NoError(t, err)

	first := store.Table()
	second := store.Table()
	assert.Same(t, first, second)
	assert.Equal(t, 1, fl.calls)
}

func TestReloadKeepsPreviousTableOnFailure(t *testing.T) {
	fl := &fakeLoader{
		tables: []*types.Table{tableOf(3), nil, tableOf(5)},
		errs:   []error{nil, errors.New("bad file"), nil},
	}

	store, err := NewStore(context.Background(), fl, nil)
	require.NoError(t, err)

	assert.Error(t, store.Reload(context.Background()))
	assert.Equal(t, 3, store.Table().Len())

	require.NoError(t, store.Reload(context.Background()))
	assert.Equal(t, 5, store.Table().Len())
}

func TestWatcherReloadsOnNewFile(t *testing.T) {
	dir := t.TempDir()
	row := "year,month,day,hour,PM2.5\n2013,3,1,0,5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(row), 0o644))

	reloaded := make(chan int, 4)
	store, err := NewStore(context.Background(), loader.New(dir, "*.csv", nil), nil,
		func(table *types.Table, err error) {
			if err == nil {
				reloaded <- table.Len()
			}
		})
	require.NoError(t, err)
	<-reloaded // initial load

	w, err := NewWatcher(store, dir, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	w.Start(ctx, &wg)
	defer func() {
		cancel()
		wg.Wait()
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte(row), 0o644))

	select {
	case n := <-reloaded:
		assert.Equal(t, 2, n)
	case <-time.After(5 * time.Second):
		t.Fatal("table was not reloaded after a new file appeared")
	}
	assert.Equal(t, 2, store.Table().Len())
}

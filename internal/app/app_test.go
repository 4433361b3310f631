package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrissnell/airquality/internal/loader"
	"github.com/chrissnell/airquality/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(dir string) *config.ConfigData {
	cfg := &config.ConfigData{Data: config.DataConfig{Dir: dir, Watch: true}}
	cfg.ApplyDefaults()
	cfg.Server.ListenAddr = "127.0.0.1"
	cfg.Server.Port = 0
	return cfg
}

func TestRunFailsWhenDataCannotBeLoaded(t *testing.T) {
	err := New(testConfig(t.TempDir()), zap.NewNop().Sugar()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to load air quality data")

	var le *loader.LoadError
	assert.ErrorAs(t, err, &le)
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	dir := t.TempDir()
	body := "No,year,month,day,hour,PM2.5\n1,2013,3,1,0,12\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "station.csv"), []byte(body), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(testConfig(dir), zap.NewNop().Sugar()).Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

package restserver

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"net/http"
	"sync"

	"github.com/chrissnell/airquality/internal/charts"
	"github.com/chrissnell/airquality/internal/log"
	"github.com/chrissnell/airquality/internal/metrics"
	"github.com/chrissnell/airquality/internal/types"
	"github.com/chrissnell/airquality/pkg/config"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// TableSource supplies the current table. *dataset.Store satisfies it.
type TableSource interface {
	Table() *types.Table
}

// Controller represents the REST server controller
type Controller struct {
	ctx       context.Context
	wg        *sync.WaitGroup
	server    config.ServerData
	dashboard config.DashboardData
	Server    http.Server
	FS        fs.FS
	source    TableSource
	renderer  *charts.Renderer
	metrics   *metrics.Metrics
	page      *htmltemplate.Template
	logger    *zap.SugaredLogger
	handlers  *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, source TableSource, m *metrics.Metrics, logger *zap.SugaredLogger) (*Controller, error) {
	if logger == nil {
		logger = log.Named("restserver")
	}
	if m == nil {
		m = metrics.New()
	}

	ctrl := &Controller{
		ctx:       ctx,
		wg:        wg,
		server:    cfg.Server,
		dashboard: cfg.Dashboard,
		FS:        GetAssets(),
		source:    source,
		metrics:   m,
		logger:    logger,
	}

	ctrl.renderer = charts.NewRenderer(charts.Options{
		Width:               8 * vg.Inch,
		Height:              4 * vg.Inch,
		DecompositionPeriod: cfg.Dashboard.DecompositionPeriod,
		HistogramBins:       cfg.Dashboard.HistogramBins,
	}, logger.Named("charts"), m.ChartFailed)

	page, err := htmltemplate.New("dashboard.html.tmpl").Funcs(templateFuncs).ParseFS(ctrl.FS, "dashboard.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error parsing dashboard template: %v", err)
	}
	ctrl.page = page

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", cfg.Server.ListenAddr, cfg.Server.Port)
	ctrl.Server.Handler = ctrl.Handler()
	ctrl.Server.ReadTimeout = cfg.Server.ReadTimeout
	ctrl.Server.WriteTimeout = cfg.Server.WriteTimeout

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Infow("starting REST server", "addr", c.Server.Addr, "tls", c.server.Cert != "")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		var err error
		if c.server.Cert != "" && c.server.Key != "" {
			err = c.Server.ListenAndServeTLS(c.server.Cert, c.server.Key)
		} else {
			err = c.Server.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("shutting down the REST server...")
		ctx, cancel := context.WithTimeout(context.Background(), c.server.ShutdownTimeout)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			c.logger.Warnf("REST server shutdown: %v", err)
		}
	}()

	return nil
}

// Handler returns the fully wrapped HTTP handler
func (c *Controller) Handler() http.Handler {
	router := c.setupRouter()

	var h http.Handler = router
	h = handlers.CompressHandler(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{c.logger}),
		handlers.PrintRecoveryStack(true),
	)(h)
	return h
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(c.requestIDMiddleware)
	router.Use(c.accessLogMiddleware)

	router.HandleFunc("/", c.handlers.ServeDashboard).Methods(http.MethodGet)
	router.HandleFunc("/api/options", c.handlers.GetOptions).Methods(http.MethodGet)
	router.HandleFunc("/api/summary", c.handlers.GetSummary).Methods(http.MethodGet)
	router.HandleFunc("/api/aggregates/{key}", c.handlers.GetAggregates).Methods(http.MethodGet)
	router.HandleFunc("/api/decomposition", c.handlers.GetDecomposition).Methods(http.MethodGet)
	router.HandleFunc("/charts/{name}.svg", c.handlers.ServeChart).Methods(http.MethodGet)
	router.HandleFunc("/export", c.handlers.Export).Methods(http.MethodGet)
	router.HandleFunc("/healthz", c.handlers.Healthz).Methods(http.MethodGet)
	router.Handle("/metrics", c.metrics.Handler()).Methods(http.MethodGet)

	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(c.FS))))

	return router
}

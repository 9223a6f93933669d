package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chrissnell/droughtindex/internal/log"
	"github.com/chrissnell/droughtindex/internal/observability"
	"github.com/chrissnell/droughtindex/internal/store"
	"github.com/chrissnell/droughtindex/pkg/config"
	"github.com/chrissnell/droughtindex/pkg/indices"
)

// RunStore is the part of the results store the controller reads from.
type RunStore interface {
	LatestRun(ctx context.Context, station string) (store.Run, error)
	LoadResults(ctx context.Context, runID string, kind indices.Kind, freq indices.Frequency) (*indices.ResultTable, error)
}

// Dataset is what the controller serves: the station's monthly table and the
// calculator options used to compute from it.
type Dataset struct {
	Station  string
	Table    indices.Table
	Options  []indices.Option
	Store    RunStore // optional
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
}

type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	data       Dataset
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, data Dataset, logger *zap.SugaredLogger) (*Controller, error) {
	if data.Table == nil {
		return nil, fmt.Errorf("REST server needs a record table")
	}
	if err := data.Table.Validate(); err != nil {
		return nil, fmt.Errorf("REST server record table: %w", err)
	}

	if rc.ListenAddr == "" {
		logger.Info("rest.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}
	if data.Gatherer == nil {
		data.Gatherer = prometheus.DefaultGatherer
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		data:       data,
		logger:     logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.setupRouter()
	return ctrl, nil
}

// StartController serves until the controller's context is cancelled.
func (c *Controller) StartController() error {
	c.logger.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware(c.logger))

	router.HandleFunc("/indices/{index}", c.handlers.GetIndex).Methods(http.MethodGet)
	router.HandleFunc("/compare", c.handlers.GetComparison).Methods(http.MethodGet)
	router.HandleFunc("/summary/{index}", c.handlers.GetSummary).Methods(http.MethodGet)
	router.HandleFunc("/runs/latest/{index}", c.handlers.GetLatestRun).Methods(http.MethodGet)
	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(c.data.Gatherer, promhttp.HandlerOpts{}))

	return router
}

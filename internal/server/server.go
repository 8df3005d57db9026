package server

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/7phs/membuf/buf"
	"github.com/7phs/membuf/internal/config"
	"github.com/7phs/membuf/internal/store"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server interface {
	Start() error
	Stop()
}

type DefaultServer struct {
	logger              *zap.Logger
	maintenance         GroupMaintenance
	port                int
	maintenanceInterval time.Duration
	server              fasthttp.Server

	cancelCtx context.Context
	cancel    func()

	store store.Store
}

func NewServer(
	logger *zap.Logger,
	conf config.Config,
	store store.Store,
) Server {
	cancelCtx, cancel := context.WithCancel(context.Background())

	srv := &DefaultServer{
		logger:              logger,
		store:               store,
		port:                conf.Port(),
		maintenanceInterval: conf.Maintenance(),

		cancelCtx: cancelCtx,
		cancel:    cancel,

		maintenance: NewGroupMaintenance(logger, store),
	}
	srv.server.Handler = NewLoggerHandler(logger, srv.handler)

	return srv
}

func (o *DefaultServer) handler(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Method()) {
	case http.MethodGet:
		o.handleGet(ctx)

	case http.MethodPost:
		o.handlePost(ctx)

	case http.MethodDelete:
		o.handleDelete(ctx)

	default:
		ctx.Error("Unsupported method", fasthttp.StatusMethodNotAllowed)
	}
}

// handleGet streams the value without flattening it: fragments go to the
// client one by one through a writer sink.
func (o *DefaultServer) handleGet(ctx *fasthttp.RequestCtx) {
	key := ctx.Path()

	body, err := o.store.Get(key)
	if err != nil {
		o.handlerError(ctx, err)
		return
	}

	if ce := o.logger.Check(zap.DebugLevel, "handle GET"); ce != nil {
		ce.Write(
			zap.ByteString("key", key),
			zap.String("value", body.DetailString()),
		)
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer body.Release()

		done := make(chan error, 1)

		body.WriteTo(buf.NewWriterSink(w), true, func(err error) {
			done <- err
		})

		if err := <-done; err != nil {
			o.logger.Error("failed to stream value",
				zap.ByteString("key", key),
				zap.Error(err),
			)
		}
	})
}

func (o *DefaultServer) handlePost(ctx *fasthttp.RequestCtx) {
	key := ctx.Path()

	o.logger.Debug("handle POST",
		zap.ByteString("key", key),
		zap.Int("size", len(ctx.Request.Body())),
	)

	err := o.store.Add(key, ctx.Request.Body())
	if err != nil {
		o.handlerError(ctx, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
}

func (o *DefaultServer) handleDelete(ctx *fasthttp.RequestCtx) {
	key := ctx.Path()

	o.logger.Debug("handle DELETE",
		zap.ByteString("key", key),
	)

	if !o.store.Delete(key) {
		ctx.Error("Not found", fasthttp.StatusNotFound)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
}

func (o *DefaultServer) handlerError(ctx *fasthttp.RequestCtx, err error) {
	switch err {
	case store.ErrKeyNotFound, store.ErrKeyExpired:
		ctx.Error("Not found", fasthttp.StatusNotFound)
	case store.ErrOutOfLimit:
		ctx.Error("Out of the limit", fasthttp.StatusInsufficientStorage)
	default:
		ctx.Error("Internal error", fasthttp.StatusInternalServerError)
	}
}

func (o *DefaultServer) Start() error {
	var wg errgroup.Group

	wg.Go(func() error {
		o.logger.Info("maintenance: start")

		o.maintenance.Start(o.cancelCtx, o.maintenanceInterval)
		return nil
	})

	wg.Go(func() error {
		port := fmt.Sprintf(":%d", o.port)

		o.logger.Info("http: listen",
			zap.String("port", port),
		)

		return o.server.ListenAndServe(port)
	})

	return wg.Wait()
}

func (o *DefaultServer) Stop() {
	var wg errgroup.Group

	wg.Go(func() error {
		o.logger.Info("http: shutdown")

		return o.server.Shutdown()
	})

	wg.Go(func() error {
		o.logger.Info("maintenance: shutdown")

		o.cancel()

		return nil
	})

	err := wg.Wait()
	if err != nil {
		o.logger.Error("failed to stop server",
			zap.Error(err),
		)
	}
}

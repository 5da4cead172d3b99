package httpapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	createHandler "github.com/BMustafa97/serverless-snacks/internal/delivery/http/order/create"
	getHandler "github.com/BMustafa97/serverless-snacks/internal/delivery/http/order/get"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

type App struct {
	log        logger.Logger
	httpServer *http.Server
	port       int
}

func NewApp(log logger.Logger, create *createHandler.Handler, get *getHandler.Handler, port int) *App {
	mux := chi.NewRouter()

	mux.Route("/order", func(r chi.Router) {
		r.Post("/", create.Create)
		r.Get("/{orderId}", get.OrderByID)
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	return &App{
		log:        log,
		httpServer: httpServer,
		port:       port,
	}
}

func (a *App) RunWithPanic() {
	if err := a.Run(); err != nil {
		panic(fmt.Sprintf("failed to run http server: %v", err))
	}
}

func (a *App) Run() error {
	const op = "httpapp.run"

	a.log.Info("starting http server", logger.String("op", op), logger.Int("port", a.port))

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (a *App) Stop() error {
	const op = "httpapp.stop"

	a.log.Info("stopping http server", logger.String("op", op))

	return a.httpServer.Shutdown(context.Background())
}

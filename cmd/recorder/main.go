// Command recorder consumes finished-match results from the queue and keeps
// them in the history store, serving them over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"mygame/football/internal/handler"
	"mygame/football/internal/logging"
	"mygame/football/internal/mq"
	"mygame/football/internal/store"
	"mygame/football/pkg/config"
)

func main() {
	port := flag.Int("port", 8081, "history API port")
	flag.Parse()

	config.InitConfig()
	cfg := config.AppConfig
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// 初始化数据库
	st, err := store.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("history store")
	}
	defer st.Close()

	consumer, err := mq.DialConsumer(cfg.MQ.Url, cfg.MQ.QueueName)
	if err != nil {
		log.Fatal().Err(err).Msg("amqp")
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return consumer.Run(ctx, st.Save) })

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: handler.NewHistoryRouter(st, cfg.Server.Mode),
	}
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("recorder running")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("recorder stopped")
	}
}

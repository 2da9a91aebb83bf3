package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"mygame/football/internal/core"
	"mygame/football/internal/dao"
	"mygame/football/internal/handler"
	"mygame/football/internal/logging"
	"mygame/football/internal/mq"
	"mygame/football/internal/ticket"
	"mygame/football/pkg/config"
)

func roomOptions(cfg *config.Config) core.Options {
	opts := core.DefaultOptions()
	if cfg.Server.TickRate > 0 {
		opts.Tick = time.Second / time.Duration(cfg.Server.TickRate)
	}
	opts.Snapshot = cfg.Game.Snapshot()
	opts.Countdown = cfg.Game.Countdown()
	opts.GoalPause = cfg.Game.GoalPause()
	opts.Physics = cfg.Game.Physics
	opts.Agent = cfg.Game.Agent
	return opts
}

func main() {
	// 1. 初始化配置
	config.InitConfig()
	cfg := config.AppConfig
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	opts := roomOptions(cfg)

	// 2. Redis 房间目录（可选）
	var catalog handler.RoomCatalog
	if cfg.Redis.Enabled {
		dir, err := dao.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, room directory disabled")
		} else {
			defer dir.Close()
			opts.Directory = dir
			catalog = dir
		}
	}

	// 3. 比赛结果队列（可选）
	if cfg.MQ.Enabled {
		producer, err := mq.Dial(cfg.MQ.Url, cfg.MQ.QueueName)
		if err != nil {
			log.Warn().Err(err).Msg("amqp unavailable, results will only be logged")
		} else {
			defer producer.Close()
			opts.Sink = producer
		}
	}

	tickets := ticket.NewIssuer(cfg.JWT.Secret, cfg.JWT.Expire())
	rooms := core.NewManager(opts, tickets, time.Duration(cfg.Server.IdleTimeout)*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rooms.StartCleanupTask(ctx)
		return nil
	})

	// 4. gRPC 控制面
	gs := handler.NewGRPCServer(rooms)
	g.Go(func() error { return handler.ServeGRPC(gs, cfg.Server.GrpcPort) })
	g.Go(func() error {
		<-ctx.Done()
		gs.GracefulStop()
		return nil
	})

	// 5. HTTP 大厅 + /ws
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.NewRouter(rooms, catalog, cfg.Server.Mode),
	}
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("football service running")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		rooms.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

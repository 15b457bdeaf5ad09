package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/libradesk/circulation-desk/desk/config"
	"github.com/libradesk/circulation-desk/desk/internal/handler"
	"github.com/libradesk/circulation-desk/desk/internal/server"
	"github.com/libradesk/circulation-desk/pkg/logger"
)

func Run(cfg config.Config) error {
	log := logger.NewLogger(cfg.Log, "desk")

	h := handler.New(log, cfg)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}

	log.Info("Graceful shutdown finished")
	return nil
}

package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bikerent/bikerent-api/internal/api"
	"github.com/bikerent/bikerent-api/internal/cache"
	"github.com/bikerent/bikerent-api/internal/config"
	"github.com/bikerent/bikerent-api/internal/db"
	"github.com/bikerent/bikerent-api/internal/logger"
	"github.com/bikerent/bikerent-api/internal/repository/dao"
	"github.com/bikerent/bikerent-api/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	gdb, err := db.Open(conf, os.Getenv("DATABASE_URL"))
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	if err = dao.InitTables(gdb); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	c, err := initCache(conf.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize cache -> %w", err)
	}

	s, err := api.NewServer(conf, api.Deps{
		DB:       gdb,
		Cache:    c,
		Mailer:   initMailer(conf.Mail),
		Registry: prometheus.DefaultRegisterer,
		Gatherer: prometheus.DefaultGatherer,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	job := service.NewJobService(s.Reservations, s.Metrics)
	if err = job.Start(conf.Scheduler.ReportSpec); err != nil {
		return fmt.Errorf("failed to start scheduler -> %w", err)
	}
	defer job.Stop()

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func initCache(conf *config.RedisConfig) (cache.Cache, error) {
	if !conf.Enabled() {
		zap.L().Info("redis not configured, bike cache disabled")
		return cache.NopCache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("client.Ping -> %w", err)
	}

	return cache.NewRedisCache(client), nil
}

func initMailer(conf *config.MailConfig) service.Mailer {
	if conf.SendGridAPIKey == "" {
		zap.L().Warn("sendgrid key not configured, mails are only logged")
		return service.LogMailer{}
	}

	return service.NewSendGridMailer(conf.SendGridAPIKey, conf.FromEmail, conf.FromName)
}

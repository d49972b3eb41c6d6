package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/auth"
	"schoolsync/backend/internal/commands"
	"schoolsync/backend/internal/pkg/config"
	"schoolsync/backend/internal/pkg/repository/postgresql"
	"schoolsync/backend/internal/router"

	"github.com/ardanlabs/conf"
	"github.com/redis/go-redis/v9"
	"github.com/pkg/errors"
)

func main() {
	if err := run(); err != nil {
		log.Println("error:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg struct {
		Web struct {
			Port            string        `conf:"default::8080"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
		}
	}

	if err := conf.Parse(os.Args[1:], "SYNC", &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage("SYNC", &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	yamlConfig, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "reading config.yaml")
	}

	postgresDB := postgresql.New(postgresql.Config{
		Username:   yamlConfig.DBUsername,
		Password:   yamlConfig.DBPassword,
		Host:       yamlConfig.DBHost,
		Port:       yamlConfig.DBPort,
		Name:       yamlConfig.DBName,
		DisableTLS: yamlConfig.DisableTLS,
	})
	defer postgresDB.Close()

	if err := commands.MigrateUP(postgresDB); err != nil {
		return errors.Wrap(err, "running migrations")
	}

	redisDB := redis.NewClient(&redis.Options{
		Addr: yamlConfig.RedisAddr,
	})
	defer redisDB.Close()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	app := web.NewApp(shutdown)

	r := router.NewRouter(
		app,
		postgresDB,
		redisDB,
		cfg.Web.Port,
		auth.New(yamlConfig.JWTKey),
		yamlConfig.JWTKey,
	)

	serverErrors := make(chan error, 1)
	go func() {
		log.Println("api listening on", cfg.Web.Port)
		serverErrors <- r.Init()
	}()

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")
	case sig := <-shutdown:
		log.Println("shutdown started:", sig)
		return nil
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"SOCIAL_server/config"
	"SOCIAL_server/errors"
	"SOCIAL_server/global"
	"SOCIAL_server/helpers"
	"SOCIAL_server/routes"
	"SOCIAL_server/services"
	"SOCIAL_server/stores"

	redis "github.com/go-redis/redis/v8"
	fiber "github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

var configPath = flag.String("config", "./config.json", "path of the json config file")

func init() {
	internalErrorsFile, err := os.OpenFile("internal_errors.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	errors.HandleFatalError(err)

	monitorErrorsFile, err := os.OpenFile("monitor_logs.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	errors.HandleFatalError(err)

	global.InternalLogger.SetOutput(internalErrorsFile)
	global.MonitorLogger.SetOutput(monitorErrorsFile)
}

func main() {

	flag.Parse()

	cfg, err := config.Load(*configPath)
	errors.HandleFatalError(err)

	publicKey, err := helpers.ReadPublicKey(cfg.Auth.PublicKeyPath)
	errors.HandleFatalError(err)

	backend, err := openBackend(cfg)
	errors.HandleFatalError(err)
	defer backend.Close()

	users := stores.UserDirectory(backend.Users)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		users = stores.NewCachedUserDirectory(redisClient, backend.Users, cfg.Redis.UserCacheTTL.Std())
		fmt.Println("Redis user cache enabled on " + cfg.Redis.Addr)
	}

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
	})
	defer app.Shutdown()

	routes.SetRoutes(app, routes.Dependencies{
		Version:   cfg.Version,
		Origin:    cfg.Origin,
		PublicKey: publicKey,
		Timeout:   cfg.Storage.Timeout.Std(),
		Relations: services.NewRelationService(backend.Relations, users, backend.Publications),
		Messages:  services.NewMessageService(backend.Messages, users),
	})

	fmt.Println("Starting server on port: " + cfg.Port)
	log.Fatal(app.Listen(cfg.Port))

}

func openBackend(cfg config.JSONConfig) (*stores.Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverScylla:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout.Std()*6)
		defer cancel()
		backend, err := stores.OpenScylla(ctx, stores.ScyllaOptions{
			Hosts:    cfg.Storage.ScyllaHosts,
			Keyspace: cfg.Storage.Keyspace,
			Timeout:  cfg.Storage.Timeout.Std(),
		})
		if err != nil {
			return nil, err
		}
		fmt.Println("ScyllaDB initialized")
		fmt.Printf("Keyspace: %s\n\n", cfg.Storage.Keyspace)
		return backend, nil
	default:
		backend, _, err := stores.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		fmt.Println("SQLite initialized at " + cfg.Storage.SQLitePath)
		return backend, nil
	}
}

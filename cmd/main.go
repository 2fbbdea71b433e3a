package main

import (
	"fmt"
	"log"
	"os"

	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/auth"
	"timetrack/backend/internal/commands"
	"timetrack/backend/internal/pkg/config"
	"timetrack/backend/internal/pkg/repository/postgresql"
	"timetrack/backend/internal/router"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func run() error {
	var flags struct {
		Port           string `conf:"default::8080"`
		PrivateKeyPath string `conf:"default:./private.pem"`
		Args           conf.Args
	}

	if err := conf.Parse(os.Args[1:], "TIMETRACK", &flags); err != nil {
		if err == conf.ErrHelpWanted {
			usage, err := conf.Usage("TIMETRACK", &flags)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	postgresDB := postgresql.New(cfg)
	defer postgresDB.Close()

	if flags.Args.Num(0) == "migrate" {
		commands.Migrate(postgresDB)
		return nil
	}

	commands.MigrateUP(postgresDB)

	redisDB := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisDB.Close()

	authenticator, err := auth.New(flags.PrivateKeyPath)
	if err != nil {
		return errors.Wrap(err, "constructing auth")
	}

	app := web.NewApp()

	r := router.NewRouter(app, postgresDB, redisDB, cfg, flags.Port, authenticator)

	return r.Init()
}

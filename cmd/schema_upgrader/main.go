package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"

	"github.com/opst/voipinv/pkg/db/postgres"
	"github.com/opst/voipinv/pkg/utils/try"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Host     string `flag:"host" help:"The host of the database."`
	Port     int    `flag:"port" help:"The port of the database."`
	User     string `flag:"user" help:"The user of the database."`
	Password string `flag:"pass" help:"The password of the database."`
	Database string `flag:"database" help:"The name of the database."`

	Schema string `flag:"schema" help:"The path to the schema repository directory."`
}

// defaults reads flag defaults from environment variables.
func defaults(getenv func(string) string) Flag {
	port := 5432
	if sp := getenv("DB_PORT"); sp != "" {
		if p, err := strconv.Atoi(sp); err == nil {
			port = p
		}
	}
	return Flag{
		Host:     getenv("DB_HOST"),
		Port:     port,
		User:     getenv("DB_USER"),
		Password: getenv("DB_PASSWORD"),
		Database: getenv("DB_NAME"),
		Schema:   getenv("VOIP_SCHEMA"),
	}
}

// dbURI builds a connection string. User and password are escaped.
func (f Flag) dbURI() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(f.User, f.Password),
		Host:   fmt.Sprintf("%s:%d", f.Host, f.Port),
		Path:   "/" + f.Database,
	}
	return u.String()
}

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt, os.Kill,
	)
	defer cancel()

	cmd := try.To(flarc.NewCommand(
		"database schema upgrader",
		defaults(os.Getenv),
		flarc.Args{},
		func(ctx context.Context, c flarc.Commandline[Flag], a []any) error {
			flags := c.Flags()
			if flags.Schema == "" {
				return fmt.Errorf("%w: schema repository is not given", flarc.ErrUsage)
			}

			db, err := postgres.New(ctx, flags.dbURI(), postgres.WithSchemaRepository(flags.Schema))
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Schema().Upgrade(ctx); err != nil {
				return err
			}
			v, err := db.Schema().Version(ctx)
			if err != nil {
				return err
			}
			logger.Printf("schema version: %d", v)
			return nil
		},
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd))
}

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opst/voipinv/cmd/voipd/handlers"
	kcs "github.com/opst/voipinv/pkg/configs/server"
	kpg "github.com/opst/voipinv/pkg/db/postgres"
	"github.com/opst/voipinv/pkg/metrics"
	"github.com/opst/voipinv/pkg/utils/echoutil"
	"github.com/opst/voipinv/pkg/utils/filewatch"
)

func main() {
	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	conf, err := kcs.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	m := metrics.New(nil)
	e.Use(echoutil.RequestID(), echoutil.LogHandlerFunc, m.Middleware())

	ctx := context.Background()
	db, err := kpg.New(ctx, conf.DBURI(), kpg.WithSchemaRepository(conf.SchemaRepository()))
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer db.Close()

	// restart when the schema gets behind the repository, or the config is modified.
	schemaCtx, cancelSchema := db.Schema().Context(ctx)
	defer cancelSchema()
	context.AfterFunc(schemaCtx, func() {
		shutdown(e, "database schema is not latest")
	})

	configCtx, cancelConfig, err := filewatch.UntilModified(ctx, *configPath)
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	defer cancelConfig()
	context.AfterFunc(configCtx, func() {
		shutdown(e, context.Cause(configCtx).Error())
	})

	pagination := conf.Pagination()
	route(
		e, db, conf.NullSentinel(),
		handlers.Paging{Default: pagination.DefaultLimit(), Max: pagination.MaxLimit()},
		m,
	)

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.Port(), cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.Port()))
	}
}

// shutdown stops the server gracefully, to be restarted.
func shutdown(e *echo.Echo, reason string) {
	log.Printf("%s. quit to restart server.", reason)
	graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(graceful); err != nil {
		log.Printf("error on shutdown: %s", err)
	}
}

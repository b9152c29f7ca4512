package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"securequote/internal/adapter/http/handlers"
	"securequote/internal/adapter/http/routes"
	"securequote/internal/adapter/persistence/repository"
	"securequote/internal/infrastructure/config"
	"securequote/internal/infrastructure/database"
	"securequote/internal/infrastructure/logger"
	"securequote/internal/usecase"
	"securequote/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// @title           Secure Quotation API
// @version         1.0
// @description     Confidential quotation management: public list, gated sensitive view.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	app := &cli.App{
		Name:  "securequote",
		Usage: "confidential quotation management API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create the quotations schema and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap(c *cli.Context) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat), nil
}

func serve(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	quotationUseCase := usecase.NewQuotationUseCase(repo, log)

	return routes.Run(ctx, cfg, log, routes.Handlers{
		Quotation: handlers.NewQuotationHandler(quotationUseCase, log),
		Health:    handlers.NewHealthHandler(),
	})
}

func migrate(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}
	if cfg.StoreDriver == config.StoreDynamoDB {
		return fmt.Errorf("migrate: the %s store has no schema to create", cfg.StoreDriver)
	}

	db, err := database.ConnectSQL(cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.WithField("store", cfg.StoreDriver).Info("[db] schema ready")
	return nil
}

// openRepository connects the configured store. SQL stores are migrated on
// startup so a fresh sqlite file is usable immediately.
func openRepository(ctx context.Context, cfg config.Config, log *logrus.Logger) (interfaces.IQuotationRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		log.WithFields(logrus.Fields{"store": cfg.StoreDriver, "table": cfg.DynamoDB.Table}).Info("[db] connected")
		return repository.NewQuotationDynamoRepository(ddb, cfg.DynamoDB.Table), func() {}, nil
	default:
		db, err := database.ConnectSQL(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.WithField("store", cfg.StoreDriver).Info("[db] connected")
		return repository.NewQuotationSQLRepository(db), closer(db, log), nil
	}
}

func closer(db *sqlx.DB, log *logrus.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("[db] close failed")
		}
	}
}

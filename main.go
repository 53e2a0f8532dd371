package main

import (
	"context"
	"encoding/json"
	"os"

	"VitalsHub/config"
	"VitalsHub/config/db"
	cache "VitalsHub/config/redis"
	"VitalsHub/jobs"
	"VitalsHub/migrations"
	"VitalsHub/routes"
	"VitalsHub/server"
	"VitalsHub/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	startServer   = server.Start
	connectStores = connect
	isTest        = false
)

// stores holds the live connections for one process.
type stores struct {
	mongo    *mongo.Client
	redis    *goredis.Client
	patients *mongo.Collection
	records  services.PatientRecordStore
	vitals   services.VitalsStore
}

func connect(ctx context.Context, cfg *config.Config) (*stores, error) {
	mc, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	rc, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		db.Disconnect(mc)
		return nil, err
	}
	coll := db.OpenCollection(mc, cfg.MongoDatabase, cfg.PatientCollection)
	return &stores{
		mongo:    mc,
		redis:    rc,
		patients: coll,
		records:  services.NewPatientStore(coll),
		vitals:   services.NewVitalsStore(rc, cfg.VitalsKey),
	}, nil
}

func (s *stores) Close() {
	if s.redis != nil {
		cache.Close(s.redis)
	}
	if s.mongo != nil {
		db.Disconnect(s.mongo)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vitalshub",
		Short:         "Patient records and live vitals API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply data migrations to the patients collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(cmd.Context(), func(ctx context.Context, s *stores) error {
				return migrations.RunAll(ctx, s.patients)
			})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Re-seed missing live vitals records once and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(cmd.Context(), func(ctx context.Context, s *stores) error {
				summary, err := jobs.NewReconciler(s.records, s.vitals).Run(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			})
		},
	})
	return root
}

func withStores(ctx context.Context, fn func(context.Context, *stores) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.InitLogger(cfg)
	s, err := connectStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Error in loading the config")
		return err
	}
	logger := config.InitLogger(cfg)
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	s, err := connectStores(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Error connecting stores")
		return err
	}
	defer s.Close()

	svc := routes.Services{
		Patients: services.NewPatientService(s.records, s.vitals),
		Alerts: services.NewAlertService(
			services.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass),
			cfg.EmailUser,
		),
	}

	defaultopts := server.GetDefaultOptions()
	options := server.Options{
		WebServerEnabled: defaultopts.WebServerEnabled,
		WebServerPort:    cfg.Port,
		ShutdownTimeout:  cfg.ShutdownTimeout,
		Logger:           logger,

		MigrationEnabled: cfg.MigrationsEnabled && !isTest,
		MigrationHandler: func() error {
			return migrations.RunAll(ctx, s.patients)
		},

		JobsEnabled: cfg.ReconcileSchedule != "" && !isTest,
		JobsHandler: func() (func(), error) {
			c, err := jobs.StartScheduler(cfg.ReconcileSchedule, jobs.NewReconciler(s.records, s.vitals))
			if err != nil {
				return nil, err
			}
			return func() { <-c.Stop().Done() }, nil
		},

		WebServerPreHandler: func(r *gin.Engine) {
			r.Use(cors.New(cors.Config{
				AllowOrigins:     cfg.CORSOrigins,
				AllowMethods:     []string{"GET", "POST", "DELETE", "PATCH", "PUT"},
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: true,
			}))
			routes.Routes(r, svc)
		},
	}
	if options.ShutdownTimeout <= 0 {
		options.ShutdownTimeout = defaultopts.ShutdownTimeout
	}
	return startServer(options)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Artexxx/pair-overlap/internal/api"
	"github.com/Artexxx/pair-overlap/internal/broadcast"
	"github.com/Artexxx/pair-overlap/internal/config"
	"github.com/Artexxx/pair-overlap/internal/emitter"
	"github.com/Artexxx/pair-overlap/internal/exchange/consumer"
	"github.com/Artexxx/pair-overlap/internal/exchange/producer"
	"github.com/Artexxx/pair-overlap/internal/metrics"
	"github.com/Artexxx/pair-overlap/internal/pipeline"
	"github.com/Artexxx/pair-overlap/internal/repository/incidents"
	"github.com/Artexxx/pair-overlap/library/pg"
	"github.com/Artexxx/pair-overlap/library/yamlreader"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultConfigPath = "config/application-local.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "pair-overlap",
		Short:         "Days worked together by employee pairs on shared projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), resolveConfigPath(configPath))
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload API and notification stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), resolveConfigPath(configPath))
		},
	}

	root.AddCommand(serve, newOverlapCmd())

	return root
}

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}

	rootCtx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(rootCtx)
	defer cancel()

	cfg := MustNewConfig(configPath)
	setupLogger(cfg.Log.Level.Get())

	log.Info().Bool("postgres", cfg.Postgres.Conn.Get() != "").Msg("incident journal")
	log.Info().Msgf("kafka=%+v", cfg.Kafka.Bootstrap.Get())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hub := broadcast.NewHub(32, log.Logger)
	defer hub.Close()

	deps := pipeline.Deps{
		Metrics: metrics.New(registry, "pair_overlap"),
		Log:     log.Logger,
	}
	apiDeps := api.ServiceDeps{
		Port:        cfg.UserAPI.Port.Get(),
		MaxBodySize: cfg.UserAPI.MaxBodyBytes.Get(),
		Hub:         hub,
		Gatherer:    registry,
	}

	if conn := cfg.Postgres.Conn.Get(); conn != "" {
		pgClient, err := pg.NewPG(rootCtx, conn, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres init failed")
		}
		defer pgClient.Close()

		journal := incidents.NewRepository(pgClient.Pool())
		if err := journal.EnsureSchema(rootCtx); err != nil {
			log.Fatal().Err(err).Msg("incident journal schema failed")
		}

		deps.Incidents = journal
		apiDeps.Incidents = journal
	} else {
		log.Warn().Msg("postgres.conn is empty: incidents are only logged")
	}

	group, gctx := errgroup.WithContext(ctx)

	var notifier emitter.Notifier = hub
	if bootstrap := cfg.Kafka.Bootstrap.Get(); bootstrap != "" {
		uploadNotifier, err := initNotifier(cfg.Kafka)
		if err != nil {
			log.Fatal().Err(err).Msg("kafka producer init failed")
		}
		defer func() { _ = uploadNotifier.Close() }()
		notifier = uploadNotifier

		listener := consumer.NewNotificationsRunner(
			bootstrap,
			cfg.Kafka.Topics.Notifications.Get(),
			cfg.Kafka.GroupPrefix.Get(),
			hub,
			log.Logger,
		)

		group.Go(func() error {
			log.Info().Msg("запуск consumer_notifications")
			if err := listener.Start(gctx); err != nil {
				log.Error().Err(err).Msg("consumer_notifications завершился с ошибкой")

				return err
			}

			log.Info().Msg("consumer_notifications остановлен")

			return nil
		})
	} else {
		log.Warn().Msg("kafka.bootstrap is empty: notifications are broadcast in-process")
	}

	deps.Emitter = emitter.New(notifier)
	apiDeps.Uploader = pipeline.NewService(deps)
	apiService := api.NewService(apiDeps)

	group.Go(func() error {
		log.Info().Msg("запуск HTTP API")
		if err := apiService.Start(gctx); err != nil {
			log.Error().Err(err).Msg("HTTP API завершился с ошибкой")

			return err
		}

		log.Info().Msg("HTTP API остановлен")

		return nil
	})

	err := group.Wait()
	log.Info().Msg("all services stopped")

	return err
}

func initNotifier(kafkaConfig config.KafkaConfig) (*producer.Notifier, error) {
	sCfg := sarama.NewConfig()
	sCfg.Version = sarama.V3_3_2_0
	if id := kafkaConfig.ProducerClientID.Get(); id != "" {
		sCfg.ClientID = id
	}
	sCfg.Producer.Return.Successes = true
	sCfg.Producer.RequiredAcks = sarama.WaitForAll
	sCfg.Producer.Idempotent = true
	sCfg.Net.MaxOpenRequests = 1
	sCfg.Producer.Retry.Max = 5
	sCfg.Producer.Retry.Backoff = 200 * time.Millisecond

	sp, err := sarama.NewSyncProducer(strings.Split(kafkaConfig.Bootstrap.Get(), ","), sCfg)
	if err != nil {
		return nil, err
	}

	return producer.NewNotifier(
		sp,
		producer.Config{
			Topic:  kafkaConfig.Topics.Notifications.Get(),
			Source: "pair-overlap-api",
		},
		log.Logger,
	), nil
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
}

func MustNewConfig(path string) *config.Config {
	cfg, err := yamlreader.NewConfig[config.Config](path)

	if err != nil {
		log.Fatal().Str("path", path).Err(err).Msg("ошибка чтения конфигурации приложения")
		return nil
	}

	return cfg
}

func resolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	_ = godotenv.Load(".env")

	if configPath == "" {
		configPath = defaultConfigPath
	}
	return configPath
}

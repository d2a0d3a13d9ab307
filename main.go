package main

import (
	"context"
	"fed_core/dal"
	"fed_core/logic"
	"fed_core/server"
	"fed_core/shared"
	"fmt"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"io"
	"net/http"
	"os"
)

type initErrorHandler struct {
}

func (*initErrorHandler) HandleError(err error) {
	fmt.Fprintf(os.Stderr, "Failed to initialize dependency injection\n%v", err)
}

var logger *log.Logger

func main() {

	cfg := shared.LoadConfig()
	provideConfig := func() *shared.Config {
		return cfg
	}

	logger = initLogger(cfg)
	provideLogger := func() shared.ILogger {
		return logger
	}

	providers := fx.Provide(
		provideConfig,
		provideLogger,
		server.NewHTTPServer,
		fx.Annotate(server.NewMux, fx.ParamTags(`group:"handler_group"`)),
		shared.NewUserAgent,
		dal.NewRepo,
		logic.NewMetrics,
		logic.NewProfiler,
		logic.NewKeyStore,
		logic.NewBlockedDomains,
		logic.NewActivitySender,
		logic.NewActorRetriever,
		logic.NewSigAuthenticator,
		logic.NewActorDirectory,
		logic.NewAudienceResolver,
		logic.NewNotifier,
		logic.NewJobQueue,
		logic.NewActivityStore,
		logic.NewOutboxHandlers,
		logic.NewOutboxRouter,
		logic.NewInboxHandlers,
		logic.NewInboxRouter,
		logic.NewDeliverer,
		logic.NewJobWorker,
		asHandlerGroupDef(server.NewApubHandlerGroup),
		asHandlerGroupDef(server.NewStreamHandlerGroup),
		asHandlerGroupDef(server.NewMetricsHandlerGroup),
	)

	rootCmd := &cobra.Command{
		Use:           "fed_core",
		Short:         "Federation core of the music server",
		Long:          "Runs the federation service. Subcommands administer local actors and libraries.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			serve(providers)
			return nil
		},
	}
	rootCmd.AddCommand(adminCmds(providers)...)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(providers fx.Option) {
	app := fx.New(
		fx.NopLogger,
		providers,
		fx.Invoke(
			func(repo dal.IRepo) { repo.InitUpdateDb() },
			registerHooks,
			func(*http.Server) {},
		),
		fx.ErrorHook(&initErrorHandler{}),
	)
	app.Run()
}

func asHandlerGroupDef(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(server.IHandlerGroup)),
		fx.ResultTags(`group:"handler_group"`),
	)
}

func initLogger(cfg *shared.Config) *log.Logger {

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		msg := fmt.Sprintf("Failed to open log file '%v': %v", cfg.LogFile, err)
		log.Fatal(msg)
	}

	logger := log.New(io.MultiWriter(os.Stdout, logFile))
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat("2006-01-02 15:04:05.000")
	switch cfg.LogLevel {
	case "Debug":
		logger.SetLevel(log.DebugLevel)
	case "Info":
		logger.SetLevel(log.InfoLevel)
	case "Warn":
		logger.SetLevel(log.WarnLevel)
	case "Error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.ErrorLevel)
	}
	logger.SetReportCaller(true)

	return logger
}

func registerHooks(
	lc fx.Lifecycle,
	metrics logic.IMetrics,
	worker logic.IJobWorker,
	profiler logic.IProfiler,
	repo dal.IRepo,
) {
	lc.Append(
		fx.Hook{
			OnStart: func(context.Context) error {
				logger.Printf("Application starting up")
				metrics.ServiceStarted()
				profiler.Start()
				worker.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				logger.Printf("Application shutting down")
				worker.Stop()
				profiler.Stop()
				return repo.Close()
			},
		},
	)
}

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/pipelayer/component"
	"github.com/kbukum/pipelayer/config"
	"github.com/kbukum/pipelayer/logger"
	"github.com/kbukum/pipelayer/observability"
	"github.com/kbukum/pipelayer/pipeline"
	"github.com/kbukum/pipelayer/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr         string
		withManifest bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the hello-world pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, log, err := loadSettings(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				settings.Server.Addr = addr
				if err := settings.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			svc, err := newApp(ctx, settings, log, withManifest)
			if err != nil {
				return err
			}
			if err := svc.components.StartAll(ctx); err != nil {
				_ = svc.shutdown(context.Background())
				return err
			}

			<-ctx.Done()
			log.Info("shutdown requested")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return svc.shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	cmd.Flags().BoolVar(&withManifest, "manifest", false, "embed the run manifest in responses")
	return cmd
}

// app is the wired HTTP service.
type app struct {
	srv        *server.Server
	endpoint   *server.PipelineEndpoint
	components *component.Registry
}

// newApp wires telemetry, the hello pipeline and the HTTP server from
// settings. Telemetry exporters are only started when enabled. The server
// is registered but not started.
func newApp(ctx context.Context, settings *config.Settings, log *logger.Logger, withManifest bool) (*app, error) {
	a := &app{components: component.NewRegistry(log)}
	observers := []pipeline.Observer{pipeline.NewLoggingObserver(log)}

	if settings.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, settings.TracerConfig(), log)
		if err != nil {
			return nil, err
		}
		_ = a.components.Started(component.Stopper("tracer", tp.Shutdown))
		observers = append(observers, pipeline.NewTracingObserver(tp.Tracer(observability.TracerName)))
	}
	if settings.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, settings.MeterConfig(), log)
		if err != nil {
			_ = a.shutdown(context.Background())
			return nil, err
		}
		_ = a.components.Started(component.Stopper("meter", mp.Shutdown))
		metrics, err := observability.NewMetrics(mp.Meter(observability.TracerName))
		if err != nil {
			_ = a.shutdown(context.Background())
			return nil, err
		}
		observers = append(observers, pipeline.NewMetricsObserver(metrics))
	}

	p, err := newHelloPipeline(pipeline.WithObserver(observers...))
	if err != nil {
		_ = a.shutdown(context.Background())
		return nil, err
	}

	a.endpoint = server.NewPipelineEndpoint(p,
		server.WithBinder(server.BindStruct[helloRequest]()),
		server.WithSettings(settings),
		server.WithLogger(log),
		server.WithManifest(withManifest),
		server.WithManifestFormat(settings.ManifestFormat(), settings.Manifest.Indent),
	)

	a.srv = server.New(settings.Server, log)
	a.srv.ApplyDefaults(settings.Name, a.endpoint)
	a.endpoint.Register(a.srv.GinEngine(), "/hello")
	if err := a.components.Register(a.srv); err != nil {
		_ = a.shutdown(context.Background())
		return nil, err
	}
	return a, nil
}

// shutdown stops the server if it was started, then flushes telemetry.
func (a *app) shutdown(ctx context.Context) error {
	return a.components.StopAll(ctx)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/organiser/deploy-trigger/pkg/conftools"
	"github.com/organiser/deploy-trigger/pkg/telemetry"
	"github.com/organiser/deploy-trigger/pkg/trigger"
	"github.com/organiser/deploy-trigger/pkg/version"
)

var maskedConfig = []string{
	"private-key",
}

func main() {
	err := run()
	if err == nil {
		return
	}
	code := trigger.ErrorExitCode(err)
	if code == trigger.ExitInvocationFailure {
		flag.Usage()
	}
	log.Errorf("fatal: %s", err)
	os.Exit(int(code))
}

func run() error {
	// Configuration and context
	cfg := &trigger.Config{}
	conftools.Initialize("deploy-trigger")
	trigger.InitConfig()
	err := conftools.Load(cfg)
	if err != nil {
		return trigger.ErrorWrap(trigger.ExitInvocationFailure, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	// Logging
	trigger.SetupLogging(*cfg)

	// Welcome
	log.Infof("deploy-trigger %s", version.Version())
	ts, err := version.BuildTime()
	if err == nil {
		log.Infof("This version was built %s", ts.Local())
	}

	for _, line := range conftools.Format(maskedConfig) {
		log.Info(line)
	}

	// Tracing
	if len(cfg.OpenTelemetryCollectorURL) > 0 {
		tracerProvider, err := telemetry.New(ctx, "deploy-trigger", cfg.OpenTelemetryCollectorURL)
		if err != nil {
			return trigger.ErrorWrap(trigger.ExitInvocationFailure, err)
		}
		defer func() {
			err := tracerProvider.Shutdown(context.Background())
			if err != nil {
				log.Error(err)
			}
		}()
	}
	if len(cfg.Traceparent) > 0 {
		ctx = telemetry.WithTraceParent(ctx, cfg.Traceparent)
	}

	// Prepare request
	runner, err := trigger.Prepare(cfg)
	if err != nil {
		return err
	}

	if cfg.PrintPayload {
		payload, err := json.MarshalIndent(runner.Request, "", "  ")
		if err != nil {
			return trigger.ErrorWrap(trigger.ExitInternalError, err)
		}
		fmt.Println(string(payload))
	}

	if cfg.DryRun {
		return nil
	}

	return runner.Trigger(ctx)
}

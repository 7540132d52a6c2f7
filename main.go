package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ekaya-inc/dtdl2oas/pkg/config"
	"github.com/ekaya-inc/dtdl2oas/pkg/dtdl"
	"github.com/ekaya-inc/dtdl2oas/pkg/logging"
	"github.com/ekaya-inc/dtdl2oas/pkg/mapping"
	"github.com/ekaya-inc/dtdl2oas/pkg/metadata"
	"github.com/ekaya-inc/dtdl2oas/pkg/naming"
	"github.com/ekaya-inc/dtdl2oas/pkg/oas"
	"github.com/ekaya-inc/dtdl2oas/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(Version, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsLocal())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.String("server", cfg.Server),
		zap.String("input", cfg.InputPath),
		zap.String("mappings", cfg.MappingsPath),
		zap.String("annotations", cfg.AnnotationsPath),
		zap.String("output", cfg.OutputPath),
		zap.Bool("strict", cfg.Strict),
		zap.Bool("validate", cfg.Validate))

	if err := generate(context.Background(), cfg, logger); err != nil {
		logger.Error("Generation failed", zap.Error(err))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "OpenAPI document written to %s\n", cfg.OutputPath)
	return 0
}

// generate runs the whole pipeline. Nothing is written unless every stage succeeds.
func generate(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	graph, err := dtdl.LoadPath(cfg.InputPath, logger)
	if err != nil {
		return err
	}

	md, err := metadata.LoadFile(cfg.AnnotationsPath)
	if err != nil {
		return err
	}

	var abbreviations naming.Abbreviations
	if cfg.NamespacesPath != "" {
		abbreviations, err = mapping.LoadAbbreviationsFile(cfg.NamespacesPath)
		if err != nil {
			return err
		}
	}

	mappings, err := mapping.LoadEndpointsFile(cfg.MappingsPath, graph, mapping.Options{
		Strict: cfg.Strict,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	doc, err := services.NewTranslator(abbreviations, logger).Translate(services.TranslateInput{
		Graph:     graph,
		Mappings:  mappings,
		Metadata:  md,
		ServerURL: cfg.Server,
	})
	if err != nil {
		return err
	}

	data, err := oas.Marshal(doc, oas.FormatForPath(cfg.OutputPath))
	if err != nil {
		return err
	}
	if cfg.Validate {
		if err := oas.Validate(ctx, data); err != nil {
			return err
		}
	}

	if err := oas.WriteFile(cfg.OutputPath, data); err != nil {
		return err
	}
	logger.Info("OpenAPI document written",
		zap.String("path", cfg.OutputPath),
		zap.Int("bytes", len(data)))
	return nil
}

// Command tunnelgen generates a tunnel network from a YAML configuration and
// writes the chunk meshes as Wavefront OBJ files.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chazu/tunnel3d/pkg/config"
	"github.com/chazu/tunnel3d/pkg/kernel/sdfx"
	"github.com/chazu/tunnel3d/pkg/metrics"
)

type options struct {
	configPath  string
	writeConfig string
	seed        int64
	seedSet     bool
	outDir      string
	stlPath     string
	preview     string
	cells       int
	metricsPath string
	jsonOut     bool
	verbose     bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file; defaults are used when empty")
	fs.StringVar(&o.writeConfig, "write-config", "", "write the effective configuration to this file and exit")
	fs.Int64Var(&o.seed, "seed", 0, "override graph.seed")
	fs.StringVar(&o.outDir, "out", "", "directory for per-chunk OBJ files")
	fs.StringVar(&o.stlPath, "stl", "", "write a whole-volume STL preview to this file")
	fs.StringVar(&o.preview, "preview", PreviewField, "preview source: field or network")
	fs.IntVar(&o.cells, "cells", sdfx.DefaultMeshCells, "marching cubes resolution of the STL preview")
	fs.StringVar(&o.metricsPath, "metrics", "", "write Prometheus metrics in text format to this file")
	fs.BoolVar(&o.jsonOut, "json", false, "print the summary as JSON")
	fs.BoolVar(&o.verbose, "v", false, "log stage details")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.seedSet = true
		}
	})
	return o, nil
}

func loadConfig(o options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.seedSet {
		cfg.Graph.Seed = o.seed
	}
	return cfg, nil
}

func main() {
	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	cfg, err := loadConfig(o)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if o.writeConfig != "" {
		if err := cfg.Save(o.writeConfig); err != nil {
			log.Fatalf("write config: %v", err)
		}
		log.Printf("configuration written to %s", o.writeConfig)
		return
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	if err := run(ctx, o, NewApp(cfg, logger, metrics.New(reg)), os.Stdout); err != nil {
		log.Fatalf("tunnelgen: %v", err)
	}
	if o.metricsPath != "" {
		if err := prometheus.WriteToTextfile(o.metricsPath, reg); err != nil {
			log.Fatalf("write metrics: %v", err)
		}
	}
}

// run generates, writes the requested outputs and prints the summary to w.
func run(ctx context.Context, o options, app *App, w io.Writer) error {
	s, err := app.Generate(ctx)
	if err != nil {
		return err
	}
	if o.outDir != "" {
		if err := app.WriteChunks(o.outDir, s); err != nil {
			return err
		}
	}
	if o.stlPath != "" {
		if err := app.WritePreview(o.stlPath, o.preview, o.cells); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	return printSummary(w, s, o.jsonOut)
}

func printSummary(w io.Writer, s *Summary, asJSON bool) error {
	if s == nil {
		return errors.New("no summary")
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	fmt.Fprintf(w, "run %s\n", s.RunID)
	fmt.Fprintf(w, "graph: %d nodes, %d connections, %d close passes\n", s.Nodes, s.Connections, s.Intersections)
	fmt.Fprintf(w, "field: %d of %d voxels occupied\n", s.Occupied, s.Voxels)
	fmt.Fprintf(w, "mesh: %d chunks with surface, %d empty\n", len(s.Chunks), s.EmptyChunks)
	for _, c := range s.Chunks {
		fmt.Fprintf(w, "  chunk %3d at (%g, %g, %g): %d vertices, %d triangles",
			c.Chunk, c.Origin[0], c.Origin[1], c.Origin[2], c.Vertices, c.Triangles)
		if c.File != "" {
			fmt.Fprintf(w, " -> %s", c.File)
		}
		fmt.Fprintln(w)
	}
	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

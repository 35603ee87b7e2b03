package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"findit/internal/config"
	"findit/internal/logger"
	"findit/internal/repository/sqlite"
	"findit/internal/service/ai"
	"findit/internal/service/alias"
	"findit/internal/service/relay"
	"findit/internal/service/vision"
	"findit/internal/service/zone"

	"github.com/urfave/cli/v2"
)

var errFrameLimit = errors.New("frame limit reached")

func setup() (*config.Config, *logger.Logger, error) {
	cfg := config.Load()
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func stringOr(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func resolveAction(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return cli.Exit("a query is required", 1)
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	resolver := alias.NewResolver(alias.LoadOrEmpty(stringOr(c.String(flagAliases), cfg.AliasesPath), log))
	res := resolver.Resolve(query)

	w := c.App.Writer
	fmt.Fprintf(w, "query: %s\n", res.Query)
	fmt.Fprintf(w, "tier:  %s\n", res.Tier)
	for _, name := range res.Names {
		fmt.Fprintf(w, "  %s\n", resolver.DisplayName(name))
	}
	return nil
}

func classifyAction(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	zones := zone.LoadOrEmpty(stringOr(c.String(flagZones), cfg.ZonesPath), log)
	classifier := zone.NewClassifier(zones, zone.LabelsFor(stringOr(c.String(flagLocale), cfg.ZoneLocale)))

	fmt.Fprintln(c.App.Writer, classifier.Classify(c.Float64(flagX), c.Float64(flagY)))
	return nil
}

func relayAction(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	out := c.String(flagOut)
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var capability vision.Capability = vision.Nop{}
	if c.Bool(flagAI) {
		capability = ai.Load(cfg, log)
		if closer, ok := capability.(io.Closer); ok {
			defer closer.Close()
		}
	}

	r := relay.New(capability, relay.Options{
		ConnectTimeout:     cfg.RelayConnectTimeout,
		ReadTimeout:        cfg.RelayReadTimeout,
		ChunkSize:          cfg.RelayChunkSize,
		MaxFrameBytes:      cfg.RelayMaxFrameBytes,
		PassThroughOnError: cfg.RelayPassThrough,
	}, log)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	limit := c.Int(flagFrames)
	written := 0
	stats, err := r.Stream(ctx, c.String(flagURL), c.Bool(flagAI), func(frame []byte) error {
		name := filepath.Join(out, fmt.Sprintf("frame_%05d.jpg", written))
		if err := os.WriteFile(name, frame, 0644); err != nil {
			return err
		}
		written++
		if limit > 0 && written >= limit {
			return errFrameLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFrameLimit) && ctx.Err() == nil {
		return fmt.Errorf("relay stopped after %d frames: %w", written, err)
	}

	fmt.Fprintf(c.App.Writer, "wrote %d frames to %s (%d skipped, %d bytes read)\n", written, out, stats.Skipped, stats.BytesRead)
	return nil
}

func pruneAction(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := sqlite.New(stringOr(c.String(flagDB), cfg.DBPath))
	if err != nil {
		return err
	}
	defer db.Close()

	cutoff := time.Now().Add(-c.Duration(flagOlderThan))
	removed, err := sqlite.NewObservationRepository(db).DeleteOlderThan(cutoff)
	if err != nil {
		return err
	}

	log.Info("Pruned %d observations older than %s", removed, cutoff.Format(time.RFC3339))
	fmt.Fprintf(c.App.Writer, "removed %d observations\n", removed)
	return nil
}

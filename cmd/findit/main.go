// Package main is the findit maintenance CLI: it exercises the resolver,
// the zone classifier and the stream relay outside the server, and prunes
// old observations.
package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

const (
	flagAliases   = "aliases"
	flagZones     = "zones"
	flagLocale    = "locale"
	flagX         = "x"
	flagY         = "y"
	flagURL       = "url"
	flagOut       = "out"
	flagAI        = "ai"
	flagFrames    = "frames"
	flagDB        = "db"
	flagOlderThan = "older-than"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "findit",
		Usage: "inspect and maintain a FindIt installation",
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "show which stored names a query searches for",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagAliases, Usage: "alias table (defaults to ALIASES_PATH)"},
				},
				Action: resolveAction,
			},
			{
				Name:  "classify",
				Usage: "describe where a normalized point lies",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagZones, Usage: "zone table (defaults to ZONES_PATH)"},
					&cli.StringFlag{Name: flagLocale, Usage: "fallback band language: zh or en"},
					&cli.Float64Flag{Name: flagX, Required: true, Usage: "normalized x in [0,1]"},
					&cli.Float64Flag{Name: flagY, Required: true, Usage: "normalized y in [0,1]"},
				},
				Action: classifyAction,
			},
			{
				Name:  "relay",
				Usage: "pull a camera stream and write its frames as JPEG files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagURL, Required: true, Usage: "motion-JPEG stream URL"},
					&cli.StringFlag{Name: flagOut, Value: "frames", Usage: "output directory"},
					&cli.BoolFlag{Name: flagAI, Usage: "annotate frames with the detection model"},
					&cli.IntFlag{Name: flagFrames, Value: 10, Usage: "stop after this many frames (0 for no limit)"},
				},
				Action: relayAction,
			},
			{
				Name:  "prune",
				Usage: "delete observations older than a cutoff",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagDB, Usage: "database path (defaults to DB_PATH)"},
					&cli.DurationFlag{Name: flagOlderThan, Value: 30 * 24 * time.Hour, Usage: "age cutoff"},
				},
				Action: pruneAction,
			},
		},
	}
}

// Package kexd is the operational surface of the MODP key-agreement
// engine: inspect the group table, export and audit group descriptor
// files, and run loopback exchanges for validation and benchmarking.
package kexd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kexd/kexd/entropy"
	"github.com/kexd/kexd/fs"
	"github.com/kexd/kexd/log"
	"github.com/kexd/kexd/mem"
	"github.com/kexd/kexd/metrics"
	"github.com/kexd/kexd/modp"
)

// output of the operational commands; the daemon-side messages go
// through the log package instead.
var output io.Writer = os.Stdout

// Set through -ldflags at build time.
var (
	version   = "master"
	gitCommit = "none"
	buildDate = "unknown"
)

func banner() {
	fmt.Fprintf(output, "kexd %v (date %v, commit %v)\n", version, buildDate, gitCommit)
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "If set, verbosity is at the debug level.",
}

var jsonFlag = &cli.BoolFlag{
	Name:  "json",
	Usage: "Emit logs in JSON format.",
}

var folderFlag = &cli.StringFlag{
	Name:  "folder",
	Value: defaultFolder(),
	Usage: "Folder holding exported group descriptor files, with absolute path.",
}

var groupFlag = &cli.UintFlag{
	Name:  "group",
	Value: uint(modp.MODP2048),
	Usage: "MODP group id (1, 2, 5, 14, 15, 16, 17 or 18).",
}

var outFlag = &cli.StringFlag{
	Name:  "out",
	Usage: "Write the group descriptor to this file instead of the default folder.",
}

var metricsFlag = &cli.StringFlag{
	Name:  "metrics",
	Usage: "Launch a metrics server at the specified (host:)port for the duration of the command.",
}

var entropyFlag = &cli.StringFlag{
	Name:  "entropy",
	Usage: "Path to an executable whose output replaces the default entropy source.",
}

var leakFlag = &cli.BoolFlag{
	Name:  "leak-detective",
	Usage: "Track chunk allocations and report any left unreleased.",
}

var roundsFlag = &cli.IntFlag{
	Name:  "rounds",
	Value: 1,
	Usage: "Number of loopback exchanges to run.",
}

func defaultFolder() string {
	return filepath.Join(fs.HomeFolder(), ".kexd", "groups")
}

// CLI builds the command line application.
func CLI() *cli.App {
	app := cli.NewApp()
	app.Name = "kexd"
	app.Version = version
	app.Usage = "MODP Diffie-Hellman key-agreement engine"
	app.Flags = []cli.Flag{verboseFlag, jsonFlag}

	app.Commands = []*cli.Command{
		{
			Name:   "groups",
			Usage:  "List the supported MODP groups.",
			Action: groupsCmd,
		},
		{
			Name:   "export",
			Usage:  "Write a group descriptor file for out-of-band auditing.",
			Flags:  []cli.Flag{groupFlag, folderFlag, outFlag},
			Action: exportCmd,
		},
		{
			Name:      "check",
			Usage:     "Verify a group descriptor file against the compiled-in table.",
			ArgsUsage: "<group.toml>",
			Action:    checkCmd,
		},
		{
			Name:   "exchange",
			Usage:  "Run a loopback exchange between two fresh endpoints and report timings.",
			Flags:  []cli.Flag{groupFlag, roundsFlag, metricsFlag, entropyFlag, leakFlag},
			Action: exchangeCmd,
		},
	}
	return app
}

func getLogger(c *cli.Context) log.Logger {
	level := log.InfoLevel
	if c.Bool(verboseFlag.Name) {
		level = log.DebugLevel
	}
	return log.New(nil, level, c.Bool(jsonFlag.Name))
}

func groupsCmd(c *cli.Context) error {
	tw := tabwriter.NewWriter(output, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBITS\tCHUNK BYTES\tGENERATOR")
	for _, id := range modp.Groups() {
		g, err := modp.GroupFromID(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", g.ID(), g.ID(), g.Bits(), g.Size(), g.Generator())
	}
	return tw.Flush()
}

func exportCmd(c *cli.Context) error {
	g, err := modp.GroupFromID(modp.GroupID(c.Uint(groupFlag.Name)))
	if err != nil {
		return err
	}
	path := c.String(outFlag.Name)
	if path == "" {
		folder := c.String(folderFlag.Name)
		if err := fs.CreateSecureFolder(folder); err != nil {
			return err
		}
		path = filepath.Join(folder, fmt.Sprintf("%s.toml", g.ID()))
	}
	if err := modp.SaveGroup(path, g); err != nil {
		return err
	}
	fmt.Fprintf(output, "wrote %s descriptor to %s\n", g.ID(), path)
	return nil
}

func checkCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("check expects exactly one group file")
	}
	path := c.Args().First()
	gt, err := modp.LoadGroup(path)
	if err != nil {
		return err
	}
	if err := gt.Verify(); err != nil {
		return fmt.Errorf("%s does NOT match this build: %w", path, err)
	}
	fmt.Fprintf(output, "%s matches the compiled-in %s parameters\n", path, modp.GroupID(gt.ID))
	return nil
}

func exchangeCmd(c *cli.Context) error {
	banner()
	l := getLogger(c)
	id := modp.GroupID(c.Uint(groupFlag.Name))

	if bind := c.String(metricsFlag.Name); bind != "" {
		if listener := metrics.Start(bind); listener != nil {
			defer listener.Close()
		}
	}

	var opts []modp.Option
	if script := c.String(entropyFlag.Name); script != "" {
		l.Infow("using external entropy source", "script", script)
		opts = append(opts, modp.WithEntropy(entropy.NewScriptReader(script)))
	}

	var tracker *mem.Tracker
	if c.Bool(leakFlag.Name) {
		tracker = mem.NewTracker(nil)
		opts = append(opts, modp.WithAllocator(tracker))
	}

	rounds := c.Int(roundsFlag.Name)
	for i := 0; i < rounds; i++ {
		if err := runExchange(l, id, opts, tracker); err != nil {
			metrics.ExchangeCounter.WithLabelValues(id.String(), "error").Inc()
			return err
		}
		metrics.ExchangeCounter.WithLabelValues(id.String(), "ok").Inc()
	}

	if tracker != nil {
		report := tracker.Report()
		if len(report) == 0 {
			fmt.Fprintln(output, "leak detective: no outstanding allocations")
		}
		for _, r := range report {
			fmt.Fprintf(output, "leak detective: %s\n", r)
		}
	}
	return nil
}

func runExchange(l log.Logger, id modp.GroupID, opts []modp.Option, alloc mem.Allocator) error {
	if alloc == nil {
		alloc = mem.Default
	}
	start := time.Now()

	initiator, err := modp.NewExchange(id, opts...)
	if err != nil {
		return err
	}
	defer initiator.Wipe()
	// the responder always uses platform entropy; an operator script
	// feeds only this endpoint's exponent
	responder, err := modp.NewExchange(id, modp.WithAllocator(alloc))
	if err != nil {
		return err
	}
	defer responder.Wipe()

	iPub, err := initiator.PublicValue()
	if err != nil {
		return err
	}
	defer alloc.Free(iPub)
	rPub, err := responder.PublicValue()
	if err != nil {
		return err
	}
	defer alloc.Free(rPub)

	if err := initiator.SetPeerValue(rPub); err != nil {
		return err
	}
	if err := responder.SetPeerValue(iPub); err != nil {
		return err
	}

	iSecret, err := initiator.SharedSecret()
	if err != nil {
		return err
	}
	defer alloc.Free(iSecret)
	rSecret, err := responder.SharedSecret()
	if err != nil {
		return err
	}
	defer alloc.Free(rSecret)

	elapsed := time.Since(start)
	metrics.ExchangeDuration.WithLabelValues(id.String()).Observe(elapsed.Seconds())

	if len(iSecret) != len(rSecret) {
		return fmt.Errorf("secret length mismatch: %d vs %d", len(iSecret), len(rSecret))
	}
	var diff byte
	for i := range iSecret {
		diff |= iSecret[i] ^ rSecret[i]
	}
	if diff != 0 {
		return fmt.Errorf("endpoints disagree on the shared secret")
	}

	key, err := initiator.DeriveKey([]byte("kexd loopback"), 32)
	if err != nil {
		return err
	}
	defer alloc.Free(key)

	l.Infow("exchange complete", "group", id.String(), "chunk_bytes", len(iSecret), "took", elapsed)
	fmt.Fprintf(output, "%s: agreed on a %d-byte secret in %v\n", id, len(iSecret), elapsed)
	return nil
}

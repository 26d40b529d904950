package main

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dalnet/ircstate/internal/config"
	"github.com/dalnet/ircstate/internal/irc"
	"github.com/dalnet/ircstate/internal/storage"
)

// Version information - set at build time via ldflags
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

func main() {
	usage := `ircstate.
Usage:
	ircstate run [--conf <filename>]
	ircstate replay <logfile> [--network <name>]
	ircstate -h | --help
	ircstate --version
Options:
	--conf <filename>  Configuration file to use [default: ./config.yaml].
	--network <name>   Network name to report the replayed snapshot under [default: replay].
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, fmt.Sprintf("ircstate version %s\nBuilt: %s\nCommit: %s", version, buildDate, gitCommit))

	// Set version info in irc package
	irc.Version = version
	irc.BuildDate = buildDate
	irc.GitCommit = gitCommit

	if arguments["replay"].(bool) {
		if err := replay(arguments["<logfile>"].(string), arguments["--network"].(string)); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		return
	}

	run(arguments["--conf"].(string))
}

func run(configPath string) {
	// Make config path absolute
	if !filepath.IsAbs(configPath) {
		wd, _ := os.Getwd()
		configPath = filepath.Join(wd, configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	var opts []irc.Option
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, irc.WithMetrics(irc.NewMetrics(reg)))
		go serveMetrics(cfg.MetricsAddr, reg)
	}

	client, err := irc.NewClient(cfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create IRC client: %v", err)
	}

	// Signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		client.Quit("Received shutdown signal")
		os.Exit(0)
	}()

	log.Printf("Connecting to %s:%d...", cfg.Server, cfg.Port)
	if err := client.Connect(); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	log.Println("Connected, entering main loop...")
	client.Loop()
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Printf("Serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("Metrics server stopped: %v", err)
	}
}

// replay feeds a capture of server lines through a fresh session and prints
// what was negotiated.
func replay(path, network string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	session := irc.NewSession()
	var exceptions []string
	session.OnException(func(e *irc.RawEvent, err error) {
		exceptions = append(exceptions, fmt.Sprintf("%s: %v", e.Command(), err))
	})

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if _, err := session.HandleLine(line); err != nil {
			log.Printf("Skipping line %d: %v", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	printSnapshot(irc.NewSnapshot(session, network), exceptions)
	return nil
}

func printSnapshot(snap storage.Snapshot, exceptions []string) {
	fmt.Printf("Network:          %s\n", snap.Network)
	fmt.Printf("Nick:             %s\n", snap.Nick)
	fmt.Printf("Server:           %s %s\n", snap.Address, snap.Version)
	fmt.Printf("Case mapping:     %s\n", snap.CaseMapping)
	fmt.Printf("Nick length:      %s\n", limitString(snap.NickLengthLimit))
	fmt.Printf("Channel length:   %s\n", limitString(snap.ChannelLengthLimit))
	fmt.Printf("Channel types:    %s\n", snap.ChannelPrefixes)
	fmt.Printf("Status prefixes:  %s\n", snap.StatusPrefixes)
	fmt.Printf("WHOX:             %t\n", snap.WhoX)

	keys := make([]string, 0, len(snap.ISupport))
	for k := range snap.ISupport {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("ISUPPORT:")
	for _, k := range keys {
		if v := snap.ISupport[k]; v != "" {
			fmt.Printf("  %s=%s\n", k, v)
		} else {
			fmt.Printf("  %s\n", k)
		}
	}

	fmt.Printf("MOTD (%d lines):\n", len(snap.MOTD))
	for _, line := range snap.MOTD {
		fmt.Printf("  %s\n", line)
	}

	if len(exceptions) > 0 {
		fmt.Printf("Tracked exceptions (%d):\n", len(exceptions))
		for _, e := range exceptions {
			fmt.Printf("  %s\n", e)
		}
	}
}

func limitString(n int) string {
	if n < 0 {
		return "unknown"
	}
	return fmt.Sprint(n)
}

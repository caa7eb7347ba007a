// Command assetsync bridges Scalefusion device-enrollment webhooks into
// Snipe-IT asset records.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/mattjoyce/assetsync/internal/config"
	"github.com/mattjoyce/assetsync/internal/journal"
	"github.com/mattjoyce/assetsync/internal/lock"
	"github.com/mattjoyce/assetsync/internal/log"
	"github.com/mattjoyce/assetsync/internal/snipeit"
	"github.com/mattjoyce/assetsync/internal/storage"
	"github.com/mattjoyce/assetsync/internal/webhook"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	if len(cliArgs) < 1 {
		printUsage()
		return 1
	}

	cmd := cliArgs[0]
	args := cliArgs[1:]

	switch cmd {
	case "serve":
		return runServe(args)
	case "check":
		return runCheck(args)
	case "version", "--version":
		return runVersion()
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `assetsync - Scalefusion to Snipe-IT webhook bridge

Usage:
  assetsync serve [--config config.yaml]    Start the webhook server
  assetsync check [--config config.yaml]    Validate config and print its fingerprint
  assetsync version                         Print version information
`)
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")

	if fp, err := config.Fingerprint(*configPath); err == nil {
		logger.Info("configuration loaded", "path", *configPath, "fingerprint", fp)
	}

	if cfg.Lock.Path != "" {
		pidLock, err := lock.AcquirePIDLock(cfg.Lock.Path)
		if err != nil {
			logger.Error("another instance appears to be running", "lock", cfg.Lock.Path, "error", err)
			return 1
		}
		defer func() { _ = pidLock.Release() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var eventJournal webhook.EventJournal
	if cfg.Journal.Enabled {
		db, err := storage.OpenSQLite(ctx, cfg.Journal.Path)
		if err != nil {
			logger.Error("failed to open event journal", "path", cfg.Journal.Path, "error", err)
			return 1
		}
		defer func() { _ = db.Close() }()
		eventJournal = journal.NewStore(db)
		logger.Info("event journal enabled", "path", cfg.Journal.Path)
	}

	client := snipeit.New(snipeit.Config{
		URL:      cfg.SnipeIT.URL,
		Token:    cfg.SnipeIT.Token,
		Timeout:  cfg.SnipeIT.Timeout,
		StatusID: cfg.SnipeIT.StatusID,
	}, log.WithComponent("snipeit"))

	server := webhook.New(webhook.Config{
		Listen:          cfg.Listen,
		Path:            cfg.Webhook.Path,
		SignatureHeader: cfg.Webhook.SignatureHeader,
		Secret:          cfg.Webhook.Secret,
		MaxBodySize:     cfg.Webhook.MaxBodySize,
	}, client, eventJournal, log.WithComponent("webhook"))

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited with error", "error", err)
		return 1
	}

	logger.Info("shutdown complete")
	return 0
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	fp, err := config.Fingerprint(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	fmt.Printf("OK: %s\n", *configPath)
	fmt.Printf("fingerprint: %s\n", fp)
	fmt.Printf("listen: %s (path %s)\n", cfg.Listen, cfg.Webhook.Path)
	fmt.Printf("snipeit: %s (timeout %s, status_id %d)\n", cfg.SnipeIT.URL, cfg.SnipeIT.Timeout, cfg.SnipeIT.StatusID)
	if cfg.Journal.Enabled {
		fmt.Printf("journal: %s\n", cfg.Journal.Path)
	} else {
		fmt.Println("journal: disabled")
	}
	return 0
}

func runVersion() int {
	commit := strings.TrimSpace(gitCommit)
	if commit == "" || commit == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
					break
				}
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}

	fmt.Printf("assetsync %s\n", version)
	fmt.Printf("commit: %s\n", commit)
	return 0
}

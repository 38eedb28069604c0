// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// parlor-tui is the terminal front end for a Parlor session: channels
// and chat on the left, documents and dice on the right, everything
// kept fresh by the polling core. All synchronization semantics live
// in the sync package; this binary is presentation only.
//
// Joining:
//
//	# create a session and host it
//	parlor-tui --create "kitchen table" --nickname Kira
//
//	# join an existing session
//	parlor-tui --session 7 --nickname Kira
//
//	# resume the last session recorded in local state
//	parlor-tui
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/parlor-foundation/parlor/lib/config"
	"github.com/parlor-foundation/parlor/lib/ref"
	"github.com/parlor-foundation/parlor/lib/version"
	"github.com/parlor-foundation/parlor/localstate"
	"github.com/parlor-foundation/parlor/remote"
	"github.com/parlor-foundation/parlor/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		authority  string
		sessionArg string
		nickname   string
		createName string
		password   string
		logOutput  string
	)

	flagSet := pflag.NewFlagSet("parlor-tui", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $PARLOR_CONFIG)")
	flagSet.StringVar(&authority, "authority", "", "authority URL (overrides config)")
	flagSet.StringVar(&sessionArg, "session", "", "session id to join")
	flagSet.StringVar(&nickname, "nickname", "", "nickname to join under")
	flagSet.StringVar(&createName, "create", "", "create a session with this name and host it")
	flagSet.StringVar(&password, "password", "", "session password, if required")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	// --version before parse so it works regardless of other flags.
	for _, argument := range os.Args[1:] {
		if argument == "--version" {
			fmt.Println("parlor-tui " + version.Info())
			return nil
		}
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if authority != "" {
		cfg.AuthorityURL = authority
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.EnsureStateDir(); err != nil {
		return err
	}

	// Logging goes to a file (or nowhere): stderr would corrupt the
	// alt-screen display.
	logger, closeLog, err := openLogger(logOutput)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := localstate.NewStore(cfg.StateDir, logger)
	if err != nil {
		return err
	}

	client, err := remote.NewClient(remote.ClientConfig{
		AuthorityURL: cfg.AuthorityURL,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	preferences := store.LoadPreferences()
	if nickname == "" {
		nickname = preferences.DefaultNickname
	}

	membership, err := establishMembership(client, store, sessionArg, createName, nickname, password)
	if err != nil {
		return err
	}

	orchestrator, err := sync.NewOrchestrator(sync.OrchestratorConfig{
		Authority:      membership,
		Logger:         logger,
		Polling:        cfg.Polling,
		StartupTimeout: cfg.StartupTimeout,
	})
	if err != nil {
		return err
	}
	defer orchestrator.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := orchestrator.Start(ctx)
	if err != nil {
		// Terminal initialization failure: offer the recovery options
		// the TUI would, in plain text.
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintf(os.Stderr, "retry, or clear local state with: rm -r %s\n", cfg.StateDir)
		return err
	}

	sessionContext := localstate.SessionContext{
		SessionID: membership.SessionID(),
		Identity:  membership.Identity(),
		Nickname:  membership.Nickname(),
		Host:      session.Host == membership.Identity(),
		Token:     membership.Token(),
	}
	if err := store.SaveSessionContext(sessionContext); err != nil {
		logger.Warn("saving session context failed", "error", err)
	}

	model := newModel(ctx, orchestrator, membership, store, session, preferences)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// loadConfig loads the YAML config from the explicit path if given,
// otherwise from the usual lookup (PARLOR_CONFIG or defaults).
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// establishMembership picks the join path: create, explicit join, or
// resume from the saved session context.
func establishMembership(client *remote.Client, store *localstate.Store, sessionArg, createName, nickname, password string) (*remote.Membership, error) {
	ctx := context.Background()

	if createName != "" {
		if nickname == "" {
			return nil, fmt.Errorf("--create requires --nickname (or a default nickname in preferences)")
		}
		return client.CreateSession(ctx, remote.CreateSessionRequest{
			Name:         createName,
			HostNickname: nickname,
			Password:     password,
		})
	}

	if sessionArg != "" {
		id, err := strconv.ParseUint(sessionArg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid session id %q: %w", sessionArg, err)
		}
		if nickname == "" {
			return nil, fmt.Errorf("--session requires --nickname (or a default nickname in preferences)")
		}
		return client.JoinSession(ctx, ref.SessionID(id), remote.JoinSessionRequest{
			Nickname: nickname,
			Password: password,
		})
	}

	saved, ok := store.LoadSessionContext()
	if !ok {
		return nil, fmt.Errorf("no session specified and no saved session to resume; use --create or --session")
	}
	return client.Resume(saved.SessionID, saved.Identity, saved.Nickname, saved.Token)
}

// openLogger returns a JSON file logger, or a discard logger when no
// path is given.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}
	logger := slog.New(slog.NewJSONHandler(file, nil))
	return logger, func() { file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Parlor — shared tabletop sessions in the terminal.

Creates, joins, or resumes a session against the configured remote
authority and opens the interactive view: channels and chat, shared
documents with live drafts, player documents, dice, and turn order.

Usage:
  parlor-tui [flags]

Examples:
  # create and host a session
  parlor-tui --create "kitchen table" --nickname Kira

  # join session 7
  parlor-tui --session 7 --nickname Kira

  # resume the last session
  parlor-tui

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}

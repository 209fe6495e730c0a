package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/kundihq/kundi/core"
	"github.com/kundihq/kundi/core/roster"
	"github.com/kundihq/kundi/services/chms"
	"github.com/kundihq/kundi/storage/cache"
	sqlxrepos "github.com/kundihq/kundi/storage/database/sqlx"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	db     *sql.DB
	logger core.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  audit [-refresh]    - report grade discrepancies and hygiene anomalies")
	fmt.Println("  fixnames [-apply]   - normalize badly formatted names (dry-run by default)")
	fmt.Println("  migrate COMMAND     - run database migrations (up, down, status, ...)")
	fmt.Println("  purgecache          - drop the local people cache")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	auditCmd := flag.NewFlagSet("audit", flag.ExitOnError)
	auditRefresh := auditCmd.Bool("refresh", false, "Bypass the local cache and pull a fresh listing.")

	fixNamesCmd := flag.NewFlagSet("fixnames", flag.ExitOnError)
	fixNamesApply := fixNamesCmd.Bool("apply", false, "Write the normalized names upstream. Without it, only print them.")

	switch args[1] {
	case "audit":
		if err := auditCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.audit(*auditRefresh)
	case "fixnames":
		if err := fixNamesCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.fixNames(*fixNamesApply)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "purgecache":
		return cli.purgeCache()
	default:
		cli.printUsage()
		return errHelp
	}
}

// rosterService builds the read pipeline the subcommands share: upstream
// client, best-effort cache, and a refreshed projection under the persisted
// cutoff. Prompts for the upstream secret when the config does not carry one.
func (cli *commandLine) rosterService(ctx context.Context, refresh bool) (*roster.Service, *chms.Client, error) {
	if cli.conf.Chms.Secret == "" {
		fmt.Print("Enter ChMS secret:")
		secret, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return nil, nil, err
		}
		if len(secret) == 0 {
			return nil, nil, errHelp
		}
		cli.conf.Chms.Secret = string(secret)
	}

	client := chms.NewClient(cli.conf, cli.logger)

	var rosterCache roster.Cache
	if store, err := cache.New(cli.conf, cli.logger); err == nil {
		rosterCache = store
	}

	cutoff := roster.Cutoff{}
	if cli.db != nil {
		settingsRepo := sqlxrepos.NewSettingsRepository(sqlx.NewDb(cli.db, cli.conf.Database.Engine))
		if saved, ok, err := settingsRepo.LoadCutoff(ctx); err == nil && ok {
			cutoff = saved
		}
	}

	svc := roster.NewService(client, rosterCache, cutoff, cli.logger)
	if _, err := svc.Refresh(ctx, refresh); err != nil {
		return nil, nil, err
	}
	return svc, client, nil
}

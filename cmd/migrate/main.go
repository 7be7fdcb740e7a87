package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"restaurant-booking/internal/pkg/config"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/pkg/logger"

	"ariga.io/atlas-go-sdk/atlasexec"
)

func main() {
	statusOnly := flag.Bool("status", false, "print the migration status and exit")
	dryRun := flag.Bool("dry-run", false, "print pending statements without executing them")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.LoadMigrateConfig()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, log, cfg, *statusOnly, *dryRun); err != nil {
		log.Error("マイグレーションに失敗しました", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg config.MigrateConfig, statusOnly, dryRun bool) error {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return errs.Wrap(err, "resolve migrations dir")
	}
	client, err := atlasexec.NewClient(".", cfg.AtlasBin)
	if err != nil {
		return errs.Wrap(err, "init atlas client")
	}

	dirURL := "file://" + filepath.ToSlash(dir)
	dbURL := cfg.DB.MigrationURL()

	if statusOnly {
		st, err := client.MigrateStatus(ctx, &atlasexec.MigrateStatusParams{DirURL: dirURL, URL: dbURL})
		if err != nil {
			return errs.Wrap(err, "migrate status")
		}
		log.Info("マイグレーション状態",
			"status", st.Status, "current", st.Current, "next", st.Next, "pending", len(st.Pending))
		return nil
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		DirURL: dirURL,
		URL:    dbURL,
		DryRun: dryRun,
	})
	if err != nil {
		return errs.Wrap(err, "migrate apply")
	}
	for _, f := range res.Applied {
		log.Info("マイグレーション実行完了", "file", f.Name, "statements", len(f.Applied))
	}
	log.Info("マイグレーションが完了しました",
		"from", res.Current, "to", res.Target, "applied", len(res.Applied), "dry_run", dryRun)
	return nil
}

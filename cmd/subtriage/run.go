package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/glabrego/subtriage/internal/app"
	"github.com/glabrego/subtriage/internal/auth"
	"github.com/glabrego/subtriage/internal/config"
	"github.com/glabrego/subtriage/internal/report"
	"github.com/glabrego/subtriage/internal/storage"
	"github.com/glabrego/subtriage/internal/subscription"
	"github.com/glabrego/subtriage/internal/tui"
	"github.com/glabrego/subtriage/internal/youtube"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger, err = newLogger(cfg.LogPath, verbose)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	var repo app.Repository
	store, storeErr := openStore(ctx, cfg.DBPath)
	if storeErr != nil {
		logger.Warn("snapshot store unavailable", zap.String("path", cfg.DBPath), zap.Error(storeErr))
		if useSnapshot {
			return fmt.Errorf("storage write check failed (%v). Verify SUBTRIAGE_DB_PATH is writable: %s", storeErr, cfg.DBPath)
		}
	} else {
		defer store.Close()
		repo = store
	}

	session := auth.NewSession()
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	client := youtube.NewClient(cfg.APIBaseURL, session, limiter, nil)
	service := app.NewService(client, repo, app.WithLogger(logger), app.WithMaxPages(cfg.MaxPages))

	var records []subscription.Record
	switch {
	case inputPath != "":
		records, err = service.ImportText(inputPath)
	case jsonPath != "":
		records, err = service.ImportJSON(jsonPath)
	case useSnapshot:
		records, err = service.ImportSnapshot(ctx)
	}
	if err != nil {
		return err
	}

	signIn := func() error {
		if !cfg.HasToken() {
			return errors.New("YOUTUBE_ACCESS_TOKEN is not set")
		}
		return session.SignIn(cfg.AccessToken, cfg.TokenTTL)
	}
	if remote {
		if err := signIn(); err != nil {
			return fmt.Errorf("remote mode: %w", err)
		}
	}

	model := tui.NewModel(service, records, tui.Options{
		FetchOnStart: remote,
		SettleDelay:  cfg.SettleDelay,
		ExportDir:    cfg.ExportDir,
		LocalRecords: records,
		SignIn:       signIn,
		SignOut:      session.SignOut,
	})

	logger.Info("starting tui", zap.Int("records", len(records)), zap.Bool("remote", remote))
	if err := runProgram(model); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func openStore(ctx context.Context, path string) (*storage.Repository, error) {
	repo, err := storage.NewRepository(path)
	if err != nil {
		return nil, err
	}
	if err := repo.Init(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("file not found: %s", args[0])
	}
	defer f.Close()

	records, err := subscription.ExtractReader(f)
	if err != nil {
		return err
	}

	out, err := os.Create(parseOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", parseOutput, err)
	}
	if err := subscription.WriteJSON(out, records); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", parseOutput, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully parsed %d subscriptions.\n", len(records))
	return nil
}

func runArchive(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	records, err := subscription.ReadJSON(f)
	f.Close()
	if err != nil {
		return err
	}

	if len(report.Archived(records)) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived channels to export yet.")
		return nil
	}

	path := archiveOutput
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		path = filepath.Join(cfg.ExportDir, report.DefaultFileName)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = report.WriteArchivePDF(out, records, time.Now())
	closeErr := out.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d archived channels to %s\n", len(report.Archived(records)), path)
	return nil
}

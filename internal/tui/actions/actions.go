package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/subtriage/internal/app"
	"github.com/glabrego/subtriage/internal/report"
	"github.com/glabrego/subtriage/internal/subscription"
	"github.com/glabrego/subtriage/internal/triage"
)

const (
	fetchTimeout  = 60 * time.Second
	syncTimeout   = 10 * time.Second
	exportTimeout = 10 * time.Second
)

type Service interface {
	FetchRemote(ctx context.Context) ([]subscription.Record, error)
	Sync(ctx context.Context, rec subscription.Record, status subscription.Status) (app.SyncResult, error)
	WriteExport(ctx context.Context, dir string, records []subscription.Record) (string, error)
	WriteArchivePDF(dir string, records []subscription.Record, now time.Time) (string, error)
}

type FetchSuccessMsg struct {
	Records  []subscription.Record
	Duration time.Duration
}

type FetchErrorMsg struct {
	Err      error
	Duration time.Duration
}

// SyncSuccessMsg carries a transition whose remote side has been applied.
type SyncSuccessMsg struct {
	Transition triage.Transition
	Result     app.SyncResult
}

type SyncErrorMsg struct {
	Transition triage.Transition
	Err        error
}

// SettleMsg fires once the visual transition of a classification is over.
type SettleMsg struct {
	Transition triage.Transition
}

type ExportSuccessMsg struct {
	Path  string
	Count int
}

type ExportErrorMsg struct {
	Err error
}

type ArchiveSuccessMsg struct {
	Path string
}

// ArchiveSkippedMsg reports that there was nothing archived to write.
type ArchiveSkippedMsg struct{}

type ArchiveErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ClearStatusMsg struct {
	ID int
}

func FetchRemoteCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		start := time.Now()

		records, err := service.FetchRemote(ctx)
		if err != nil {
			return FetchErrorMsg{Err: err, Duration: time.Since(start)}
		}
		return FetchSuccessMsg{Records: records, Duration: time.Since(start)}
	}
}

func SyncCmd(service Service, rec subscription.Record, t triage.Transition) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		res, err := service.Sync(ctx, rec, t.Status)
		if err != nil {
			return SyncErrorMsg{Transition: t, Err: err}
		}
		return SyncSuccessMsg{Transition: t, Result: res}
	}
}

// SettleCmd schedules the one-shot commit of t after delay.
func SettleCmd(t triage.Transition, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return SettleMsg{Transition: t} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return SettleMsg{Transition: t}
	})
}

func ExportCmd(service Service, dir string, records []subscription.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		path, err := service.WriteExport(ctx, dir, records)
		if err != nil {
			return ExportErrorMsg{Err: err}
		}
		return ExportSuccessMsg{Path: path, Count: len(records)}
	}
}

func ArchivePDFCmd(service Service, dir string, records []subscription.Record, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := service.WriteArchivePDF(dir, records, now())
		if errors.Is(err, report.ErrNothingArchived) {
			return ArchiveSkippedMsg{}
		}
		if err != nil {
			return ArchiveErrorMsg{Err: err}
		}
		return ArchiveSuccessMsg{Path: path}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened channel in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

func ClearStatusCmd(id int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/subtriage/internal/subscription"
	"github.com/glabrego/subtriage/internal/triage"
	tuiactions "github.com/glabrego/subtriage/internal/tui/actions"
	"github.com/glabrego/subtriage/internal/tui/platform"
	tuitheme "github.com/glabrego/subtriage/internal/tui/theme"
)

type Service = tuiactions.Service

// Options configures a Model beyond its service and seed records.
type Options struct {
	// Remote marks the seed records as coming from the signed-in account.
	Remote bool
	// FetchOnStart loads the account's subscriptions from Init.
	FetchOnStart bool
	SettleDelay  time.Duration
	ExportDir    string
	Filter       triage.Filter
	// LocalRecords are restored when the user signs out.
	LocalRecords []subscription.Record
	SignIn       func() error
	SignOut      func()
}

type alert struct {
	title string
	body  string
}

type Model struct {
	service      Service
	board        *triage.Board
	localRecords []subscription.Record
	remote       bool
	fetchOnStart bool
	swipeMode    bool
	settleDelay  time.Duration
	exportDir    string
	signInFn     func() error
	signOutFn    func()
	openURLFn    func(string) error
	copyURLFn    func(string) error
	nowFn        func() time.Time

	search   textinput.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	showHelp bool

	width    int
	height   int
	loading  bool
	status   string
	statusID int
	err      error
	alert    *alert
	theme    tuitheme.Theme
}

func NewModel(service Service, records []subscription.Record, opts Options) Model {
	search := textinput.New()
	search.Placeholder = "Search channels"
	search.Prompt = "/ "
	search.CharLimit = 120

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	local := opts.LocalRecords
	if local == nil && !opts.Remote {
		local = records
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	m := Model{
		service:      service,
		board:        triage.NewBoard(records, opts.Filter),
		localRecords: subscription.Normalize(local),
		remote:       opts.Remote,
		fetchOnStart: opts.FetchOnStart && service != nil,
		settleDelay:  opts.SettleDelay,
		exportDir:    exportDir,
		signInFn:     opts.SignIn,
		signOutFn:    opts.SignOut,
		openURLFn:    platform.OpenURLInBrowser,
		copyURLFn:    platform.CopyToClipboard,
		nowFn:        time.Now,
		search:       search,
		spinner:      spin,
		help:         help.New(),
		keys:         defaultKeyMap(),
		theme:        tuitheme.Default(),
	}
	m.loading = m.fetchOnStart
	return m
}

func (m Model) Init() tea.Cmd {
	if !m.fetchOnStart {
		return nil
	}
	return tea.Batch(m.spinner.Tick, tuiactions.FetchRemoteCmd(m.service))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tuiactions.FetchSuccessMsg:
		m.loading = false
		m.remote = true
		m.err = nil
		m.board.Replace(msg.Records)
		m.board.SetFilter(triage.FilterAll)
		return m.setStatus(fmt.Sprintf("Loaded %d subscriptions in %s", len(msg.Records), msg.Duration.Round(time.Millisecond)), 3*time.Second)
	case tuiactions.FetchErrorMsg:
		m.loading = false
		if m.signOutFn != nil {
			m.signOutFn()
		}
		m.remote = false
		m.alert = &alert{title: "Could not load your subscriptions", body: msg.Err.Error()}
		return m, nil
	case tuiactions.SyncSuccessMsg:
		t := msg.Transition
		if !m.board.Pending(t) {
			return m, nil
		}
		if msg.Result.SubscriptionID != "" {
			if err := m.board.AttachSubscription(t.ID, msg.Result.SubscriptionID); err != nil {
				m.board.Abort(t)
				return m, nil
			}
		}
		t.ClearSubscription = msg.Result.Removed
		return m, tuiactions.SettleCmd(t, m.settleDelay)
	case tuiactions.SyncErrorMsg:
		if !m.board.Pending(msg.Transition) {
			return m, nil
		}
		m.board.Abort(msg.Transition)
		m.alert = &alert{title: syncFailureTitle(msg.Transition.Status), body: msg.Err.Error()}
		return m, nil
	case tuiactions.SettleMsg:
		// A transition dropped by sign-in or sign-out no longer applies.
		_ = m.board.Commit(msg.Transition)
		return m, nil
	case tuiactions.ExportSuccessMsg:
		m.err = nil
		return m.setStatus(fmt.Sprintf("Exported %d channels to %s", msg.Count, msg.Path), 4*time.Second)
	case tuiactions.ExportErrorMsg:
		m.status = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.ArchiveSuccessMsg:
		m.err = nil
		return m.setStatus("Archive list written to "+msg.Path, 4*time.Second)
	case tuiactions.ArchiveSkippedMsg:
		return m.setStatus("No archived channels to export yet", 3*time.Second)
	case tuiactions.ArchiveErrorMsg:
		m.status = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.OpenURLSuccessMsg:
		return m.setStatus(msg.Status, 3*time.Second)
	case tuiactions.OpenURLErrorMsg:
		return m.setStatus(msg.Err.Error(), 4*time.Second)
	case tuiactions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.alert != nil {
		switch msg.String() {
		case "enter", "esc":
			m.alert = nil
		}
		return m, nil
	}

	if m.search.Focused() {
		switch msg.String() {
		case "enter", "esc":
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if term := m.search.Value(); term != m.board.SearchTerm() {
			m.board.SetSearchTerm(term)
		}
		return m, cmd
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.String() == "esc":
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if m.swipeMode {
		switch {
		case key.Matches(msg, m.keys.SwipeKeep):
			return m.classifyCurrent(subscription.StatusKeep)
		case key.Matches(msg, m.keys.SwipeToss):
			return m.classifyCurrent(subscription.StatusToss)
		case key.Matches(msg, m.keys.SwipeArchive):
			return m.classifyCurrent(subscription.StatusArchive)
		case key.Matches(msg, m.keys.SwipeSkip):
			m.board.Advance(1)
			return m, nil
		}
	} else {
		switch {
		case key.Matches(msg, m.keys.Keep):
			return m.classifyCurrent(subscription.StatusKeep)
		case key.Matches(msg, m.keys.Toss):
			return m.classifyCurrent(subscription.StatusToss)
		case key.Matches(msg, m.keys.Archive):
			return m.classifyCurrent(subscription.StatusArchive)
		case key.Matches(msg, m.keys.Prev):
			m.board.Advance(-1)
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.board.Advance(1)
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.ToggleSwipe):
		m.swipeMode = !m.swipeMode
		if m.swipeMode {
			return m.setStatus("Swipe mode: on", 2*time.Second)
		}
		return m.setStatus("Swipe mode: off", 2*time.Second)
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Filter):
		next := m.board.Filter().Next()
		m.board.SetFilter(next)
		return m.setStatus("Filter: "+string(next), 2*time.Second)
	case key.Matches(msg, m.keys.Export):
		if m.service == nil {
			return m.setStatus("Export is not available", 3*time.Second)
		}
		return m, tuiactions.ExportCmd(m.service, m.exportDir, m.board.Records())
	case key.Matches(msg, m.keys.ArchivePDF):
		if m.service == nil {
			return m.setStatus("Archive list is not available", 3*time.Second)
		}
		return m, tuiactions.ArchivePDFCmd(m.service, m.exportDir, m.board.Records(), m.nowFn)
	case key.Matches(msg, m.keys.Open):
		return m.openCurrentChannel(false)
	case key.Matches(msg, m.keys.Copy):
		return m.openCurrentChannel(true)
	case key.Matches(msg, m.keys.SignIn):
		return m.signIn()
	case key.Matches(msg, m.keys.SignOut):
		return m.signOut()
	}
	return m, nil
}

// classifyCurrent starts moving the selected record into status. Remote mode
// applies the account change first; the status itself only lands once the
// settle delay has passed.
func (m Model) classifyCurrent(status subscription.Status) (tea.Model, tea.Cmd) {
	rec, ok := m.board.Current()
	if !ok {
		return m, nil
	}
	t, err := m.board.Begin(rec.ID, status)
	if errors.Is(err, triage.ErrTransitionInFlight) {
		return m.setStatus("Still settling the previous action on "+rec.Name, 2*time.Second)
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	if m.remote && m.service != nil {
		return m, tuiactions.SyncCmd(m.service, rec, t)
	}
	return m, tuiactions.SettleCmd(t, m.settleDelay)
}

func (m Model) openCurrentChannel(copyOnly bool) (tea.Model, tea.Cmd) {
	rec, ok := m.board.Current()
	if !ok {
		return m, nil
	}
	url, err := platform.ChannelURL(rec.Handle)
	if err != nil {
		return m.setStatus(err.Error(), 3*time.Second)
	}
	if copyOnly {
		return m, tuiactions.CopyURLCmd(url, m.copyURLFn)
	}
	return m, tuiactions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
}

func (m Model) signIn() (tea.Model, tea.Cmd) {
	if m.remote {
		return m.setStatus("Already signed in", 2*time.Second)
	}
	if m.signInFn == nil || m.service == nil {
		return m.setStatus("No account access configured", 3*time.Second)
	}
	if err := m.signInFn(); err != nil {
		m.alert = &alert{title: "Sign-in failed", body: err.Error()}
		return m, nil
	}
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, tuiactions.FetchRemoteCmd(m.service))
}

func (m Model) signOut() (tea.Model, tea.Cmd) {
	if !m.remote {
		return m, nil
	}
	if m.signOutFn != nil {
		m.signOutFn()
	}
	m.remote = false
	m.board.Replace(m.localRecords)
	m.board.SetFilter(triage.Filter(subscription.StatusPending))
	m.search.SetValue("")
	m.board.SetSearchTerm("")
	return m.setStatus("Signed out", 2*time.Second)
}

func (m Model) setStatus(status string, ttl time.Duration) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, tuiactions.ClearStatusCmd(m.statusID, ttl)
}

func syncFailureTitle(status subscription.Status) string {
	if status == subscription.StatusKeep {
		return "Could not subscribe"
	}
	return "Could not unsubscribe"
}

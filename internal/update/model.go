package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/wellnessd/internal/account"
	"github.com/sandeepkv93/wellnessd/internal/engine"
	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/notify"
	"github.com/sandeepkv93/wellnessd/internal/scheduler"
	"github.com/sandeepkv93/wellnessd/internal/settings"
	"github.com/sandeepkv93/wellnessd/internal/storage"
)

type View string

const (
	ViewSignIn        View = "Sign in"
	ViewDashboard     View = "Dashboard"
	ViewSettings      View = "Settings"
	ViewNotifications View = "Notifications"
	ViewReports       View = "Reports"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Dashboard     string
	Settings      string
	Notifications string
	Reports       string
	Help          string
	Quit          string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type SignInState struct {
	Register bool
	Focus    int
	Err      string
	Busy     bool
}

type SettingsFormState struct {
	Cursor int
	Err    string
}

type HistoryState struct {
	Cursor int
}

type ReportsState struct {
	Rows []storage.DailyStat
	Err  string
}

// Deps are the services the model drives. Accounts and Stats may be nil.
type Deps struct {
	Context   context.Context
	Engine    *engine.Engine
	Settings  *settings.Store
	Notifier  *notify.Dispatcher
	Scheduler *scheduler.Engine
	Accounts  *account.Service
	Stats     storage.StatsStore
	Config    RuntimeConfig
	Resume    []engine.TickRequest
}

type Model struct {
	CurrentView View
	Keys        GlobalKeyMap
	Status      StatusBar
	Palette     CommandPaletteState
	HelpVisible bool
	Quitting    bool
	LastError   error
	Session     *account.Session
	Banner      string
	SignIn      SignInState
	Form        SettingsFormState
	History     HistoryState
	Reports     ReportsState

	ctx       context.Context
	engine    *engine.Engine
	settings  *settings.Store
	notifier  *notify.Dispatcher
	scheduler *scheduler.Engine
	accounts  *account.Service
	stats     storage.StatsStore
	cfg       RuntimeConfig
	resume    []engine.TickRequest
	authCh    chan *account.Session

	screenProgress  progress.Model
	breakProgress   progress.Model
	waterProgress   progress.Model
	reportsTable    table.Model
	emailInput      textinput.Model
	passwordInput   textinput.Model
	nameInput       textinput.Model
	commandInput    textinput.Model
	authSpinner     spinner.Model
	helpModel       help.Model
	historyViewport viewport.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// MachineTickMsg is one second of a machine's tick chain.
type MachineTickMsg struct {
	Machine engine.Machine
	Gen     uint64
}

type WindowTickMsg struct{}

// ExpiryMsg carries a toast dismissal or banner hide.
type ExpiryMsg struct {
	Event     scheduler.Event
	FromQueue bool
}

type AuthStateMsg struct {
	Session *account.Session
}

// RemoteCommandMsg is an action forwarded from the local HTTP API.
type RemoteCommandMsg struct {
	Action string
}

type authResultMsg struct {
	err error
}

type reportsLoadedMsg struct {
	rows []storage.DailyStat
	err  error
}

func NewModel(deps Deps) Model {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := deps.Config.Resolve()
	m := Model{
		CurrentView: ViewDashboard,
		Keys: GlobalKeyMap{
			Dashboard:     "1",
			Settings:      "2",
			Notifications: "3",
			Reports:       "4",
			Help:          "?",
			Quit:          "q",
		},
		ctx:       ctx,
		engine:    deps.Engine,
		settings:  deps.Settings,
		notifier:  deps.Notifier,
		scheduler: deps.Scheduler,
		accounts:  deps.Accounts,
		stats:     deps.Stats,
		cfg:       cfg,
		resume:    deps.Resume,
	}
	if m.notifier == nil {
		m.notifier = notify.NewDispatcher()
	}
	if m.accounts != nil {
		m.authCh = make(chan *account.Session, 8)
		m.CurrentView = ViewSignIn
		ch := m.authCh
		m.accounts.OnAuthStateChanged(func(s *account.Session) {
			select {
			case ch <- s:
			default:
			}
		})
		if session, ok := m.accounts.Current(); ok {
			m.Session = &session
			m.CurrentView = ViewDashboard
		}
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m Model) currentSettings() model.Settings {
	if m.settings == nil {
		return model.DefaultSettings()
	}
	return m.settings.Snapshot()
}

func (m Model) now() time.Time {
	if m.engine != nil {
		return m.engine.Snapshot().At
	}
	return time.Now()
}

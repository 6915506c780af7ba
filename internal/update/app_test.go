package update

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/account"
	"github.com/sandeepkv93/wellnessd/internal/engine"
	"github.com/sandeepkv93/wellnessd/internal/notify"
	"github.com/sandeepkv93/wellnessd/internal/scheduler"
	"github.com/sandeepkv93/wellnessd/internal/settings"
	"github.com/sandeepkv93/wellnessd/internal/storage"
	"github.com/sandeepkv93/wellnessd/internal/timer"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type harness struct {
	repo     *storage.SQLRepository
	engine   *engine.Engine
	settings *settings.Store
	notifier *notify.Dispatcher
	accounts *account.Service
}

func newHarness(t *testing.T, withAccounts bool) (*harness, Model) {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "wellnessd.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	clock := timer.ClockFunc(func() time.Time { return testNow })
	store := settings.Load(t.Context(), repo, nil)
	dispatcher := notify.NewDispatcher(notify.WithClock(clock.Now))
	eng := engine.New(store, repo, engine.WithClock(clock), engine.WithNotifier(dispatcher))
	eng.Restore(t.Context())
	t.Cleanup(Wire(t.Context(), store, eng, dispatcher))

	h := &harness{repo: repo, engine: eng, settings: store, notifier: dispatcher}
	deps := Deps{
		Context:  t.Context(),
		Engine:   eng,
		Settings: store,
		Notifier: dispatcher,
		Stats:    repo,
		Config:   RuntimeConfig{StateDir: t.TempDir()},
	}
	if withAccounts {
		h.accounts = account.NewService(repo, account.WithHashCost(bcrypt.MinCost))
		deps.Accounts = h.accounts
	}
	return h, NewModel(deps)
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return next
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func runPalette(t *testing.T, m Model, line string) Model {
	t.Helper()
	m = send(t, m, keyRunes("/"))
	if !m.Palette.Active {
		t.Fatalf("expected palette to open")
	}
	m = send(t, m, keyRunes(line))
	return send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestNewModelDefaults(t *testing.T) {
	_, m := newHarness(t, false)
	if m.CurrentView != ViewDashboard {
		t.Fatalf("expected default view %q, got %q", ViewDashboard, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Init() == nil {
		t.Fatalf("expected init to schedule the window tick")
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	_, m := newHarness(t, false)
	m = send(t, m, keyRunes("2"))
	if m.CurrentView != ViewSettings {
		t.Fatalf("expected settings view, got %q", m.CurrentView)
	}
	m = send(t, m, keyRunes("3"))
	if m.CurrentView != ViewNotifications {
		t.Fatalf("expected notifications view, got %q", m.CurrentView)
	}
	m = send(t, m, keyRunes("1"))
	if m.CurrentView != ViewDashboard {
		t.Fatalf("expected dashboard view, got %q", m.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	_, m := newHarness(t, false)
	m = send(t, m, SwitchViewMsg{View: ViewReports})
	if m.CurrentView != ViewReports {
		t.Fatalf("expected reports view, got %q", m.CurrentView)
	}
	m = send(t, m, SwitchViewMsg{View: View("Unknown")})
	if m.CurrentView != ViewReports {
		t.Fatalf("expected view unchanged for unknown view, got %q", m.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	_, m := newHarness(t, false)
	m = send(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m = send(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
	m = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
}

func TestScreenToggleStartsTickChain(t *testing.T) {
	h, m := newHarness(t, false)
	updated, cmd := m.Update(keyRunes("s"))
	m = updated.(Model)
	if cmd == nil {
		t.Fatalf("expected a tick command after starting")
	}
	if !h.engine.Snapshot().Screen.Running {
		t.Fatalf("expected screen tracker running")
	}

	gen := h.engine.Generation(engine.MachineScreen)
	for i := 0; i < 3; i++ {
		m = send(t, m, MachineTickMsg{Machine: engine.MachineScreen, Gen: gen})
	}
	if got := h.engine.Snapshot().Screen.ElapsedSeconds; got != 3 {
		t.Fatalf("expected 3 elapsed seconds, got %d", got)
	}
	if !strings.Contains(m.View(), "Screen time") {
		t.Fatalf("expected dashboard to render the screen meter")
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	h, m := newHarness(t, false)
	m = send(t, m, keyRunes("s"))
	stale := h.engine.Generation(engine.MachineScreen)
	m = send(t, m, keyRunes("s"))
	if h.engine.Snapshot().Screen.Running {
		t.Fatalf("expected screen tracker paused")
	}

	updated, cmd := m.Update(MachineTickMsg{Machine: engine.MachineScreen, Gen: stale})
	_ = updated.(Model)
	if got := h.engine.Snapshot().Screen.ElapsedSeconds; got != 0 {
		t.Fatalf("expected stale tick ignored, elapsed %d", got)
	}
	if cmd != nil {
		t.Fatalf("expected stale tick to end its chain")
	}
}

func TestBreakNowRefusedOutsideWindow(t *testing.T) {
	h, m := newHarness(t, false)
	m = send(t, m, keyRunes("b"))
	if !h.engine.Snapshot().Breaks.Started {
		t.Fatalf("expected break cycle started")
	}
	m = send(t, m, keyRunes("n"))
	if !m.Status.IsError {
		t.Fatalf("expected refused break now, got %+v", m.Status)
	}
	if h.engine.Snapshot().Breaks.BreaksTaken != 0 {
		t.Fatalf("expected no break taken")
	}
	m = send(t, m, keyRunes("c"))
	if !m.Status.IsError || m.Status.Text != "no break in progress" {
		t.Fatalf("expected refused cancel, got %+v", m.Status)
	}
}

func TestWaterKeyRecordsGlassAndToastExpires(t *testing.T) {
	h, m := newHarness(t, false)
	m = send(t, m, keyRunes("w"))
	if m.Status.Text != "glass recorded (1/8)" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	visible := h.notifier.Visible()
	if len(visible) != 1 {
		t.Fatalf("expected one toast, got %d", len(visible))
	}
	if !strings.Contains(m.View(), visible[0].Title) {
		t.Fatalf("expected toast title in view")
	}

	m = send(t, m, ExpiryMsg{Event: scheduler.Event{Kind: scheduler.KindToastDismiss, Ref: visible[0].ID}})
	if len(h.notifier.Visible()) != 0 {
		t.Fatalf("expected toast dismissed")
	}
	if h.notifier.UnreadCount() != 0 {
		t.Fatalf("expected dismissed toast marked read")
	}
}

func TestRemoteCommandRunsAction(t *testing.T) {
	h, m := newHarness(t, false)
	m = send(t, m, RemoteCommandMsg{Action: ActionWater})
	if got := h.engine.Snapshot().Hydration.Glasses; got != 1 {
		t.Fatalf("expected one glass, got %d", got)
	}
	m = send(t, m, RemoteCommandMsg{Action: "bogus"})
	if !m.Status.IsError {
		t.Fatalf("expected unknown action error")
	}
}

func TestHydrationBannerShownAndHidden(t *testing.T) {
	h, m := newHarness(t, false)
	m = runPalette(t, m, "set water-interval 1")
	if h.settings.Snapshot().WaterReminderIntervalMin != 1 {
		t.Fatalf("expected water interval 1, status %+v", m.Status)
	}
	m = send(t, m, keyRunes("w"))
	gen := h.engine.Generation(engine.MachineHydration)
	for i := 0; i < 60; i++ {
		m = send(t, m, MachineTickMsg{Machine: engine.MachineHydration, Gen: gen})
	}
	if m.Banner == "" {
		t.Fatalf("expected hydration banner after the interval")
	}
	m = send(t, m, ExpiryMsg{Event: scheduler.Event{Kind: scheduler.KindBannerHide, Ref: bannerRef}})
	if m.Banner != "" {
		t.Fatalf("expected banner hidden, got %q", m.Banner)
	}
}

func TestPaletteSetUpdatesSettingsAndEngine(t *testing.T) {
	h, m := newHarness(t, false)
	m = runPalette(t, m, "set break-interval 30")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %+v", m.Status)
	}
	if got := h.settings.Snapshot().BreakIntervalMin; got != 30 {
		t.Fatalf("expected break interval 30, got %d", got)
	}
	if got := h.engine.Snapshot().Breaks.RemainingSeconds; got != 30*60 {
		t.Fatalf("expected engine to see the new interval, got %d", got)
	}

	m = runPalette(t, m, "set break-interval 0")
	if !m.Status.IsError {
		t.Fatalf("expected invalid value rejected")
	}
	if got := h.settings.Snapshot().BreakIntervalMin; got != 30 {
		t.Fatalf("expected interval unchanged, got %d", got)
	}

	m = runPalette(t, m, "frobnicate")
	if !m.Status.IsError {
		t.Fatalf("expected unknown command error")
	}
}

func TestPaletteExportImportRoundTrip(t *testing.T) {
	h, m := newHarness(t, false)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	m = runPalette(t, m, "export "+path)
	if m.Status.IsError {
		t.Fatalf("export failed: %+v", m.Status)
	}
	m = runPalette(t, m, "set break-goal 3")
	if h.settings.Snapshot().BreakGoalCount != 3 {
		t.Fatalf("expected goal 3")
	}
	m = runPalette(t, m, "import "+path)
	if m.Status.IsError {
		t.Fatalf("import failed: %+v", m.Status)
	}
	if got := h.settings.Snapshot().BreakGoalCount; got != 8 {
		t.Fatalf("expected imported goal 8, got %d", got)
	}
}

func TestSettingsFormStepsAndRestoresDefaults(t *testing.T) {
	h, m := newHarness(t, false)
	m = send(t, m, keyRunes("2"))
	m = send(t, m, keyRunes("l"))
	if got := h.settings.Snapshot().ScreenTimeLimitHours; got != 8.5 {
		t.Fatalf("expected limit 8.5, got %v", got)
	}
	m = send(t, m, keyRunes("j"))
	if m.Form.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.Form.Cursor)
	}
	m = send(t, m, keyRunes("d"))
	if got := h.settings.Snapshot().ScreenTimeLimitHours; got != 8 {
		t.Fatalf("expected defaults restored, got %v", got)
	}
}

func TestHelpToggle(t *testing.T) {
	_, m := newHarness(t, false)
	m = send(t, m, keyRunes("?"))
	if !m.HelpVisible {
		t.Fatalf("expected help visible")
	}
	m = send(t, m, keyRunes("?"))
	if m.HelpVisible {
		t.Fatalf("expected help hidden")
	}
}

func TestReportsRowsPutTodayFirst(t *testing.T) {
	h, m := newHarness(t, false)
	m = send(t, m, reportsLoadedMsg{rows: []storage.DailyStat{
		{Day: "2026-03-09", ScreenSeconds: 3600, BreaksTaken: 2, Glasses: 5},
		{Day: "2026-03-08", ScreenSeconds: 7200, BreaksTaken: 4, Glasses: 8},
	}})
	rows := m.reportRows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Day != h.engine.Today().Day || rows[1].Day != "2026-03-09" {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestSignInFlowFollowsAuthState(t *testing.T) {
	h, m := newHarness(t, true)
	if m.CurrentView != ViewSignIn {
		t.Fatalf("expected sign in view, got %q", m.CurrentView)
	}
	m = send(t, m, keyRunes("2"))
	if m.CurrentView != ViewSignIn {
		t.Fatalf("expected view keys ignored while signed out")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.SignIn.Err == "" {
		t.Fatalf("expected validation error for empty form")
	}

	m = send(t, m, keyRunes("sam@example.com"))
	if got := m.emailInput.Value(); got != "sam@example.com" {
		t.Fatalf("expected email typed, got %q", got)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.SignIn.Focus != fieldPassword {
		t.Fatalf("expected password focus, got %d", m.SignIn.Focus)
	}

	if _, err := h.accounts.Register(t.Context(), "sam@example.com", "secret1", "Sam", h.settings.Snapshot()); err != nil {
		t.Fatalf("register: %v", err)
	}
	session, _ := h.accounts.Current()
	m = send(t, m, AuthStateMsg{Session: &session})
	if m.CurrentView != ViewDashboard || m.Session == nil {
		t.Fatalf("expected dashboard after sign in, got %q", m.CurrentView)
	}

	m = send(t, m, AuthStateMsg{Session: nil})
	if m.CurrentView != ViewSignIn {
		t.Fatalf("expected sign in view after sign out, got %q", m.CurrentView)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		65:   "01:05",
		3725: "1:02:05",
	}
	for in, want := range cases {
		if got := formatDuration(in); got != want {
			t.Fatalf("formatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(0.5, 10); got != "[#####-----]" {
		t.Fatalf("unexpected bar: %q", got)
	}
}

func TestEveryActionIsKnown(t *testing.T) {
	_, m := newHarness(t, false)
	for _, action := range Actions() {
		m = send(t, m, RemoteCommandMsg{Action: action})
		if strings.HasPrefix(m.Status.Text, "unknown action") {
			t.Fatalf("action %q not handled", action)
		}
	}
}

package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pricetrack/internal/actions"
	"github.com/five82/pricetrack/internal/state"
	"github.com/five82/pricetrack/internal/testutil"
)

type fakeStore struct {
	s state.State
}

func (f *fakeStore) Snapshot() state.State { return f.s.Clone() }

func (f *fakeStore) Subscribe(func(state.State)) func() { return func() {} }

type fakeDispatcher struct {
	mu      sync.Mutex
	calls   []string
	addFail bool
	lastAdd actions.NewProduct
}

func (f *fakeDispatcher) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeDispatcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeDispatcher) SignIn(_ context.Context, c actions.Credentials) {
	f.record("signin:" + c.Email)
}

func (f *fakeDispatcher) SignUp(_ context.Context, r actions.Registration) {
	f.record("signup:" + r.Name + ":" + r.Email)
}

func (f *fakeDispatcher) SignOut(context.Context) { f.record("signout") }

func (f *fakeDispatcher) AddProduct(_ context.Context, p actions.NewProduct, onDone func()) {
	f.mu.Lock()
	f.lastAdd = p
	f.mu.Unlock()
	f.record("add:" + p.Link)
	if !f.addFail && onDone != nil {
		onDone()
	}
}

func (f *fakeDispatcher) FetchAllProducts(context.Context) { f.record("fetch") }

func (f *fakeDispatcher) UpdateProfilePic(_ context.Context, url string) {
	f.record("pic:" + url)
}

func (f *fakeDispatcher) ClearAddProductStatus() { f.record("clear") }

func newModel(t *testing.T, s state.State) (Model, *fakeDispatcher) {
	t.Helper()
	d := &fakeDispatcher{}
	m := New(Options{Store: &fakeStore{s: s}, Actions: d, ThemeName: "Nightfox"})
	return m, d
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func signedIn() state.State {
	return testutil.NewStateBuilder().LoggedIn(testutil.User("ada")).Build()
}

func TestView_SignedOutShowsSignInForm(t *testing.T) {
	m, _ := newModel(t, state.Initial())

	out := m.View()
	if !strings.Contains(out, "Sign in") {
		t.Fatalf("View() missing sign-in form:\n%s", out)
	}
	if !strings.Contains(out, "signed out") {
		t.Fatalf("View() missing signed-out badge:\n%s", out)
	}
}

func TestSubmitAuth_SignsIn(t *testing.T) {
	m, d := newModel(t, state.Initial())
	m.authInputs[fieldEmail].SetValue(" ada@example.com ")
	m.authInputs[fieldPassword].SetValue("secret")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter returned nil cmd")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("sign-in cmd returned %T, want nil", msg)
	}
	if got := d.Calls(); len(got) != 1 || got[0] != "signin:ada@example.com" {
		t.Fatalf("calls = %v, want [signin:ada@example.com]", got)
	}
	if m.formError != "" {
		t.Fatalf("formError = %q, want empty", m.formError)
	}
}

func TestSubmitAuth_RequiresEmailAndPassword(t *testing.T) {
	m, d := newModel(t, state.Initial())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("enter with empty form returned a cmd")
	}
	if m.formError == "" {
		t.Fatalf("formError empty, want validation message")
	}
	if got := d.Calls(); len(got) != 0 {
		t.Fatalf("calls = %v, want none", got)
	}
}

func TestSubmitAuth_IgnoredWhilePending(t *testing.T) {
	m, d := newModel(t, testutil.NewStateBuilder().Pending().Build())
	m.authInputs[fieldEmail].SetValue("ada@example.com")
	m.authInputs[fieldPassword].SetValue("secret")

	if _, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("enter while pending returned a cmd")
	}
	if got := d.Calls(); len(got) != 0 {
		t.Fatalf("calls = %v, want none", got)
	}
}

func TestToggleSignUp_RequiresName(t *testing.T) {
	m, d := newModel(t, state.Initial())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if !m.signUp || m.authFocus != fieldName {
		t.Fatalf("signUp=%v focus=%d, want sign-up mode focused on name", m.signUp, m.authFocus)
	}
	if !strings.Contains(m.View(), "Sign up") {
		t.Fatalf("View() missing sign-up title")
	}

	m.authInputs[fieldEmail].SetValue("ada@example.com")
	m.authInputs[fieldPassword].SetValue("secret")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.formError != "name is required" {
		t.Fatalf("formError = %q, cmd nil = %v; want name validation", m.formError, cmd == nil)
	}

	m.authInputs[fieldName].SetValue("Ada")
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter returned nil cmd")
	}
	cmd()
	if got := d.Calls(); len(got) != 1 || got[0] != "signup:Ada:ada@example.com" {
		t.Fatalf("calls = %v, want [signup:Ada:ada@example.com]", got)
	}
}

func TestAuthFocus_CyclesVisibleFields(t *testing.T) {
	m, _ := newModel(t, state.Initial())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.authFocus != fieldPassword {
		t.Fatalf("focus = %d, want password", m.authFocus)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.authFocus != fieldEmail {
		t.Fatalf("focus = %d, want email after wrap", m.authFocus)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.authFocus != fieldPassword {
		t.Fatalf("focus = %d, want password after shift+tab", m.authFocus)
	}
}

func TestAuthError_ShowsServerMessage(t *testing.T) {
	s := testutil.NewStateBuilder().Failed(state.FamilyAuth).Build()
	s.ErrorMessage[state.AuthFormsKey] = "wrong password"
	m, _ := newModel(t, s)

	if out := m.View(); !strings.Contains(out, "wrong password") {
		t.Fatalf("View() missing server error:\n%s", out)
	}
}

func TestStateMsg_LoginFetchesProducts(t *testing.T) {
	m, d := newModel(t, state.Initial())
	m.authInputs[fieldPassword].SetValue("secret")

	next, cmd := m.Update(stateMsg(signedIn()))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("login transition returned nil cmd")
	}
	cmd()
	if got := d.Calls(); len(got) != 1 || got[0] != "fetch" {
		t.Fatalf("calls = %v, want [fetch]", got)
	}
	if v := m.authInputs[fieldPassword].Value(); v != "" {
		t.Fatalf("password input = %q, want cleared", v)
	}
}

func TestStateMsg_SignOutReturnsToAuthForm(t *testing.T) {
	m, _ := newModel(t, signedIn())
	m.view = ViewActivity

	next, cmd := m.Update(stateMsg(state.Initial()))
	m = next.(Model)
	if cmd != nil {
		t.Fatalf("sign-out transition returned a cmd")
	}
	if m.view != ViewProducts {
		t.Fatalf("view = %v, want products", m.view)
	}
	if !strings.Contains(m.View(), "Sign in") {
		t.Fatalf("View() missing sign-in form after sign out")
	}
}

func TestRefreshKey(t *testing.T) {
	m, d := newModel(t, signedIn())

	_, cmd := press(t, m, runes("r"))
	if cmd == nil {
		t.Fatalf("r returned nil cmd")
	}
	cmd()
	if got := d.Calls(); len(got) != 1 || got[0] != "fetch" {
		t.Fatalf("calls = %v, want [fetch]", got)
	}

	pending, _ := newModel(t, testutil.NewStateBuilder().LoggedIn(testutil.User("ada")).Pending().Build())
	if _, cmd := press(t, pending, runes("r")); cmd != nil {
		t.Fatalf("r while pending returned a cmd")
	}
}

func TestSignOutKey(t *testing.T) {
	m, d := newModel(t, signedIn())

	_, cmd := press(t, m, runes("o"))
	if cmd == nil {
		t.Fatalf("o returned nil cmd")
	}
	cmd()
	if got := d.Calls(); len(got) != 1 || got[0] != "signout" {
		t.Fatalf("calls = %v, want [signout]", got)
	}
}

func TestEscape_ClearsAddProductStatus(t *testing.T) {
	s := testutil.NewStateBuilder().LoggedIn(testutil.User("ada")).AddProductStatus(true, false, "").Build()
	m, d := newModel(t, s)
	if !strings.Contains(m.View(), "product added") {
		t.Fatalf("View() missing add status")
	}

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc returned nil cmd")
	}
	cmd()
	if got := d.Calls(); len(got) != 1 || got[0] != "clear" {
		t.Fatalf("calls = %v, want [clear]", got)
	}
}

func TestEscape_NoStatusDoesNothing(t *testing.T) {
	m, _ := newModel(t, signedIn())

	if _, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Fatalf("esc without status returned a cmd")
	}
}

func TestAddProductForm_SubmitAndClose(t *testing.T) {
	m, d := newModel(t, signedIn())

	m, _ = press(t, m, runes("a"))
	if m.view != ViewAddProduct {
		t.Fatalf("view = %v, want add product", m.view)
	}
	m, _ = press(t, m, runes("q"))
	if m.view != ViewAddProduct {
		t.Fatalf("q inside the form must not quit or leave the form")
	}
	m.productInputs[fieldLink].SetValue("https://shop.example.com/lamp")
	m.productInputs[fieldTargetPrice].SetValue("19.5")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter returned nil cmd")
	}
	msg := cmd()
	if _, ok := msg.(productAddedMsg); !ok {
		t.Fatalf("cmd returned %T, want productAddedMsg", msg)
	}
	if d.lastAdd.TargetPrice != 19.5 {
		t.Fatalf("target price = %v, want 19.5", d.lastAdd.TargetPrice)
	}

	next, _ := m.Update(msg)
	m = next.(Model)
	if m.view != ViewProducts {
		t.Fatalf("view = %v, want products after add", m.view)
	}
	if v := m.productInputs[fieldLink].Value(); v != "" {
		t.Fatalf("link input = %q, want cleared", v)
	}
}

func TestAddProductForm_FailureKeepsFormOpen(t *testing.T) {
	m, d := newModel(t, signedIn())
	d.addFail = true

	m, _ = press(t, m, runes("a"))
	m.productInputs[fieldLink].SetValue("https://shop.example.com/lamp")
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if msg := cmd(); msg != nil {
		t.Fatalf("failed add returned %T, want nil", msg)
	}
}

func TestAddProductForm_Validation(t *testing.T) {
	m, _ := newModel(t, signedIn())
	m, _ = press(t, m, runes("a"))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.formError == "" {
		t.Fatalf("empty link: formError = %q, want validation", m.formError)
	}

	m.productInputs[fieldLink].SetValue("https://shop.example.com/lamp")
	m.productInputs[fieldTargetPrice].SetValue("cheap")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !strings.Contains(m.formError, "target price") {
		t.Fatalf("bad price: formError = %q, want target price validation", m.formError)
	}
}

func TestAddProductForm_EscapeClosesAndClears(t *testing.T) {
	m, d := newModel(t, signedIn())
	m, _ = press(t, m, runes("a"))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != ViewProducts {
		t.Fatalf("view = %v, want products", m.view)
	}
	cmd()
	if got := d.Calls(); len(got) != 1 || got[0] != "clear" {
		t.Fatalf("calls = %v, want [clear]", got)
	}
}

func TestProfilePicForm(t *testing.T) {
	m, d := newModel(t, signedIn())

	m, _ = press(t, m, runes("p"))
	if m.view != ViewProfilePic {
		t.Fatalf("view = %v, want profile picture", m.view)
	}
	m.picInput.SetValue("https://images.example.com/ada.png")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != ViewProducts {
		t.Fatalf("view = %v, want products after submit", m.view)
	}
	cmd()
	if got := d.Calls(); len(got) != 1 || got[0] != "pic:https://images.example.com/ada.png" {
		t.Fatalf("calls = %v, want profile pic update", got)
	}
}

func TestProducts_RenderAndSelect(t *testing.T) {
	s := testutil.NewStateBuilder().
		LoggedIn(testutil.User("ada")).
		Products(
			state.Product{"id": float64(2), "name": "Desk Lamp", "current_price": 24.99},
			state.Product{"id": float64(1), "name": "Kettle", "current_price": float64(30)},
		).
		Build()
	m, _ := newModel(t, s)

	out := m.View()
	for _, want := range []string{"Desk Lamp", "24.99", "Kettle", "30", "1 of 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View() missing %q:\n%s", want, out)
		}
	}

	m, _ = press(t, m, runes("j"))
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want 1", m.selectedRow)
	}
	m, _ = press(t, m, runes("j"))
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want clamped to 1", m.selectedRow)
	}
	m, _ = press(t, m, runes("g"))
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}
}

func TestProducts_FetchErrorShown(t *testing.T) {
	s := testutil.NewStateBuilder().LoggedIn(testutil.User("ada")).Failed(state.FamilyFetchProducts).Build()
	m, _ := newModel(t, s)

	out := m.View()
	if !strings.Contains(out, "Could not load products") {
		t.Fatalf("View() missing fetch error:\n%s", out)
	}
	if !strings.Contains(out, "fetch-products failed") {
		t.Fatalf("header missing failing family:\n%s", out)
	}
}

func TestCycleThemeKey(t *testing.T) {
	m, _ := newModel(t, signedIn())

	m, _ = press(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newModel(t, signedIn())

	m, _ = press(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatalf("help still shown after esc")
	}
}

func TestActivityView_LoadsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricetrack.log")
	content := `time=2026-10-19T10:00:00.000Z level=WARN msg="request failed" path=/api/user/me` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	d := &fakeDispatcher{}
	m := New(Options{Store: &fakeStore{s: signedIn()}, Actions: d, LogPath: path})
	m, cmd := press(t, m, runes("l"))
	if m.view != ViewActivity || cmd == nil {
		t.Fatalf("view = %v, cmd nil = %v; want activity with load cmd", m.view, cmd == nil)
	}

	next, _ := m.Update(cmd())
	m = next.(Model)
	if len(m.activity) != 1 {
		t.Fatalf("activity records = %d, want 1", len(m.activity))
	}
	out := m.View()
	if !strings.Contains(out, "request failed") || !strings.Contains(out, "path=/api/user/me") {
		t.Fatalf("View() missing activity record:\n%s", out)
	}
}

func TestLoadActivityCmd_NoPath(t *testing.T) {
	msg, ok := loadActivityCmd("")().(activityMsg)
	if !ok || msg.err == nil {
		t.Fatalf("loadActivityCmd(\"\") = %#v, want error", msg)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newModel(t, signedIn())

	if _, cmd := press(t, m, runes("q")); cmd == nil {
		t.Fatalf("q returned nil cmd")
	} else if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}

	signedOut, _ := newModel(t, state.Initial())
	if _, cmd := press(t, signedOut, tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatalf("ctrl+c returned nil cmd")
	} else if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not quit")
	}
}

func TestFit(t *testing.T) {
	if got := fit("abc", 5); got != "abc  " {
		t.Fatalf("fit pad = %q, want %q", got, "abc  ")
	}
	if got := fit("abcdef", 3); got != "abc" {
		t.Fatalf("fit truncate = %q, want %q", got, "abc")
	}
	if got := fit("abc", 0); got != "" {
		t.Fatalf("fit zero = %q, want empty", got)
	}
}

package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pricetrack/internal/actions"
	"github.com/five82/pricetrack/internal/logtail"
	"github.com/five82/pricetrack/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewProducts View = iota
	ViewAddProduct
	ViewProfilePic
	ViewActivity
)

// Auth form fields. The name field is only shown when signing up.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	authFieldCount
)

// Add-product form fields.
const (
	fieldLink = iota
	fieldTargetPrice
	productFieldCount
)

const (
	defaultThemeName = "Nightfox"
	activityLines    = 500
)

// Store is the part of the state store the UI reads from.
type Store interface {
	Snapshot() state.State
	Subscribe(fn func(state.State)) (cancel func())
}

// Dispatcher runs the operations the UI triggers. Every call blocks on the
// network, so the model only invokes it from commands.
type Dispatcher interface {
	SignIn(ctx context.Context, creds actions.Credentials)
	SignUp(ctx context.Context, reg actions.Registration)
	SignOut(ctx context.Context)
	AddProduct(ctx context.Context, p actions.NewProduct, onDone func())
	FetchAllProducts(ctx context.Context)
	UpdateProfilePic(ctx context.Context, url string)
	ClearAddProductStatus()
}

var _ Dispatcher = (*actions.Dispatcher)(nil)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     Store
	Actions   Dispatcher
	LogPath   string
	ThemeName string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx     context.Context
	store   Store
	actions Dispatcher
	logPath string

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	view     View
	width    int
	height   int
	showHelp bool

	// Data state
	snapshot    state.State
	lastUpdated time.Time
	selectedRow int

	// Auth form
	signUp     bool
	authInputs [authFieldCount]textinput.Model
	authFocus  int

	// Add-product and profile forms
	productInputs [productFieldCount]textinput.Model
	productFocus  int
	picInput      textinput.Model
	formError     string

	// Activity view
	activity    []logtail.Record
	activityErr error
}

// stateMsg carries a store snapshot delivered by the subscription.
type stateMsg state.State

// productAddedMsg reports that the add-product form can close.
type productAddedMsg struct{}

// activityMsg carries freshly read log records.
type activityMsg struct {
	records []logtail.Record
	err     error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}

	m := Model{
		ctx:      ctx,
		store:    opts.Store,
		actions:  opts.Actions,
		logPath:  opts.LogPath,
		theme:    GetTheme(themeName),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		view:     ViewProducts,
		snapshot: state.Initial(),
	}
	if opts.Store != nil {
		m.snapshot = opts.Store.Snapshot()
		m.lastUpdated = time.Now()
	}

	m.authInputs[fieldName] = newInput("Name", false)
	m.authInputs[fieldEmail] = newInput("Email", false)
	m.authInputs[fieldPassword] = newInput("Password", true)
	m.productInputs[fieldLink] = newInput("https://store.example.com/item", false)
	m.productInputs[fieldTargetPrice] = newInput("Target price (optional)", false)
	m.picInput = newInput("https://images.example.com/me.png", false)

	m.authFocus = fieldEmail
	m.authInputs[fieldEmail].Focus()
	return m
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 512
	in.Width = 48
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		return m.handleState(state.State(msg))

	case productAddedMsg:
		m.closeProductForm()
		return m, nil

	case activityMsg:
		m.activity = msg.records
		m.activityErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleState applies a new snapshot and reacts to session transitions.
func (m Model) handleState(s state.State) (tea.Model, tea.Cmd) {
	prev := m.snapshot
	m.snapshot = s
	m.lastUpdated = time.Now()
	m.clampSelection()

	switch {
	case !prev.IsLoggedIn && s.IsLoggedIn:
		m.resetAuthForm()
		return m, m.fetchProducts()
	case prev.IsLoggedIn && !s.IsLoggedIn:
		m.view = ViewProducts
		m.showHelp = false
		m.selectedRow = 0
		m.resetAuthForm()
	}
	return m, nil
}

func (m *Model) clampSelection() {
	n := len(m.snapshot.AllProducts)
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m *Model) resetAuthForm() {
	for i := range m.authInputs {
		m.authInputs[i].Reset()
		m.authInputs[i].Blur()
	}
	m.formError = ""
	m.authFocus = m.firstAuthField()
	m.authInputs[m.authFocus].Focus()
}

func (m *Model) closeProductForm() {
	for i := range m.productInputs {
		m.productInputs[i].Reset()
		m.productInputs[i].Blur()
	}
	m.formError = ""
	m.view = ViewProducts
}

// perform runs a blocking dispatcher call off the Bubble Tea event loop.
// The store notifies subscribers synchronously, so calling the dispatcher
// from Update would block on the program's own message channel.
func perform(ctx context.Context, fn func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(ctx)
		return nil
	}
}

func (m Model) fetchProducts() tea.Cmd {
	if m.actions == nil {
		return nil
	}
	a := m.actions
	return perform(m.ctx, a.FetchAllProducts)
}

func (m Model) clearAddProductStatus() tea.Cmd {
	if m.actions == nil {
		return nil
	}
	a := m.actions
	return func() tea.Msg {
		a.ClearAddProductStatus()
		return nil
	}
}

// addProductCmd submits the form and reports back when the product was
// accepted so the form can close.
func addProductCmd(ctx context.Context, a Dispatcher, p actions.NewProduct) tea.Cmd {
	return func() tea.Msg {
		added := false
		a.AddProduct(ctx, p, func() { added = true })
		if added {
			return productAddedMsg{}
		}
		return nil
	}
}

func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{err: errors.New("no log file configured")}
		}
		records, err := logtail.ReadRecords(path, activityLines)
		return activityMsg{records: records, err: err}
	}
}

// Run starts the Bubble Tea program and forwards store updates to it until
// the user quits or the context is cancelled.
func Run(opts Options) error {
	m := New(opts)

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)

	if opts.Store != nil {
		cancel := opts.Store.Subscribe(func(s state.State) {
			p.Send(stateMsg(s))
		})
		defer cancel()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}

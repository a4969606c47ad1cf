package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pricetrack/internal/logtail"
	"github.com/five82/pricetrack/internal/state"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var body string
	switch {
	case !m.snapshot.IsLoggedIn:
		body = m.renderAuthForm()
	case m.showHelp:
		body = m.renderHelp()
	case m.view == ViewAddProduct:
		body = m.renderProductForm()
	case m.view == ViewProfilePic:
		body = m.renderProfilePicForm()
	case m.view == ViewActivity:
		body = m.renderActivity(width)
	default:
		body = m.renderProducts(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(width),
		body,
		m.renderFooter(width),
	)
}

// renderHeader renders the status bar: session badge, pending spinner,
// failing families and the time of the last update.
func (m Model) renderHeader(width int) string {
	styles := m.theme.Styles()
	parts := []string{styles.Logo.Render("pricetrack")}

	if m.snapshot.IsLoggedIn {
		parts = append(parts, styles.StatusStyle(badgeSignedIn).Render(userLabel(m.snapshot.UserInfo)))
	} else {
		parts = append(parts, styles.StatusStyle(badgeSignedOut).Render("signed out"))
	}

	if m.snapshot.IsPending {
		parts = append(parts, styles.StatusStyle(badgePending).Render(m.spinner.View()+" working"))
	}

	for _, f := range []state.Family{state.FamilyAuth, state.FamilyAddProduct, state.FamilyFetchProducts} {
		if m.snapshot.HasErrors(f) {
			parts = append(parts, styles.StatusStyle(badgeFailed).Render(string(f)+" failed"))
		}
	}

	if !m.lastUpdated.IsZero() {
		parts = append(parts, styles.MutedText.Render("updated "+m.lastUpdated.Format("15:04:05")))
	}

	return styles.Header.Width(width).Render(strings.Join(parts, "  "))
}

func (m Model) renderFooter(width int) string {
	styles := m.theme.Styles()
	var hint string
	switch {
	case !m.snapshot.IsLoggedIn:
		hint = "enter submit  tab next field  ctrl+n sign in/sign up  ctrl+c quit"
	case m.view == ViewAddProduct || m.view == ViewProfilePic:
		hint = "enter submit  tab next field  esc cancel"
	default:
		hint = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return styles.Footer.Width(width).Render(hint + "  " + styles.FaintText.Render(m.theme.Name))
}

func userLabel(u state.User) string {
	for _, k := range []string{"name", "email"} {
		if v, ok := u[k].(string); ok && v != "" {
			return v
		}
	}
	return "signed in"
}

// Forms

func (m Model) renderAuthForm() string {
	styles := m.theme.Styles()
	var b strings.Builder

	title, alt := "Sign in", "ctrl+n to create an account"
	if m.signUp {
		title, alt = "Sign up", "ctrl+n to sign in instead"
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(alt))
	b.WriteString("\n\n")

	labels := [authFieldCount]string{"Name", "Email", "Password"}
	for i := m.firstAuthField(); i < authFieldCount; i++ {
		b.WriteString(m.fieldLabel(labels[i], i == m.authFocus))
		b.WriteString("\n")
		b.WriteString(m.authInputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderFormStatus(m.authServerError()))
	return styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// authServerError returns the last auth failure reported by the server.
func (m Model) authServerError() string {
	if !m.snapshot.HasErrors(state.FamilyAuth) {
		return ""
	}
	if msg := m.snapshot.ErrorMessage[state.AuthFormsKey]; msg != "" {
		return msg
	}
	return "authentication failed"
}

func (m Model) renderProductForm() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Track a product"))
	b.WriteString("\n\n")

	labels := [productFieldCount]string{"Product link", "Target price"}
	for i := range m.productInputs {
		b.WriteString(m.fieldLabel(labels[i], i == m.productFocus))
		b.WriteString("\n")
		b.WriteString(m.productInputs[i].View())
		b.WriteString("\n\n")
	}

	serverErr := ""
	if m.snapshot.AddProductError {
		serverErr = m.snapshot.AddProductErrorMessage
		if serverErr == "" {
			serverErr = "could not add product"
		}
	}
	b.WriteString(m.renderFormStatus(serverErr))
	return styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderProfilePicForm() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Profile picture"))
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel("Image URL", true))
	b.WriteString("\n")
	b.WriteString(m.picInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderFormStatus(""))
	return styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) fieldLabel(label string, focused bool) string {
	styles := m.theme.Styles()
	if focused {
		return styles.AccentText.Render("› " + label)
	}
	return styles.MutedText.Render("  " + label)
}

// renderFormStatus shows local validation first, then the server's answer,
// then the pending spinner.
func (m Model) renderFormStatus(serverErr string) string {
	styles := m.theme.Styles()
	switch {
	case m.formError != "":
		return styles.WarningText.Render(m.formError)
	case m.snapshot.IsPending:
		return styles.InfoText.Render(m.spinner.View() + " working...")
	case serverErr != "":
		return styles.DangerText.Render(serverErr)
	}
	return ""
}

// Products

const (
	colIDWidth    = 6
	colPriceWidth = 12
	colNameMin    = 20
)

func (m Model) renderProducts(width int) string {
	styles := m.theme.Styles()
	var lines []string

	if status := m.renderAddStatus(); status != "" {
		lines = append(lines, status)
	}
	if m.snapshot.HasErrors(state.FamilyFetchProducts) {
		lines = append(lines, styles.DangerText.Render("Could not load products. Press r to retry."))
	}

	products := m.snapshot.AllProducts
	if len(products) == 0 {
		msg := "No tracked products yet. Press a to add one."
		if m.snapshot.IsPending {
			msg = m.spinner.View() + " Loading products..."
		}
		lines = append(lines, styles.MutedText.Render(msg))
		return strings.Join(lines, "\n")
	}

	nameWidth := max(colNameMin, (width-colIDWidth-colPriceWidth-6)/2)
	linkWidth := max(10, width-colIDWidth-colPriceWidth-nameWidth-6)

	header := fit("ID", colIDWidth) + "  " + fit("Name", nameWidth) + "  " +
		fit("Price", colPriceWidth) + "  " + fit("Link", linkWidth)
	lines = append(lines, styles.AccentText.Bold(true).Render(header))

	visible := m.visibleRows(len(lines))
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(len(products), start+visible)

	for i := start; i < end; i++ {
		p := products[i]
		row := fit(p.ID(), colIDWidth) + "  " + fit(p.Name(), nameWidth) + "  " +
			fit(p.CurrentPrice(), colPriceWidth) + "  " + fit(p.Link(), linkWidth)
		if i == m.selectedRow {
			lines = append(lines, styles.Selected.Render(row))
			continue
		}
		lines = append(lines, styles.Text.Render(row))
	}
	lines = append(lines, styles.FaintText.Render(fmt.Sprintf("%d of %d", m.selectedRow+1, len(products))))
	return strings.Join(lines, "\n")
}

func (m Model) renderAddStatus() string {
	styles := m.theme.Styles()
	switch {
	case m.snapshot.AddProductSuccess:
		return styles.StatusStyle(badgeAdded).Render("product added") + styles.FaintText.Render("  esc to dismiss")
	case m.snapshot.AddProductError:
		msg := m.snapshot.AddProductErrorMessage
		if msg == "" {
			msg = "could not add product"
		}
		return styles.DangerText.Render(msg) + styles.FaintText.Render("  esc to dismiss")
	}
	return ""
}

// visibleRows returns how many table rows fit below the header, footer and
// the lines already used.
func (m Model) visibleRows(used int) int {
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}
	return max(1, height-used-3)
}

// Activity

func (m Model) renderActivity(width int) string {
	styles := m.theme.Styles()
	if m.activityErr != nil {
		return styles.DangerText.Render("Cannot read activity log: " + m.activityErr.Error())
	}
	if len(m.activity) == 0 {
		return styles.MutedText.Render("No activity recorded yet.")
	}

	visible := m.visibleRows(0)
	records := m.activity
	if len(records) > visible {
		records = records[len(records)-visible:]
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, m.renderRecord(rec, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRecord(rec logtail.Record, width int) string {
	styles := m.theme.Styles()
	if rec.Msg == "" && rec.Level == "" {
		return styles.MutedText.Render(fit(rec.Raw, width))
	}

	ts := "        "
	if !rec.Time.IsZero() {
		ts = rec.Time.Local().Format("15:04:05")
	}

	var attrs []string
	for _, a := range rec.Attrs {
		attrs = append(attrs, a.Key+"="+a.Value)
	}

	line := styles.FaintText.Render(ts) + " " +
		levelStyle(styles, rec.Level).Render(fit(rec.Level, 5)) + " " +
		styles.Text.Render(rec.Msg)
	if len(attrs) > 0 {
		line += " " + styles.MutedText.Render(strings.Join(attrs, " "))
	}
	return lipgloss.NewStyle().Inline(true).MaxWidth(width).Render(line)
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

// Help

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("? or esc to close"))
	return styles.Panel.Render(b.String())
}

// fit truncates or pads s to exactly n cells.
func fit(s string, n int) string {
	if n <= 0 {
		return ""
	}
	s = lipgloss.NewStyle().Inline(true).MaxWidth(n).Render(s)
	if w := lipgloss.Width(s); w < n {
		s += strings.Repeat(" ", n-w)
	}
	return s
}

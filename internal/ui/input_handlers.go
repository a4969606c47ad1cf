package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pricetrack/internal/actions"
)

// handleKey routes key presses. Forms own every key except ctrl+c so that
// letters reach the text inputs.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if !m.snapshot.IsLoggedIn {
		return m.handleAuthKey(msg)
	}
	switch m.view {
	case ViewAddProduct:
		return m.handleProductFormKey(msg)
	case ViewProfilePic:
		return m.handleProfilePicKey(msg)
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, nil

	case key.Matches(msg, m.keys.ViewProducts):
		m.view = ViewProducts
		return m, nil

	case key.Matches(msg, m.keys.ViewActivity):
		m.view = ViewActivity
		return m, loadActivityCmd(m.logPath)

	case key.Matches(msg, m.keys.AddProduct):
		m.view = ViewAddProduct
		m.formError = ""
		m.productFocus = fieldLink
		return m, m.productInputs[fieldLink].Focus()

	case key.Matches(msg, m.keys.ProfilePic):
		m.view = ViewProfilePic
		m.formError = ""
		m.picInput.SetValue(m.snapshot.UserInfo.ProfilePic())
		m.picInput.CursorEnd()
		return m, m.picInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		if m.view == ViewActivity {
			return m, loadActivityCmd(m.logPath)
		}
		if m.snapshot.IsPending {
			return m, nil
		}
		return m, m.fetchProducts()

	case key.Matches(msg, m.keys.SignOut):
		if m.actions == nil || m.snapshot.IsPending {
			return m, nil
		}
		return m, perform(m.ctx, m.actions.SignOut)

	case key.Matches(msg, m.keys.Escape):
		if m.view == ViewActivity {
			m.view = ViewProducts
			return m, nil
		}
		if m.snapshot.AddProductSuccess || m.snapshot.AddProductError {
			return m, m.clearAddProductStatus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(m.snapshot.AllProducts) - 1
		m.clampSelection()
	}
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	if m.view != ViewProducts {
		return
	}
	m.selectedRow += delta
	m.clampSelection()
}

// Auth form

func (m Model) firstAuthField() int {
	if m.signUp {
		return fieldName
	}
	return fieldEmail
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleSignUp):
		m.signUp = !m.signUp
		m.formError = ""
		m.authInputs[m.authFocus].Blur()
		m.authFocus = m.firstAuthField()
		return m, m.authInputs[m.authFocus].Focus()

	case key.Matches(msg, m.keys.NextField):
		return m, m.cycleAuthFocus(1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.cycleAuthFocus(-1)

	case key.Matches(msg, m.keys.Confirm):
		return m.submitAuth()
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m *Model) cycleAuthFocus(delta int) tea.Cmd {
	first := m.firstAuthField()
	span := authFieldCount - first
	m.authInputs[m.authFocus].Blur()
	m.authFocus = first + ((m.authFocus-first+delta)%span+span)%span
	return m.authInputs[m.authFocus].Focus()
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	if m.snapshot.IsPending || m.actions == nil {
		return m, nil
	}
	email := strings.TrimSpace(m.authInputs[fieldEmail].Value())
	password := m.authInputs[fieldPassword].Value()
	if email == "" || password == "" {
		m.formError = "email and password are required"
		return m, nil
	}
	m.formError = ""

	a := m.actions
	if m.signUp {
		name := strings.TrimSpace(m.authInputs[fieldName].Value())
		if name == "" {
			m.formError = "name is required"
			return m, nil
		}
		reg := actions.Registration{Name: name, Email: email, Password: password}
		return m, perform(m.ctx, func(ctx context.Context) { a.SignUp(ctx, reg) })
	}
	creds := actions.Credentials{Email: email, Password: password}
	return m, perform(m.ctx, func(ctx context.Context) { a.SignIn(ctx, creds) })
}

// Add-product form

func (m Model) handleProductFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeProductForm()
		return m, m.clearAddProductStatus()

	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		m.productInputs[m.productFocus].Blur()
		m.productFocus = (m.productFocus + 1) % productFieldCount
		return m, m.productInputs[m.productFocus].Focus()

	case key.Matches(msg, m.keys.Confirm):
		return m.submitProduct()
	}

	var cmd tea.Cmd
	m.productInputs[m.productFocus], cmd = m.productInputs[m.productFocus].Update(msg)
	return m, cmd
}

func (m Model) submitProduct() (tea.Model, tea.Cmd) {
	if m.snapshot.IsPending || m.actions == nil {
		return m, nil
	}
	link := strings.TrimSpace(m.productInputs[fieldLink].Value())
	if link == "" {
		m.formError = "product link is required"
		return m, nil
	}
	p := actions.NewProduct{Link: link}
	if raw := strings.TrimSpace(m.productInputs[fieldTargetPrice].Value()); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			m.formError = "target price must be a positive number"
			return m, nil
		}
		p.TargetPrice = price
	}
	m.formError = ""
	return m, addProductCmd(m.ctx, m.actions, p)
}

// Profile picture form

func (m Model) handleProfilePicKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeProfilePic()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		url := strings.TrimSpace(m.picInput.Value())
		if url == "" {
			m.formError = "picture URL is required"
			return m, nil
		}
		if m.actions == nil {
			return m, nil
		}
		a := m.actions
		m.closeProfilePic()
		return m, perform(m.ctx, func(ctx context.Context) { a.UpdateProfilePic(ctx, url) })
	}

	var cmd tea.Cmd
	m.picInput, cmd = m.picInput.Update(msg)
	return m, cmd
}

func (m *Model) closeProfilePic() {
	m.picInput.Reset()
	m.picInput.Blur()
	m.formError = ""
	m.view = ViewProducts
}

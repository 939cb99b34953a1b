package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flowbuilder/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "done"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
}

// InputField represents a single input field with label and textinput
type InputField struct {
	Label string
	Input textinput.Model
}

// InputForm manages text input fields with focus handling.
// FocusedField is -1 while no field has focus.
type InputForm struct {
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
}

// NewInputForm creates a new input form with the given fields, all blurred
func NewInputForm(fields ...InputField) *InputForm {
	return &InputForm{
		Fields:       fields,
		FocusedField: -1,
		Keys:         DefaultInputFormKeys,
	}
}

// NewInputField creates a new input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = ""
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label: label,
		Input: input,
	}
}

// Update passes a message to the focused field.
// Returns (handled, cmd) where handled is true if the key was consumed by the form itself.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if !f.Focused() {
		return false, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, f.Keys.Tab) {
		f.NextField()
		return true, nil
	}

	var cmd tea.Cmd
	f.Fields[f.FocusedField].Input, cmd = f.Fields[f.FocusedField].Input.Update(msg)
	return false, cmd
}

// NextField moves focus to the next field
func (f *InputForm) NextField() {
	if len(f.Fields) <= 1 || !f.Focused() {
		return
	}
	f.Focus((f.FocusedField + 1) % len(f.Fields))
}

// Focus gives focus to a specific field
func (f *InputForm) Focus(index int) tea.Cmd {
	if index < 0 || index >= len(f.Fields) {
		return nil
	}
	f.Blur()
	f.FocusedField = index
	f.Fields[index].Input.CursorEnd()
	return f.Fields[index].Input.Focus()
}

// Blur removes focus from every field
func (f *InputForm) Blur() {
	for i := range f.Fields {
		f.Fields[i].Input.Blur()
	}
	f.FocusedField = -1
}

// Focused reports whether any field has focus
func (f *InputForm) Focused() bool {
	return f.FocusedField >= 0 && f.FocusedField < len(f.Fields)
}

// Value returns the value of a field by index
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return f.Fields[index].Input.Value()
}

// SetValue sets the value of a field by index
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Fields[index].Input.SetValue(value)
	f.Fields[index].Input.CursorEnd()
}

// SetWidth sets the visible width of every field
func (f *InputForm) SetWidth(width int) {
	for i := range f.Fields {
		f.Fields[i].Input.Width = max(width, 1)
	}
}

// Reset clears all field values and focus
func (f *InputForm) Reset() {
	for i := range f.Fields {
		f.Fields[i].Input.SetValue("")
	}
	f.Blur()
}

// RenderField renders a single field's input box with appropriate styling
func (f *InputForm) RenderField(index, width int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}

	field := f.Fields[index]
	if index == f.FocusedField {
		return styles.InputFocused.Width(width).Render(field.Input.View())
	}
	return styles.InputField.Width(width).Render(field.Input.View())
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	var parts []string

	if len(f.Fields) > 1 {
		parts = append(parts, styles.HelpKey.Render("tab")+" "+styles.HelpDesc.Render("next field"))
	}
	parts = append(parts, styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText))
	parts = append(parts, styles.HelpKey.Render("esc")+" "+styles.HelpDesc.Render("cancel"))

	return strings.Join(parts, "  ")
}

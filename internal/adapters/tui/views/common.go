package views

import "flowbuilder/internal/application/commands"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type SwitchToHelpMsg struct{}

type SwitchToBuilderMsg struct{}

// OpenEditorMsg asks for a node's text to be edited in $EDITOR
type OpenEditorMsg struct {
	NodeID string
	Text   string
}

// MessageEditedMsg carries text back from $EDITOR
type MessageEditedMsg struct {
	NodeID string
	Text   string
	Err    error
}

type savedMsg struct {
	result *commands.SaveFlowResult
}

type saveFailedMsg struct {
	err error
}

type toastExpiredMsg struct {
	seq int
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	chipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0a84ff"))
)

// transcript is how many lines of the conversation stay on screen
const transcript = 20

// line is one entry of the conversation transcript
type line struct {
	user bool
	text string
}

// Model defines the application state
type Model struct {
	lines       []line
	suggestions []string
	textInput   textinput.Model
	spinner     spinner.Model
	client      *WebhookClient
	loading     bool
	ended       bool
	error       string
}

// Initialize the model
func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = `Say something, e.g. "pork" or "next"...`
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 50

	return Model{
		spinner:   s,
		textInput: ti,
		client:    NewWebhookClient(),
		loading:   true,
	}
}

// Init starts the conversation with the welcome turn
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, say(m.client, "hello"))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			utterance := strings.TrimSpace(m.textInput.Value())
			if utterance == "" || m.loading {
				return m, nil
			}
			m.lines = append(m.lines, line{user: true, text: utterance})
			m.textInput.SetValue("")
			m.loading = true
			m.error = ""
			return m, say(m.client, utterance)
		}
	case replyMsg:
		m.loading = false
		for _, l := range msg.reply.Lines {
			m.lines = append(m.lines, line{text: l})
		}
		m.suggestions = msg.reply.Suggestions
		m.ended = msg.reply.Ended
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("VoiceChef") + " " + infoStyle.Render(m.client.Project) + "\n\n")

	start := 0
	if len(m.lines) > transcript {
		start = len(m.lines) - transcript
	}
	for _, l := range m.lines[start:] {
		if l.user {
			b.WriteString(userStyle.Render("you: ") + l.text + "\n")
			continue
		}
		b.WriteString(l.text + "\n")
	}
	if len(m.suggestions) > 0 {
		b.WriteString(chipStyle.Render("["+strings.Join(m.suggestions, "] [")+"]") + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " thinking...\n")
	case m.ended:
		b.WriteString(successStyle.Render("Conversation ended") + " say hello to start again\n")
	}
	if m.error != "" {
		b.WriteString(errorStyle.Render(m.error) + "\n")
	}
	b.WriteString(m.textInput.View() + "\n\nPress 'enter' to speak, 'esc' to quit\n")
	return docStyle.Render(b.String())
}

// Custom message types for the tea.Model
type replyMsg struct {
	reply *Reply
}

type errorMsg struct {
	err string
}

// say sends an utterance to the webhook
func say(client *WebhookClient, utterance string) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.Say(utterance)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error talking to the webhook: %v", err)}
		}
		return replyMsg{reply: reply}
	}
}

func main() {
	if ok, err := NewWebhookClient().CheckHealth(); !ok {
		fmt.Fprintf(os.Stderr, "Warning: API server is not available: %v\n", err)
	}

	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}

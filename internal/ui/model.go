package ui

import (
	"context"
	"strings"
	"time"

	"gemchat/internal/config"
	"gemchat/internal/format"
	"gemchat/internal/gemini"
	"gemchat/internal/models"
	"gemchat/internal/storage"
	"gemchat/internal/typewriter"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// errorReply is committed as the assistant's message when a turn fails.
const errorReply = "Sorry, an error occurred. Please try again."

type FocusState int

const (
	FocusSidebar FocusState = iota
	FocusChat
)

// sessionState tracks where the current turn is. A new turn is only accepted
// while Idle; a rejected attempt is dropped, not queued.
type sessionState int

const (
	stateIdle sessionState = iota
	stateAwaitingResponse
	stateRevealing
)

// Model is the main application state: the transient view of the active
// conversation, the turn state machine, and the surrounding widgets.
type Model struct {
	viewport viewport.Model
	textarea textarea.Model
	convList list.Model

	store  *storage.Store
	client *gemini.Client
	log    zerolog.Logger

	// Transient view state for the active session. activeID is zero for a
	// fresh unsaved session; a conversation is only created once the first
	// turn completes.
	messages []models.Message
	activeID int64

	// modelName is filled in asynchronously at startup. While it is empty
	// every send attempt is silently dropped.
	modelName string

	state  sessionState
	reveal *typewriter.Reveal

	revealBase   time.Duration
	revealJitter time.Duration

	focus        FocusState
	err          error
	ready        bool
	width        int
	height       int
	sidebarWidth int
}

// modelListMsg carries the result of startup model discovery.
type modelListMsg struct {
	name string
	err  error
}

// responseMsg carries the outcome of a completion call.
type responseMsg struct {
	reply string
	err   error
}

// revealTickMsg drives one step of the typewriter reveal.
type revealTickMsg struct {
	targetID int64
}

// NewModel creates the UI model. The store's collection must already be
// loaded; the most recently created conversation, if any, becomes active.
func NewModel(client *gemini.Client, store *storage.Store, cfg config.Config, log zerolog.Logger) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("shift+enter", "alt+enter"))
	ta.Focus()

	vp := viewport.New(50, 20)

	conversations := store.Conversations()
	items := make([]list.Item, len(conversations))
	for i, conv := range conversations {
		items[i] = conv
	}

	convList := list.New(items, list.NewDefaultDelegate(), 30, 20)
	convList.Title = "Conversations"
	convList.SetShowStatusBar(false)
	convList.SetFilteringEnabled(false)
	convList.SetShowHelp(false)

	m := &Model{
		textarea:     ta,
		viewport:     vp,
		convList:     convList,
		store:        store,
		client:       client,
		log:          log,
		state:        stateIdle,
		focus:        FocusChat,
		sidebarWidth: 30,
		revealBase:   time.Duration(cfg.Typewriter.BaseDelayMs) * time.Millisecond,
		revealJitter: time.Duration(cfg.Typewriter.JitterMs) * time.Millisecond,
	}

	if len(conversations) > 0 {
		m.activeID = conversations[0].ID
		m.messages = append([]models.Message(nil), conversations[0].Messages...)
		m.convList.Select(0)
	}

	m.updateViewport()
	return m
}

// Init starts cursor blinking and kicks off model discovery.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.discoverModel())
}

// discoverModel queries the model-listing endpoint once and picks the model
// to chat with. Any failure leaves the selection empty; there is no retry.
func (m Model) discoverModel() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		listing, err := client.ListModels(context.Background())
		if err != nil {
			return modelListMsg{err: err}
		}
		chosen, ok := gemini.SelectModel(listing)
		if !ok {
			return modelListMsg{}
		}
		return modelListMsg{name: chosen.ShortName()}
	}
}

// sendMessage issues the completion call for one turn. Only the prompt is
// sent; the model sees no conversation history.
func (m Model) sendMessage(prompt string) tea.Cmd {
	client, modelName := m.client, m.modelName
	return func() tea.Msg {
		reply, err := client.GenerateContent(context.Background(), modelName, prompt)
		if err != nil {
			return responseMsg{err: err}
		}
		return responseMsg{reply: reply}
	}
}

// revealTick schedules the next typewriter step after a randomized pause.
func (m Model) revealTick() tea.Cmd {
	targetID := m.reveal.TargetID()
	return tea.Tick(m.reveal.Delay(), func(time.Time) tea.Msg {
		return revealTickMsg{targetID: targetID}
	})
}

// Update handles UI events and state changes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		clCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chatWidth := msg.Width - m.sidebarWidth - 2
		chatHeight := msg.Height - 6

		if !m.ready {
			m.viewport = viewport.New(chatWidth, chatHeight)
			m.ready = true
		} else {
			m.viewport.Width = chatWidth
			m.viewport.Height = chatHeight
		}
		m.textarea.SetWidth(chatWidth - 2)
		m.convList.SetSize(m.sidebarWidth-2, chatHeight+3)
		m.updateViewport()

	case modelListMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("model discovery failed, sends disabled")
		} else if msg.name == "" {
			m.log.Warn().Msg("no eligible model in listing, sends disabled")
		} else {
			m.modelName = msg.name
			m.log.Info().Str("model", msg.name).Msg("model selected")
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			if m.focus == FocusSidebar {
				m.focus = FocusChat
				m.textarea.Focus()
			} else {
				m.focus = FocusSidebar
				m.textarea.Blur()
			}
		case tea.KeyCtrlN:
			if m.state == stateIdle {
				m.resetSession()
				m.focus = FocusChat
				m.textarea.Focus()
				m.updateViewport()
			}
		case tea.KeyCtrlD:
			if m.focus == FocusSidebar && m.state == stateIdle {
				if selected, ok := m.convList.SelectedItem().(models.Conversation); ok {
					m.deleteConversation(selected.ID)
				}
			}
		case tea.KeyEnter:
			if msg.Alt {
				break // line break, handled by the textarea below
			}
			if m.focus == FocusSidebar {
				if m.state == stateIdle {
					if selected, ok := m.convList.SelectedItem().(models.Conversation); ok {
						m.openConversation(selected.ID)
					}
				}
				return m, nil
			}
			return m.submit()
		}

	case responseMsg:
		if m.state != stateAwaitingResponse {
			return m, nil
		}
		if msg.err != nil {
			// The failure becomes part of the visible history: the error
			// text is committed like any other assistant message.
			m.log.Error().Err(msg.err).Msg("completion call failed")
			m.appendMessage(models.RoleAssistant, errorReply)
			m.activeID = m.store.CommitTurn(m.activeID, m.messages)
			m.state = stateIdle
			m.updateConversationList()
			m.updateViewport()
			return m, nil
		}

		formatted := format.Response(msg.reply)
		placeholder := m.appendMessage(models.RoleAssistant, "")
		m.state = stateRevealing
		m.reveal = typewriter.New(placeholder, formatted, m.revealBase, m.revealJitter)
		m.updateViewport()
		return m, m.revealTick()

	case revealTickMsg:
		if m.state != stateRevealing || m.reveal == nil || m.reveal.TargetID() != msg.targetID {
			return m, nil
		}
		visible, more := m.reveal.Next()
		m.setMessageText(msg.targetID, visible)
		m.updateViewport()
		if more {
			return m, m.revealTick()
		}
		// Overwrite with the full formatted text to guard against any
		// drift, then commit the finished turn.
		m.setMessageText(msg.targetID, m.reveal.Full())
		m.reveal = nil
		m.activeID = m.store.CommitTurn(m.activeID, m.messages)
		m.state = stateIdle
		m.updateConversationList()
		m.updateViewport()
		return m, nil
	}

	if m.focus == FocusChat {
		m.textarea, tiCmd = m.textarea.Update(msg)
	}
	if m.focus == FocusSidebar {
		m.convList, clCmd = m.convList.Update(msg)
	}
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, clCmd)
}

// submit starts a new turn. The attempt is dropped without any state change
// when the trimmed input is empty, no model is selected, or a turn is already
// in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" || m.modelName == "" || m.state != stateIdle {
		return m, nil
	}

	m.appendMessage(models.RoleUser, input)
	m.textarea.Reset()
	m.state = stateAwaitingResponse
	m.updateViewport()
	return m, m.sendMessage(input)
}

// appendMessage adds a message to the transient view and returns its ID.
func (m *Model) appendMessage(sender models.Role, text string) int64 {
	msg := models.Message{ID: models.NextID(), Sender: sender, Text: text}
	m.messages = append(m.messages, msg)
	return msg.ID
}

// setMessageText mutates the live text of the in-flight assistant message.
func (m *Model) setMessageText(id int64, text string) {
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Text = text
			return
		}
	}
}

// resetSession drops back to a fresh unsaved session. Nothing is persisted:
// a conversation only exists once a turn has been committed.
func (m *Model) resetSession() {
	m.messages = nil
	m.activeID = 0
	m.textarea.Reset()
}

// openConversation makes a stored conversation active and mirrors its
// messages into the view.
func (m *Model) openConversation(id int64) {
	conv, ok := m.store.Find(id)
	if !ok {
		return
	}
	m.activeID = conv.ID
	m.messages = append([]models.Message(nil), conv.Messages...)
	m.focus = FocusChat
	m.textarea.Focus()
	m.updateViewport()
}

// deleteConversation removes a conversation; deleting the active one resets
// the session.
func (m *Model) deleteConversation(id int64) {
	m.store.Remove(id)
	if m.activeID == id {
		m.resetSession()
	}
	m.updateConversationList()
	m.updateViewport()
}

func (m *Model) updateConversationList() {
	conversations := m.store.Conversations()
	items := make([]list.Item, len(conversations))
	for i, conv := range conversations {
		items[i] = conv
	}
	m.convList.SetItems(items)

	for i, conv := range conversations {
		if conv.ID == m.activeID {
			m.convList.Select(i)
			break
		}
	}
}

func (m *Model) updateViewport() {
	var content strings.Builder

	if len(m.messages) == 0 {
		content.WriteString("How can I help you today?\n")
		content.WriteString("Ask me anything, and I'll do my best to assist you.\n\n")
		content.WriteString(HelpStyle.Render("Try one of these:\n"))
		content.WriteString(HelpStyle.Render("• Explain quantum computing\n"))
		content.WriteString(HelpStyle.Render("• Write a poem about the ocean\n"))
		content.WriteString(HelpStyle.Render("• Help me plan a trip\n"))
		content.WriteString(HelpStyle.Render("• Explain how AI works\n\n"))
		content.WriteString(HelpStyle.Render("Controls:\n"))
		content.WriteString(HelpStyle.Render("• Tab - Switch between sidebar and chat\n"))
		content.WriteString(HelpStyle.Render("• Ctrl+N - New chat\n"))
		content.WriteString(HelpStyle.Render("• Enter - Send • Shift+Enter/Alt+Enter - Line break\n"))
		content.WriteString(HelpStyle.Render("• Ctrl+D - Delete selected conversation\n"))
		content.WriteString(HelpStyle.Render("• Ctrl+C / Esc - Quit\n\n"))
	} else {
		for _, msg := range m.messages {
			timeStr := msg.CreatedAt().Format("15:04:05")

			label := AssistantStyle.Render("Assistant")
			if msg.Sender == models.RoleUser {
				label = UserStyle.Render("You")
			}
			content.WriteString(MessageStyle.Render(
				label + " " + TimestampStyle.Render("["+timeStr+"]") + "\n" +
					msg.Text + "\n\n",
			))
		}
	}

	if m.state == stateAwaitingResponse {
		content.WriteString(MessageStyle.Render(
			LoadingStyle.Render("Assistant is typing...") + "\n",
		))
	}

	if m.err != nil {
		content.WriteString(MessageStyle.Render(
			ErrorStyle.Render("Error: " + m.err.Error() + "\n"),
		))
		m.err = nil
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	sidebarContent := m.convList.View()
	var sidebar string
	if m.focus == FocusSidebar {
		sidebar = SidebarFocusedStyle.Width(m.sidebarWidth).Height(m.height - 1).Render(sidebarContent)
	} else {
		sidebar = SidebarStyle.Width(m.sidebarWidth).Height(m.height - 1).Render(sidebarContent)
	}

	chatWidth := m.width - m.sidebarWidth - 2
	header := "gemchat"
	if m.modelName != "" {
		header += " - " + m.modelName
	}
	chatHeader := TitleStyle.Width(chatWidth).Render(header)
	chatViewport := m.viewport.View()
	chatInput := m.textarea.View()

	chatArea := ChatStyle.Width(chatWidth).Render(
		chatHeader + "\n" + chatViewport + "\n" + chatInput,
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, chatArea)
}

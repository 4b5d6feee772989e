package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/playback"
	"github.com/mgpai22/cuecheck/internal/proofread"
	"github.com/mgpai22/cuecheck/internal/subtitle"
)

var chatCmd = &cobra.Command{
	Use:   "chat [subtitle_file]",
	Short: "Chat with the model about a transcript",
	Long: `Start an interactive session about the transcript. Every question is
answered with the whole transcript and recent history as context. The
header shows the cue active at the session cursor.

Commands:
  /at TIME     move the cursor to TIME and show the active cue
  /next        jump to the next cue
  /prev        jump to the previous cue
  /reset       forget the conversation
  /exit        quit (esc and ctrl+c work too)`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	addLLMFlags(chatCmd)
}

const (
	chatWidth  = 100
	chatHeight = 24
)

var (
	cueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93C5FD")).
			Bold(true).
			Padding(0, 1)
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF476F"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

// conversation is the part of proofread.Chat the session drives.
type conversation interface {
	Send(ctx context.Context, text string) (string, error)
	Reset()
}

// replyMsg carries a finished model request back into Update.
type replyMsg struct {
	text string
	err  error
}

type chatModel struct {
	ctx      context.Context
	chat     conversation
	cues     []subtitle.Cue
	player   *playback.Player
	input    textinput.Model
	viewport viewport.Model
	render   func(string) string

	entries []string
	waiting bool
	err     error
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	model, err := newModel(ctx, cmd)
	if err != nil {
		return err
	}

	m := newChatModel(ctx, proofread.NewChat(model, doc.Cues), doc.Cues)

	vpFrame := m.viewport.Style.GetHorizontalFrameSize()
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(chatWidth-vpFrame-2),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	m.render = func(s string) string {
		out, err := renderer.Render(s)
		if err != nil {
			return s
		}
		return strings.TrimRight(out, "\n")
	}

	final, err := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	).Run()
	if err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	if fm, ok := final.(*chatModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func newChatModel(ctx context.Context, chat conversation, cues []subtitle.Cue) *chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about the transcript, or /at TIME, /next, /prev"
	ti.Prompt = "> "
	ti.Width = chatWidth - 4
	ti.Focus()

	vp := viewport.New(chatWidth, chatHeight)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		PaddingRight(2)

	return &chatModel{
		ctx:      ctx,
		chat:     chat,
		cues:     cues,
		player:   playback.NewPlayer(cues),
		input:    ti,
		viewport: vp,
		render:   func(s string) string { return s },
	}
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		// header, input and help lines
		m.viewport.Height = max(msg.Height-4, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil
	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				m.err = msg.err
				return m, tea.Quit
			}
			logger.Debugw("Chat request failed", "error", msg.err)
			m.add(errorStyle.Render("error: " + msg.err.Error()))
			return m, nil
		}
		m.add(m.render(msg.text))
		return m, nil
	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			line := m.input.Value()
			m.input.Reset()
			return m.submit(line)
		case "pgup", "pgdown", "up", "down":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles one line of input: a session command or a question.
func (m *chatModel) submit(line string) (tea.Model, tea.Cmd) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return m, nil
	case line == "/exit" || line == "/quit":
		return m, tea.Quit
	case line == "/reset":
		m.chat.Reset()
		m.add("Conversation cleared")
		return m, nil
	case strings.HasPrefix(line, "/at "):
		t, err := parseTimeArg(strings.TrimPrefix(line, "/at "))
		if err != nil {
			m.add(errorStyle.Render(err.Error()))
			return m, nil
		}
		m.player.Seek(t)
		m.add(m.cueLine())
		return m, nil
	case line == "/next" || line == "/prev":
		dir := playback.Forward
		if line == "/prev" {
			dir = playback.Backward
		}
		if _, ok := m.player.Step(dir); !ok {
			m.add(fmt.Sprintf("No cue %s of %s", directionWord(dir), subtitle.FormatTimecode(m.player.Cursor())))
			return m, nil
		}
		m.add(m.cueLine())
		return m, nil
	}

	if m.waiting {
		m.add(errorStyle.Render("still waiting for the previous answer"))
		return m, nil
	}

	m.waiting = true
	m.add(userStyle.Render("> " + line))

	ctx, chat := m.ctx, m.chat
	return m, func() tea.Msg {
		reply, err := chat.Send(ctx, line)
		return replyMsg{text: reply, err: err}
	}
}

func (m *chatModel) View() string {
	status := m.cueLine()
	if m.waiting {
		status += "  (thinking...)"
	}

	return cueStyle.Render(status) + "\n" +
		m.viewport.View() + "\n" +
		m.input.View() + "\n" +
		helpStyle.Render("  enter: Send • ↑/↓ pgup/pgdn: Scroll • /at /next /prev /reset • esc: Quit")
}

func (m *chatModel) cueLine() string {
	if cue, ok := m.player.Cue(); ok {
		return describeCue(m.player.Active(), cue)
	}
	return fmt.Sprintf("No active cue at %s", subtitle.FormatTimecode(m.player.Cursor()))
}

func (m *chatModel) add(entry string) {
	m.entries = append(m.entries, entry)
	m.refresh()
}

func (m *chatModel) refresh() {
	m.viewport.SetContent(strings.Join(m.entries, "\n\n"))
	m.viewport.GotoBottom()
}

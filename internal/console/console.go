// Package console 本地终端客户端，直接驱动机器人
package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wfunc/dungeon-bot/internal/bot"
	"github.com/wfunc/dungeon-bot/internal/game"
)

// Dispatcher 聊天指令处理器
type Dispatcher interface {
	Handle(ctx context.Context, sender bot.Sender, text string) bot.Reply
}

// StatusSource 侧栏状态来源
type StatusSource interface {
	Status(ctx context.Context, playerID string) (*game.StatusResult, error)
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

// Model 终端界面状态
type Model struct {
	dispatcher Dispatcher
	status     StatusSource
	sender     bot.Sender
	prefix     string

	input    textinput.Model
	viewport viewport.Model
	log      []string
	snapshot *game.StatusResult
	width    int
	height   int
}

// NewModel 创建终端界面
func NewModel(dispatcher Dispatcher, status StatusSource, sender bot.Sender, prefix string) Model {
	ti := textinput.New()
	ti.Placeholder = prefix + "start"
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 40

	return Model{
		dispatcher: dispatcher,
		status:     status,
		sender:     sender,
		prefix:     prefix,
		input:      ti,
		viewport:   viewport.New(60, 20),
	}
}

type replyMsg struct {
	reply bot.Reply
}

type statusMsg struct {
	status *game.StatusResult
}

// Init 初始化
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshStatus())
}

// Update 处理输入与回复
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			if text == "/quit" {
				return m, tea.Quit
			}
			// 省略前缀时自动补全
			if !strings.HasPrefix(text, m.prefix) {
				text = m.prefix + text
			}
			m.appendLog(userStyle.Render("> " + text))
			return m, m.send(text)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-6, 3)
		m.viewport.SetContent(strings.Join(m.log, "\n\n"))

	case replyMsg:
		style := botStyle
		if msg.reply.Kind == bot.KindError {
			style = errorStyle
		}
		m.appendLog(style.Width(m.logWidth()).Render(msg.reply.Text))
		return m, m.refreshStatus()

	case statusMsg:
		m.snapshot = msg.status
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View 渲染界面
func (m Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.renderPanel())
	help := helpStyle.Render(fmt.Sprintf("%shelp 查看指令，/quit 退出", m.prefix))
	return lipgloss.JoinVertical(lipgloss.Left, body, "\n"+m.input.View(), "\n"+help) + "\n"
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, line)
	m.viewport.SetContent(strings.Join(m.log, "\n\n"))
	m.viewport.GotoBottom()
}

func (m Model) logWidth() int {
	if m.width == 0 {
		return 60
	}
	return int(float64(m.width) * 0.7)
}

// renderPanel 侧栏显示玩家状态
func (m Model) renderPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.sender.PlayerID))
	b.WriteString("\n")

	if m.snapshot == nil || m.snapshot.Player == nil {
		b.WriteString("-")
	} else {
		p := m.snapshot.Player
		fmt.Fprintf(&b, "HP %d/%d\nDMG %d\n", p.CurrentHP, p.MaxHP, p.Damage)
		if loc := m.snapshot.CurrentLocation; loc != nil {
			fmt.Fprintf(&b, "\n%s\n%s %d/%d\n", loc.Name, loc.BossName, p.CurrentBossHP, loc.BossHP)
		}
		if len(m.snapshot.Passed) > 0 {
			b.WriteString("\n")
			for _, loc := range m.snapshot.Passed {
				fmt.Fprintf(&b, "✓ %s\n", loc.Name)
			}
		}
	}

	width := 20
	if m.width > 0 {
		width = m.width - m.logWidth() - 4
	}
	return panelStyle.Width(width).Height(m.viewport.Height).Render(b.String())
}

func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{reply: m.dispatcher.Handle(context.Background(), m.sender, text)}
	}
}

func (m Model) refreshStatus() tea.Cmd {
	return func() tea.Msg {
		res, err := m.status.Status(context.Background(), m.sender.PlayerID)
		if err != nil {
			return statusMsg{}
		}
		return statusMsg{status: res}
	}
}

// Run 运行终端界面
func Run(dispatcher Dispatcher, status StatusSource, sender bot.Sender, prefix string) error {
	p := tea.NewProgram(NewModel(dispatcher, status, sender, prefix), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gicheruj/birthday-present/internal/content"
	"github.com/gicheruj/birthday-present/internal/game"
	"github.com/gicheruj/birthday-present/internal/journal"
)

const logLines = 6

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#E0457B")).
			Padding(0, 1).
			MarginBottom(1)

	pageBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F2A65A")).
			Padding(1, 2)

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the experience in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := cfg.RNGSeed
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetUint64("seed")
		}
		return play(seed)
	},
}

func init() {
	playCmd.Flags().Uint64("seed", 0, "RNG seed (overrides RNG_SEED)")
	rootCmd.AddCommand(playCmd)
}

func play(seed uint64) error {
	exp, err := content.Load(cfg.ContentFile)
	if err != nil {
		return err
	}
	script, err := game.NewScript(exp)
	if err != nil {
		return err
	}
	j, err := journal.Open(cfg.Journal())
	if err != nil {
		return err
	}
	defer j.Close()

	events := make(chan game.Snapshot, 32)
	sess := game.NewSession(fmt.Sprintf("tty-%d", time.Now().UnixNano()), script, game.Options{
		RNG: game.NewRNG(seed),
		OnEvent: func(ev game.Event) {
			if len(ev.Milestones) > 0 {
				if err := j.Record(context.Background(), ev.Milestones...); err != nil {
					log.Warn().Err(err).Msg("journal milestones")
				}
			}
			select {
			case events <- ev.Snapshot:
			default:
			}
		},
	})
	defer sess.Close()

	m := newPlayModel(sess, exp.Recipient, events)
	_, err = tea.NewProgram(&m, tea.WithAltScreen()).Run()
	return err
}

type snapshotMsg game.Snapshot

type playModel struct {
	player    *player
	recipient string
	input     textinput.Model
	snap      game.Snapshot
	log       []string
	events    <-chan game.Snapshot
	width     int
}

func newPlayModel(sess *game.Session, recipient string, events <-chan game.Snapshot) playModel {
	ti := textinput.New()
	ti.Placeholder = "type a command (help for the list)"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	return playModel{
		player:    newPlayer(sess),
		recipient: recipient,
		input:     ti,
		snap:      sess.Snapshot(),
		events:    events,
	}
}

// waitForSnapshot delivers the next pushed snapshot (timer-driven changes).
func waitForSnapshot(ch <-chan game.Snapshot) tea.Cmd {
	return func() tea.Msg { return snapshotMsg(<-ch) }
}

func (m *playModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.events))
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.Version >= m.snap.Version {
			m.snap = game.Snapshot(msg)
		}
		return m, waitForSnapshot(m.events)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			out, err := m.player.run(line)
			if errors.Is(err, errQuit) {
				return m, tea.Quit
			}
			if err != nil {
				m.push(errStyle.Render(err.Error()))
			} else if out != "" {
				m.push(logStyle.Render(out))
			}
			m.snap = m.player.sess.Snapshot()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *playModel) push(line string) {
	m.log = append(m.log, line)
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}

func (m *playModel) View() string {
	title := titleStyle.Render(fmt.Sprintf(" For %s | page %d/%d | %s ", m.recipient, m.snap.Page, m.snap.Pages, m.snap.Kind))

	box := pageBoxStyle
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	controls := []string{}
	if m.snap.HasPrevious {
		controls = append(controls, "back")
	}
	if m.snap.CanContinue {
		controls = append(controls, "next")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		box.Render(renderPage(m.snap)),
		strings.Join(m.log, "\n"),
		"",
		m.input.View(),
		infoStyle.Render(fmt.Sprintf("controls: %s  (esc to quit, help for commands)", strings.Join(controls, " "))),
	)
}

package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zaapr0x/mc-hook/pkg/event"
	"github.com/zaapr0x/mc-hook/pkg/itemname"
)

// maxEntries bounds the feed buffer; older events scroll away.
const maxEntries = 500

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	events       <-chan event.Event
	feedViewport viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int

	entries    []event.Event
	pickups    int
	breaks     int
	byPlayer   map[string]int
	paused     bool
	feedClosed bool
	status     string

	// Quit confirmation state
	showQuitModal bool
}

type liveEventMsg struct {
	event event.Event
}

type feedClosedMsg struct{}

var (
	feedPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	pickupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	breakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // orange

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, seed []event.Event, events <-chan event.Event) ConsoleUI {
	feedVp := viewport.New(50, 20)
	feedVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	m := ConsoleUI{
		config:       cfg,
		events:       events,
		feedViewport: feedVp,
		metaViewport: metaVp,
		ready:        false,
		byPlayer:     make(map[string]int),
	}
	for _, e := range seed {
		m.record(e)
	}
	return m
}

// waitForEvent relays the next live event into the program.
func waitForEvent(ch <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return liveEventMsg{event: e}
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		fvCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.feedViewport, fvCmd = m.feedViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(fvCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		feedWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - feedWidth - 6

		m.feedViewport.Width = feedWidth - 2
		m.feedViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		// Reformat all content for the new width.
		m.writeFeedContent()
		m.writeMetaContent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		}

		switch msg.String() {
		case "q":
			m.showQuitModal = true
			return m, nil

		case "p":
			m.paused = !m.paused
			if m.paused {
				m.status = pausedStyle.Render("Feed paused")
			} else {
				m.status = ""
				m.writeFeedContent()
			}
			m.writeMetaContent()
			return m, nil

		case "c":
			m.copyLatest()
			return m, nil
		}

	case liveEventMsg:
		m.record(msg.event)
		m.writeMetaContent()
		return m, waitForEvent(m.events)

	case feedClosedMsg:
		m.feedClosed = true
		m.status = errorStyle.Render("Live feed disconnected")
		m.writeMetaContent()
		return m, nil
	}

	// Update components for non-mouse events
	m.feedViewport, fvCmd = m.feedViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(fvCmd, mvCmd)
}

// record folds one event into the buffer and counters.
func (m *ConsoleUI) record(e event.Event) {
	m.entries = append(m.entries, e)
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}

	switch e.Type {
	case event.TypePickup:
		m.pickups++
	case event.TypeBlockBreak:
		m.breaks++
	}
	if e.Player != "" {
		m.byPlayer[e.Player]++
	}

	if m.ready && !m.paused {
		m.writeFeedContent()
	}
}

func (m *ConsoleUI) copyLatest() {
	if len(m.entries) == 0 {
		m.status = promptStyle.Render("Nothing to copy yet")
		return
	}

	latest := m.entries[len(m.entries)-1]
	data, err := json.MarshalIndent(latest, "", "  ")
	if err == nil {
		err = clipboard.WriteAll(string(data))
	}
	if err != nil {
		m.status = errorStyle.Render("Copy failed: " + err.Error())
		return
	}
	m.status = fmt.Sprintf("Copied event %.8s to clipboard", latest.ID)
}

func formatEvent(e event.Event, width int) string {
	ts := timeStyle.Render(e.At.Local().Format("15:04:05"))
	player := playerStyle.Render(e.Player)

	var line string
	switch {
	case e.Type == event.TypePickup && e.Pickup != nil:
		line = fmt.Sprintf("%s %s picked up %d × %s",
			ts, player, e.Pickup.Amount, pickupStyle.Render(itemname.Display(e.Pickup.ItemTypeID)))
	case e.Type == event.TypeBlockBreak && e.Break != nil:
		loc := e.Break.Location
		line = fmt.Sprintf("%s %s broke %s at (%d, %d, %d)",
			ts, player, breakStyle.Render(itemname.Display(e.Break.BlockID)), loc.X, loc.Y, loc.Z)
	default:
		line = fmt.Sprintf("%s %s sent an unrecognized event", ts, player)
	}
	return wordwrap.String(line, width)
}

// writeFeedContent rebuilds the feed for the current viewport width.
func (m *ConsoleUI) writeFeedContent() {
	feedWidth := m.feedViewport.Width - 6 // Account for left(3) + right(3) padding
	sepWidth := feedWidth - 6
	if sepWidth < 1 {
		sepWidth = 1
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("MC-HOOK EVENT FEED") + "\n\n")
	content.WriteString("Live pickups and block breaks from the simulator.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", sepWidth)) + "\n\n")

	if len(m.entries) == 0 {
		content.WriteString(promptStyle.Render("Waiting for events...") + "\n")
	}
	for _, e := range m.entries {
		content.WriteString(formatEvent(e, feedWidth) + "\n")
	}

	m.feedViewport.SetContent(content.String())
	if !m.paused {
		m.feedViewport.GotoBottom()
	}
}

func (m *ConsoleUI) writeMetaContent() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("MC-HOOK") + "\n\n")

	content.WriteString("Feed:\n")
	switch {
	case m.feedClosed:
		content.WriteString(errorStyle.Render("disconnected") + "\n\n")
	case m.paused:
		content.WriteString(pausedStyle.Render("paused") + "\n\n")
	default:
		content.WriteString(pickupStyle.Render("live") + "\n\n")
	}

	content.WriteString("Events:\n")
	content.WriteString(fmt.Sprintf("%d total\n", m.pickups+m.breaks))
	content.WriteString(fmt.Sprintf("%d pickups\n", m.pickups))
	content.WriteString(fmt.Sprintf("%d breaks\n\n", m.breaks))

	if len(m.byPlayer) > 0 {
		content.WriteString("Players:\n")
		names := make([]string, 0, len(m.byPlayer))
		for name := range m.byPlayer {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			content.WriteString(fmt.Sprintf("• %s: %d\n", name, m.byPlayer[name]))
		}
		content.WriteString("\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• q: Quit\n")
	content.WriteString("• p: Pause/Resume\n")
	content.WriteString("• c: Copy latest JSON\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}

	case liveEventMsg:
		// Keep recording while the modal is up.
		m.record(msg.event)
		m.writeMetaContent()
		return m, waitForEvent(m.events)

	case feedClosedMsg:
		m.feedClosed = true
		m.writeMetaContent()
		return m, nil
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Console?"))
	content.WriteString("\n\n")
	content.WriteString("The simulator keeps running in the background.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep watching, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) footerLine() string {
	if m.status != "" {
		return m.status
	}
	if m.paused {
		return pausedStyle.Render("PAUSED (press p to resume)")
	}
	return promptStyle.Render("q quit • p pause • c copy latest")
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	feedWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - feedWidth - 6

	sepWidth := feedWidth - 4
	if sepWidth < 1 {
		sepWidth = 1
	}

	feedPanel := feedPanelStyle.Width(feedWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.feedViewport.View(),
			"", // Add empty line for spacing
			separatorStyle.Render(strings.Repeat("─", sepWidth)),
			m.footerLine(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, feedPanel, metaPanel)
}

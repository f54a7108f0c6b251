// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/arav7781/legalsearch-tui/internal/config"
	"github.com/arav7781/legalsearch-tui/internal/model"
	"github.com/arav7781/legalsearch-tui/internal/remote"
	"github.com/arav7781/legalsearch-tui/internal/reveal"
	"github.com/arav7781/legalsearch-tui/internal/session"
	"github.com/arav7781/legalsearch-tui/internal/transcript"
	"github.com/arav7781/legalsearch-tui/internal/ui/components"
	"github.com/arav7781/legalsearch-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is the interaction state of the chat view.
type State int

const (
	// StateReady accepts input.
	StateReady State = iota
	// StateWaiting has a request in flight; input is disabled.
	StateWaiting
	// StateRevealing is disclosing a reply; input is disabled.
	StateRevealing
)

// String returns the state name for the status bar.
func (s State) String() string {
	switch s {
	case StateWaiting:
		return "thinking"
	case StateRevealing:
		return "replying"
	default:
		return "ready"
	}
}

// placeholderTitle is the title sessions carry before their first
// message names them.
const placeholderTitle = "New chat"

// fallbackReply is appended as an assistant message when a send fails
// and the assistant's fallback policy is "message".
const fallbackReply = "Sorry, I ran into a problem answering that. Please try again."

// maxInputLength caps a single outgoing message.
const maxInputLength = 4000

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	cfg       *config.Config
	assistant string
	ac        config.AssistantConfig

	store  *session.Store
	client Sender
	loader *transcript.Loader
	anim   *reveal.Animator

	session    model.Session
	transcript *model.Transcript

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	// cancelMgr aborts the in-flight request; sendSeq invalidates its
	// result so an aborted send can never land in the transcript.
	cancelMgr *cancelManager
	sendSeq   uint64

	state    State
	banner   components.Banner
	sessions components.SessionList

	// collection is the active document collection for the docs
	// assistant, set by /upload.
	collection string

	width  int
	height int
	ready  bool

	// md renders settled assistant messages as markdown. Rebuilt on
	// resize to pick up the new wrap width; nil until the first resize
	// or when markdown rendering is off.
	md *glamour.TermRenderer
}

// New creates the chat view for one assistant profile. The active
// session is resolved (or created) from the store; its remote history is
// fetched by Init.
func New(cfg *config.Config, assistant string, store *session.Store, client Sender, loader *transcript.Loader, theme *styles.Theme) Model {
	ac, _ := cfg.Assistant(assistant)

	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = maxInputLength
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	anim := reveal.NewAnimator()
	anim.SetWordsPerTick(cfg.Reveal.WordsPerTick)

	sess := store.EnsureActive()

	return Model{
		theme:      theme,
		keys:       DefaultKeyMap(),
		cfg:        cfg,
		assistant:  assistant,
		ac:         ac,
		store:      store,
		client:     client,
		loader:     loader,
		anim:       anim,
		session:    sess,
		transcript: model.NewTranscript(sess.ID),
		input:      ti,
		spin:       sp,
		cancelMgr:  newCancelManager(),
		sessions:   components.NewSessionList(),
	}
}

// Init starts the cursor blink and the history fetch for the active
// session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.beginHistoryLoad())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateWaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case SendResultMsg:
		return m.handleSendResult(msg)

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case RevealTickMsg:
		return m.handleRevealTick()

	case RemoteDeleteDoneMsg:
		if msg.Err != nil {
			log.Printf("remote delete failed for %s: %v", msg.SessionID, msg.Err)
		}
		return m, nil

	case UploadDoneMsg:
		return m.handleUploadDone(msg)

	case ConfigReloadedMsg:
		m.cfg = msg.Cfg
		if ac, ok := msg.Cfg.Assistant(m.assistant); ok {
			m.ac = ac
		}
		m.anim.SetWordsPerTick(msg.Cfg.Reveal.WordsPerTick)
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.banner = components.NewErrorBanner("Export failed: " + msg.Err.Error())
		} else {
			m.banner = components.NewInfoBanner("Exported to " + msg.Path)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := msg.Height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 6

	if m.cfg.UI.Markdown {
		wrap := msg.Width - 8
		if wrap < 20 {
			wrap = 20
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err == nil {
			m.md = md
		}
	}

	m.refreshViewport(true)
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancelMgr.cancel()
		return m, tea.Quit
	}

	if m.sessions.Visible() {
		return m.handleSessionKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Dismiss):
		return m.handleDismiss()

	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()

	case key.Matches(msg, m.keys.Sessions):
		m.sessions = m.sessions.Show(m.store.List(), m.session.ID)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.state == StateReady {
			return m.handleSubmit()
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	if m.state == StateReady {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sessions = m.sessions.CursorUp()
	case key.Matches(msg, m.keys.Down):
		m.sessions = m.sessions.CursorDown()
	case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Sessions):
		m.sessions = m.sessions.Hide()
	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()
	case key.Matches(msg, m.keys.Submit):
		if s, ok := m.sessions.Selected(); ok {
			m.sessions = m.sessions.Hide()
			return m.switchSession(s)
		}
		m.sessions = m.sessions.Hide()
	}
	return m, nil
}

// handleDismiss is the escape key: banner first, then the in-flight
// request, then a running reveal.
func (m Model) handleDismiss() (tea.Model, tea.Cmd) {
	if m.banner.Visible() {
		m.banner = m.banner.Dismiss()
		return m, nil
	}

	switch m.state {
	case StateWaiting:
		m.cancelMgr.cancel()
		m.sendSeq++
		m.state = StateReady
		return m, nil

	case StateRevealing:
		// Skip the animation and show the full reply.
		if active := m.transcript.ByID(m.anim.ActiveID()); active != nil {
			active.FinishReveal()
		}
		m.anim.Cancel(m.anim.ActiveID())
		m.state = StateReady
		m.refreshViewport(true)
		return m, nil
	}
	return m, nil
}

// =============================================================================
// SUBMIT AND SEND
// =============================================================================

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		return m.handleSlash(text)
	}
	if m.assistant == config.AssistantDocs && m.collection == "" {
		m.banner = components.NewInfoBanner("Upload a document first: /upload <pdf-url>")
		return m, nil
	}

	m.input.Reset()
	m.transcript.AppendUser(text)
	m.persistTitle()
	m.store.Touch(m.session.ID)

	// Abort whatever was in flight; this send owns the slot now.
	m.sendSeq++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	m.state = StateWaiting
	m.refreshViewport(true)

	return m, tea.Batch(
		sendCmd(ctx, m.client, m.assistant, m.ac, m.session.ID, m.collection, text, m.sendSeq),
		m.spin.Tick,
	)
}

func (m Model) handleSendResult(msg SendResultMsg) (tea.Model, tea.Cmd) {
	// Results from an aborted or superseded send are dropped.
	if msg.Seq != m.sendSeq || msg.SessionID != m.session.ID || m.state != StateWaiting {
		return m, nil
	}
	m.cancelMgr.cancel()

	reply := msg.Reply
	if msg.Err != nil {
		log.Printf("send failed (%s): %v", m.assistant, msg.Err)
		m.banner = components.NewErrorBanner(friendlyError(msg.Err))
		if m.ac.FallbackPolicy != config.FallbackMessage {
			m.state = StateReady
			return m, nil
		}
		// The message policy also leaves a placeholder in the
		// transcript so the failed exchange stays visible after the
		// banner is dismissed.
		reply = fallbackReply
	}

	replyMsg := m.transcript.AppendAssistant(reply)
	m.store.Touch(m.session.ID)

	if !m.cfg.Reveal.Enabled {
		replyMsg.FinishReveal()
		m.state = StateReady
		m.refreshViewport(true)
		return m, nil
	}

	m.anim.Start(replyMsg.ID, reply)
	if !m.anim.Revealing() {
		replyMsg.FinishReveal()
		m.state = StateReady
		m.refreshViewport(true)
		return m, nil
	}

	m.state = StateRevealing
	m.refreshViewport(true)
	return m, revealTickCmd(m.tickInterval())
}

func (m Model) handleRevealTick() (tea.Model, tea.Cmd) {
	if m.state != StateRevealing || !m.anim.Revealing() {
		return m, nil
	}

	active := m.transcript.ByID(m.anim.ActiveID())
	offset, done := m.anim.Advance()
	if active != nil {
		active.Reveal(offset)
	}
	m.refreshViewport(true)

	if done {
		if active != nil {
			active.FinishReveal()
		}
		m.state = StateReady
		return m, nil
	}
	return m, revealTickCmd(m.tickInterval())
}

// =============================================================================
// SESSIONS
// =============================================================================

// newChat aborts in-flight work, settles any running reveal, and starts
// a fresh session.
func (m Model) newChat() (tea.Model, tea.Cmd) {
	m.abortPending()

	sess := m.store.Create()
	m.session = sess
	m.transcript = model.NewTranscript(sess.ID)
	m.state = StateReady
	m.banner = m.banner.Dismiss()
	m.sessions = m.sessions.Hide()
	m.refreshViewport(true)
	return m, nil
}

// switchSession activates an existing session. Its transcript is always
// refetched from the remote store, never served from a local cache.
func (m Model) switchSession(s model.Session) (tea.Model, tea.Cmd) {
	if s.ID == m.session.ID {
		return m, nil
	}
	m.abortPending()

	m.store.SetActive(s.ID)
	m.session = s
	m.transcript = model.NewTranscript(s.ID)
	m.state = StateReady
	m.banner = m.banner.Dismiss()
	m.refreshViewport(true)
	return m, m.beginHistoryLoad()
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	s, ok := m.sessions.Selected()
	if !ok {
		return m, nil
	}

	active, err := m.store.Delete(s.ID)
	if err != nil {
		m.banner = components.NewErrorBanner("Could not delete session")
		return m, nil
	}

	cmds := []tea.Cmd{deleteRemoteCmd(m.client, s.ID)}

	if s.ID == m.session.ID {
		m.abortPending()
		m.session = active
		m.transcript = model.NewTranscript(active.ID)
		m.state = StateReady
		m.refreshViewport(true)
		if cmd := m.beginHistoryLoad(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	m.sessions = m.sessions.Show(m.store.List(), m.session.ID)
	return m, tea.Batch(cmds...)
}

// abortPending cancels the in-flight request and settles a running
// reveal so no stale work bleeds into the next session.
func (m *Model) abortPending() {
	m.cancelMgr.cancel()
	m.sendSeq++
	if m.anim.Revealing() {
		if active := m.transcript.ByID(m.anim.ActiveID()); active != nil {
			active.FinishReveal()
		}
		m.anim.Cancel(m.anim.ActiveID())
	}
}

// =============================================================================
// HISTORY
// =============================================================================

// beginHistoryLoad marks the active session loading and returns the
// fetch command, or nil when a load for it is already in flight.
func (m *Model) beginHistoryLoad() tea.Cmd {
	gen, ok := m.loader.Begin(m.session.ID)
	if !ok {
		return nil
	}
	return loadHistoryCmd(m.loader, m.session.ID, gen)
}

func (m Model) handleHistoryLoaded(msg HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	// Results for a session that is no longer selected, or overtaken by
	// a newer load of the same session, are dropped. A load that was in
	// flight across a switch away and back remains the latest for its
	// session and lands normally.
	if msg.SessionID != m.session.ID || !m.loader.Latest(msg.SessionID, msg.Gen) {
		return m, nil
	}

	if msg.Err != nil {
		log.Printf("history load failed for %s: %v", msg.SessionID, msg.Err)
		m.banner = components.NewWarningBanner("Could not load history; starting fresh")
		return m, nil
	}

	m.transcript = msg.Transcript
	m.persistTitle()
	m.refreshViewport(true)
	return m, nil
}

// persistTitle names the session after its first user message, once.
func (m *Model) persistTitle() {
	if m.session.Title != placeholderTitle {
		return
	}
	title := m.transcript.Title()
	if title == "" {
		return
	}
	if err := m.store.SetTitle(m.session.ID, title); err == nil {
		m.session.Title = title
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m Model) handleSlash(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	m.input.Reset()

	switch fields[0] {
	case "/export":
		if m.transcript.IsEmpty() {
			m.banner = components.NewInfoBanner("Nothing to export yet")
			return m, nil
		}
		return m, exportCmd(m.transcript, m.session.Title, m.assistant, m.exportDir())

	case "/upload":
		if m.assistant != config.AssistantDocs {
			m.banner = components.NewInfoBanner("/upload is only available in the docs assistant")
			return m, nil
		}
		if len(fields) < 2 {
			m.banner = components.NewInfoBanner("Usage: /upload <pdf-url>")
			return m, nil
		}

		m.sendSeq++
		ctx, cancel := context.WithCancel(context.Background())
		m.cancelMgr.set(cancel)
		m.state = StateWaiting
		return m, tea.Batch(uploadCmd(ctx, m.client, fields[1], m.sendSeq), m.spin.Tick)

	default:
		m.banner = components.NewInfoBanner("Unknown command: " + fields[0])
		return m, nil
	}
}

func (m Model) handleUploadDone(msg UploadDoneMsg) (tea.Model, tea.Cmd) {
	// A result from an aborted or superseded upload changes nothing;
	// acting on it would cancel the newer in-flight request.
	if msg.Seq != m.sendSeq || m.state != StateWaiting {
		return m, nil
	}

	m.cancelMgr.cancel()
	m.state = StateReady

	if msg.Err != nil {
		if remote.IsCancelled(msg.Err) {
			return m, nil
		}
		m.banner = components.NewErrorBanner("Upload failed: " + friendlyError(msg.Err))
		return m, nil
	}

	m.collection = msg.Collection
	m.transcript.AppendSystem("Document indexed. Questions now run against this document.")
	m.refreshViewport(true)
	return m, nil
}

func (m Model) exportDir() string {
	if dir := m.cfg.Storage.ExportDir; dir != "" {
		return dir
	}
	return "."
}

// =============================================================================
// HELPERS
// =============================================================================

func (m Model) tickInterval() time.Duration {
	if ms := m.cfg.Reveal.TickMillis; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return reveal.TickInterval
}

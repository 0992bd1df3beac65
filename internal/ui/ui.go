package ui

import (
	"context"
	"fmt"

	"github.com/Posajpa/Spotify-Playlist-Generator/internal/models"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/services"
	"github.com/Posajpa/Spotify-Playlist-Generator/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CriteriaView ViewState = iota
	PreviewView
	ConfirmView
	BuildView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	library      services.Library
	engine       *tasks.GeneratorEngine
	width        int
	height       int
	keywordInput textinput.Model
	user         *models.User
	trackList    list.Model
	preview      *tasks.GenerateResult
	loading      bool
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.GenerateResult
	err          error
	help         help.Model
	keys         keyMap
}

type userFetchedMsg struct {
	user *models.User
	err  error
}

type previewDoneMsg struct {
	result *tasks.GenerateResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type buildDoneMsg struct {
	result *tasks.GenerateResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library services.Library, engine *tasks.GeneratorEngine) *Model {
	input := textinput.New()
	input.Placeholder = "keyword, e.g. love"
	input.Focus()
	input.CharLimit = 64
	input.Width = 32

	return &Model{
		ctx:          ctx,
		view:         CriteriaView,
		library:      library,
		engine:       engine,
		keywordInput: input,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the TUI by resolving the authenticated user.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchUser())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CriteriaView:
			return m.handleCriteriaKeys(msg)
		case PreviewView:
			return m.handlePreviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case userFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.user = msg.user
		return m, nil

	case previewDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.view = CriteriaView
			return m, nil
		}
		m.err = nil
		m.preview = msg.result
		items := make([]list.Item, len(msg.result.Filtered))
		for i, track := range msg.result.Filtered {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Matched %d of %d saved tracks", len(msg.result.Filtered), msg.result.FetchedCount)
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = PreviewView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case buildDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == PreviewView {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView && m.view != CriteriaView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CriteriaView:
		return m.renderCriteria()
	case PreviewView:
		return m.renderPreview()
	case ConfirmView:
		return m.renderConfirm()
	case BuildView:
		return m.renderBuild()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleCriteriaKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		keyword := m.keywordInput.Value()
		if keyword == "" {
			return m, nil
		}
		m.loading = true
		return m, m.startPreview(keyword)
	}

	var cmd tea.Cmd
	m.keywordInput, cmd = m.keywordInput.Update(msg)
	return m, cmd
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CriteriaView
		return m, nil
	case "enter":
		if m.preview != nil && len(m.preview.Filtered) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = PreviewView
		return m, nil
	case "y":
		m.view = BuildView
		return m, m.startBuild()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = CriteriaView
		m.preview = nil
		m.result = nil
		m.err = nil
		m.keywordInput.SetValue("")
		m.keywordInput.Focus()
		return m, nil
	}
	return m, nil
}

func (m *Model) fetchUser() tea.Cmd {
	return func() tea.Msg {
		user, err := m.library.CurrentUser(m.ctx)
		return userFetchedMsg{user: user, err: err}
	}
}

func (m *Model) startPreview(keyword string) tea.Cmd {
	return func() tea.Msg {
		opts := tasks.GenerateOpts{
			OwnerID:  m.userID(),
			DryRun:   true,
			Criteria: models.FilterCriteria{Keyword: keyword},
		}
		result, err := m.engine.Generate(m.ctx, nil, opts)
		return previewDoneMsg{result: result, err: err}
	}
}

func (m *Model) startBuild() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	keyword := m.keywordInput.Value()
	opts := tasks.GenerateOpts{
		OwnerID:  m.userID(),
		Name:     fmt.Sprintf("%s tracks", keyword),
		Criteria: models.FilterCriteria{Keyword: keyword},
	}

	go func() {
		result, err := m.engine.Generate(m.ctx, progressChan, opts)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return buildDoneMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return buildDoneMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) userID() string {
	if m.user == nil {
		return ""
	}
	return m.user.ID
}

func (m *Model) renderCriteria() string {
	title := styles.title.Render("Generate a playlist from your saved tracks")
	input := m.keywordInput.View()

	status := ""
	if m.loading {
		status = "\nFetching and filtering your library..."
	} else if m.err != nil {
		status = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpView := styles.help.Render("enter: preview • ctrl+c: quit")
	return fmt.Sprintf("%s\nKeyword: %s\n%s\n\n%s", title, input, status, helpView)
}

func (m *Model) renderPreview() string {
	helpKeys := []key.Binding{m.keys.build, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Create playlist '%s tracks'?", m.keywordInput.Value()))
	info := fmt.Sprintf("\nTracks: %d\n", len(m.preview.Filtered))

	helpKeys := []key.Binding{m.keys.confirm, m.keys.cancel, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderBuild() string {
	title := styles.title.Render("Building Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchLibrary:
		phase = "Fetching saved tracks..."
	case tasks.EnrichFeatures:
		phase = fmt.Sprintf("Fetching audio features (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FilterLibrary:
		phase = "Filtering library..."
	case tasks.CreatePlaylist:
		phase = "Creating playlist..."
	case tasks.AppendTracks:
		phase = fmt.Sprintf("Adding tracks (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Generation failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil || m.result.Playlist == nil {
		return styles.err.Render("No playlist was created\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nTracks: %d of %d saved tracks matched\nShare: %s",
		m.result.Playlist.Name,
		len(m.result.Filtered),
		m.result.FetchedCount,
		m.result.ShareURL,
	)

	helpKeys := []key.Binding{m.keys.again, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

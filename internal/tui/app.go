package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lotas/onehandle/internal/export"
	"github.com/lotas/onehandle/internal/favorites"
	"github.com/lotas/onehandle/internal/search"
	"github.com/lotas/onehandle/internal/source"
	"github.com/lotas/onehandle/internal/tabs"
	"github.com/lotas/onehandle/internal/types"
)

// debounceDelay is the quiet period before a search re-filter runs.
const debounceDelay = 300 * time.Millisecond

// --- Messages ---

type loadedMsg struct {
	groups    []types.WindowGroup
	favorites []types.FavoriteTab
}

type refilterMsg struct {
	view ViewType
}

type statusMsg struct {
	text string
}

type clearStatusMsg struct{}

type serverStoppedMsg struct{}

// --- Model ---

type Model struct {
	src   source.Source
	store *favorites.Store
	clip  export.Clipboard
	saver export.Saver

	view    ViewType
	loading bool
	width   int
	height  int
	status  string

	// Tabs view
	groups         []types.WindowGroup
	filteredGroups []types.WindowGroup
	tabCursor      int
	tabSearch      textinput.Model
	tabDebounce    *search.Debouncer

	// Favorites view
	favs         []types.FavoriteTab
	filteredFavs []types.FavoriteTab
	favCursor    int
	favSearch    textinput.Model
	favDebounce  *search.Debouncer

	favSet map[string]bool // url -> favorited

	searching bool

	// events carries messages produced outside the update loop:
	// debounced re-filters and server lifecycle.
	events chan tea.Msg
}

// NewModel wires the popup UI over its collaborators.
func NewModel(src source.Source, store *favorites.Store, clip export.Clipboard, saver export.Saver) Model {
	tabSearch := textinput.New()
	tabSearch.Placeholder = "search tabs"
	tabSearch.CharLimit = 128
	favSearch := textinput.New()
	favSearch.Placeholder = "search favorites"
	favSearch.CharLimit = 128

	return Model{
		src:         src,
		store:       store,
		clip:        clip,
		saver:       saver,
		loading:     true,
		tabSearch:   tabSearch,
		favSearch:   favSearch,
		tabDebounce: search.NewDebouncer(debounceDelay),
		favDebounce: search.NewDebouncer(debounceDelay),
		favSet:      make(map[string]bool),
		events:      make(chan tea.Msg, 16),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenEvents(), load(m.src, m.store)}
	if srv, ok := m.src.(*source.ExtensionServer); ok {
		cmds = append(cmds, runServer(srv, m.events))
	}
	return tea.Batch(cmds...)
}

// listenEvents pumps one message from the events channel into the
// update loop; Update re-issues it after every delivery.
func (m Model) listenEvents() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		return <-ch
	}
}

func runServer(srv *source.ExtensionServer, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		srv.ListenAndServe(context.Background())
		return serverStoppedMsg{}
	}
}

func load(src source.Source, store *favorites.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return loadedMsg{
			groups:    tabs.GroupedByWindow(ctx, src),
			favorites: store.List(ctx),
		}
	}
}

func flashStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		m.groups = msg.groups
		m.favs = msg.favorites
		m.favSet = make(map[string]bool, len(msg.favorites))
		for _, f := range msg.favorites {
			m.favSet[f.URL] = true
		}
		m.applyTabFilter()
		m.applyFavFilter()
		return m, nil

	case refilterMsg:
		if msg.view == ViewTabs {
			m.applyTabFilter()
		} else {
			m.applyFavFilter()
		}
		return m, m.listenEvents()

	case statusMsg:
		m.status = msg.text
		return m, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case serverStoppedMsg:
		return m, m.listenEvents()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.tabDebounce.Stop()
		m.favDebounce.Stop()
		return m, tea.Quit

	case "tab":
		if m.view == ViewTabs {
			m.view = ViewFavorites
		} else {
			m.view = ViewTabs
		}
		return m, nil

	case "/":
		m.searching = true
		if m.view == ViewTabs {
			return m, m.tabSearch.Focus()
		}
		return m, m.favSearch.Focus()

	case "r":
		m.loading = true
		return m, load(m.src, m.store)

	case "c":
		if export.CopyAllURLs(m.filteredGroups, m.clip) {
			return m, flashStatus("URLs copied to clipboard")
		}
		return m, flashStatus("clipboard unavailable")

	case "d":
		groups := m.filteredGroups
		saver := m.saver
		return m, func() tea.Msg {
			if err := export.DownloadAllTabs(groups, saver); err != nil {
				return statusMsg{text: "export failed: " + err.Error()}
			}
			return statusMsg{text: "saved " + export.ArchiveName}
		}

	case "up", "k":
		m.moveCursor(-1)
		return m, nil

	case "down", "j":
		m.moveCursor(1)
		return m, nil

	case "f":
		if m.view == ViewTabs {
			return m.toggleFavorite()
		}
		return m, nil

	case "x":
		if m.view == ViewFavorites {
			return m.removeFavorite()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.tabSearch.Blur()
		m.favSearch.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	view := m.view
	events := m.events
	if view == ViewTabs {
		m.tabSearch, cmd = m.tabSearch.Update(msg)
		m.tabDebounce.Trigger(func() { events <- refilterMsg{view: ViewTabs} })
	} else {
		m.favSearch, cmd = m.favSearch.Update(msg)
		m.favDebounce.Trigger(func() { events <- refilterMsg{view: ViewFavorites} })
	}
	return m, cmd
}

func (m *Model) applyTabFilter() {
	m.filteredGroups = search.FilterGroups(m.groups, m.tabSearch.Value())
	if m.tabCursor >= m.visibleTabCount() {
		m.tabCursor = 0
	}
}

func (m *Model) applyFavFilter() {
	m.filteredFavs = search.FilterFavorites(m.favs, m.favSearch.Value())
	if m.favCursor >= len(m.filteredFavs) {
		m.favCursor = 0
	}
}

func (m *Model) visibleTabCount() int {
	n := 0
	for _, g := range m.filteredGroups {
		n += len(g.Tabs)
	}
	return n
}

func (m *Model) moveCursor(delta int) {
	if m.view == ViewTabs {
		max := m.visibleTabCount() - 1
		m.tabCursor = clamp(m.tabCursor+delta, 0, max)
	} else {
		m.favCursor = clamp(m.favCursor+delta, 0, len(m.filteredFavs)-1)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// selectedTab resolves the tabs-view cursor against the flattened
// filtered sequence.
func (m *Model) selectedTab() *types.TabRecord {
	i := 0
	for gi := range m.filteredGroups {
		for ti := range m.filteredGroups[gi].Tabs {
			if i == m.tabCursor {
				return &m.filteredGroups[gi].Tabs[ti]
			}
			i++
		}
	}
	return nil
}

func (m Model) toggleFavorite() (tea.Model, tea.Cmd) {
	tab := m.selectedTab()
	if tab == nil {
		return m, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if m.favSet[tab.URL] {
		m.favs = m.store.Remove(ctx, tab.URL)
	} else {
		m.favs = m.store.Add(ctx, favorites.Candidate{
			URL:     tab.URL,
			Title:   tab.Title,
			Favicon: tab.Favicon,
			Domain:  tab.Domain,
		})
	}
	m.favSet = make(map[string]bool, len(m.favs))
	for _, f := range m.favs {
		m.favSet[f.URL] = true
	}
	m.applyFavFilter()
	return m, nil
}

func (m Model) removeFavorite() (tea.Model, tea.Cmd) {
	if m.favCursor >= len(m.filteredFavs) {
		return m, nil
	}
	url := m.filteredFavs[m.favCursor].URL

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.favs = m.store.Remove(ctx, url)
	delete(m.favSet, url)
	m.applyFavFilter()
	return m, nil
}

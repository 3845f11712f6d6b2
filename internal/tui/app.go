package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/config"
	"github.com/matheus3301/wppview/internal/install"
	"github.com/matheus3301/wppview/internal/lock"
	"github.com/matheus3301/wppview/internal/logging"
	"github.com/matheus3301/wppview/internal/love"
	"github.com/matheus3301/wppview/internal/match"
	"github.com/matheus3301/wppview/internal/pipeline"
	"github.com/matheus3301/wppview/internal/profile"
	"github.com/matheus3301/wppview/internal/remote"
	"github.com/matheus3301/wppview/internal/search"
	"github.com/matheus3301/wppview/internal/status"
	"github.com/matheus3301/wppview/internal/tui/keys"
	"github.com/matheus3301/wppview/internal/tui/model"
	"github.com/matheus3301/wppview/internal/tui/ui"
	"github.com/matheus3301/wppview/internal/tui/views"
	"github.com/matheus3301/wppview/internal/viewport"
	"github.com/matheus3301/wppview/internal/watch"
)

// Page names.
const (
	pageOpen         = "open"
	pageChat         = "chat"
	pageResults      = "results"
	pageStarred      = "starred"
	pageParticipants = "participants"
	pageDebug        = "debug"
	pageStats        = "stats"
	pageShare        = "share"
	pageHelp         = "help"
	pageLove         = "love"
)

// Options configure the viewer.
type Options struct {
	Profile string
	Config  *config.Config
	Guard   *cache.Guard
	Bus     *bus.Bus
	Logger  *zap.Logger

	// Initial source; at most one of ChatPath, Remote and Cached is used.
	ChatPath string
	MediaDir string
	Remote   bool
	Cached   bool
	// Watch reloads a local export when its files change.
	Watch bool
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	opts     Options
	cfg      *config.Config
	log      *zap.Logger
	bus      *bus.Bus
	theme    *ui.Theme
	registry *keys.Registry

	vm       *model.ViewModel
	loader   *pipeline.Loader
	engine   *love.Engine
	flash    *ui.FlashModel
	debounce *search.Debouncer
	redraw   *viewport.Coalescer
	opener   *Opener

	root      *tview.Flex
	pages     *ui.Pages
	logo      *ui.Logo
	chatInfo  *ui.ChatInfo
	menu      *ui.Menu
	crumbs    *ui.Crumbs
	prompt    *ui.Prompt
	flashBar  *ui.FlashBar
	statusBar *views.StatusBar

	list         *views.MessageList
	results      *views.SearchView
	starred      *views.StarredView
	participants *views.ParticipantsView
	debug        *views.DebugView
	stats        *views.StatsView
	share        *views.ShareView
	help         *views.HelpView
	open         *views.OpenView
	popup        *views.LovePopup

	ctx         context.Context
	cancel      context.CancelFunc
	watchCancel context.CancelFunc
	last        views.OpenRequest
	renaming    string
	popupGen    int
}

// NewApp creates the TUI application.
func NewApp(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	b := opts.Bus
	if b == nil {
		b = bus.New()
	}
	log := logging.OrNop(opts.Logger)

	vm := model.NewViewModel(opts.Guard, cfg.Viewer.ItemHeight, cfg.Viewer.Buffer, cfg.Viewer.Viewpoint)
	theme := ui.ThemeFor(vm.ThemePref(cfg.Viewer.Theme))

	a := &App{
		app:      tview.NewApplication(),
		opts:     opts,
		cfg:      cfg,
		log:      log,
		bus:      b,
		theme:    theme,
		registry: keys.NewRegistry(),
		vm:       vm,
		loader:   pipeline.NewLoader(pipeline.Options{Policy: match.ParsePolicy(cfg.Media.Fallback)}, b, opts.Guard, log),
		engine:   love.NewEngine(love.DefaultRules(), b, log),
		flash:    ui.NewFlashModel(),
		opener:   NewOpener(filepath.Join(os.TempDir(), "wppview-media")),
		ctx:      ctx,
		cancel:   cancel,
	}
	a.debounce = search.NewDebouncer(time.Duration(cfg.Viewer.SearchDebounceMS)*time.Millisecond, func(q string) {
		a.app.QueueUpdateDraw(func() { a.runSearch(q) })
	})
	a.redraw = viewport.NewCoalescer(time.Duration(cfg.Viewer.FrameMS)*time.Millisecond, func() {
		a.app.QueueUpdateDraw(a.refreshChrome)
	})

	a.buildViews()
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func (a *App) buildViews() {
	t := a.theme
	a.pages = ui.NewPages()
	a.logo = ui.NewLogo(t)
	a.chatInfo = ui.NewChatInfo(t)
	a.menu = ui.NewMenu(t, 5)
	a.crumbs = ui.NewCrumbs(t)
	a.prompt = ui.NewPrompt(t)
	a.flashBar = ui.NewFlashBar(t)
	a.statusBar = views.NewStatusBar(t)
	a.statusBar.SetProfile(a.opts.Profile)
	a.statusBar.SetStatus(string(status.Idle), false)

	a.list = views.NewMessageList(t, a.vm)
	a.results = views.NewSearchView(t)
	a.starred = views.NewStarredView(t)
	a.participants = views.NewParticipantsView(t)
	a.debug = views.NewDebugView(t)
	a.stats = views.NewStatsView(t, a.vm.DisplayName)
	a.share = views.NewShareView(t)
	a.help = views.NewHelpView(t)
	a.open = views.NewOpenView(t, a.opts.ChatPath, a.opts.MediaDir, a.cfg.Remote.URL)
	a.popup = views.NewLovePopup(t)

	a.pages.AddScreen(pageOpen, a.open)
	a.pages.AddScreen(pageChat, a.list)
	a.pages.AddScreen(pageResults, a.results)
	a.pages.AddScreen(pageStarred, a.starred)
	a.pages.AddScreen(pageParticipants, a.participants)
	a.pages.AddScreen(pageDebug, a.debug)
	a.pages.AddScreen(pageStats, a.stats)
	a.pages.AddScreen(pageShare, a.share)
	a.pages.AddScreen(pageHelp, a.help)
	a.pages.AddModal(pageLove, a.popup)
}

func (a *App) substantive() []ui.Themed {
	return []ui.Themed{
		a.logo, a.chatInfo, a.menu, a.crumbs, a.prompt, a.flashBar, a.statusBar,
		a.list, a.results, a.starred, a.participants, a.debug, a.stats, a.share,
		a.help, a.open, a.popup,
	}
}

func (a *App) component(page string) ui.Component {
	switch page {
	case pageOpen:
		return a.open
	case pageChat:
		return a.list
	case pageResults:
		return a.results
	case pageStarred:
		return a.starred
	case pageParticipants:
		return a.participants
	case pageDebug:
		return a.debug
	case pageStats:
		return a.stats
	case pageShare:
		return a.share
	case pageHelp:
		return a.help
	case pageLove:
		return a.popup
	}
	return nil
}

func (a *App) focusable(page string) tview.Primitive {
	if p, ok := a.component(page).(tview.Primitive); ok {
		return p
	}
	return a.list
}

func (a *App) setupBindings() {
	r := a.registry
	now := time.Now
	chat := func(name string, k tcell.Key, ch rune, label, desc string, fn func()) {
		r.AddView(pageChat, &keys.Action{Name: name, Key: k, Rune: ch, Label: label, Description: desc, Handler: fn, Visible: desc != ""})
	}

	r.AddGlobal(&keys.Action{Name: "quit", Key: tcell.KeyRune, Rune: 'q', Description: "Quit / Back", Visible: true, Handler: a.back})
	r.AddGlobal(&keys.Action{Name: "command", Key: tcell.KeyRune, Rune: ':', Description: "Command", Visible: true, Handler: func() { a.activatePrompt(ui.PromptCommand, "") }})
	r.AddGlobal(&keys.Action{Name: "help", Key: tcell.KeyRune, Rune: '?', Description: "Help", Visible: true, Handler: func() { a.push(pageHelp) }})
	r.AddGlobal(&keys.Action{Name: "theme", Key: tcell.KeyRune, Rune: 't', Description: "Theme", Visible: true, Handler: a.toggleTheme})
	r.AddGlobal(&keys.Action{Name: "back", Key: tcell.KeyEscape, Label: "Esc", Description: "Back", Handler: a.back})

	chat("down", tcell.KeyRune, 'j', "j/k", "Down/Up", func() { a.scrolled(a.vm.MoveSelection(1, now())) })
	chat("up", tcell.KeyRune, 'k', "", "", func() { a.scrolled(a.vm.MoveSelection(-1, now())) })
	chat("down-arrow", tcell.KeyDown, 0, "", "", func() { a.scrolled(a.vm.MoveSelection(1, now())) })
	chat("up-arrow", tcell.KeyUp, 0, "", "", func() { a.scrolled(a.vm.MoveSelection(-1, now())) })
	chat("page-down", tcell.KeyPgDn, 0, "PgUp/PgDn", "Page", func() { a.scrolled(a.vm.PageDown(now())) })
	chat("page-up", tcell.KeyPgUp, 0, "", "", func() { a.scrolled(a.vm.PageUp(now())) })
	chat("top", tcell.KeyRune, 'g', "g/G", "Top/Bottom", func() { a.scrolled(a.vm.Top(now())) })
	chat("bottom", tcell.KeyRune, 'G', "", "", func() { a.scrolled(a.vm.Bottom(now())) })
	chat("home", tcell.KeyHome, 0, "", "", func() { a.scrolled(a.vm.Top(now())) })
	chat("end", tcell.KeyEnd, 0, "", "", func() { a.scrolled(a.vm.Bottom(now())) })
	chat("search", tcell.KeyRune, '/', "/", "Search", func() { a.activatePrompt(ui.PromptSearch, a.vm.SearchResult().Query) })
	chat("next", tcell.KeyRune, 'n', "n/N", "Next/Prev match", func() { a.stepMatch(a.vm.NextMatch) })
	chat("prev", tcell.KeyRune, 'N', "", "", func() { a.stepMatch(a.vm.PrevMatch) })
	chat("results", tcell.KeyRune, 'R', "R", "Results", a.showResults)
	chat("star", tcell.KeyRune, '*', "*", "Star", func() { a.toggleStar(a.vm.Selected()) })
	chat("starred", tcell.KeyRune, 'S', "S", "Starred", a.showStarred)
	chat("debug", tcell.KeyRune, 'd', "d", "Media debug", func() { a.showDebug(a.vm.Selected()) })
	chat("participants", tcell.KeyRune, 'p', "p", "Participants", a.showParticipants)
	chat("viewpoint", tcell.KeyRune, 'v', "v", "Swap viewpoint", func() {
		if name := a.vm.CycleViewpoint(); name != "" {
			a.flash.Info("Viewing as " + name)
			a.refreshChrome()
		}
	})
	chat("open-media", tcell.KeyRune, 'o', "o", "Open media", a.openSelectedMedia)
	chat("stats", tcell.KeyRune, 'i', "i", "Stats", a.showStats)
	chat("share", tcell.KeyRune, 'Q', "Q", "Share QR", a.showShare)
	chat("load", tcell.KeyRune, 'O', "O", "Open export", func() { a.push(pageOpen) })

	r.AddView(pageStarred, &keys.Action{Name: "unstar", Key: tcell.KeyRune, Rune: '*', Description: "Unstar", Visible: true, Handler: func() {
		if i, ok := a.starred.SelectedIndex(); ok {
			a.toggleStar(i)
			a.starred.Update(a.vm.Stars(), a.vm.DisplayName)
		}
	}})
	r.AddView(pageParticipants, &keys.Action{Name: "rename", Key: tcell.KeyRune, Rune: 'r', Description: "Rename", Visible: true, Handler: func() {
		if p, ok := a.participants.Selected(); ok {
			a.renaming = p.Name
			a.activatePrompt(ui.PromptRename, p.Display)
		}
	}})
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func(stack []string) {
		names := make([]string, 0, len(stack))
		for _, p := range stack {
			if c := a.component(p); c != nil {
				names = append(names, c.Name())
			}
		}
		a.crumbs.Update(names)
		a.updateMenu()
	})

	a.list.SetOnScroll(func(delta int) { a.scrolled(a.vm.ScrollBy(delta, time.Now())) })

	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptSearch {
			a.debounce.Trigger(text)
		}
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.runCommand(ParseCommand(text))
		case ui.PromptSearch:
			a.debounce.Stop()
			a.runSearch(text)
		case ui.PromptRename:
			a.rename(a.renaming, text)
		}
	})
	a.prompt.SetOnCancel(func() {
		a.debounce.Stop()
		a.hidePrompt()
	})

	a.open.SetOnOpen(a.load)
	a.results.SetOnSelect(func(n int) {
		a.pages.Reset(pageChat)
		a.vm.SeekMatch(n, time.Now())
		a.focusPage()
	})
	a.starred.SetOnSelect(func(i int) {
		a.pages.Reset(pageChat)
		a.vm.JumpTo(i, time.Now())
		a.focusPage()
	})
	a.participants.SetOnSelect(func(p views.Participant) {
		if a.vm.SetViewpoint(p.Name) {
			a.flash.Info("Viewing as " + p.Name)
		}
		a.showParticipants()
	})
	a.popup.SetOnAction(a.popupAction)
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.logo, 26, 0, false).
		AddItem(a.chatInfo, 0, 2, false).
		AddItem(a.menu, 0, 3, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.statusBar, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(a.root, true).EnableMouse(true)
	a.updateHelp()

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}
		// Text widgets get every key.
		switch a.app.GetFocus().(type) {
		case *ui.Prompt:
			return event
		case *tview.InputField, *tview.Checkbox, *tview.Button:
			if event.Key() == tcell.KeyEscape {
				a.back()
				return nil
			}
			return event
		}
		if a.pages.IsModal() {
			if event.Key() == tcell.KeyEscape {
				a.closePopup()
				return nil
			}
			return event
		}
		if a.registry.HandleEvent(a.pages.Current(), event) {
			return nil
		}
		return event
	})
}

// Run loads the initial source and starts the TUI.
func (a *App) Run() error {
	events, unsubscribe := a.bus.Subscribe("", 64)
	defer unsubscribe()
	go a.consume(events)
	go a.watchFlash()
	go a.refreshLoop()
	go a.clock()
	go a.engine.Run(a.ctx, a.facts)

	switch {
	case a.opts.ChatPath != "":
		a.pages.Reset(pageChat)
		a.load(views.OpenRequest{Source: views.OpenLocal, ChatPath: a.opts.ChatPath, MediaDir: a.opts.MediaDir})
	case a.opts.Remote:
		a.pages.Reset(pageChat)
		a.load(views.OpenRequest{Source: views.OpenRemote, URL: a.cfg.Remote.URL, Save: true})
	case a.opts.Cached || a.loader.Cached(""):
		a.pages.Reset(pageChat)
		a.load(views.OpenRequest{Source: views.OpenCached})
	default:
		a.pages.Reset(pageOpen)
	}
	a.focusPage()
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.debounce.Stop()
	a.redraw.Stop()
	a.stopWatch()
	a.app.Stop()
}

func (a *App) consume(events <-chan bus.Event) {
	for {
		select {
		case <-a.ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			a.app.QueueUpdateDraw(func() { a.handleEvent(evt) })
		}
	}
}

func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.LoaderStatusChanged:
		if c, ok := evt.Payload.(status.StatusChange); ok {
			label := string(c.To)
			if c.Reason != "" && c.To != status.Loading {
				label += " " + c.Reason
			}
			a.statusBar.SetStatus(label, c.To == status.Loading)
		}
	case bus.LoaderLoaded:
		if l, ok := evt.Payload.(pipeline.Loaded); ok {
			a.onLoaded(l.Session)
		}
	case bus.LoaderFailed:
		if err, ok := evt.Payload.(error); ok {
			a.flash.Err(err)
		}
	case bus.LoaderProgress:
		if p, ok := evt.Payload.(pipeline.Progress); ok {
			a.statusBar.SetStatus(fmt.Sprintf("%s %s %d/%d", status.Loading, p.Stage, p.Done, p.Total), true)
		}
	case bus.InstallStarted:
		if s, ok := evt.Payload.(install.Started); ok {
			a.flash.Info(fmt.Sprintf("Installing %d files...", s.Total))
		}
	case bus.InstallProgress:
		if p, ok := evt.Payload.(install.Progress); ok {
			a.statusBar.SetStatus("INSTALL", true)
			a.flash.Progress("Installing media", p.Done, p.Total)
		}
	case bus.InstallFinished:
		if r, ok := evt.Payload.(install.Result); ok {
			a.statusBar.SetStatus(string(a.loader.Status().Current()), false)
			msg := fmt.Sprintf("Installed %s: %d downloaded, %d skipped", r.ChatName, r.Downloaded, r.Skipped)
			if len(r.Failed) > 0 {
				a.flash.Warn(fmt.Sprintf("%s, %d failed", msg, len(r.Failed)))
			} else {
				a.flash.Info(msg)
			}
		}
	case bus.InstallFailed:
		a.statusBar.SetStatus(string(a.loader.Status().Current()), false)
		if err, ok := evt.Payload.(error); ok {
			a.flash.Err(err)
		}
	case bus.LoveEffect:
		if e, ok := evt.Payload.(love.Effect); ok {
			a.showEffect(e)
		}
	case bus.WatchChanged:
		a.flash.Info("Export changed, reloading")
		a.reload()
	}
}

// refreshLoop turns view model changes into at most one redraw per frame.
func (a *App) refreshLoop() {
	ch := a.vm.RefreshCh()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ch:
			a.redraw.Request()
		}
	}
}

func (a *App) watchFlash() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	watchCh := a.flash.Watch()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-watchCh:
		case <-ticker.C:
		}
		a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.GetMessage()) })
	}
}

// clock fires the time-of-day rules every minute and keeps the status bar
// clock current.
func (a *App) clock() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.engine.Fire(love.Clock, a.facts())
			a.redraw.Request()
		}
	}
}

func (a *App) facts() love.Facts {
	f := love.Facts{
		Now:         time.Now(),
		ScrollSpeed: a.vm.LastSpeed(),
		Query:       a.vm.SearchResult().Query,
		TopIndex:    a.vm.Offset() / a.vm.ItemHeight(),
		Messages:    a.vm.Total(),
	}
	if s := a.vm.Session(); s != nil {
		f.Stats = s.Stats
	}
	return f
}

func (a *App) load(req views.OpenRequest) {
	a.stopWatch()
	a.last = req
	go func() {
		var err error
		switch req.Source {
		case views.OpenLocal:
			if req.ChatPath == "" {
				a.flash.Err(errors.New("no chat file given"))
				return
			}
			_, err = a.loader.LoadLocal(req.ChatPath, req.MediaDir)
			if err == nil && a.opts.Watch {
				a.startWatch(req.ChatPath, req.MediaDir)
			}
		case views.OpenRemote:
			c, cerr := a.remoteClient(req.URL)
			if cerr != nil {
				a.flash.Err(cerr)
				return
			}
			_, err = a.loader.LoadRemote(a.ctx, c, req.Save)
		case views.OpenCached:
			_, err = a.loader.LoadCached("")
		}
		// The loader reports its own failures on the bus.
		if err != nil {
			a.log.Debug("load failed", zap.Int("source", int(req.Source)), zap.Error(err))
		}
	}()
}

func (a *App) reload() {
	if a.last.Source == views.OpenLocal && a.last.ChatPath == "" {
		return
	}
	a.load(a.last)
}

func (a *App) remoteClient(url string) (*remote.Client, error) {
	if url == "" {
		url = a.cfg.Remote.URL
	}
	if url == "" {
		return nil, errors.New("no proxy url: set [remote] url or pass one to :remote")
	}
	return remote.New(url,
		remote.WithTimeout(time.Duration(a.cfg.Remote.TimeoutSeconds)*time.Second),
		remote.WithLogger(a.log))
}

func (a *App) startWatch(paths ...string) {
	w, err := watch.New(paths, watch.DefaultSettle, a.bus, a.log)
	if err != nil {
		a.log.Warn("watch failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.app.QueueUpdate(func() {
		a.stopWatch()
		a.watchCancel = cancel
	})
	go w.Run(ctx)
}

func (a *App) stopWatch() {
	if a.watchCancel != nil {
		a.watchCancel()
		a.watchCancel = nil
	}
}

func (a *App) onLoaded(s *pipeline.Session) {
	a.vm.SetSession(s)
	a.engine.SetEnabled(a.cfg.Love.Enabled && love.IsSpecialChat(s.Participants, a.cfg.Love.Partners))
	a.statusBar.SetLove(a.engine.Enabled())
	a.stats.Update(s)
	if a.pages.Current() != pageChat {
		a.pages.Reset(pageChat)
	}
	a.focusPage()
	a.refreshChrome()
	a.flash.Info(fmt.Sprintf("Loaded %s: %d messages, %d/%d media matched",
		s.Name, len(s.Messages), s.Report.Matched(), s.Report.Placeholders))

	go func() {
		if _, ok := a.engine.Fire(love.Loaded, a.facts()); !ok {
			a.engine.Fire(love.Clock, a.facts())
		}
	}()
}

func (a *App) refreshChrome() {
	s := a.vm.Session()
	data := &ui.ChatData{
		Profile: a.opts.Profile,
		Status:  string(a.loader.Status().Current()),
	}
	if s != nil {
		data.Name = s.Name
		data.Origin = string(s.Origin)
		data.Messages = len(s.Messages)
		data.Participants = len(s.Participants)
		data.MediaMatched = s.Report.Matched()
		data.Placeholders = s.Report.Placeholders
		data.Viewpoint = a.vm.DisplayName(a.vm.Viewpoint())
	}
	a.chatInfo.Update(data)
	a.statusBar.SetDate(a.vm.TopDate())
	a.statusBar.SetSearch(a.vm.SearchLabel())
	a.updateMenu()
}

func (a *App) updateMenu() {
	var hints []ui.MenuHint
	if c := a.component(a.pages.Current()); c != nil {
		hints = append(hints, c.Hints()...)
	}
	for _, h := range a.registry.Hints("") {
		hints = append(hints, ui.MenuHint{Key: h.Key, Description: h.Description})
	}
	a.menu.Update(hints)
}

func (a *App) updateHelp() {
	toMenu := func(hints []keys.Hint) []ui.MenuHint {
		out := make([]ui.MenuHint, len(hints))
		for i, h := range hints {
			out[i] = ui.MenuHint{Key: h.Key, Description: h.Description}
		}
		return out
	}
	a.help.Update([]views.HelpSection{
		{Title: "Global keys", Rows: toMenu(a.registry.Hints(""))},
		{Title: "Chat", Rows: toMenu(a.registryView(pageChat))},
		{Title: "Commands", Rows: commandHelp},
	})
}

func (a *App) registryView(view string) []keys.Hint {
	global := len(a.registry.Hints(""))
	all := a.registry.Hints(view)
	return all[:len(all)-global]
}

func (a *App) push(page string) {
	a.pages.Push(page)
	a.focusPage()
}

func (a *App) focusPage() {
	a.app.SetFocus(a.focusable(a.pages.Current()))
	a.updateMenu()
}

func (a *App) back() {
	switch {
	case a.pages.IsModal():
		a.closePopup()
	case a.pages.Pop() == "":
		if a.pages.Current() == pageChat || a.vm.Session() == nil {
			a.Stop()
			return
		}
		a.pages.Reset(pageChat)
	}
	a.focusPage()
}

func (a *App) activatePrompt(mode ui.PromptMode, text string) {
	a.prompt.Activate(mode, text)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.focusPage()
}

// scrolled reacts to any viewport movement.
func (a *App) scrolled(speed float64) {
	a.redraw.Request()
	if !a.engine.Enabled() {
		return
	}
	f := a.facts()
	f.ScrollSpeed = speed
	go a.engine.Fire(love.Scroll, f)
}

func (a *App) runSearch(q string) {
	res := a.vm.Search(q, time.Now())
	a.refreshChrome()
	if !res.Active() {
		return
	}
	if res.Count() == 0 {
		a.flash.Warn(fmt.Sprintf("No match for %q", res.Query))
	}
	a.results.Update(a.vm.Messages(), res, a.vm.DisplayName)
	f := a.facts()
	go a.engine.Fire(love.Search, f)
}

func (a *App) stepMatch(step func(time.Time) bool) {
	if !a.vm.SearchResult().Active() {
		a.flash.Info("No active search, press /")
		return
	}
	if step(time.Now()) {
		a.refreshChrome()
	}
}

func (a *App) showResults() {
	res := a.vm.SearchResult()
	if !res.Active() {
		a.flash.Info("No active search, press /")
		return
	}
	a.results.Update(a.vm.Messages(), res, a.vm.DisplayName)
	a.push(pageResults)
}

func (a *App) toggleStar(i int) {
	starred, stored := a.vm.ToggleStar(i)
	switch {
	case i < 0:
		return
	case !stored:
		a.flash.Warn("Star kept for this session only (cache unavailable)")
	case starred:
		a.flash.Info("Starred")
	default:
		a.flash.Info("Unstarred")
	}
}

func (a *App) showStarred() {
	a.starred.Update(a.vm.Stars(), a.vm.DisplayName)
	a.push(pageStarred)
}

func (a *App) showParticipants() {
	s := a.vm.Session()
	if s == nil {
		return
	}
	rows := make([]views.Participant, 0, len(s.Participants))
	for _, p := range s.Participants {
		rows = append(rows, views.Participant{
			Name:     p,
			Display:  a.vm.DisplayName(p),
			Messages: s.Stats.PerSender[p],
			Mine:     a.vm.IsMine(p),
		})
	}
	a.participants.Update(rows)
	a.push(pageParticipants)
	a.refreshChrome()
}

func (a *App) rename(sender, display string) {
	if sender == "" {
		return
	}
	if !a.vm.Rename(sender, display) {
		a.flash.Warn("Rename kept for this session only (cache unavailable)")
	}
	a.renaming = ""
	if a.pages.Current() == pageParticipants {
		a.pages.Pop()
		a.showParticipants()
	}
	a.refreshChrome()
}

func (a *App) showDebug(i int) {
	d, err := a.vm.Diagnose(i)
	if err != nil {
		a.debug.ShowError(err)
	} else {
		a.debug.Update(d)
	}
	a.push(pageDebug)
}

func (a *App) showStats() {
	a.stats.Update(a.vm.Session())
	a.push(pageStats)
}

func (a *App) showShare() {
	a.share.ShowURL(a.cfg.Remote.URL)
	a.push(pageShare)
}

func (a *App) openSelectedMedia() {
	msgs := a.vm.Messages()
	i := a.vm.Selected()
	if i < 0 || i >= len(msgs) {
		return
	}
	file := msgs[i].Media
	go func() {
		target, err := a.opener.Open(a.ctx, file)
		if err != nil {
			a.flash.Err(err)
			return
		}
		a.flash.Info("Opened " + filepath.Base(target))
	}()
}

func (a *App) toggleTheme() {
	a.setTheme(a.theme.Toggle())
}

func (a *App) setTheme(t *ui.Theme) {
	a.theme = t
	for _, c := range a.substantive() {
		c.SetTheme(t)
	}
	a.vm.SetThemePref(t.Name)
	a.refreshChrome()
}

func (a *App) showEffect(e love.Effect) {
	if e.Delay > 0 {
		d := e.Delay
		e.Delay = 0
		time.AfterFunc(d, func() { a.app.QueueUpdateDraw(func() { a.showEffect(e) }) })
		return
	}
	auto := e.AutoClose
	switch e.Kind {
	case love.KindFlashRed:
		auto = 800 * time.Millisecond
	case love.KindEmojiRain:
		auto = max(auto, 2500*time.Millisecond)
	}
	a.popup.Show(e)
	a.pages.Push(pageLove)
	a.app.SetFocus(a.popup)
	a.popupGen++
	if auto > 0 {
		gen := a.popupGen
		time.AfterFunc(auto, func() {
			a.app.QueueUpdateDraw(func() {
				if a.popupGen == gen && a.pages.Current() == pageLove {
					a.closePopup()
				}
			})
		})
	}
}

func (a *App) closePopup() {
	if a.pages.Current() == pageLove {
		a.pages.Pop()
	}
	a.focusPage()
}

func (a *App) popupAction(b love.Button, e love.Effect) {
	a.closePopup()
	switch b.Action {
	case love.ActionQuiz:
		if e.Answer != nil {
			a.showEffect(*e.Answer)
		}
	case love.ActionTeleport:
		a.pages.Reset(pageChat)
		a.vm.JumpTo(e.Teleport, time.Now())
		a.focusPage()
		a.refreshChrome()
	}
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "":
	case "quit":
		a.Stop()
	case "help":
		a.push(pageHelp)
	case "open":
		f := cmd.Fields()
		if len(f) == 0 {
			a.push(pageOpen)
			return
		}
		req := views.OpenRequest{Source: views.OpenLocal, ChatPath: f[0]}
		if len(f) > 1 {
			req.MediaDir = f[1]
		}
		a.load(req)
	case "remote":
		a.load(views.OpenRequest{Source: views.OpenRemote, URL: cmd.Args, Save: true})
	case "cached":
		a.load(views.OpenRequest{Source: views.OpenCached})
	case "reload":
		a.reload()
	case "install":
		a.install(cmd.Args)
	case "search":
		a.runSearch(cmd.Args)
	case "goto":
		i, ok := ResolveGoto(a.vm.Messages(), cmd.Args)
		if !ok {
			a.flash.Warn("Nothing at " + cmd.Args)
			return
		}
		a.pages.Reset(pageChat)
		a.vm.JumpTo(i, time.Now())
		a.focusPage()
		a.refreshChrome()
	case "viewpoint":
		if !a.vm.SetViewpoint(cmd.Args) {
			a.flash.Warn("Unknown participant " + cmd.Args)
			return
		}
		a.refreshChrome()
	case "rename":
		sender, display, ok := ParseRename(cmd.Args)
		if !ok {
			a.flash.Warn("Usage: :rename <name>=<shown as>")
			return
		}
		a.rename(sender, display)
	case "theme":
		switch cmd.Args {
		case "":
			a.toggleTheme()
		case ui.ThemeDark, ui.ThemeLight:
			a.setTheme(ui.ThemeFor(cmd.Args))
		default:
			a.flash.Warn("Themes: dark, light")
		}
	case "love":
		on, ok := ParseToggle(cmd.Args, a.engine.Enabled())
		if !ok {
			a.flash.Warn("Usage: :love [on|off]")
			return
		}
		a.engine.SetEnabled(on)
		a.statusBar.SetLove(on)
	case "stats":
		a.showStats()
	case "share":
		a.showShare()
	case "starred":
		a.showStarred()
	case "participants":
		a.showParticipants()
	case "debug":
		i := a.vm.Selected()
		if cmd.Args != "" {
			n, ok := ResolveGoto(a.vm.Messages(), cmd.Args)
			if !ok {
				a.flash.Warn("Nothing at " + cmd.Args)
				return
			}
			i = n
		}
		a.showDebug(i)
	default:
		a.flash.Warn("Unknown command: " + cmd.Name)
	}
}

// install copies the proxy export into the cache in the background, holding
// the profile install lock.
func (a *App) install(url string) {
	db, err := a.opts.Guard.DB()
	if err != nil {
		a.flash.Err(err)
		return
	}
	c, err := a.remoteClient(url)
	if err != nil {
		a.flash.Err(err)
		return
	}
	l, err := lock.Acquire(profile.Dir(a.opts.Profile), lock.Install, "wppview")
	if err != nil {
		a.flash.Err(err)
		return
	}
	go func() {
		defer func() { _ = l.Release() }()
		in := install.New(c, db, a.bus, a.log)
		if _, err := in.Run(a.ctx, install.Options{RatePerSecond: 8, Backoff: 500 * time.Millisecond}); err != nil {
			a.log.Warn("install failed", zap.Error(err))
		}
	}()
}

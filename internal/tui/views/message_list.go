package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/pipeline"
	"github.com/matheus3301/wppview/internal/tui/model"
	"github.com/matheus3301/wppview/internal/tui/ui"
	"github.com/matheus3301/wppview/internal/viewport"
)

// layoutKey is what a wrapped body depends on besides the message.
type layoutKey struct {
	session *pipeline.Session
	width   int
	ih      int
}

// MessageList draws only the messages intersecting the viewport. Every
// message takes exactly ItemHeight rows: one header row and the wrapped
// body below it.
type MessageList struct {
	*tview.Box
	theme *ui.Theme
	vm    *model.ViewModel

	onScroll func(delta int)
	now      func() time.Time

	// rows and bodies are rebuilt only when the window range or key moves;
	// scrolling within a range just repositions them.
	key     layoutKey
	rows    []viewport.Row
	bodies  map[int]Bubble
	layouts int
}

// NewMessageList creates the chat view over vm.
func NewMessageList(theme *ui.Theme, vm *model.ViewModel) *MessageList {
	ml := &MessageList{
		Box: tview.NewBox(),
		vm:  vm,
		now: time.Now,
	}
	ml.SetBorder(true)
	ml.SetTheme(theme)
	return ml
}

// Name implements Component.
func (ml *MessageList) Name() string {
	if s := ml.vm.Session(); s != nil && s.Name != "" {
		return s.Name
	}
	return "Chat"
}

// Hints implements Component.
func (ml *MessageList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "/", Description: "Search"},
		{Key: "n/N", Description: "Next/Prev"},
		{Key: "*", Description: "Star"},
		{Key: "S", Description: "Starred"},
		{Key: "o", Description: "Open media"},
		{Key: "d", Description: "Media debug"},
		{Key: "p", Description: "Participants"},
		{Key: "t", Description: "Theme"},
		{Key: "?", Description: "Help"},
	}
}

// SetTheme implements ui.Themed.
func (ml *MessageList) SetTheme(t *ui.Theme) {
	ml.theme = t
	ml.SetBorderColor(t.BorderColor)
	ml.SetBackgroundColor(t.BgColor)
	ml.SetTitleColor(t.TitleColor)
}

// SetOnScroll sets the callback for mouse wheel scrolling, in rows.
func (ml *MessageList) SetOnScroll(fn func(delta int)) {
	ml.onScroll = fn
}

// Draw implements tview.Primitive.
func (ml *MessageList) Draw(screen tcell.Screen) {
	ml.Box.DrawForSubclass(screen, ml)
	x, y, width, height := ml.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	ml.vm.SetHeight(height)
	ml.SetTitle(ml.title())

	msgs := ml.vm.Messages()
	if len(msgs) == 0 {
		ml.print(screen, x, y+height/2, width, center("No chat loaded. Press : and type open <file>", width), tcell.StyleDefault.Foreground(ml.theme.FgColor).Background(ml.theme.BgColor))
		return
	}

	offset, ih := ml.vm.Offset(), ml.vm.ItemHeight()
	_, rows, changed := ml.vm.Window()
	if key := (layoutKey{ml.vm.Session(), width, ih}); changed || key != ml.key || ml.bodies == nil {
		ml.relayout(key, rows, msgs)
	}
	now := ml.now()
	for _, row := range ml.rows {
		top := y + row.Index*ih - offset
		if top+ih <= y || top >= y+height {
			continue
		}
		ml.drawItem(screen, &msgs[row.Index], row.Index, row.DateSeparator, x, top, width, ih, y, y+height, now)
	}
}

// relayout keeps the bodies still in the window when only the range moved.
func (ml *MessageList) relayout(key layoutKey, rows []viewport.Row, msgs []chat.Message) {
	old := ml.bodies
	if key != ml.key {
		old = nil
	}
	bubbleMax := max(10, key.width*3/4)
	ml.bodies = make(map[int]Bubble, len(rows))
	for _, row := range rows {
		if b, ok := old[row.Index]; ok {
			ml.bodies[row.Index] = b
			continue
		}
		ml.bodies[row.Index] = Layout(&msgs[row.Index], bubbleMax-2, max(1, key.ih-1))
		ml.layouts++
	}
	ml.key, ml.rows = key, rows
}

func (ml *MessageList) title() string {
	s := ml.vm.Session()
	if s == nil {
		return " Chat "
	}
	title := fmt.Sprintf(" %s [%d] ", tview.Escape(s.Name), len(s.Messages))
	if label := ml.vm.SearchLabel(); label != "" {
		title += fmt.Sprintf("[%s]/%s %s[-] ", ui.ColorTag(ml.theme.CounterColor), tview.Escape(ml.vm.SearchResult().Query), label)
	}
	return title
}

func (ml *MessageList) drawItem(screen tcell.Screen, m *chat.Message, idx int, sep bool, x, top, width, ih, minY, maxY int, now time.Time) {
	t := ml.theme
	base := tcell.StyleDefault.Background(t.BgColor).Foreground(t.FgColor)
	mine := ml.vm.IsMine(m.Sender)

	bg := t.TheirsBg
	if mine {
		bg = t.MineBg
	}
	switch {
	case ml.vm.Highlighted(idx, now):
		bg = t.HighlightBg
	case idx == ml.vm.Selected():
		bg = t.SelectedBg
	}

	bubbleMax := max(10, width*3/4)
	header := Header(sanitizeForTerminal(ml.vm.DisplayName(m.Sender)), m.Time, ml.vm.IsStarred(idx))
	body := ml.bodies[idx]
	bw := min(bubbleMax, max(body.Width, runewidth.StringWidth(header))+2)
	bx := x
	if mine {
		bx = x + width - bw
	}

	put := func(row int, text string, style tcell.Style) {
		yy := top + row
		if yy < minY || yy >= maxY {
			return
		}
		ml.fill(screen, bx, yy, bw, style)
		ml.print(screen, bx+1, yy, bw-2, text, style)
	}

	// header row; the day separator goes in the space beside the bubble
	senderStyle := base.Background(bg).Foreground(t.SenderColor(ml.vm.ParticipantIndex(m.Sender))).Bold(true)
	if top >= minY && top < maxY {
		ml.fill(screen, x, top, width, base)
		if sep {
			label := "── " + m.Date + " ──"
			free, fx := width-bw, bx+bw
			if mine {
				fx = x
			}
			if lw := runewidth.StringWidth(label); lw < free {
				ml.print(screen, fx+(free-lw)/2, top, lw, label, base.Foreground(t.DateSepColor))
			}
		}
	}
	put(0, header, senderStyle)

	textStyle := base.Background(bg)
	switch StateOf(m) {
	case MediaExact:
		textStyle = textStyle.Foreground(t.MediaColor)
	case MediaUncertain:
		textStyle = textStyle.Foreground(t.UncertainColor)
	case MediaMissing:
		textStyle = textStyle.Foreground(t.MissingColor).Italic(true)
	}
	if ml.vm.IsMatch(idx) {
		textStyle = textStyle.Underline(true)
	}
	for i := range ih - 1 {
		line := ""
		if i < len(body.Lines) {
			line = body.Lines[i]
		}
		yy := top + 1 + i
		if yy >= minY && yy < maxY {
			ml.fill(screen, x, yy, width, base)
		}
		if i < len(body.Lines) {
			put(1+i, line, textStyle)
		}
	}
}

func (ml *MessageList) fill(screen tcell.Screen, x, y, width int, style tcell.Style) {
	for i := range width {
		screen.SetContent(x+i, y, ' ', nil, style)
	}
}

// print writes text from x, clipped to width cells. Wide runes take two
// cells and are dropped when only one is left.
func (ml *MessageList) print(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > width {
			return
		}
		screen.SetContent(x+col, y, r, nil, style)
		col += w
	}
}

func center(s string, width int) string {
	pad := (width - runewidth.StringWidth(s)) / 2
	if pad <= 0 {
		return s
	}
	return runewidth.FillLeft(s, pad+runewidth.StringWidth(s))
}

// MouseHandler scrolls on wheel events.
func (ml *MessageList) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return ml.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
		if !ml.InRect(event.Position()) {
			return false, nil
		}
		switch action {
		case tview.MouseScrollUp:
			if ml.onScroll != nil {
				ml.onScroll(-ml.vm.ItemHeight())
			}
			return true, nil
		case tview.MouseScrollDown:
			if ml.onScroll != nil {
				ml.onScroll(ml.vm.ItemHeight())
			}
			return true, nil
		case tview.MouseLeftClick:
			setFocus(ml)
			return true, nil
		}
		return false, nil
	})
}

package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/media"
	"github.com/matheus3301/wppview/internal/pipeline"
	"github.com/matheus3301/wppview/internal/tui/ui"
)

// StatsView displays chat statistics and the media matching report.
type StatsView struct {
	*tview.TextView
	theme   *ui.Theme
	session *pipeline.Session
	names   func(string) string
}

// NewStatsView creates a new stats view. names maps a sender to its display
// name and may be nil.
func NewStatsView(theme *ui.Theme, names func(string) string) *StatsView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetTitle(" Stats ")
	if names == nil {
		names = func(s string) string { return s }
	}
	sv := &StatsView{TextView: tv, names: names}
	sv.SetTheme(theme)
	return sv
}

// Name implements Component.
func (sv *StatsView) Name() string { return "Stats" }

// Hints implements Component.
func (sv *StatsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// SetTheme implements ui.Themed.
func (sv *StatsView) SetTheme(t *ui.Theme) {
	sv.theme = t
	sv.SetBorderColor(t.BorderColor)
	sv.SetBackgroundColor(t.BgColor)
	sv.SetTextColor(t.FgColor)
	sv.SetTitleColor(t.TitleColor)
	sv.Update(sv.session)
}

// Update renders the statistics of s.
func (sv *StatsView) Update(s *pipeline.Session) {
	sv.session = s
	sv.Clear()
	if s == nil {
		return
	}
	_, _ = fmt.Fprint(sv, FormatStats(s, sv.names, ui.ColorTag(sv.theme.FgColor), ui.ColorTag(sv.theme.CounterColor)))
	sv.SetTitle(fmt.Sprintf(" %s Stats ", tview.Escape(s.Name)))
}

// FormatStats renders s as tview-tagged text using fg for labels and ct for
// values.
func FormatStats(s *pipeline.Session, names func(string) string, fg, ct string) string {
	var b strings.Builder
	row := func(label string, value any) {
		fmt.Fprintf(&b, " [%s::b]%-14s[-:-:-] [%s]%v[-]\n", fg, label+":", ct, value)
	}
	b.WriteString("\n")
	row("Messages", s.Stats.Total)
	row("Media", s.Stats.Media)
	row("Amour", s.Stats.Amour)
	row("Laughs", s.Stats.Laughs)
	row("Je t'aime", s.Stats.ILoveYou)

	b.WriteString("\n")
	senders := make([]string, 0, len(s.Stats.PerSender))
	for name := range s.Stats.PerSender {
		senders = append(senders, name)
	}
	sort.Slice(senders, func(i, j int) bool {
		ci, cj := s.Stats.PerSender[senders[i]], s.Stats.PerSender[senders[j]]
		if ci != cj {
			return ci > cj
		}
		return senders[i] < senders[j]
	})
	for _, name := range senders {
		label := names(name)
		if name == "" {
			label = "(system)"
		}
		row(tview.Escape(label), s.Stats.PerSender[name])
	}

	b.WriteString("\n")
	r := s.Report
	row("Placeholders", r.Placeholders)
	row("Exact", r.Exact)
	row("Nearby day", r.Uncertain)
	row("Unmatched", r.Unmatched)
	row("Undetermined", r.Undetermined)

	b.WriteString("\n")
	row("Files given", s.Index.Provided())
	row("Files indexed", s.Index.Indexed())
	counts := s.Index.Counts()
	for _, k := range media.Kinds {
		row(string(k), counts[k])
	}
	return b.String()
}

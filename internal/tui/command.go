package tui

import (
	"strconv"
	"strings"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/tui/ui"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	if canon, ok := aliases[cmd.Name]; ok {
		cmd.Name = canon
	}
	return cmd
}

var aliases = map[string]string{
	"q":     "quit",
	"h":     "help",
	"o":     "open",
	"s":     "search",
	"g":     "goto",
	"vp":    "viewpoint",
	"parts": "participants",
}

// Fields splits args on spaces, keeping double-quoted runs together so paths
// with spaces survive.
func (c Command) Fields() []string {
	var (
		out   []string
		cur   strings.Builder
		quote bool
		have  bool
	)
	for _, r := range c.Args {
		switch {
		case r == '"':
			quote = !quote
			have = true
		case r == ' ' && !quote:
			if have {
				out = append(out, cur.String())
				cur.Reset()
				have = false
			}
		default:
			cur.WriteRune(r)
			have = true
		}
	}
	if have {
		out = append(out, cur.String())
	}
	return out
}

// commandHelp is shown on the help page.
var commandHelp = []ui.MenuHint{
	{Key: ":open <chat.txt> [media dir]", Description: "Load an export from disk"},
	{Key: ":remote [url]", Description: "Load the export served by a proxy"},
	{Key: ":cached", Description: "Load the export saved by install"},
	{Key: ":install", Description: "Copy the proxy export into the cache"},
	{Key: ":search <text>", Description: "Search messages"},
	{Key: ":goto <n | dd/mm/yy>", Description: "Jump to message number or date"},
	{Key: ":viewpoint <name>", Description: "Draw this participant as me"},
	{Key: ":rename <name>=<shown as>", Description: "Rename a participant"},
	{Key: ":theme [dark|light]", Description: "Switch theme"},
	{Key: ":love [on|off]", Description: "Toggle the surprises"},
	{Key: ":stats", Description: "Chat statistics"},
	{Key: ":share", Description: "QR code of the proxy"},
	{Key: ":reload", Description: "Reload the current export"},
	{Key: ":help", Description: "Show this help"},
	{Key: ":quit", Description: "Quit"},
}

// ParseRename splits "name=display". An empty display restores the name.
func ParseRename(args string) (sender, display string, ok bool) {
	sender, display, ok = strings.Cut(args, "=")
	sender, display = strings.TrimSpace(sender), strings.TrimSpace(display)
	return sender, display, ok && sender != ""
}

// ResolveGoto turns a goto argument into a message index. A number is a
// 1-based message position; anything else is matched against message dates
// and the first message of that day wins.
func ResolveGoto(msgs []chat.Message, arg string) (int, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" || len(msgs) == 0 {
		return 0, false
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(msgs) {
			return 0, false
		}
		return n - 1, true
	}
	for i := range msgs {
		if msgs[i].Date == arg {
			return i, true
		}
	}
	return 0, false
}

// ParseToggle reads on/off style arguments. An empty argument flips cur.
func ParseToggle(arg string, cur bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		return !cur, true
	case "on", "true", "1", "yes":
		return true, true
	case "off", "false", "0", "no":
		return false, true
	}
	return cur, false
}

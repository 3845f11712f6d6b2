package love

import "time"

// Kind is how an effect is rendered.
type Kind string

const (
	KindPopup     Kind = "popup"
	KindFlashRed  Kind = "flash_red"
	KindEmojiRain Kind = "emoji_rain"
)

// Button actions.
const (
	ActionClose    = "close"
	ActionQuiz     = "quiz"
	ActionTeleport = "teleport"
)

// Button is one choice offered by a popup.
type Button struct {
	Label  string
	Action string
}

// Effect is what the viewer shows when a rule fires. It is the payload of
// bus.LoveEffect.
type Effect struct {
	Rule     string
	Kind     Kind
	Emoji    string
	Text     string
	Subtext  string
	Buttons  []Button
	Confetti bool
	// Emojis rain down for KindEmojiRain.
	Emojis []string
	// AutoClose hides the popup after a while when set.
	AutoClose time.Duration
	// Delay postpones showing the effect.
	Delay time.Duration
	// Answer is shown after any ActionQuiz button.
	Answer *Effect
	// Teleport is the message index to jump to for ActionTeleport.
	Teleport int
}

// CloseButton is the default button of a popup without buttons.
var CloseButton = Button{Label: "Fermer", Action: ActionClose}

// ButtonsOrClose returns the popup buttons, or a single close button.
func (e Effect) ButtonsOrClose() []Button {
	if len(e.Buttons) == 0 {
		return []Button{CloseButton}
	}
	return e.Buttons
}

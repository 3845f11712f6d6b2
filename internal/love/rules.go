package love

import (
	"fmt"
	"strings"
	"time"
)

// FastScroll is the scroll speed, in rows per millisecond, above which the
// fast scroll popup fires.
const FastScroll = 0.2

var foodEmojis = []string{"🍕", "🍔", "🍟", "🍣", "🌮", "🍩", "🍪", "🧁"}

// HeartEmojis rain when the user shakes things up.
var HeartEmojis = []string{"❤️", "💕", "💗", "💖", "💝", "✨", "🌟"}

type searchEgg struct {
	word   string
	effect Effect
}

var searchEggs = []searchEgg{
	{"mariage", Effect{Emoji: "💍", Text: "Un jour...", Confetti: true}},
	{"enfant", Effect{Emoji: "👶", Text: "Un jour peut-être... 🥹", Confetti: true}},
	{"je t'aime", Effect{Emoji: "💖", Text: "Moi aussi je t'aime ! 💕", Confetti: true}},
	{"coquine", Effect{Emoji: "😳", Kind: KindFlashRed}},
	{"coquin", Effect{Emoji: "😏", Kind: KindFlashRed}},
	{"preuve", Effect{Emoji: "⚖️", Text: "Ah, tu cherches des dossiers ? J'ai le droit à un avocat ?"}},
	{"menteur", Effect{Emoji: "🕵️", Text: "Tu fais ta détective ? 🔍"}},
	{"faim", Effect{Emoji: "🍕", Kind: KindEmojiRain, Emojis: foodEmojis}},
	{"manger", Effect{Emoji: "🍔", Kind: KindEmojiRain, Emojis: foodEmojis}},
	{"burger", Effect{Emoji: "🍔", Kind: KindEmojiRain, Emojis: foodEmojis}},
	{"sushi", Effect{Emoji: "🍣", Kind: KindEmojiRain, Emojis: foodEmojis}},
	{"pizza", Effect{Emoji: "🍕", Kind: KindEmojiRain, Emojis: foodEmojis}},
	{"bisou", Effect{Emoji: "💋", Text: "Un bisou pour toi ! 💋💋💋", Confetti: true}},
	{"baiser", Effect{Emoji: "💋", Text: "Des bisous partout ! 💋", Confetti: true}},
}

func normalizeQuery(q string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(q)), "’", "'")
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule {
	rules := []Rule{
		{
			Name:    "welcome",
			Trigger: Loaded,
			Once:    true,
			Effect: func(Facts) Effect {
				return popup("💕", "Bienvenue dans votre chat secret ! 💖", "", 1500*time.Millisecond)
			},
		},
		{
			Name:    "moiniversaire",
			Trigger: Clock,
			Once:    true,
			When:    func(f Facts) bool { return f.Now.Day() == 6 },
			Effect: func(Facts) Effect {
				e := popup("🎂", "Joyeux Moiniversaire mon cœur !", "Encore un mois de bonheur ❤️", 3*time.Second)
				e.Confetti = true
				return e
			},
		},
		{
			Name:    "midnight",
			Trigger: Clock,
			Once:    true,
			When:    func(f Facts) bool { return f.Now.Hour() >= 23 },
			Effect: func(Facts) Effect {
				e := popup("🌙", "Il est tard, qu'est-ce que tu fais encore ici ?",
					"Va dormir (mais sache que je t'aime même quand tu es fatiguée)", 3*time.Second)
				e.Buttons = []Button{{"D'accord mon amour 🌙", ActionClose}}
				return e
			},
		},
		{
			Name:    "night-owl",
			Trigger: Clock,
			Once:    true,
			When:    func(f Facts) bool { h := f.Now.Hour(); return h >= 1 && h < 5 },
			Effect: func(Facts) Effect {
				e := popup("😴", "Tu n'arrives pas à dormir ?",
					"Viens on se retrouve dans nos rêves. Bonne nuit mon ange 💫", 2*time.Second)
				e.Buttons = []Button{{"À tout à l'heure dans mes rêves 💕", ActionClose}}
				return e
			},
		},
		{
			Name:    "good-morning",
			Trigger: Clock,
			Once:    true,
			When:    func(f Facts) bool { h := f.Now.Hour(); return h >= 6 && h < 9 },
			Effect: func(Facts) Effect {
				e := popup("☀️", "Bien dormi ?",
					"Rien de mieux que de commencer la journée avec nos souvenirs ✨", 2*time.Second)
				e.Buttons = []Button{{"Bonjour mon amour ☕", ActionClose}}
				return e
			},
		},
		{
			Name:    "big-bang",
			Trigger: Scroll,
			Once:    true,
			When:    func(f Facts) bool { return f.TopIndex == 0 && f.Messages > 0 },
			Effect: func(Facts) Effect {
				e := popup("💥", "Le Big Bang de notre relation !", "Tout a commencé ici... ✨", time.Second)
				e.Confetti = true
				return e
			},
		},
		{
			Name:     "fast-scroll",
			Trigger:  Scroll,
			Cooldown: 10 * time.Second,
			When:     func(f Facts) bool { return f.ScrollSpeed > FastScroll },
			Effect: func(Facts) Effect {
				e := popup("🏎️", "Wow doucement Flash McQueen !",
					"Tu cherches un truc précis ou tu revisses toute notre vie en accéléré ? 😂", 500*time.Millisecond)
				e.Buttons = []Button{{"Je cherche une pépite 💎", ActionClose}}
				return e
			},
		},
		{
			Name:    "random-popup",
			Trigger: Tick,
			When:    func(f Facts) bool { return f.Messages > 0 },
			Effect: func(f Facts) Effect {
				all := randomPopups(f)
				return all[f.Pick(len(all))]
			},
		},
	}
	for _, egg := range searchEggs {
		rules = append(rules, Rule{
			Name:     "search:" + egg.word,
			Trigger:  Search,
			Cooldown: 5 * time.Second,
			When:     func(f Facts) bool { return strings.Contains(normalizeQuery(f.Query), egg.word) },
			Effect: func(Facts) Effect {
				e := egg.effect
				if e.Kind == "" {
					e.Kind = KindPopup
					e.AutoClose = 3 * time.Second
				}
				return e
			},
		})
	}
	return rules
}

func popup(emoji, text, subtext string, delay time.Duration) Effect {
	return Effect{Kind: KindPopup, Emoji: emoji, Text: text, Subtext: subtext, Delay: delay}
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}

// randomPopups is the pool the periodic popup draws from.
func randomPopups(f Facts) []Effect {
	return []Effect{
		{
			Kind:    KindPopup,
			Emoji:   "🎯",
			Text:    "Alerte ! Tu viens de passer trop de temps à lire nos bêtises.",
			Subtext: "Quel est le truc que je préfère chez toi ?",
			Buttons: []Button{
				{"Mon sourire 😊", ActionQuiz},
				{"Mon rire 😄", ActionQuiz},
				{"Mon intelligence 🧠", ActionQuiz},
			},
			Answer: &Effect{Kind: KindPopup, Emoji: "❤️", Text: "Mauvaise réponse...", Subtext: "C'est TOUT TOI que je préfère ! 💖", Confetti: true},
		},
		{
			Kind:     KindPopup,
			Emoji:    "📊",
			Text:     fmt.Sprintf("Tu savais qu'on s'est envoyé plus de %d messages ?", orDefault(f.Stats.Total, 50000)),
			Subtext:  "Ça fait beaucoup de 'on mange quoi ?' ça...",
			Buttons:  []Button{{"Et c'est pas fini ! 🥰", ActionClose}},
			Confetti: true,
		},
		{
			Kind:    KindPopup,
			Emoji:   "🔮",
			Text:    "Je prédis qu'à cet instant précis...",
			Subtext: "Tu es en train de sourire devant ton écran.",
			Buttons: []Button{{"C'est vrai 😊", ActionClose}, {"Grillée 🙈", ActionClose}},
		},
		{
			Kind:    KindPopup,
			Emoji:   "⚡",
			Text:    "Question éclair !",
			Subtext: "Quelle est ma couleur préférée ?",
			Buttons: []Button{{"Bleu 💙", ActionQuiz}, {"Rouge ❤️", ActionQuiz}, {"Vert 💚", ActionQuiz}},
			Answer:  &Effect{Kind: KindPopup, Emoji: "🤷‍♂️", Text: "On s'en fiche de la couleur...", Subtext: "Par contre, je t'aime ❤️", Confetti: true},
		},
		{
			Kind:    KindPopup,
			Emoji:   "🎫",
			Text:    "Félicitations !",
			Subtext: "En lisant jusqu'ici, tu as débloqué un coupon 'Massage de 10 minutes'",
			Buttons: []Button{{"Je capture l'écran pour preuve ! 📸", ActionClose}},
		},
		{
			Kind:    KindPopup,
			Emoji:   "💝",
			Text:    fmt.Sprintf("Petite stat inutile : Le mot 'amour' apparaît %d fois dans cette conversation.", orDefault(f.Stats.Amour, 1428)),
			Subtext: "C'est beau non ?",
			Buttons: []Button{{"On est trop mignons 🥰", ActionClose}},
		},
		{
			Kind:     KindPopup,
			Emoji:    "🎰",
			Text:     "Tu veux voir un message au hasard ?",
			Buttons:  []Button{{"Non ça ira je lis là ! 📖", ActionClose}, {"Téléporte-moi ! 🚀", ActionTeleport}},
			Teleport: f.Pick(f.Messages),
		},
		{
			Kind:     KindPopup,
			Emoji:    "💕",
			Text:     fmt.Sprintf("J'ai écrit 'Je t'aime' %d fois dans cette conversation.", orDefault(f.Stats.ILoveYou, 850)),
			Subtext:  "Et ce n'est toujours pas assez !",
			Buttons:  []Button{{"Moi aussi je t'aime 💖", ActionClose}},
			Confetti: true,
		},
	}
}

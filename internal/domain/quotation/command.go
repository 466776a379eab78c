package quotation

import "strings"

// Command is the closed grammar of meta commands shared by the checklist,
// the edit interpreter and the orchestrator.
type Command int

const (
	CommandUnknown Command = iota
	CommandSkip
	CommandReset
	CommandShowDraft
	CommandFinalize
	CommandBack
	CommandCancel
	CommandHelp
)

var commandWords = map[string]Command{
	"skip":          CommandSkip,
	"pass":          CommandSkip,
	"default":       CommandSkip,
	"later":         CommandSkip,
	"not specified": CommandSkip,
	"n/a":           CommandSkip,
	"na":            CommandSkip,

	"reset":       CommandReset,
	"start over":  CommandReset,
	"restart":     CommandReset,
	"clear":       CommandReset,
	"clear draft": CommandReset,

	"show":               CommandShowDraft,
	"show draft":         CommandShowDraft,
	"show the draft":     CommandShowDraft,
	"show current draft": CommandShowDraft,
	"display draft":      CommandShowDraft,
	"view draft":         CommandShowDraft,
	"preview":            CommandShowDraft,
	"draft":              CommandShowDraft,
	"summary":            CommandShowDraft,
	"status":             CommandShowDraft,
	"where am i":         CommandShowDraft,

	"done":         CommandFinalize,
	"finish":       CommandFinalize,
	"finished":     CommandFinalize,
	"finalize":     CommandFinalize,
	"finalise":     CommandFinalize,
	"complete":     CommandFinalize,
	"generate":     CommandFinalize,
	"generate pdf": CommandFinalize,

	"back":    CommandBack,
	"go back": CommandBack,
	"undo":    CommandBack,

	"cancel":           CommandCancel,
	"cancel quote":     CommandCancel,
	"cancel quotation": CommandCancel,

	"help": CommandHelp,
	"?":    CommandHelp,
}

// ParseCommand classifies a whole message as a meta command.
// Anything that is not exactly one of the known phrases is CommandUnknown.
func ParseCommand(text string) Command {
	s := strings.ToLower(strings.Join(strings.Fields(text), " "))
	s = strings.TrimRight(s, ".!")
	s = strings.TrimPrefix(s, "/")
	if c, ok := commandWords[s]; ok {
		return c
	}
	return CommandUnknown
}

func (c Command) String() string {
	switch c {
	case CommandSkip:
		return "skip"
	case CommandReset:
		return "reset"
	case CommandShowDraft:
		return "show_draft"
	case CommandFinalize:
		return "finalize"
	case CommandBack:
		return "back"
	case CommandCancel:
		return "cancel"
	case CommandHelp:
		return "help"
	default:
		return "unknown"
	}
}

var (
	yesWords = map[string]bool{"yes": true, "y": true, "yeah": true, "yep": true, "sure": true, "ok": true, "okay": true, "add more": true, "another": true, "add another": true, "confirm": true}
	noWords  = map[string]bool{"no": true, "n": true, "nope": true, "nah": true, "done": true, "finish": true, "complete": true, "that's all": true, "thats all": true}
)

// IsYes and IsNo recognise short confirmations.
func IsYes(text string) bool { return yesWords[normalizeAnswer(text)] }

func IsNo(text string) bool { return noWords[normalizeAnswer(text)] }

func normalizeAnswer(text string) string {
	return strings.TrimRight(strings.ToLower(strings.Join(strings.Fields(text), " ")), ".!")
}

package dialog

import (
	"regexp"
	"strings"
)

type CasualKind string

const (
	CasualGreeting    CasualKind = "greeting"
	CasualThanks      CasualKind = "thanks"
	CasualAboutBot    CasualKind = "about_bot"
	CasualAffirmation CasualKind = "affirmation"
	CasualNegation    CasualKind = "negation"
	CasualFarewell    CasualKind = "farewell"
	CasualHelp        CasualKind = "help"
	CasualGeneral     CasualKind = "general"
)

var (
	greetingRe    = regexp.MustCompile(`^(?:hi|hello|hey|hiya|howdy|greetings|good\s+(?:morning|afternoon|evening))$`)
	thanksRe      = regexp.MustCompile(`^(?:thanks?|thank\s+you|thx|ty|thankyou|appreciate|grateful)(?:\s+a\s+lot|\s+so\s+much)?$`)
	affirmationRe = regexp.MustCompile(`^(?:yes|yeah|yep|yup|sure|ok|okay|alright|fine|good|great|cool|right|correct)$`)
	negationRe    = regexp.MustCompile(`^(?:no|nope|nah|not\s+really|dont|don't|never\s+mind)$`)
	farewellRe    = regexp.MustCompile(`^(?:bye|goodbye|see\s+you|later|quit|exit|stop)$`)

	aboutBotPhrases = []string{
		"what can you do", "what do you do", "how do you work", "what is this",
		"who are you", "what are you", "help me understand",
	}
	helpWords = []string{"help", "assist", "guide"}
)

// CasualKindOf sorts a casual message into a reply category.
func CasualKindOf(message string) CasualKind {
	s := strings.ToLower(strings.Join(strings.Fields(message), " "))
	s = strings.TrimRight(s, ".!?")
	switch {
	case greetingRe.MatchString(s):
		return CasualGreeting
	case thanksRe.MatchString(s):
		return CasualThanks
	case containsAny(s, aboutBotPhrases):
		return CasualAboutBot
	case affirmationRe.MatchString(s):
		return CasualAffirmation
	case negationRe.MatchString(s):
		return CasualNegation
	case farewellRe.MatchString(s):
		return CasualFarewell
	case containsAny(s, helpWords):
		return CasualHelp
	}
	return CasualGeneral
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

const (
	aboutBotText = `I'm an assistant for steel trading quotations. I can:
• read a quotation request written in plain text
• work out weights and default rates for standard sections
• walk you through any missing details step by step
• edit a draft ("update GST to 12%", "add item ISMB 150 20 nos")

Try: "Quote to ABC Industries: ISMC 100x50 - 5MT @ Rs.56"`

	helpText = `Here is how to get started:
• "Quote for 5MT TMT bars to ABC Company" creates a quotation
• "Add item TMT 10mm 3MT @ 55" adds a product to the draft
• "Change customer name to XYZ" edits the draft
• "show draft", "undo", "cancel" and "reset" work at any time`

	generalText = `I can help with steel quotations.
• Create one: "Quote for 5MT TMT bars to ABC Company"
• Edit one: "Change customer name to XYZ Corp"
• Ask "what can you do?" for more.`
)

// casualReply answers small talk. Replies depend on whether a draft is in
// progress so "no" or "ok" does not read as if nothing were happening.
func casualReply(kind CasualKind, inProgress bool) string {
	switch kind {
	case CasualGreeting:
		return "Hello! I'm your assistant for steel trading and quotations. How can I help you today?"
	case CasualThanks:
		return "You're welcome! Happy to help with your steel business needs."
	case CasualAboutBot:
		return aboutBotText
	case CasualAffirmation:
		if inProgress {
			return "Perfect! Let's continue with the quotation. Type \"show draft\" to see it."
		}
		return "Great! What would you like to work on?"
	case CasualNegation:
		if inProgress {
			return "Alright! Would you like to modify something or start over?"
		}
		return "No worries! Let me know if there's anything else I can help you with."
	case CasualFarewell:
		return "Goodbye! Come back anytime for steel quotations."
	case CasualHelp:
		return helpText
	}
	if inProgress {
		return "I understand. Let's continue, what's the next step?"
	}
	return generalText
}

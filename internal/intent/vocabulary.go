package intent

import "regexp"

var keywords = map[Intent][]string{
	Quotation: {
		"quote", "quotation", "estimate", "price", "rate", "cost", "billing",
		"mt", "tonnes", "tons", "kg", "nos", "pcs", "pieces", "quantity",
		"ismb", "ismc", "isa", "tmt", "hr sheet", "cr sheet", "ms pipe", "ms flat", "ms angle", "ms channel",
		"steel", "iron", "metal", "rebar", "bars", "plates", "sheets", "beam", "channel", "angle", "pipe", "gst",
	},
	Edit: {
		"change", "update", "edit", "modify", "replace", "add", "remove", "delete", "set",
		"fix", "correct", "adjust", "alter", "revise", "name to", "gst to", "add item",
	},
	Casual: {
		"hi", "hello", "hey", "thanks", "thank you", "ok", "okay", "yes", "no", "help",
		"bye", "good morning", "good evening", "how are you", "who are you",
	},
}

var patterns = map[Intent][]*regexp.Regexp{
	Quotation: {
		regexp.MustCompile(`\d+\s?(?:mt|tonnes?|tons?|kgs?|nos|pcs|pieces)\b`),
		regexp.MustCompile(`@\s?[\d.]+`),
		regexp.MustCompile(`₹\s?[\d.,]+`),
		regexp.MustCompile(`\bprice\s+(?:for|of)\b`),
		regexp.MustCompile(`\bquote\s+(?:for|to)\b`),
		regexp.MustCompile(`\bneed\s+(?:a\s+)?(?:quote|price|estimate)\b`),
		regexp.MustCompile(`\b(?:create|generate|make|prepare)\s+(?:a\s+|new\s+)?(?:quote|quotation)\b`),
		regexp.MustCompile(`\bto\s+[a-z\s]+,`),
	},
	Edit: {
		regexp.MustCompile(`\bchange\s+\w+(?:\s+\w+)?\s+to\b`),
		regexp.MustCompile(`\bupdate\s+\w+(?:\s+\w+)?\s+to\b`),
		regexp.MustCompile(`\bset\s+\w+(?:\s+\w+)?\s+to\b`),
		regexp.MustCompile(`\badd\s+(?:an?\s+)?(?:item|product)\b`),
		regexp.MustCompile(`\bremove\s+(?:the\s+)?(?:item|product|last)\b`),
		regexp.MustCompile(`\breplace\s+\w+\s+with\b`),
		regexp.MustCompile(`\bmodify\s+\w+`),
		regexp.MustCompile(`\bedit\s+\w+`),
	},
	Casual: {
		regexp.MustCompile(`^(?:hi|hello|hey)\b`),
		regexp.MustCompile(`^(?:ok|okay|alright|sure|fine)$`),
		regexp.MustCompile(`^(?:yes|no|yeah|yep|nope)$`),
		regexp.MustCompile(`^(?:thanks?|thank you|thx)\b`),
		regexp.MustCompile(`\bwhat\s+(?:can|do)\s+you\b`),
		regexp.MustCompile(`\bhow\s+are\s+you\b`),
		regexp.MustCompile(`\bwho\s+are\s+you\b`),
	},
}

// keywordRes matches each keyword on word boundaries so "hi" does not fire on "this".
var keywordRes = func() map[Intent][]*regexp.Regexp {
	out := make(map[Intent][]*regexp.Regexp, len(keywords))
	for in, ws := range keywords {
		for _, w := range ws {
			out[in] = append(out[in], regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
		}
	}
	return out
}()

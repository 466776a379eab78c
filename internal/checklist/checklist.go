// Package checklist collects a quotation step by step when free text was not enough.
//
// The cursor only moves on accepted input. The items step runs an inner
// description, quantity and rate cycle, then asks whether to add another product;
// that yes/no gate is checked before any other interpretation of the input.
package checklist

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

type Decision string

const (
	DecisionNone     Decision = ""
	DecisionFinalize Decision = "finalize"
	DecisionEdit     Decision = "edit"
)

// State is the serializable cursor of a checklist session.
type State struct {
	Cursor            int                `json:"cursor"`
	Sub               SubStep            `json:"sub,omitempty"`
	AwaitingMoreItems bool               `json:"awaiting_more_items,omitempty"`
	Pending           quotation.LineItem `json:"pending"`
	// FillMissing skips steps whose field the draft already has.
	FillMissing bool `json:"fill_missing,omitempty"`
}

type StepResult struct {
	Accepted          bool
	Message           string
	NextPrompt        string
	IsComplete        bool
	AwaitingMoreItems bool
	Step              StepID
	Decision          Decision
}

type Progress struct {
	Completed  int
	Total      int
	Percentage int
	Remaining  int
}

type Checklist struct {
	State State
	Draft quotation.Draft
	rates materials.RateTable
}

// New starts an empty checklist at the customer step.
func New(rates materials.RateTable) *Checklist {
	c := &Checklist{Draft: quotation.NewDraft(), rates: rates}
	c.moveTo(0)
	return c
}

// NewFromDraft resumes a partially filled draft at its first missing step.
func NewFromDraft(d quotation.Draft, rates materials.RateTable) *Checklist {
	c := &Checklist{Draft: d.Clone(), State: State{FillMissing: true}, rates: rates}
	c.Draft.Refresh()
	c.moveTo(0)
	return c
}

// Restore rebuilds a checklist from stored state.
func Restore(st State, d quotation.Draft, rates materials.RateTable) *Checklist {
	st.Cursor = max(0, min(st.Cursor, len(steps)))
	return &Checklist{State: st, Draft: d.Clone(), rates: rates}
}

// Start reports the prompt for the current position without consuming input.
func (c *Checklist) Start() StepResult {
	return StepResult{
		Accepted:          true,
		NextPrompt:        c.Prompt(),
		Step:              c.Current(),
		IsComplete:        c.IsComplete(),
		AwaitingMoreItems: c.State.AwaitingMoreItems,
	}
}

// Done reports whether the confirmation was answered with finalize.
func (c *Checklist) Done() bool { return c.State.Cursor >= len(steps) }

// IsComplete reports whether every data step is behind the cursor.
func (c *Checklist) IsComplete() bool { return c.State.Cursor >= len(steps)-1 }

func (c *Checklist) Current() StepID {
	return steps[min(c.State.Cursor, len(steps)-1)].ID
}

func (c *Checklist) Prompt() string {
	if c.Done() {
		return ""
	}
	s := steps[c.State.Cursor]
	switch {
	case s.ID == StepItems && c.State.AwaitingMoreItems:
		return fmt.Sprintf("You have %d product(s). Would you like to add another? (yes/no)", len(c.Draft.Items))
	case s.ID == StepItems && c.State.Sub == SubDescription && len(c.Draft.Items) == 0:
		return s.Prompt + "\n" + subPrompts[SubDescription]
	case s.ID == StepItems:
		return subPrompts[c.State.Sub]
	case s.ID == StepConfirmation:
		return c.Draft.Summary() + "\n\n" + s.Prompt
	}
	return FormatPrompt(s)
}

func (c *Checklist) Progress() Progress {
	total := len(steps) - 1
	done := min(c.State.Cursor, total)
	return Progress{
		Completed:  done,
		Total:      total,
		Percentage: done * 100 / total,
		Remaining:  total - done,
	}
}

// ProcessInput consumes one user answer for the current step.
func (c *Checklist) ProcessInput(text string) StepResult {
	in := strings.TrimSpace(text)
	if c.Done() {
		return StepResult{
			Message:    "This quotation is already complete. Type \"reset\" to start a new one.",
			IsComplete: true,
			Step:       StepConfirmation,
		}
	}

	s := steps[c.State.Cursor]
	switch s.ID {
	case StepItems:
		return c.processItem(in)
	case StepConfirmation:
		return c.processConfirmation(in)
	}

	skip := in == "" || quotation.ParseCommand(in) == quotation.CommandSkip
	if skip && !s.Required {
		s.fallback(&c.Draft)
		return c.advance(fmt.Sprintf("%s: using the default.", s.Title))
	}
	if skip {
		return c.reject(fmt.Sprintf("%s is required.", s.Title))
	}
	if problem := s.set(&c.Draft, in); problem != "" {
		return c.reject(problem)
	}
	return c.advance(fmt.Sprintf("%s saved.", s.Title))
}

func (c *Checklist) processItem(in string) StepResult {
	st := &c.State
	if st.AwaitingMoreItems {
		switch {
		case quotation.IsYes(in):
			st.AwaitingMoreItems = false
			st.Sub = SubDescription
			return StepResult{
				Accepted:   true,
				Message:    fmt.Sprintf("Adding product #%d.", len(c.Draft.Items)+1),
				NextPrompt: subPrompts[SubDescription],
				Step:       StepItems,
			}
		case quotation.IsNo(in):
			return c.advance(fmt.Sprintf("%d product(s) added.", len(c.Draft.Items)))
		case !validDescription(in) || quotation.ParseCommand(in) == quotation.CommandSkip:
			return c.reject("Please answer \"yes\" to add another product or \"no\" to continue.")
		}
		// Anything else is the next item's description.
		st.AwaitingMoreItems = false
		st.Sub = SubDescription
	}

	switch st.Sub {
	case SubDescription:
		if !validDescription(in) || quotation.ParseCommand(in) == quotation.CommandSkip {
			return c.reject("Please describe the product, e.g. \"TMT Bars 10mm\".")
		}
		st.Pending = quotation.LineItem{Description: in}
		st.Sub = SubQuantity
		return c.accepted("Got it: "+in, subPrompts[SubQuantity])

	case SubQuantity:
		q, u, ok := quotation.ParseQuantity(in)
		if !ok || q <= 0 {
			return c.reject("Please enter a quantity greater than zero, e.g. 5000 or 5 MT.")
		}
		st.Pending.Quantity, st.Pending.Unit = q, u
		st.Sub = SubRate
		return c.accepted(fmt.Sprintf("Quantity: %s %s", strconv.FormatFloat(q, 'f', -1, 64), u), subPrompts[SubRate])

	case SubRate:
		it := st.Pending
		if in == "" || strings.EqualFold(in, "auto") || quotation.ParseCommand(in) == quotation.CommandSkip {
			it.Rate = quotation.Rate(c.rates.InferRate(it.Description, nil))
			it.RateInferred = true
		} else {
			r, ok := quotation.ParseAmount(in)
			if !ok || r <= 0 {
				return c.reject("Please enter a rate greater than zero, e.g. 55 or ₹55/kg, or \"auto\".")
			}
			it.Rate = quotation.Rate(r)
		}
		it.Section = c.rates.Family(it.Description)
		c.Draft.Items = append(c.Draft.Items, it)
		c.Draft.Refresh()
		st.Pending = quotation.LineItem{}
		st.Sub = SubNone
		st.AwaitingMoreItems = true
		res := c.accepted("Added: "+it.Line(), "Would you like to add another product? (yes/no)")
		res.AwaitingMoreItems = true
		return res
	}

	// Landed on items without a sub-step, e.g. restored from an older state.
	c.moveTo(c.State.Cursor)
	return c.reject("Let's add products to your quotation.")
}

func (c *Checklist) processConfirmation(in string) StepResult {
	res := StepResult{Accepted: true, IsComplete: true, Step: StepConfirmation}
	switch {
	case quotation.ParseCommand(in) == quotation.CommandFinalize || quotation.IsYes(in):
		c.State.Cursor = len(steps)
		res.Message = "Quotation confirmed."
		res.Decision = DecisionFinalize
		return res
	case quotation.IsNo(in) || isEditAnswer(in):
		res.Message = "Sure, what would you like to change?"
		res.Decision = DecisionEdit
		return res
	}
	r := c.reject("Please reply \"yes\" to finalize or \"edit\" to make changes.")
	r.IsComplete = true
	return r
}

// AcceptsItemLine reports whether the next answer starts a new product, so a
// complete item line ("TMT 10mm - 5 MT @ 55") can be taken in one go.
func (c *Checklist) AcceptsItemLine() bool {
	if c.Done() || steps[c.State.Cursor].ID != StepItems {
		return false
	}
	return c.State.AwaitingMoreItems || c.State.Sub == SubDescription
}

// AddItems appends fully parsed items and returns to the "add another?" gate.
func (c *Checklist) AddItems(items []quotation.LineItem) StepResult {
	if len(items) == 0 || !c.AcceptsItemLine() {
		return c.reject("Please describe the product, e.g. \"TMT Bars 10mm\".")
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it.Section == "" {
			it.Section = c.rates.Family(it.Description)
		}
		c.Draft.Items = append(c.Draft.Items, it)
		lines = append(lines, "Added: "+it.Line())
	}
	c.Draft.Refresh()
	c.State.Pending = quotation.LineItem{}
	c.State.Sub = SubNone
	c.State.AwaitingMoreItems = true
	res := c.accepted(strings.Join(lines, "\n"), "Would you like to add another product? (yes/no)")
	res.AwaitingMoreItems = true
	return res
}

// SkipToStep moves the cursor to the named step, keeping entered items.
func (c *Checklist) SkipToStep(id StepID) bool {
	i := indexOf(id)
	if i < 0 {
		return false
	}
	c.State.FillMissing = false
	c.moveTo(i)
	return true
}

// Reset returns to the first step. A partial reset keeps line items.
func (c *Checklist) Reset(full bool) {
	items := c.Draft.Items
	c.Draft = quotation.NewDraft()
	if !full {
		c.Draft.Items = items
		c.Draft.Refresh()
	}
	c.State = State{}
	c.moveTo(0)
}

func (c *Checklist) advance(msg string) StepResult {
	c.Draft.Refresh()
	c.moveTo(c.State.Cursor + 1)
	return StepResult{
		Accepted:          true,
		Message:           msg,
		NextPrompt:        c.Prompt(),
		IsComplete:        c.IsComplete(),
		AwaitingMoreItems: c.State.AwaitingMoreItems,
		Step:              c.Current(),
	}
}

func (c *Checklist) accepted(msg, next string) StepResult {
	return StepResult{Accepted: true, Message: msg, NextPrompt: next, Step: c.Current()}
}

func (c *Checklist) reject(msg string) StepResult {
	return StepResult{
		Message:           msg,
		NextPrompt:        c.Prompt(),
		AwaitingMoreItems: c.State.AwaitingMoreItems,
		Step:              c.Current(),
	}
}

// moveTo positions the cursor at step i or, when filling gaps, at the first
// step from i on that the draft is still missing.
func (c *Checklist) moveTo(i int) {
	if c.State.FillMissing {
		for i < len(steps)-1 && !slices.Contains(c.Draft.Metadata.MissingFields, steps[i].Field) {
			i++
		}
	}
	c.State.Cursor = i
	c.State.Sub = SubNone
	c.State.AwaitingMoreItems = false
	c.State.Pending = quotation.LineItem{}
	if i < len(steps) && steps[i].ID == StepItems {
		if len(c.Draft.Items) > 0 {
			c.State.AwaitingMoreItems = true
		} else {
			c.State.Sub = SubDescription
		}
	}
}

func validDescription(s string) bool {
	return len(s) >= 2 && strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func isEditAnswer(s string) bool {
	s = strings.ToLower(s)
	for _, p := range []string{"edit", "change", "modify", "update"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

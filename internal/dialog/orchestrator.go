// Package dialog routes each message of a conversation to extraction, the
// checklist or the edit interpreter, and carries the session state between turns.
//
// Precedence, highest first:
//  1. undo and cancel, in any mode
//  2. an active edit session
//  3. an active checklist
//  4. a complete draft awaiting confirmation: yes finalizes, no or an edit
//     command opens the edit session, anything else falls through
//  5. the intent classifier
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/Spok95/quote-bot/internal/checklist"
	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
	"github.com/Spok95/quote-bot/internal/edit"
	"github.com/Spok95/quote-bot/internal/extract"
	"github.com/Spok95/quote-bot/internal/intent"
)

var ErrNoExtractor = errors.New("dialog: extractor is required")

type Route string

const (
	RouteCommand   Route = "command"
	RouteEdit      Route = "edit"
	RouteChecklist Route = "checklist"
	RouteExtract   Route = "extract"
	RouteCasual    Route = "casual"
)

// Input tags reported in Hints.AwaitingInput.
const (
	InputEditCommand  = "edit_command"
	InputConfirmation = "confirmation"
)

// Hints tell the UI what kind of answer comes next.
type Hints struct {
	AwaitingInput      string            `json:"awaiting_input,omitempty"`
	ShowConfirmButtons bool              `json:"show_confirm_buttons"`
	MissingFields      []quotation.Field `json:"missing_fields,omitempty"`
	Progress           int               `json:"progress"`
}

type Reply struct {
	Text  string `json:"text"`
	Hints Hints  `json:"hints"`
	Route Route  `json:"route"`
	// Finalized is the completed quotation, set on the turn it was confirmed.
	Finalized *quotation.Draft `json:"finalized,omitempty"`
}

// Recorder observes turns. The metrics package provides the prometheus one.
type Recorder interface {
	Turn(route string)
	Extraction(confidence int, complete bool)
	Finalized()
}

type nopRecorder struct{}

func (nopRecorder) Turn(string) {}
func (nopRecorder) Extraction(int, bool) {}
func (nopRecorder) Finalized() {}

type Orchestrator struct {
	ex    *extract.Extractor
	cl    *intent.Classifier
	log   *slog.Logger
	rec   Recorder
	depth int
}

type Option func(*Orchestrator)

func WithLogger(l *slog.Logger) Option { return func(o *Orchestrator) { o.log = l } }

func WithRecorder(r Recorder) Option { return func(o *Orchestrator) { o.rec = r } }

func WithHistoryDepth(n int) Option { return func(o *Orchestrator) { o.depth = n } }

// New wires the orchestrator. A nil classifier means rules only.
func New(ex *extract.Extractor, cl *intent.Classifier, opts ...Option) (*Orchestrator, error) {
	if ex == nil {
		return nil, ErrNoExtractor
	}
	if cl == nil {
		cl = intent.New()
	}
	o := &Orchestrator{ex: ex, cl: cl, log: slog.Default(), rec: nopRecorder{}, depth: DefaultHistoryDepth}
	for _, opt := range opts {
		opt(o)
	}
	if o.rec == nil {
		o.rec = nopRecorder{}
	}
	return o, nil
}

// HandleTurn processes one message. The given state is not modified; the
// returned state replaces it.
func (o *Orchestrator) HandleTurn(ctx context.Context, text string, st State) (Reply, State) {
	next := st.Clone()
	if next.Mode == "" {
		next.Mode = ModeIdle
	}
	if next.Draft.Items == nil {
		next.Draft.Items = []quotation.LineItem{}
	}
	t := &turn{o: o, ex: o.ex.WithRateOverrides(next.RateOverrides), st: &next}
	r := t.run(ctx, strings.TrimSpace(text))
	if r.Hints.Progress == 0 && next.HasDraft() {
		r.Hints.Progress = next.Draft.Metadata.CompletionPercentage
	}
	o.rec.Turn(string(r.Route))
	o.log.Debug("turn handled", "session", next.SessionID, "route", r.Route, "mode", next.Mode)
	return r, next
}

// turn holds the per-message working set.
type turn struct {
	o  *Orchestrator
	ex *extract.Extractor
	st *State
}

func (t *turn) rates() materials.RateTable { return t.ex.Rates() }

func (t *turn) run(ctx context.Context, text string) Reply {
	switch quotation.ParseCommand(text) {
	case quotation.CommandBack:
		return t.back()
	case quotation.CommandCancel:
		had := t.st.HasDraft()
		t.st.clear()
		if !had {
			return Reply{Text: "There is nothing to cancel.", Route: RouteCommand}
		}
		return Reply{Text: "Quotation cancelled. Send a new request whenever you're ready.", Route: RouteCommand}
	}

	switch t.st.Mode {
	case ModeEditing:
		return t.editTurn(text)
	case ModeBuilding:
		switch {
		case t.st.Checklist != nil:
			return t.checklistTurn(text)
		case t.st.Awaiting == AwaitConfirmation:
			if r, ok := t.confirmTurn(text); ok {
				return r
			}
		default:
			t.st.Mode = ModeIdle
		}
	}

	switch quotation.ParseCommand(text) {
	case quotation.CommandShowDraft:
		if !t.st.HasDraft() {
			return Reply{Text: "There is no draft yet. Send a quotation request to start one.", Route: RouteCommand}
		}
		return Reply{Text: t.st.Draft.Summary(), Route: RouteCommand}
	case quotation.CommandReset:
		t.st.clear()
		return Reply{Text: "Draft cleared. You can start a new quotation.", Route: RouteCommand}
	case quotation.CommandHelp:
		return Reply{Text: casualReply(CasualHelp, false), Route: RouteCasual}
	}

	d := t.o.cl.Classify(ctx, text, intent.SessionContext{HasDraft: t.st.HasDraft()})
	t.o.log.Debug("intent", "session", t.st.SessionID, "intent", d.Intent, "scores", d.Scores, "fallback", d.UsedFallback)
	switch d.Intent {
	case intent.Quotation:
		return t.extractTurn(ctx, text)
	case intent.Edit:
		if !t.st.HasDraft() {
			return Reply{
				Text:  "There is no draft to edit yet. Send a quotation request first, e.g. \"Quote to ABC Industries: ISMC 100x50 - 5MT @ Rs.56\".",
				Route: RouteEdit,
			}
		}
		t.st.Mode = ModeEditing
		return t.editTurn(text)
	}
	if t.st.Mode == ModeIdle {
		t.st.Mode = ModeCasual
	}
	return Reply{Text: casualReply(CasualKindOf(text), t.st.HasDraft()), Route: RouteCasual}
}

func (t *turn) back() Reply {
	prev, ok := t.st.popHistory()
	if !ok {
		return Reply{Text: "Nothing to undo.", Route: RouteCommand}
	}
	t.st.Draft = prev
	msg := "Undone. " + prev.Summary()
	switch {
	case t.st.Mode == ModeBuilding && t.st.Checklist == nil && t.st.Awaiting == AwaitConfirmation:
		return Reply{Text: msg, Route: RouteCommand, Hints: t.confirmHints()}
	case t.st.Mode == ModeBuilding:
		c := checklist.NewFromDraft(prev, t.rates())
		t.saveChecklist(c)
		return Reply{Text: "Undone.\n\n" + c.Prompt(), Route: RouteCommand, Hints: t.checklistHints(c)}
	case t.st.Mode == ModeEditing:
		return Reply{Text: msg, Route: RouteCommand, Hints: t.editHints()}
	}
	return Reply{Text: msg, Route: RouteCommand}
}

// extractTurn starts a quotation from free text.
func (t *turn) extractTurn(ctx context.Context, text string) Reply {
	res := t.ex.Extract(ctx, text)
	t.o.rec.Extraction(res.Confidence, res.Complete())
	t.o.log.Debug("extracted", "session", t.st.SessionID, "confidence", res.Confidence,
		"items", len(res.Draft.Items), "complete", res.Complete(), "fallback", res.UsedFallback)

	if t.st.HasDraft() {
		t.st.pushHistory(t.st.Draft, t.o.depth)
	}
	t.st.Draft = res.Draft

	if !res.Complete() {
		c := checklist.NewFromDraft(res.Draft, t.rates())
		msg := "I've started the quotation with what I could read.\n" + res.Clarification.Prompt
		if len(res.Draft.Items) == 0 && res.Draft.CustomerName == "" {
			// nothing usable was read: walk every step from the top
			c = checklist.Restore(checklist.State{}, res.Draft, t.rates())
			msg = "Let's build the quotation step by step.\n\n" + c.Prompt()
		}
		t.saveChecklist(c)
		t.st.Mode = ModeBuilding
		t.st.Awaiting = AwaitNothing

		h := t.checklistHints(c)
		h.MissingFields = res.Clarification.Missing
		return Reply{Text: msg, Route: RouteExtract, Hints: h}
	}

	t.st.Mode = ModeBuilding
	t.st.Awaiting = AwaitConfirmation
	t.st.Checklist = nil

	var b strings.Builder
	b.WriteString(res.Draft.Summary())
	for _, w := range res.Warnings {
		b.WriteString("\n⚠ " + w.Message)
		if len(w.Suggestions) > 0 {
			b.WriteString(" Did you mean: " + strings.Join(w.Suggestions, ", ") + "?")
		}
	}
	b.WriteString("\n\nReply \"yes\" to finalize, or tell me what to change (e.g. \"update GST to 12%\").")
	return Reply{Text: b.String(), Route: RouteExtract, Hints: t.confirmHints()}
}

// confirmTurn answers a complete draft waiting for "yes". ok is false when the
// message is neither a confirmation nor an edit, so it goes to the classifier
// and a new request can replace the draft.
func (t *turn) confirmTurn(text string) (Reply, bool) {
	if quotation.IsYes(text) {
		return t.finalize(RouteExtract), true
	}
	op := edit.Parse(text)
	switch {
	case op.LeavesEditMode():
		return t.finalize(RouteExtract), true
	case op.Recognized() && op.Target != edit.TargetMeta:
		t.st.Mode = ModeEditing
		return t.editTurn(text), true
	case !op.Recognized() && quotation.IsNo(text):
		t.st.Mode = ModeEditing
		return Reply{Text: "Okay. Tell me what to change, or type \"help\" for examples.", Route: RouteEdit, Hints: t.editHints()}, true
	}
	return Reply{}, false
}

func (t *turn) editTurn(text string) Reply {
	if t.st.Awaiting == AwaitConfirmation && quotation.IsYes(text) {
		return t.finalize(RouteEdit)
	}
	in := edit.New(t.rates())
	op := edit.Parse(text)
	if op.LeavesEditMode() {
		return t.finalize(RouteEdit)
	}
	if !op.Recognized() && quotation.IsNo(text) {
		return Reply{Text: "Okay. Tell me what to change, or type \"help\" for examples.", Route: RouteEdit, Hints: t.editHints()}
	}

	out, msg := in.Apply(t.st.Draft, op)
	if op.Action == edit.ActionReset {
		if t.st.HasDraft() {
			t.st.pushHistory(t.st.Draft, t.o.depth)
		}
		t.st.Draft = out
		t.st.Mode = ModeIdle
		t.st.Awaiting = AwaitNothing
		t.st.Checklist = nil
		return Reply{Text: msg, Route: RouteEdit}
	}
	if !reflect.DeepEqual(out, t.st.Draft) {
		t.st.pushHistory(t.st.Draft, t.o.depth)
		t.st.Draft = out
		t.st.Awaiting = AwaitConfirmation
		msg += "\n\nAnything else? Reply \"yes\" or \"done\" to finalize."
	}
	return Reply{Text: msg, Route: RouteEdit, Hints: t.editHints()}
}

func (t *turn) checklistTurn(text string) Reply {
	c := checklist.Restore(*t.st.Checklist, t.st.Draft, t.rates())

	switch quotation.ParseCommand(text) {
	case quotation.CommandShowDraft:
		return Reply{Text: c.Draft.Summary() + "\n\n" + c.Prompt(), Route: RouteChecklist, Hints: t.checklistHints(c)}
	case quotation.CommandHelp:
		return Reply{
			Text:  c.Prompt() + "\n\nYou can also say \"skip\", \"undo\", \"show draft\", \"reset\" or \"cancel\".",
			Route: RouteChecklist,
			Hints: t.checklistHints(c),
		}
	case quotation.CommandReset:
		if t.st.HasDraft() {
			t.st.pushHistory(t.st.Draft, t.o.depth)
		}
		c.Reset(false)
		t.saveChecklist(c)
		return Reply{
			Text:  "Starting over. Products already entered are kept.\n\n" + c.Prompt(),
			Route: RouteChecklist,
			Hints: t.checklistHints(c),
		}
	}

	before := c.Draft.Clone()
	var res checklist.StepResult
	var items []quotation.LineItem
	if c.AcceptsItemLine() && !quotation.IsYes(text) && !quotation.IsNo(text) {
		items = t.ex.Items(text)
	}
	if len(items) > 0 {
		res = c.AddItems(items)
	} else {
		res = c.ProcessInput(text)
	}
	if !reflect.DeepEqual(before, c.Draft) {
		t.st.pushHistory(before, t.o.depth)
	}
	t.saveChecklist(c)

	switch res.Decision {
	case checklist.DecisionFinalize:
		return t.finalize(RouteChecklist)
	case checklist.DecisionEdit:
		t.st.Mode = ModeEditing
		t.st.Awaiting = AwaitConfirmation
		t.st.Checklist = nil
		if op := edit.Parse(text); op.Recognized() && op.Target != edit.TargetMeta {
			return t.editTurn(text)
		}
		return Reply{Text: res.Message + "\n\n" + edit.Help(), Route: RouteChecklist, Hints: t.editHints()}
	}

	return Reply{Text: joinNonEmpty(res.Message, res.NextPrompt), Route: RouteChecklist, Hints: t.checklistHints(c)}
}

// finalize hands the completed draft off and returns the session to idle.
func (t *turn) finalize(route Route) Reply {
	rates := t.rates()
	done, err := t.st.Draft.Finalize(func(desc string) float64 { return rates.InferRate(desc, nil) })
	switch {
	case errors.Is(err, quotation.ErrMissingCustomer), errors.Is(err, quotation.ErrNoItems):
		c := checklist.NewFromDraft(t.st.Draft, rates)
		t.saveChecklist(c)
		t.st.Mode = ModeBuilding
		t.st.Awaiting = AwaitNothing
		h := t.checklistHints(c)
		h.MissingFields = t.st.Draft.RequiredMissing()
		return Reply{Text: "The quotation isn't ready yet.\n\n" + c.Prompt(), Route: route, Hints: h}
	case err != nil:
		t.st.Mode = ModeEditing
		t.st.Checklist = nil
		return Reply{
			Text:  fmt.Sprintf("I can't finalize yet: %v. Please fix it, e.g. \"update price of item 1 to 55\".", err),
			Route: route,
			Hints: t.editHints(),
		}
	}

	t.o.rec.Finalized()
	t.o.log.Info("quotation finalized", "session", t.st.SessionID, "customer", done.CustomerName,
		"items", len(done.Items), "grand_total", done.Totals().GrandTotal)
	t.st.clear()
	return Reply{
		Text: fmt.Sprintf("Quotation for %s finalized. Grand total: %s.\n\n%s",
			done.CustomerName, quotation.FormatINR(done.Totals().GrandTotal), done.Summary()),
		Route:     route,
		Finalized: &done,
		Hints:     Hints{Progress: 100},
	}
}

func (t *turn) saveChecklist(c *checklist.Checklist) {
	cs := c.State
	t.st.Checklist = &cs
	t.st.Draft = c.Draft
}

func (t *turn) checklistHints(c *checklist.Checklist) Hints {
	h := Hints{
		AwaitingInput: string(c.Current()),
		Progress:      c.Progress().Percentage,
		MissingFields: c.Draft.Metadata.MissingFields,
	}
	if c.IsComplete() {
		h.AwaitingInput = InputConfirmation
		h.ShowConfirmButtons = true
	}
	return h
}

func (t *turn) confirmHints() Hints {
	return Hints{
		AwaitingInput:      InputConfirmation,
		ShowConfirmButtons: true,
		MissingFields:      t.st.Draft.Metadata.MissingFields,
		Progress:           t.st.Draft.Metadata.CompletionPercentage,
	}
}

func (t *turn) editHints() Hints {
	return Hints{
		AwaitingInput:      InputEditCommand,
		ShowConfirmButtons: t.st.Awaiting == AwaitConfirmation,
		MissingFields:      t.st.Draft.Metadata.MissingFields,
		Progress:           t.st.Draft.Metadata.CompletionPercentage,
	}
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

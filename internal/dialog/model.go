package dialog

import (
	"maps"

	"github.com/Spok95/quote-bot/internal/checklist"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeBuilding Mode = "building_quotation" // checklist in progress, or a draft awaiting "yes"
	ModeEditing  Mode = "editing_draft"      // edit commands until finalize
	ModeCasual   Mode = "casual"
)

type Awaiting string

const (
	AwaitNothing      Awaiting = ""
	AwaitConfirmation Awaiting = "confirmation"
)

// DefaultHistoryDepth bounds the undo snapshots kept per session.
const DefaultHistoryDepth = 10

// State is everything a session carries between turns. It is passed into and
// returned from every turn; nothing else holds conversation data.
type State struct {
	SessionID     string             `json:"session_id"`
	Mode          Mode               `json:"mode"`
	Draft         quotation.Draft    `json:"draft"`
	Checklist     *checklist.State   `json:"checklist,omitempty"`
	Awaiting      Awaiting           `json:"awaiting,omitempty"`
	RateOverrides map[string]float64 `json:"rate_overrides,omitempty"`
	History       []quotation.Draft  `json:"history,omitempty"` // most recent first
	Epoch         int64              `json:"epoch"`
}

func NewState(sessionID string) State {
	return State{SessionID: sessionID, Mode: ModeIdle, Draft: quotation.NewDraft()}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Draft = s.Draft.Clone()
	if s.Checklist != nil {
		cs := *s.Checklist
		if cs.Pending.Rate != nil {
			cs.Pending.Rate = quotation.Rate(*cs.Pending.Rate)
		}
		out.Checklist = &cs
	}
	out.RateOverrides = maps.Clone(s.RateOverrides)
	if s.History != nil {
		out.History = make([]quotation.Draft, len(s.History))
		for i, d := range s.History {
			out.History[i] = d.Clone()
		}
	}
	return out
}

// HasDraft reports whether the session holds any quotation data worth keeping.
func (s State) HasDraft() bool {
	d := s.Draft
	return d.CustomerName != "" || len(d.Items) > 0
}

func (s *State) pushHistory(d quotation.Draft, depth int) {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	s.History = append([]quotation.Draft{d.Clone()}, s.History...)
	if len(s.History) > depth {
		s.History = s.History[:depth]
	}
}

func (s *State) popHistory() (quotation.Draft, bool) {
	if len(s.History) == 0 {
		return quotation.Draft{}, false
	}
	d := s.History[0]
	s.History = s.History[1:]
	if len(s.History) == 0 {
		s.History = nil
	}
	return d, true
}

// clear drops the draft and flow state but keeps session settings.
func (s *State) clear() {
	s.Mode = ModeIdle
	s.Draft = quotation.NewDraft()
	s.Checklist = nil
	s.Awaiting = AwaitNothing
	s.History = nil
}

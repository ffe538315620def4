// Package session holds the caller-owned calculation state that surfaces edit: ordered
// groups of entries, an optional prior aggregate and the grading mode. Every mutation
// recalculates the affected aggregates immediately. A Session is not safe for
// concurrent use.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/grading"
	"github.com/PROGPA/gpacalculaters/internal/model"
	"github.com/google/uuid"
)

// Session mutation errors.
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrEntryNotFound = errors.New("entry not found")
	ErrLastEntry     = errors.New("cannot remove the last entry of a group")
	ErrLastGroup     = errors.New("cannot remove the last group")
)

// DefaultGroupPrefix names groups "Semester 1", "Semester 2" and so on.
const DefaultGroupPrefix = "Semester"

// Layout controls the shape of freshly created groups.
type Layout struct {
	GroupPrefix     string  `json:"group_prefix"`
	EntriesPerGroup int     `json:"entries_per_group"`
	DefaultWeight   float64 `json:"default_weight"`
}

// DefaultLayout is four blank entries per group.
var DefaultLayout = Layout{GroupPrefix: DefaultGroupPrefix, EntriesPerGroup: 4}

func (l Layout) normalized() Layout {
	if l.GroupPrefix == "" {
		l.GroupPrefix = DefaultGroupPrefix
	}
	if l.EntriesPerGroup <= 0 {
		l.EntriesPerGroup = DefaultLayout.EntriesPerGroup
	}
	if l.DefaultWeight < 0 {
		l.DefaultWeight = 0
	}
	return l
}

// Session is one calculator's working state.
type Session struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	Mode   model.GradingMode `json:"mode"`
	Groups []model.Group     `json:"groups"`
	Prior  *model.Prior      `json:"prior,omitempty"`
	Layout Layout            `json:"layout"`
}

// Option configures New.
type Option func(*Session)

// WithLayout overrides the default group layout.
func WithLayout(l Layout) Option {
	return func(s *Session) { s.Layout = l.normalized() }
}

// WithName sets the display name of the session.
func WithName(name string) Option {
	return func(s *Session) { s.Name = name }
}

// WithKind records which calculator the session belongs to.
func WithKind(kind string) Option {
	return func(s *Session) { s.Kind = kind }
}

// New creates a session holding one default group.
func New(mode model.GradingMode, opts ...Option) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		Mode:   mode,
		Layout: DefaultLayout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Groups = []model.Group{s.newGroup("")}
	return s
}

func (s *Session) newGroup(name string) model.Group {
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("%s %d", s.Layout.normalized().GroupPrefix, len(s.Groups)+1)
	}
	g := model.Group{ID: uuid.NewString(), Name: name}
	for i := 0; i < s.Layout.normalized().EntriesPerGroup; i++ {
		g.Entries = append(g.Entries, s.newEntry())
	}
	return g
}

func (s *Session) newEntry() model.Entry {
	return model.Entry{ID: uuid.NewString(), Weight: s.Layout.normalized().DefaultWeight}
}

func (s *Session) group(groupID string) (*model.Group, error) {
	for i := range s.Groups {
		if s.Groups[i].ID == groupID {
			return &s.Groups[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
}

func entryIndex(g *model.Group, entryID string) (int, error) {
	for i := range g.Entries {
		if g.Entries[i].ID == entryID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
}

// Group returns a copy of the group with the given ID.
func (s *Session) Group(groupID string) (model.Group, error) {
	g, err := s.group(groupID)
	if err != nil {
		return model.Group{}, err
	}
	return *g, nil
}

// AddEntry appends a blank entry to the group and returns it.
func (s *Session) AddEntry(groupID string) (model.Entry, error) {
	g, err := s.group(groupID)
	if err != nil {
		return model.Entry{}, err
	}
	e := s.newEntry()
	g.Entries = append(g.Entries, e)
	s.recalculate(g)
	return e, nil
}

// AddGroup appends a group with the layout's blank entries. An empty name becomes
// "<prefix> N" where N is the new group count.
func (s *Session) AddGroup(name string) model.Group {
	g := s.newGroup(name)
	s.Groups = append(s.Groups, g)
	return g
}

// RenameGroup changes a group's display name.
func (s *Session) RenameGroup(groupID, name string) error {
	g, err := s.group(groupID)
	if err != nil {
		return err
	}
	g.Name = name
	return nil
}

// EntryUpdate carries the fields to change; nil fields are left alone.
type EntryUpdate struct {
	Label  *string
	Token  *string
	Weight *float64
}

// UpdateEntry applies the update, re-derives the entry's score and recalculates its
// group.
func (s *Session) UpdateEntry(groupID, entryID string, u EntryUpdate) (model.Entry, error) {
	g, err := s.group(groupID)
	if err != nil {
		return model.Entry{}, err
	}
	i, err := entryIndex(g, entryID)
	if err != nil {
		return model.Entry{}, err
	}

	e := &g.Entries[i]
	if u.Label != nil {
		e.Label = *u.Label
	}
	if u.Token != nil {
		e.Token = *u.Token
	}
	if u.Weight != nil {
		e.Weight = *u.Weight
	}
	s.recalculate(g)
	return *e, nil
}

// RemoveEntry deletes an entry. A group always keeps at least one entry.
func (s *Session) RemoveEntry(groupID, entryID string) error {
	g, err := s.group(groupID)
	if err != nil {
		return err
	}
	i, err := entryIndex(g, entryID)
	if err != nil {
		return err
	}
	if len(g.Entries) <= 1 {
		return ErrLastEntry
	}
	g.Entries = append(g.Entries[:i], g.Entries[i+1:]...)
	s.recalculate(g)
	return nil
}

// RemoveGroup deletes a group. A session always keeps at least one group.
func (s *Session) RemoveGroup(groupID string) error {
	for i := range s.Groups {
		if s.Groups[i].ID != groupID {
			continue
		}
		if len(s.Groups) <= 1 {
			return ErrLastGroup
		}
		s.Groups = append(s.Groups[:i], s.Groups[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
}

// SetPrior sets the prior aggregate. Nil, or a prior without weight, clears it.
func (s *Session) SetPrior(p *model.Prior) {
	if p == nil || p.Weight <= 0 {
		s.Prior = nil
		return
	}
	prior := *p
	s.Prior = &prior
}

// SetMode switches the grading mode and re-derives every score.
func (s *Session) SetMode(mode model.GradingMode) {
	s.Mode = mode
	s.Recalculate()
}

// Reset returns the session to a single blank group with no prior.
func (s *Session) Reset() {
	s.Groups = nil
	s.Prior = nil
	s.Groups = []model.Group{s.newGroup("")}
}

// Recalculate re-derives every entry score and group aggregate. Sessions loaded from
// storage call this once after they are assembled.
func (s *Session) Recalculate() {
	for i := range s.Groups {
		s.recalculate(&s.Groups[i])
	}
}

func (s *Session) recalculate(g *model.Group) {
	for i := range g.Entries {
		e := &g.Entries[i]
		e.Score = grading.ResolveScore(e.Token, s.Mode, e.Weight)
	}
	agg := grading.Aggregate(g.Entries, s.Mode)
	g.Score, g.Weight = agg.Score, agg.Weight
}

// Summary is a snapshot of a session's aggregates.
type Summary struct {
	Groups   []model.Aggregate `json:"groups"`
	Current  model.Aggregate   `json:"current"`  // all entries, without the prior
	Combined model.Aggregate   `json:"combined"` // all entries blended with the prior
	Counted  int               `json:"counted"`
}

// Summary aggregates every group, the session as a whole and the session blended
// with its prior.
func (s *Session) Summary() Summary {
	out := Summary{
		Groups:   make([]model.Aggregate, len(s.Groups)),
		Current:  grading.AggregateAll(s.Groups, nil, s.Mode),
		Combined: grading.AggregateAll(s.Groups, s.Prior, s.Mode),
	}
	for i, g := range s.Groups {
		out.Groups[i] = g.Aggregate()
		out.Counted += grading.CountEntries(g.Entries, s.Mode)
	}
	return out
}

// Entries returns every entry across all groups in order.
func (s *Session) Entries() []model.Entry {
	return grading.Flatten(s.Groups)
}

// Clone returns a deep copy that shares no slices with s.
func (s *Session) Clone() *Session {
	out := *s
	out.Groups = make([]model.Group, len(s.Groups))
	for i, g := range s.Groups {
		g.Entries = append([]model.Entry(nil), g.Entries...)
		out.Groups[i] = g
	}
	if s.Prior != nil {
		prior := *s.Prior
		out.Prior = &prior
	}
	return &out
}

// ReplaceGroups swaps in caller-built groups. Missing IDs and names are filled
// in, a group without entries gets one blank entry and an empty list leaves a
// single default group. Every score is re-derived.
func (s *Session) ReplaceGroups(groups []model.Group) {
	s.Groups = s.Groups[:0:0]
	for _, g := range groups {
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		if strings.TrimSpace(g.Name) == "" {
			g.Name = fmt.Sprintf("%s %d", s.Layout.normalized().GroupPrefix, len(s.Groups)+1)
		}
		entries := make([]model.Entry, 0, max(1, len(g.Entries)))
		for _, e := range g.Entries {
			if e.ID == "" {
				e.ID = uuid.NewString()
			}
			entries = append(entries, e)
		}
		if len(entries) == 0 {
			entries = append(entries, s.newEntry())
		}
		g.Entries = entries
		s.Groups = append(s.Groups, g)
	}
	if len(s.Groups) == 0 {
		s.Groups = []model.Group{s.newGroup("")}
	}
	s.Recalculate()
}

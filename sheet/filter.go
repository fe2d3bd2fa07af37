package sheet

import "strings"

// Role is a slot relative to the setter in the rotation order.
type Role int

const (
	Setter Role = iota
	OH1
	MB1
	Opposite
	OH2
	MB2
)

// SetAcceptor selects the sets of a decoded sheet.
type SetAcceptor func(s *Sheet, m *CMatch, set *CSet) bool

// PointAcceptor selects single rallies.
type PointAcceptor func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool

func NotSet(accept SetAcceptor) SetAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet) bool {
		return !accept(s, m, set)
	}
}

func AcceptMatchWon(won bool) SetAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet) bool {
		if won {
			return m.Count > 0
		}
		return m.Count < 0
	}
}

func AcceptMatches(ids ...string) SetAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet) bool {
		for _, id := range ids {
			if strings.EqualFold(id, s.ID) {
				return true
			}
		}
		return false
	}
}

func AcceptSetWon(won bool) SetAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet) bool {
		if won {
			return set.Count > 0
		}
		return set.Count < 0
	}
}

func Not(accept PointAcceptor) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		return !accept(s, m, set, p)
	}
}

// Every accepts a rally accepted by all acceptors.
func Every(accepts ...PointAcceptor) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		for _, accept := range accepts {
			if !accept(s, m, set, p) {
				return false
			}
		}
		return true
	}
}

// Some accepts a rally accepted by at least one acceptor.
func Some(accepts ...PointAcceptor) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		for _, accept := range accepts {
			if accept(s, m, set, p) {
				return true
			}
		}
		return false
	}
}

// AcceptLicences accepts rallies where every whitelisted licence and
// none of the blacklisted ones are on court.
func AcceptLicences(white, black []string) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		for _, licence := range black {
			if p.Licences.Has(licence) {
				return false
			}
		}
		for _, licence := range white {
			if !p.Licences.Has(licence) {
				return false
			}
		}
		return true
	}
}

func AcceptServe(serve bool) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		return p.Serve == serve
	}
}

// AcceptPosition accepts rallies where the player stands on the given
// court position (1 to 6, 1 is the server).
func AcceptPosition(licence string, position int) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		return p.Index(licence) == (position-1+p.Rotation)%6
	}
}

// AcceptRole accepts rallies where the player holds the given slot
// relative to the setter.
func AcceptRole(licence string, role Role, setters []string) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		setter := setterOf(setters, p)
		if setter == "" {
			return false
		}
		idx := p.Index(licence)
		if idx < 0 {
			return false
		}
		return Role((6+idx-p.Index(setter))%6) == role
	}
}

// AcceptSetter accepts rallies where exactly one of the setters is on
// court, and it is the given one when set.
func AcceptSetter(setters []string, setter string) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		found := setterOf(setters, p)
		return found != "" && (setter == "" || found == setter)
	}
}

// AcceptSetterPosition accepts rallies where the setter on court
// stands on the given zero based position.
func AcceptSetterPosition(setters []string, position int, setter string) PointAcceptor {
	return func(s *Sheet, m *CMatch, set *CSet, p *CPoint) bool {
		found := setterOf(setters, p)
		if found == "" || (setter != "" && found != setter) {
			return false
		}
		return p.Index(found) == (position+p.Rotation)%6
	}
}

// setterOf returns the only setter on court, or "" when none or
// several of them are.
func setterOf(setters []string, p *CPoint) string {
	found := ""
	for _, setter := range setters {
		if p.Index(setter) < 0 {
			continue
		}
		if found != "" && found != setter {
			return ""
		}
		found = setter
	}
	return found
}

// FilterSets keeps the accepted sets and drops sheets left empty.
func FilterSets(sheets []*Sheet, accept SetAcceptor) []*Sheet {
	filtered := make([]*Sheet, 0, len(sheets))
	for _, s := range sheets {
		var sets []*CSet
		for _, set := range s.Match.Sets {
			if accept(s, s.Match, set) {
				sets = append(sets, set)
			}
		}
		if len(sets) > 0 {
			filtered = append(filtered, s.withSets(sets))
		}
	}
	return filtered
}

// FilterPoints keeps the accepted rallies and drops sets and sheets
// left empty.
func FilterPoints(sheets []*Sheet, accept PointAcceptor) []*Sheet {
	filtered := make([]*Sheet, 0, len(sheets))
	for _, s := range sheets {
		var sets []*CSet
		for _, set := range s.Match.Sets {
			var points []*CPoint
			for _, p := range set.Points {
				if accept(s, s.Match, set, p) {
					points = append(points, p)
				}
			}
			if len(points) > 0 {
				copied := *set
				copied.Points = points
				sets = append(sets, &copied)
			}
		}
		if len(sets) > 0 {
			filtered = append(filtered, s.withSets(sets))
		}
	}
	return filtered
}

func (s *Sheet) withSets(sets []*CSet) *Sheet {
	match := *s.Match
	match.Sets = sets
	copied := *s
	copied.Match = &match
	return &copied
}

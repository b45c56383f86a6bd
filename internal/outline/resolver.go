// Package outline resolves the nesting level of heading elements using the
// sectioning rules of the HTML outline algorithm, without building the
// outline itself.
package outline

import "sync"

// Node is a read-only view of an element in an ordered document tree.
//
// Implementations must be comparable: the resolver keys its cache on Node
// values, so two Nodes for the same element must compare equal.
type Node interface {
	// Tag is the element name, e.g. "section" or "h-n".
	Tag() string
	// Parent returns nil at the root of the tree.
	Parent() Node
	// Prev returns the previous element in pre-order document order, or nil
	// at the start of the document.
	Prev() Node
	// Attached reports whether the node belongs to a document.
	Attached() bool
}

// Metadata is the resolved position of a heading.
type Metadata struct {
	Level int
	// Section is the sectioning element this heading belongs to, nil for the
	// implicit root section.
	Section Node
	// SectionTop is set on the heading that opens Section.
	SectionTop bool
}

var rootMetadata = Metadata{Level: 1, SectionTop: true}

type stateKind int

const (
	stateSame stateKind = iota
	stateUp
	statePrevInDepth
)

// sectionState describes what the backward walk has crossed since leaving
// the heading being resolved.
type sectionState struct {
	kind stateKind

	// stateUp
	upLevel        int
	initialSection Node

	// statePrevInDepth
	initialParent Node
	downLevel     int // counted, never applied to the level
}

// Resolver computes heading levels and memoizes them per node.
//
// Cached metadata does not follow tree mutations. Call Reset after changing
// the tree a Resolver has seen.
type Resolver struct {
	mu    sync.Mutex
	roles Roles
	cache map[Node]Metadata
}

// New returns a Resolver using roles, or DefaultRoles when roles is nil.
func New(roles Roles) *Resolver {
	if roles == nil {
		roles = DefaultRoles()
	}
	return &Resolver{
		roles: roles,
		cache: make(map[Node]Metadata),
	}
}

func (r *Resolver) Roles() Roles {
	return r.roles
}

// Resolve returns the metadata of heading. It never fails: a node outside
// any document resolves to level 1.
func (r *Resolver) Resolve(heading Node) Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(heading)
}

// Level is Resolve(heading).Level.
func (r *Resolver) Level(heading Node) int {
	return r.Resolve(heading).Level
}

// Reset drops every cached result.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

// Len returns the number of cached headings.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Resolver) resolve(heading Node) Metadata {
	if m, ok := r.cache[heading]; ok {
		return m
	}
	if heading == nil || !heading.Attached() {
		return rootMetadata
	}
	m := r.walk(heading)
	r.cache[heading] = m
	return m
}

// walk steps backward from heading until the level can be derived from an
// earlier heading, or the document start is reached.
func (r *Resolver) walk(heading Node) Metadata {
	state := sectionState{kind: stateSame}
	current := heading
	for {
		prev := current.Prev()
		if prev == nil {
			return rootMetadata
		}

		// Leaving a subtree upward only updates the state. The parent is
		// never met as a heading here, even when it is one.
		if current.Parent() == prev {
			state = r.exit(state, prev)
			current = prev
			continue
		}

		if prev.Parent() != current.Parent() && state.kind != statePrevInDepth {
			state = sectionState{
				kind:          statePrevInDepth,
				initialParent: current.Parent(),
			}
		}
		current = prev
		if !r.roles.IsHeadingNode(prev) {
			continue
		}
		if m, ok := r.meet(state, prev); ok {
			return m
		}
	}
}

// exit applies leaving ancestor upward. A detour closes once the walk is
// back beside it, and the walk then continues in the same section.
func (r *Resolver) exit(state sectionState, ancestor Node) sectionState {
	switch state.kind {
	case stateSame:
		if r.roles.IsSectioningContent(ancestor) {
			return sectionState{kind: stateUp, upLevel: 1, initialSection: ancestor}
		}
	case stateUp:
		if r.roles.IsSectioningContent(ancestor) {
			state.upLevel++
		}
	case statePrevInDepth:
		if ancestor.Parent() == state.initialParent {
			return sectionState{kind: stateSame}
		}
		if r.roles.IsSectioningContent(ancestor) {
			state.downLevel++
		}
	}
	return state
}

// meet derives the result from an earlier heading. ok is false while the walk
// is inside a detour; the earlier heading is still resolved so it is cached.
func (r *Resolver) meet(state sectionState, earlier Node) (m Metadata, ok bool) {
	switch state.kind {
	case stateSame:
		pm := r.resolve(earlier)
		level := pm.Level
		if pm.SectionTop {
			level++
		}
		return Metadata{Level: level, Section: pm.Section}, true
	case stateUp:
		pm := r.resolve(earlier)
		return Metadata{
			Level:      pm.Level + state.upLevel,
			Section:    state.initialSection,
			SectionTop: true,
		}, true
	default:
		r.resolve(earlier)
		return Metadata{}, false
	}
}

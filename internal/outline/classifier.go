package outline

import "strings"

// Role is the part a tag plays in the outline algorithm.
type Role int

const (
	RoleNone Role = iota
	RoleSectioning
	RoleHeading
	RoleLeveledHeading // heading whose rank is computed, e.g. <h-n>
)

func (r Role) String() string {
	switch r {
	case RoleSectioning:
		return "sectioning"
	case RoleHeading:
		return "heading"
	case RoleLeveledHeading:
		return "leveled"
	}
	return "none"
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return RoleNone, true
	case "sectioning":
		return RoleSectioning, true
	case "heading":
		return RoleHeading, true
	case "leveled":
		return RoleLeveledHeading, true
	}
	return RoleNone, false
}

// Roles maps lower-case tag names to their outline role.
type Roles map[string]Role

// DefaultRoles returns the HTML vocabulary: sectioning content elements,
// ranked headings, hgroup and the self-leveling h-n element.
//
// See https://html.spec.whatwg.org/multipage/dom.html#sectioning-content
func DefaultRoles() Roles {
	return Roles{
		"article": RoleSectioning,
		"section": RoleSectioning,
		"nav":     RoleSectioning,
		"aside":   RoleSectioning,
		"h1":      RoleHeading,
		"h2":      RoleHeading,
		"h3":      RoleHeading,
		"h4":      RoleHeading,
		"h5":      RoleHeading,
		"h6":      RoleHeading,
		"hgroup":  RoleHeading,
		"h-n":     RoleLeveledHeading,
	}
}

// Set assigns role to tag. RoleNone removes the tag.
func (r Roles) Set(tag string, role Role) {
	tag = strings.ToLower(tag)
	if role == RoleNone {
		delete(r, tag)
		return
	}
	r[tag] = role
}

func (r Roles) Clone() Roles {
	out := make(Roles, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Of returns the role of n's tag.
func (r Roles) Of(n Node) Role {
	if n == nil {
		return RoleNone
	}
	return r[strings.ToLower(n.Tag())]
}

func (r Roles) IsSectioningContent(n Node) bool {
	return r.Of(n) == RoleSectioning
}

// IsHeadingNode reports whether n is a ranked or self-leveling heading.
func (r Roles) IsHeadingNode(n Node) bool {
	role := r.Of(n)
	return role == RoleHeading || role == RoleLeveledHeading
}

func (r Roles) IsLeveledHeading(n Node) bool {
	return r.Of(n) == RoleLeveledHeading
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/hnlevel/internal/outline"
	"github.com/goccy/go-yaml"
)

// Vocabulary is the YAML form of a tag vocabulary:
//
//	inherit: true        # start from the HTML defaults (default)
//	sectioning: [chapter]
//	headings: [title]
//	leveled: [x-heading]
//	none: [nav]          # drop a tag from the inherited set
type Vocabulary struct {
	Inherit    *bool    `yaml:"inherit"`
	Sectioning []string `yaml:"sectioning"`
	Headings   []string `yaml:"headings"`
	Leveled    []string `yaml:"leveled"`
	None       []string `yaml:"none"`
}

// Roles builds the role table described by v. A tag may appear under only
// one key.
func (v Vocabulary) Roles() (outline.Roles, error) {
	roles := outline.Roles{}
	if v.Inherit == nil || *v.Inherit {
		roles = outline.DefaultRoles()
	}
	seen := make(map[string]string)
	for _, list := range []struct {
		key  string
		tags []string
		role outline.Role
	}{
		{"sectioning", v.Sectioning, outline.RoleSectioning},
		{"headings", v.Headings, outline.RoleHeading},
		{"leveled", v.Leveled, outline.RoleLeveledHeading},
		{"none", v.None, outline.RoleNone},
	} {
		for _, tag := range list.tags {
			name := strings.ToLower(strings.TrimSpace(tag))
			if prev, ok := seen[name]; ok && prev != list.key {
				return nil, fmt.Errorf("tag %q listed under both %s and %s", name, prev, list.key)
			}
			seen[name] = list.key
			roles.Set(name, list.role)
		}
	}
	return roles, nil
}

// ParseVocabulary decodes a YAML vocabulary, rejecting unknown keys.
func ParseVocabulary(data []byte) (outline.Roles, error) {
	var v Vocabulary
	if len(data) > 0 {
		if err := yaml.UnmarshalWithOptions(data, &v, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("parse vocabulary: %w", err)
		}
	}
	roles, err := v.Roles()
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	return roles, nil
}

// LoadVocabulary reads a YAML vocabulary file.
func LoadVocabulary(path string) (outline.Roles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

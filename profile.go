package mailtext

import "sort"

// Profile maps regions to the CSS selectors that locate them in one kind of
// mail view. Selectors are tried in order and the first match wins.
//
// Selectors describe third-party markup and break without notice; a miss is
// reported as a diagnostic, never as an error.
type Profile struct {
	Name    string              `yaml:"name"`
	Regions map[Region][]string `yaml:"regions"`

	// Fallback allows a main-content heuristic to locate the body when
	// every body selector misses.
	Fallback bool `yaml:"fallback"`
}

// Validate returns an error if the profile contains invalid fields.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "profile name required")
	}
	if len(p.Regions) == 0 {
		return Errorf(EINVALID, "profile %q has no regions", p.Name)
	}
	for region, selectors := range p.Regions {
		if region != RegionSubject && region != RegionBody {
			return Errorf(EINVALID, "profile %q: unknown region %q", p.Name, region)
		}
		if len(selectors) == 0 {
			return Errorf(EINVALID, "profile %q: region %q has no selectors", p.Name, region)
		}
	}
	return nil
}

// Built-in profile names.
const (
	ProfileGmail   = "gmail"
	ProfileGeneric = "generic"
)

// DefaultProfiles returns the built-in profiles.
func DefaultProfiles() Profiles {
	return Profiles{
		ProfileGmail: {
			Name: ProfileGmail,
			Regions: map[Region][]string{
				RegionSubject: {"h2.hP"},
				// div.gs is a higher-level container that may include quoted text.
				RegionBody: {"div.a3s.aiL", "div.gs"},
			},
		},
		ProfileGeneric: {
			Name: ProfileGeneric,
			Regions: map[Region][]string{
				RegionSubject: {"title", "h1"},
				RegionBody:    {"main", "article", "body"},
			},
			Fallback: true,
		},
	}
}

// Profiles is a set of profiles keyed by name.
type Profiles map[string]*Profile

// Get returns the named profile or ENOTFOUND.
func (ps Profiles) Get(name string) (*Profile, error) {
	p, ok := ps[name]
	if !ok {
		return nil, Errorf(ENOTFOUND, "profile %q not found", name)
	}
	return p, nil
}

// Merge adds profiles, replacing any with the same name.
func (ps Profiles) Merge(profiles ...*Profile) {
	for _, p := range profiles {
		ps[p.Name] = p
	}
}

// Names returns the profile names in sorted order.
func (ps Profiles) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProfileDetector picks the profile that best fits a page.
type ProfileDetector interface {
	// Detect analyzes HTML and returns a profile name.
	Detect(html string) string
}

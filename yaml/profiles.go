// Package yaml reads selector profiles from YAML files.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/mailtext"
	"gopkg.in/yaml.v3"
)

// profileFile is the schema of a profiles file:
//
//	profiles:
//	  - name: outlook
//	    regions:
//	      subject: ["div[role=heading] span"]
//	      body: ["div[aria-label='Message body']"]
//	    fallback: false
type profileFile struct {
	Profiles []*mailtext.Profile `yaml:"profiles"`
}

// LoadProfiles decodes and validates profiles from r. Unknown keys are rejected.
func LoadProfiles(r io.Reader) ([]*mailtext.Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f profileFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, mailtext.Errorf(mailtext.EINVALID, "invalid profiles file: %v", err)
	}

	seen := make(map[string]bool, len(f.Profiles))
	for _, p := range f.Profiles {
		if p == nil {
			return nil, mailtext.Errorf(mailtext.EINVALID, "empty profile entry")
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, mailtext.Errorf(mailtext.EINVALID, "duplicate profile %q", p.Name)
		}
		seen[p.Name] = true
	}
	return f.Profiles, nil
}

// LoadProfilesFile reads profiles from the file at path.
func LoadProfilesFile(path string) ([]*mailtext.Profile, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, mailtext.Errorf(mailtext.ENOTFOUND, "profiles file not found: %s", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadProfiles(f)
}

package geometry

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// countySuffix strips a trailing "County" token, matching the cleanup the
// upstream pipeline applies to NAMELSADCO labels.
var countySuffix = regexp.MustCompile(`(?i)\s*county\s*$`)

// NormalizeCounty canonicalizes a free-text county label for comparison:
// trim, drop a trailing "County" token, title-case.
func NormalizeCounty(label string) string {
	s := strings.TrimSpace(label)
	s = countySuffix.ReplaceAllString(s, "")
	return cases.Title(language.AmericanEnglish).String(s)
}

// AllowList restricts a query to a set of counties. Labels are normalized on
// both sides of the comparison, so messy inputs match.
type AllowList struct {
	names map[string]struct{}
}

// NewAllowList builds an AllowList from county labels in any form.
func NewAllowList(labels []string) *AllowList {
	names := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if n := NormalizeCounty(l); n != "" {
			names[n] = struct{}{}
		}
	}
	return &AllowList{names: names}
}

// Contains reports whether the label's normalized form is allow-listed.
func (a *AllowList) Contains(label string) bool {
	_, ok := a.names[NormalizeCounty(label)]
	return ok
}

// Len returns the number of allow-listed counties.
func (a *AllowList) Len() int {
	return len(a.names)
}

// serviceAreaCounties is the default 17-county service area.
var serviceAreaCounties = []string{
	"Alamance", "Alexander", "Alleghany", "Ashe", "Caldwell", "Caswell",
	"Davidson", "Davie", "Forsyth", "Guilford", "Iredell", "Randolph",
	"Rockingham", "Stokes", "Surry", "Watauga", "Wilkes", "Yadkin",
}

// DefaultAllowList returns the built-in service-area county list.
func DefaultAllowList() *AllowList {
	return NewAllowList(serviceAreaCounties)
}

// LoadAllowList reads an allow-list from a YAML file of the form:
//
//	counties:
//	  - Forsyth
//	  - Guilford
func LoadAllowList(path string) (*AllowList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geometry: read allow-list %s", path)
	}

	var doc struct {
		Counties []string `yaml:"counties"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "geometry: parse allow-list")
	}
	if len(doc.Counties) == 0 {
		return nil, eris.Errorf("geometry: allow-list %s has no counties", path)
	}

	return NewAllowList(doc.Counties), nil
}

package audit

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Normalizer replaces abbreviated street types with their full form.
type Normalizer struct {
	mapping map[string]string
}

func NewNormalizer(mapping map[string]string) *Normalizer {
	return &Normalizer{mapping: mapping}
}

// Normalize replaces the first word of name that has a mapping and joins
// the words with single spaces. Later words are not examined. name is
// returned unchanged if no word has a mapping.
func (n *Normalizer) Normalize(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if better, ok := n.mapping[w]; ok {
			words[i] = better
			return strings.Join(words, " ")
		}
	}
	return name
}

// Suggestion is a proposed rename of an unexpected street name.
type Suggestion struct {
	StreetType string
	Name       string
	Better     string
}

// Suggest returns a suggestion for every name in st, ordered by phrase and
// name.
func (n *Normalizer) Suggest(st StreetTypes) []Suggestion {
	var suggestions []Suggestion
	for _, phrase := range st.Phrases() {
		for _, name := range st.Names(phrase) {
			suggestions = append(suggestions, Suggestion{
				StreetType: phrase,
				Name:       name,
				Better:     n.Normalize(name),
			})
		}
	}
	return suggestions
}

// Rules is the street vocabulary used by the Auditor and the Normalizer.
type Rules struct {
	Expected []string          `yaml:"expected"`
	Mapping  map[string]string `yaml:"mapping"`
}

func (r *Rules) Auditor() *Auditor {
	return NewAuditor(r.Expected)
}

func (r *Rules) Normalizer() *Normalizer {
	return NewNormalizer(r.Mapping)
}

// DefaultRules are the street types found in Dublin.
var DefaultRules = Rules{
	Expected: []string{
		"Street Lower", "Street", "Street Crescent", "Street Upper", "Street West",
		"Street East", "Street South", "Street Little", "Street North",
		"Avenue", "Avenue Upper", "Avenue Lower", "Place East", "Place West",
		"Place Little", "Mews", "Place South", "Street Great", "Village", "Paddock",
		"Boulevard", "Drive", "Court", "Place", "Square", "Square North",
		"Square West", "Square East", "Square South", "Lane",
		"Trail", "Parkway", "Commons", "Villas", "Terrace", "Cottages", "Park",
		"Quay", "Hill", "Grove", "Place North",
		"Road Upper", "Road Lower", "Road", "Road West", "Road North", "Road South",
		"Road East", "Lane South", "Lane East", "Lane North", "Lane West", "Lawn",
		"Lane Upper", "Grove North", "Grove South", "Dock", "Quay Lower",
		"Quay Upper", "Crescent", "Gardens", "Mews End", "View", "Place Upper",
	},
	Mapping: map[string]string{
		"St":  "Street",
		"St.": "Street",
		"Rd.": "Road",
		"Ave": "Avenue",
		"Ln":  "Lane",
		"Rd":  "Road",
	},
}

// LoadRules reads a YAML streets file. Missing sections fall back to
// DefaultRules.
func LoadRules(r io.Reader) (*Rules, error) {
	rules := Rules{}
	if err := yaml.NewDecoder(r).Decode(&rules); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding street rules")
	}
	if len(rules.Expected) == 0 {
		rules.Expected = DefaultRules.Expected
	}
	if len(rules.Mapping) == 0 {
		rules.Mapping = DefaultRules.Mapping
	}
	return &rules, nil
}

// LoadRulesFile reads filename with LoadRules. An empty filename returns
// the DefaultRules.
func LoadRulesFile(filename string) (*Rules, error) {
	if filename == "" {
		rules := DefaultRules
		return &rules, nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening street rules")
	}
	defer f.Close()
	return LoadRules(f)
}

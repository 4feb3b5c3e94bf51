// internal/content/content.go
//
// Static content for the birthday experience.
//
// Responsibilities:
//   - Decode the experience document (texts, riddle, gallery collections,
//     matching catalog, hunt items, letter) from YAML.
//   - Fall back to the embedded default document when no file is configured.
//   - Validate the document so pages can rely on its shape.
//
// Environment variables (read by internal/config, passed in here):
//   CONTENT_FILE=/path/to/experience.yaml

package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var embeddedDefault []byte

// MatchingPairs is the number of symbols in the matching catalog.
const MatchingPairs = 8

// Greeting is the text of a plain welcome page.
type Greeting struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
}

type Mystery struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// Riddle holds the question and the CEL expression deciding whether a
// normalised answer is accepted. The expression sees one string variable,
// `answer`.
type Riddle struct {
	Title    string   `yaml:"title"`
	Question string   `yaml:"question"`
	Accept   string   `yaml:"accept"`
	Unlocks  []string `yaml:"unlocks"`
}

type Photo struct {
	Src  string `yaml:"src"`
	Name string `yaml:"name"`
}

// Collection is one browsable set of photos on the memory page.
type Collection struct {
	ID        string  `yaml:"id"`
	Title     string  `yaml:"title"`
	Subtitle  string  `yaml:"subtitle"`
	ShowNames bool    `yaml:"show_names"`
	Photos    []Photo `yaml:"photos"`
}

// Symbol is one entry in the matching catalog; every symbol is dealt twice.
type Symbol struct {
	ID      int    `yaml:"id"`
	Symbol  string `yaml:"symbol"`
	Message string `yaml:"message"`
}

type Hunt struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

type Candle struct {
	Prompt string `yaml:"prompt"`
	Done   string `yaml:"done"`
}

type Letter struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Experience is the whole content document.
type Experience struct {
	Recipient   string       `yaml:"recipient"`
	WarmWelcome Greeting     `yaml:"warm_welcome"`
	Welcome     Greeting     `yaml:"welcome"`
	Mystery     Mystery      `yaml:"mystery"`
	Riddle      Riddle       `yaml:"riddle"`
	Gallery     []Collection `yaml:"gallery"`
	Matching    []Symbol     `yaml:"matching"`
	Hunt        Hunt         `yaml:"hunt"`
	Candle      Candle       `yaml:"candle"`
	Letter      Letter       `yaml:"letter"`
}

// Load reads the experience from path, or the embedded default if path is empty.
func Load(path string) (*Experience, error) {
	if path == "" {
		return Parse(embeddedDefault)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	exp, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return exp, nil
}

// Default returns the embedded experience. It panics if the embedded
// document is invalid, which is a build error rather than a runtime one.
func Default() *Experience {
	exp, err := Parse(embeddedDefault)
	if err != nil {
		panic(fmt.Sprintf("embedded content: %v", err))
	}
	return exp
}

// Parse decodes and validates a YAML experience document.
func Parse(b []byte) (*Experience, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var exp Experience
	if err := dec.Decode(&exp); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	return &exp, nil
}

// Validate checks the invariants the pages depend on.
func (e *Experience) Validate() error {
	var errs []error
	if e.Riddle.Accept == "" {
		errs = append(errs, errors.New("riddle.accept is required"))
	}
	if len(e.Matching) != MatchingPairs {
		errs = append(errs, fmt.Errorf("matching: want %d symbols, got %d", MatchingPairs, len(e.Matching)))
	}
	seen := make(map[int]bool, len(e.Matching))
	for _, s := range e.Matching {
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("matching: duplicate id %d", s.ID))
		}
		seen[s.ID] = true
	}
	if len(e.Hunt.Items) == 0 {
		errs = append(errs, errors.New("hunt.items must not be empty"))
	}
	if len(e.Gallery) == 0 {
		errs = append(errs, errors.New("gallery must have at least one collection"))
	}
	ids := make(map[string]bool, len(e.Gallery))
	for _, c := range e.Gallery {
		if c.ID == "" {
			errs = append(errs, errors.New("gallery: collection without id"))
		}
		if ids[c.ID] {
			errs = append(errs, fmt.Errorf("gallery: duplicate collection %q", c.ID))
		}
		ids[c.ID] = true
		if len(c.Photos) == 0 {
			errs = append(errs, fmt.Errorf("gallery: collection %q has no photos", c.ID))
		}
	}
	return errors.Join(errs...)
}

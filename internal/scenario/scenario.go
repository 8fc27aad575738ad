// internal/scenario/scenario.go
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// Action names a step type.
type Action string

const (
	ActionWait       Action = "wait"
	ActionVanish     Action = "vanish"
	ActionWaitText   Action = "wait_text"
	ActionTextVanish Action = "text_vanish"
	ActionExpect     Action = "expect"
	ActionClick      Action = "click"
	ActionClickText  Action = "click_text"
	ActionTab        Action = "tab"
	ActionCheck      Action = "check"
	ActionZoom       Action = "zoom"
	ActionDrag       Action = "drag"
	ActionSwipe      Action = "swipe"
	ActionTapScreen  Action = "tap_screen"
	ActionBeginDiff  Action = "begin_diff"
	ActionEndDiff    Action = "end_diff"
	ActionSleep      Action = "sleep"
)

// ErrInvalidScenario is returned for files that do not describe a runnable scenario.
var ErrInvalidScenario = errors.New("scenario: invalid")

// Scenario is an ordered list of automation steps.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one line of a scenario. Which fields apply depends on Action.
type Step struct {
	Name     string `yaml:"name,omitempty"`
	Action   Action `yaml:"action"`
	Optional bool   `yaml:"optional,omitempty"`

	ID    string   `yaml:"id,omitempty"`
	IDs   []string `yaml:"ids,omitempty"`
	Text  string   `yaml:"text,omitempty"`
	Mode  string   `yaml:"mode,omitempty"`
	Index int      `yaml:"index,omitempty"`

	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Scroll      *bool         `yaml:"scroll,omitempty"`
	OnlyVisible *bool         `yaml:"only_visible,omitempty"`
	MinMatches  int           `yaml:"min_matches,omitempty"`

	Tab     int  `yaml:"tab,omitempty"`
	Item    int  `yaml:"item,omitempty"`
	Checked bool `yaml:"checked,omitempty"`

	Direction schemas.Direction `yaml:"direction,omitempty"`
	Steps     int               `yaml:"steps,omitempty"`
	From      []float64         `yaml:"from,omitempty"`
	To        []float64         `yaml:"to,omitempty"`
	Start     [][]float64       `yaml:"start,omitempty"`
	End       [][]float64       `yaml:"end,omitempty"`
	Duration  time.Duration     `yaml:"duration,omitempty"`
}

// Label is the step's name, or its action when unnamed.
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Action)
}

// Load decodes and validates a scenario. Unknown fields are rejected so a
// typo never silently changes what a step does.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadFile reads a scenario from path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: failed to read %s: %w", path, err)
	}
	return Load(bytes.NewReader(data))
}

// Validate checks that every step carries the fields its action needs.
func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("%w: step %d (%s): %v", ErrInvalidScenario, i+1, st.Label(), err)
		}
	}
	return nil
}

func (s Step) validate() error {
	if s.Mode != "" {
		if _, err := uitree.ParseMatchMode(s.Mode); err != nil {
			return err
		}
	}
	if s.Timeout < 0 || s.Duration < 0 {
		return errors.New("durations must not be negative")
	}

	switch s.Action {
	case ActionWait, ActionVanish, ActionClick:
		if s.ID == "" {
			return errors.New("id is required")
		}
	case ActionWaitText, ActionTextVanish, ActionClickText:
		if s.Text == "" {
			return errors.New("text is required")
		}
	case ActionExpect:
		if len(s.IDs) == 0 {
			return errors.New("ids is required")
		}
	case ActionTab, ActionCheck, ActionBeginDiff, ActionEndDiff:
	case ActionSwipe, ActionTapScreen:
		if !s.Direction.Valid() {
			return fmt.Errorf("unknown direction %q", s.Direction)
		}
	case ActionDrag:
		if len(s.From) != 2 || len(s.To) != 2 {
			return errors.New("from and to must be [x, y] pairs")
		}
	case ActionZoom:
		if !pointPairs(s.Start) || !pointPairs(s.End) {
			return errors.New("start and end must each hold two [x, y] pairs")
		}
	case ActionSleep:
		if s.Duration == 0 {
			return errors.New("duration is required")
		}
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}

func pointPairs(p [][]float64) bool {
	return len(p) == 2 && len(p[0]) == 2 && len(p[1]) == 2
}

package cascade

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SceneConfig is an authored scroll-animation scene: a list of animation
// definitions ready to be built and activated on a Coordinator. Authoring
// layers typically generate these; hand-written YAML works for demos and
// tests.
type SceneConfig struct {
	Version    string         `yaml:"version"`
	Animations []AnimationDef `yaml:"animations"`
}

// AnimationDef is one authored animation: trigger, elements, scroll range,
// stagger settings, and per-property keyframes.
type AnimationDef struct {
	Trigger    string        `yaml:"trigger"`
	Elements   []string      `yaml:"elements"`
	Start      BoundaryDef   `yaml:"start"`
	End        BoundaryDef   `yaml:"end"`
	Stagger    StaggerDef    `yaml:"stagger"`
	Properties []PropertyDef `yaml:"properties"`
}

// BoundaryDef anchors one end of the scroll range. Both values are fractions
// in [0,1]; see ScrollBoundary.
type BoundaryDef struct {
	Element  float64 `yaml:"element"`
	Viewport float64 `yaml:"viewport"`
}

// StaggerDef is the authored form of StaggerConfig. Mode, strategy and the
// grid sub-fields are symbolic names; unknown names resolve to documented
// defaults rather than failing the load.
type StaggerDef struct {
	Mode              string  `yaml:"mode"`
	Strategy          string  `yaml:"strategy"`
	ScrubWindow       float64 `yaml:"scrubWindow"`
	BackwardRetrigger bool    `yaml:"backwardRetrigger"`
	Grid              GridDef `yaml:"grid"`
}

// GridDef is the authored form of GridStaggerConfig.
type GridDef struct {
	Mode        string  `yaml:"mode"`
	Origin      string  `yaml:"origin"`
	Metric      string  `yaml:"metric"`
	Reverse     bool    `yaml:"reverse"`
	ReverseMode string  `yaml:"reverseMode"`
	Direction   string  `yaml:"direction"`
	Rows        int     `yaml:"rows"`
	Columns     int     `yaml:"columns"`
	Tolerance   float64 `yaml:"tolerance"`
}

// PropertyDef is one property's keyframe timeline.
type PropertyDef struct {
	Name      string        `yaml:"name"`
	Unit      string        `yaml:"unit"`
	Keyframes []KeyframeDef `yaml:"keyframes"`
}

// KeyframeDef is one authored keyframe. Easing names the curve into the next
// keyframe; see EaseByName.
type KeyframeDef struct {
	Time   float64 `yaml:"time"`
	Value  float64 `yaml:"value"`
	Easing string  `yaml:"easing"`
}

// LoadSceneConfig reads and parses a YAML scene file.
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene config: %w", err)
	}
	return ParseSceneConfig(data)
}

// ParseSceneConfig parses YAML scene data and validates its structure.
// Symbolic names (origins, metrics, easings) are not validated here; they
// resolve to defaults at build time.
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse scene config: %w", err)
	}
	if len(cfg.Animations) == 0 {
		return nil, fmt.Errorf("parse scene config: no animations")
	}
	for i := range cfg.Animations {
		if err := cfg.Animations[i].validate(); err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
	}
	return &cfg, nil
}

func (d *AnimationDef) validate() error {
	if d.Trigger == "" {
		return fmt.Errorf("missing trigger")
	}
	if len(d.Properties) == 0 {
		return fmt.Errorf("no properties")
	}
	for _, p := range d.Properties {
		if p.Name == "" {
			return fmt.Errorf("property with no name")
		}
		if len(p.Keyframes) == 0 {
			return fmt.Errorf("property %q has no keyframes", p.Name)
		}
		for i := 1; i < len(p.Keyframes); i++ {
			if p.Keyframes[i].Time < p.Keyframes[i-1].Time {
				return fmt.Errorf("property %q keyframes out of order at index %d", p.Name, i)
			}
		}
	}
	return nil
}

// Build turns the definition into an AnimationConfig ready for
// Coordinator.Activate. Animated elements default to the trigger itself when
// none are listed.
func (d *AnimationDef) Build() AnimationConfig {
	elements := make([]ElementID, 0, len(d.Elements))
	for _, e := range d.Elements {
		elements = append(elements, ElementID(e))
	}
	if len(elements) == 0 {
		elements = append(elements, ElementID(d.Trigger))
	}

	timelines := make([]*PropertyTimeline, 0, len(d.Properties))
	for _, p := range d.Properties {
		tl := &PropertyTimeline{Property: p.Name, Unit: p.Unit}
		for _, kf := range p.Keyframes {
			tl.Frames = append(tl.Frames, Keyframe{
				Time:   kf.Time,
				Value:  kf.Value,
				Easing: EaseByName(kf.Easing),
			})
		}
		timelines = append(timelines, tl)
	}

	bounds := BoundaryPair{
		Start: ScrollBoundary{ElementAnchor: d.Start.Element, ViewportAnchor: d.Start.Viewport},
		End:   ScrollBoundary{ElementAnchor: d.End.Element, ViewportAnchor: d.End.Viewport},
	}
	if bounds.Start == bounds.End {
		// Unset (or degenerate) range: track the element through the
		// viewport.
		bounds = EnterToLeave
	}

	return AnimationConfig{
		Trigger:    ElementID(d.Trigger),
		Elements:   elements,
		Timelines:  timelines,
		Boundaries: bounds,
		Stagger: StaggerConfig{
			Mode:              ParseStaggerMode(d.Stagger.Mode),
			Strategy:          ParseStaggerStrategy(d.Stagger.Strategy),
			ScrubWindow:       d.Stagger.ScrubWindow,
			BackwardRetrigger: d.Stagger.BackwardRetrigger,
			Grid: GridStaggerConfig{
				Mode:        ParseGridMode(d.Stagger.Grid.Mode),
				Origin:      d.Stagger.Grid.Origin,
				Metric:      ParseDistanceMetric(d.Stagger.Grid.Metric),
				Reverse:     d.Stagger.Grid.Reverse,
				ReverseMode: ParseReverseMode(d.Stagger.Grid.ReverseMode),
				Direction:   ParseWaveDirection(d.Stagger.Grid.Direction),
				Rows:        d.Stagger.Grid.Rows,
				Columns:     d.Stagger.Grid.Columns,
				Tolerance:   d.Stagger.Grid.Tolerance,
			},
		},
	}
}

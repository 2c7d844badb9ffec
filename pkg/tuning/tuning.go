// Package tuning holds the scoring weights consulted by pkg/storage and
// pkg/ranking, loaded from the `[tuning]` table of the config file.
package tuning

// Points is a single configurable weight.
type Points struct {
	Points float64 `toml:"points"`
}

// PathWeights scores a usage row's working directory relative to the
// caller's current directory.
type PathWeights struct {
	Exact      float64 `toml:"exact"`
	Ancestor   float64 `toml:"ancestor"`
	Descendant float64 `toml:"descendant"`
	Unrelated  float64 `toml:"unrelated"`
}

// CommandTuning configures command search ranking.
type CommandTuning struct {
	Prefix   float64       `toml:"prefix"`
	Fuzzy    float64       `toml:"fuzzy"`
	Relaxed  float64       `toml:"relaxed"`
	Root     float64       `toml:"root"` // boost added when the first query term matches the start of flat_cmd
	Text     ColumnWeights `toml:"text"`
	Path     PathWeights   `toml:"path"`
	PathBias Points        `toml:"path_bias"`
	Usage    Points        `toml:"usage"`
}

// ColumnWeights are the BM25 per-column weights for command/description.
type ColumnWeights struct {
	Command     float64 `toml:"command"`
	Description float64 `toml:"description"`
	Points      float64 `toml:"points"`
}

// VariableTuning configures variable-value ranking.
type VariableTuning struct {
	Path    PathWeightsPoints `toml:"path"`
	Context Points            `toml:"context"`
}

// PathWeightsPoints bundles path weights with the points multiplier applied
// to the winning weight.
type PathWeightsPoints struct {
	PathWeights
	Points float64 `toml:"points"`
}

// Default returns the reference tuning values used when the config file
// omits the `[tuning]` table.
func Default() (CommandTuning, VariableTuning) {
	cmd := CommandTuning{
		Prefix:  1.0,
		Fuzzy:   1.0,
		Relaxed: 0.8,
		Root:    0.3,
		Text: ColumnWeights{
			Command:     2.0,
			Description: 1.0,
			Points:      0.6,
		},
		Path: PathWeights{
			Exact:      1.0,
			Ancestor:   0.8,
			Descendant: 0.6,
			Unrelated:  0.1,
		},
		PathBias: Points{Points: 0.3},
		Usage:    Points{Points: 0.1},
	}

	variable := VariableTuning{
		Path: PathWeightsPoints{
			PathWeights: PathWeights{
				Exact:      1.0,
				Ancestor:   0.7,
				Descendant: 0.5,
				Unrelated:  0.1,
			},
			Points: 1.0,
		},
		Context: Points{Points: 1.0},
	}

	return cmd, variable
}

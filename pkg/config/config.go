// Package config loads the TOML configuration file: data directory,
// search/log/keybinding/theme/gist/tuning/AI settings.
// Unknown keys are ignored (go-toml's default behaviour); values are
// unmarshalled on top of Default() so a partially-specified file only
// overrides the fields it mentions.
package config

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/storage"
	"github.com/lasantosr/intelli-shell/pkg/tuning"
)

// Config is the root of the `config.toml` file.
type Config struct {
	DataDir      string            `toml:"data_dir"`
	CheckUpdates bool              `toml:"check_updates"`
	Inline       bool              `toml:"inline"`
	Search       SearchConfig      `toml:"search"`
	Logs         LogsConfig        `toml:"logs"`
	Keybindings  KeybindingsConfig `toml:"keybindings"`
	Theme        ThemeConfig       `toml:"theme"`
	Gist         GistConfig        `toml:"gist"`
	Tuning       TuningConfig      `toml:"tuning"`
	AI           AIConfig          `toml:"ai"`
}

// SearchConfig configures the default behavior of the `search` subcommand.
type SearchConfig struct {
	Delay            int                `toml:"delay"`
	Mode             storage.SearchMode `toml:"mode"`
	UserOnly         bool               `toml:"user_only"`
	ExecOnAliasMatch bool               `toml:"exec_on_alias_match"`
}

// LogsConfig configures the rotating log file (pkg/logging).
type LogsConfig struct {
	Enabled bool   `toml:"enabled"`
	Filter  string `toml:"filter"`
}

// KeyBindingAction names a configurable interactive action. The TUI itself
// is out of scope; this enumeration exists so config loading can validate
// the `[keybindings]` table and reject conflicting bindings.
type KeyBindingAction string

const (
	ActionQuit           KeyBindingAction = "quit"
	ActionUpdate         KeyBindingAction = "update"
	ActionDelete         KeyBindingAction = "delete"
	ActionConfirm        KeyBindingAction = "confirm"
	ActionExecute        KeyBindingAction = "execute"
	ActionAI             KeyBindingAction = "ai"
	ActionSearchMode     KeyBindingAction = "search_mode"
	ActionSearchUserOnly KeyBindingAction = "search_user_only"
)

// KeybindingsConfig maps an action to one or more key strings (e.g. "esc",
// "ctrl+u"). A value may be given as a single string or an array in TOML;
// UnmarshalTOML below absorbs both shapes.
type KeybindingsConfig struct {
	bindings map[KeyBindingAction][]string
}

// Bindings returns the resolved action -> keys map.
func (k KeybindingsConfig) Bindings() map[KeyBindingAction][]string {
	return k.bindings
}

// UnmarshalTOML merges the raw `[keybindings]` table (passed in by Load) over
// the current bindings, accepting both `action = "key"` and
// `action = ["key1", "key2"]` forms.
func (k *KeybindingsConfig) UnmarshalTOML(data any) error {
	raw, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("keybindings must be a table")
	}
	if k.bindings == nil {
		k.bindings = make(map[KeyBindingAction][]string, len(raw))
	}
	for action, value := range raw {
		switch v := value.(type) {
		case string:
			k.bindings[KeyBindingAction(action)] = []string{v}
		case []any:
			keys := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					keys = append(keys, s)
				}
			}
			k.bindings[KeyBindingAction(action)] = keys
		default:
			return fmt.Errorf("invalid key binding value for %q", action)
		}
	}
	return nil
}

// findConflicts returns every key string bound to more than one action.
func (k KeybindingsConfig) findConflicts() []ierrors.ConfigKeybindingConflictErr {
	keyToActions := map[string][]string{}
	for action, keys := range k.bindings {
		for _, key := range keys {
			keyToActions[key] = append(keyToActions[key], string(action))
		}
	}
	var conflicts []ierrors.ConfigKeybindingConflictErr
	for key, actions := range keyToActions {
		if len(actions) > 1 {
			sort.Strings(actions)
			conflicts = append(conflicts, ierrors.ConfigKeybindingConflictErr{Key: key, Actions: actions})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Key < conflicts[j].Key })
	return conflicts
}

// DefaultKeybindings returns the factory keybinding defaults.
func DefaultKeybindings() KeybindingsConfig {
	return KeybindingsConfig{bindings: map[KeyBindingAction][]string{
		ActionQuit:           {"esc"},
		ActionUpdate:         {"ctrl+u", "ctrl+e", "f2"},
		ActionDelete:         {"ctrl+d"},
		ActionConfirm:        {"tab", "enter"},
		ActionExecute:        {"ctrl+enter", "ctrl+r"},
		ActionAI:             {"ctrl+i", "ctrl+x"},
		ActionSearchMode:     {"ctrl+s"},
		ActionSearchUserOnly: {"ctrl+o"},
	}}
}

// ThemeConfig configures the TUI's color scheme. Field values are free-form
// style descriptors (e.g. "yellow", "dim"); rendering them is the TUI's
// responsibility, out of scope here.
type ThemeConfig struct {
	Primary            string `toml:"primary"`
	Secondary          string `toml:"secondary"`
	Accent             string `toml:"accent"`
	Comment            string `toml:"comment"`
	Error              string `toml:"error"`
	Highlight          string `toml:"highlight"`
	HighlightSymbol    string `toml:"highlight_symbol"`
	HighlightPrimary   string `toml:"highlight_primary"`
	HighlightSecondary string `toml:"highlight_secondary"`
	HighlightAccent    string `toml:"highlight_accent"`
	HighlightComment   string `toml:"highlight_comment"`
}

// GistConfig configures the default gist used by import/export.
type GistConfig struct {
	ID    string `toml:"id"`
	Token string `toml:"token"`
}

// TuningConfig wraps pkg/tuning's scoring weights for TOML (de)serialization.
type TuningConfig struct {
	Commands  tuning.CommandTuning  `toml:"commands"`
	Variables tuning.VariableTuning `toml:"variables"`
}

// AIConfig configures AI-assisted features.
type AIConfig struct {
	Enabled bool                          `toml:"enabled"`
	Prompts AIPromptsConfig               `toml:"prompts"`
	Models  AIModelsConfig                `toml:"models"`
	Catalog map[string]AIModelCatalogEntry `toml:"catalog"`
}

// AIModelCatalogEntry is one named entry of the `[ai.catalog]` table.
// internal/app resolves APIKeyEnv against environment.Provider and turns
// this into a pkg/ai.Config when building the concrete provider.
type AIModelCatalogEntry struct {
	Provider  string `toml:"provider"` // "openai", "gemini", "anthropic", or "ollama"
	Model     string `toml:"model"`
	URL       string `toml:"url"`
	APIKeyEnv string `toml:"api_key_env"`
}

// AIPromptsConfig holds the system/user prompt templates per AI-backed
// feature.
type AIPromptsConfig struct {
	Suggest    string `toml:"suggest"`
	Fix        string `toml:"fix"`
	Import     string `toml:"import"`
	Completion string `toml:"completion"`
}

// AIModelsConfig names which catalog entry backs each AI-backed feature.
type AIModelsConfig struct {
	Suggest    string `toml:"suggest"`
	Fix        string `toml:"fix"`
	Import     string `toml:"import"`
	Completion string `toml:"completion"`
	Fallback   string `toml:"fallback"`
}

// Default returns the configuration used when no file is found, or as the
// base onto which a found file's TOML is unmarshalled.
func Default() Config {
	commandTuning, variableTuning := tuning.Default()
	return Config{
		CheckUpdates: true,
		Inline:       true,
		Search: SearchConfig{
			Delay: 250,
			Mode:  storage.ModeAuto,
		},
		Logs: LogsConfig{
			Enabled: false,
			Filter:  "info",
		},
		Keybindings: DefaultKeybindings(),
		Theme: ThemeConfig{
			Accent:             "yellow",
			Comment:            "green+italic",
			Error:              "darkred",
			Highlight:          "darkgrey",
			HighlightSymbol:    "» ",
			HighlightAccent:    "yellow",
			HighlightComment:   "green+italic",
			HighlightSecondary: "",
		},
		Tuning: TuningConfig{Commands: commandTuning, Variables: variableTuning},
		AI: AIConfig{
			Enabled: false,
			Models: AIModelsConfig{
				Suggest:    "main",
				Fix:        "main",
				Import:     "main",
				Completion: "main",
				Fallback:   "fallback",
			},
			Catalog: map[string]AIModelCatalogEntry{
				"main":     {Provider: "gemini", Model: "gemini-flash-latest", APIKeyEnv: "GEMINI_API_KEY"},
				"fallback": {Provider: "gemini", Model: "gemini-flash-lite-latest", APIKeyEnv: "GEMINI_API_KEY"},
			},
		},
	}
}

// Reader supplies the raw TOML bytes: a file-backed implementation in
// production, an in-memory one in tests.
type Reader interface {
	Read(ctx context.Context) ([]byte, error)
}

// FileReader reads the config from a path on disk, returning an empty
// document (so Load falls back to Default()) if the file doesn't exist.
type FileReader struct {
	Path string
}

func (r FileReader) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	return data, nil
}

// Load reads source, unmarshals it on top of Default(), defaults an empty
// data_dir to dataDirDefault, and rejects keybinding conflicts.
func Load(ctx context.Context, source Reader, dataDirDefault string) (Config, error) {
	data, err := source.Read(ctx)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, ierrors.ConfigParseFailedErr{Msg: err.Error()}
		}
		var raw struct {
			Keybindings map[string]any `toml:"keybindings"`
		}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return Config{}, ierrors.ConfigParseFailedErr{Msg: err.Error()}
		}
		if raw.Keybindings != nil {
			if err := cfg.Keybindings.UnmarshalTOML(raw.Keybindings); err != nil {
				return Config{}, ierrors.ConfigParseFailedErr{Msg: err.Error()}
			}
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = dataDirDefault
	}

	if conflicts := cfg.Keybindings.findConflicts(); len(conflicts) > 0 {
		return Config{}, conflicts[0]
	}

	return cfg, nil
}

// LoadFile is a convenience wrapper around Load for a path on disk.
func LoadFile(ctx context.Context, path, dataDirDefault string) (Config, error) {
	return Load(ctx, FileReader{Path: path}, dataDirDefault)
}

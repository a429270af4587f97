package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

//go:embed platforms.yaml
var platformsYAML []byte

type platformEntry struct {
	SelectAllModifier string   `yaml:"select_all_modifier"`
	LauncherHotkey    []string `yaml:"launcher_hotkey"`
	SettleBeforeType  float64  `yaml:"settle_before_type"`
	SettleBeforeSend  float64  `yaml:"settle_before_submit"`
	SettleAfterSend   float64  `yaml:"settle_after_submit"`
}

var _ output.PlatformStrategyPort = (*Strategy)(nil)

// Strategy is the only component that differs by host OS: which
// modifier selects all text, and how Open/SwitchApplications compile
// into primitives (e.g. on Darwin — hotkey(cmd,space); sleep;
// type_text(name); sleep; press_enter; sleep — with the other platforms
// following the same shape through a different launcher hotkey). The
// per-platform table lives in platforms.yaml rather than in code so
// adding a platform is a data change.
type Strategy struct {
	platform output.Platform
	entry    platformEntry
}

// LoadPlatformStrategy parses platforms.yaml and returns the strategy
// for platform. Call with runtime.GOOS, or an explicit override from
// CLI flags/config.
func LoadPlatformStrategy(platform output.Platform) (*Strategy, error) {
	var table map[string]platformEntry
	if err := yaml.Unmarshal(platformsYAML, &table); err != nil {
		return nil, fmt.Errorf("parse platform table: %w", err)
	}

	entry, ok := table[string(platform)]
	if !ok {
		return nil, fmt.Errorf("no platform strategy for %q", platform)
	}

	return &Strategy{platform: platform, entry: entry}, nil
}

func (s *Strategy) Platform() output.Platform { return s.platform }

func (s *Strategy) SelectAllModifier() string { return s.entry.SelectAllModifier }

// OpenSequence and SwitchApplicationsSequence share the same recipe:
// invoke the launcher hotkey, settle, type the target, settle, press
// enter, settle. Open types a filename/app path; SwitchApplications
// types an application name — the Grounder passes whichever string
// is semantically relevant to the verb that invoked it.
func (s *Strategy) OpenSequence(appOrFilename string) []entity.Primitive {
	return s.launchSequence(appOrFilename)
}

func (s *Strategy) SwitchApplicationsSequence(appCode string) []entity.Primitive {
	return s.launchSequence(appCode)
}

func (s *Strategy) launchSequence(target string) []entity.Primitive {
	return []entity.Primitive{
		entity.Hotkey(s.entry.LauncherHotkey...),
		entity.Sleep(s.entry.SettleBeforeType),
		entity.TypeText(target),
		entity.Sleep(s.entry.SettleBeforeSend),
		entity.PressEnter(),
		entity.Sleep(s.entry.SettleAfterSend),
	}
}

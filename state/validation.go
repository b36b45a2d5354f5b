package state

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
)

var namePattern, _ = regexp.Compile("^[0-9a-z._-]+$")

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func NodeConfigValidator(node *NodeCfg) error {
	err := NameValidator(string(node.Id))
	if err != nil {
		return err
	}
	return nil
}

// ScenarioValidator checks a scenario for mistakes that would otherwise only
// surface midway through a run.
func ScenarioValidator(cfg *ScenarioCfg) error {
	if cfg.Name != "" {
		if err := NameValidator(cfg.Name); err != nil {
			return err
		}
	}
	seen := make(map[NodeId]bool)
	prefixOwner := make(map[string]NodeId)
	for i := range cfg.Nodes {
		node := &cfg.Nodes[i]
		if err := NodeConfigValidator(node); err != nil {
			return err
		}
		if seen[node.Id] {
			return fmt.Errorf("node %s: %w", node.Id, ErrDuplicateNode)
		}
		seen[node.Id] = true
		if node.Prefix.IsValid() {
			key := node.Prefix.Masked().String()
			if prev, ok := prefixOwner[key]; ok {
				return fmt.Errorf("prefix %s is declared by both %s and %s", node.Prefix, prev, node.Id)
			}
			prefixOwner[key] = node.Id
		}
	}
	if _, err := cfg.ParsedLinks(); err != nil {
		return err
	}
	if _, err := cfg.ParsedFailures(); err != nil {
		return err
	}
	if cfg.MaxRounds < 0 {
		return fmt.Errorf("max_rounds must not be negative: %d", cfg.MaxRounds)
	}
	if cfg.LogPath != "" {
		if err := PathValidator(cfg.LogPath); err != nil {
			return err
		}
	}
	return nil
}

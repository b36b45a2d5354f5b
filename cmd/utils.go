package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/encodeous/ripsim/core"
	"github.com/encodeous/ripsim/mock"
	"github.com/encodeous/ripsim/state"
)

var (
	scenarioPath string
	mockName     string
)

// loadScenario resolves the scenario every simulation command operates on,
// either a built-in mock or a file.
func loadScenario() (state.ScenarioCfg, error) {
	if mockName == "" {
		cfg, err := core.ReadScenario(scenarioPath)
		if err != nil {
			return state.ScenarioCfg{}, err
		}
		return *cfg, nil
	}
	switch mockName {
	case "triangle":
		return mock.Triangle(), nil
	case "mesh5":
		return mock.Mesh5(), nil
	}
	if rest, ok := strings.CutPrefix(mockName, "line"); ok {
		n, err := strconv.Atoi(rest)
		if err == nil && n >= 2 {
			return mock.Line(n), nil
		}
	}
	if rest, ok := strings.CutPrefix(mockName, "random"); ok {
		n, err := strconv.Atoi(rest)
		if err == nil && n >= 2 {
			return mock.Random(n, n/2, 9, 1), nil
		}
	}
	return state.ScenarioCfg{}, fmt.Errorf("unknown mock scenario: %s", mockName)
}

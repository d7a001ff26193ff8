package domain

import (
	"fmt"
	"strings"
)

// Strategy selects a route construction heuristic.
type Strategy string

const (
	StrategyTierTracked      Strategy = "tier-tracked"
	StrategyLargestTierFirst Strategy = "largest-tier-first"
	StrategyGiantTour        Strategy = "giant-tour"
	StrategySequential       Strategy = "sequential"
)

// Improvement selects the local search driver run after construction.
type Improvement string

const (
	ImprovementNone      Improvement = "none"
	ImprovementHillclimb Improvement = "hillclimb"
	ImprovementVND       Improvement = "vnd"
)

func ParseStrategy(s string) (Strategy, error) {
	switch v := Strategy(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return StrategyTierTracked, nil
	case StrategyTierTracked, StrategyLargestTierFirst, StrategyGiantTour, StrategySequential:
		return v, nil
	}
	return "", fmt.Errorf("parse strategy: unknown strategy %q", s)
}

func ParseImprovement(s string) (Improvement, error) {
	switch v := Improvement(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ImprovementVND, nil
	case ImprovementNone, ImprovementHillclimb, ImprovementVND:
		return v, nil
	}
	return "", fmt.Errorf("parse improvement: unknown improvement %q", s)
}

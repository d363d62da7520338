package config

import (
	"strings"
	"testing"
)

func TestValidateSyncLimits(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(flags *Flags)
		errContains string
	}{
		{
			name:   "defaults are valid",
			mutate: func(flags *Flags) {},
		},
		{
			name:        "zero max possible depth",
			mutate:      func(flags *Flags) { flags.MaxPossibleDepth = 0 },
			errContains: "maxpossibledepth",
		},
		{
			name:        "branching factor below one",
			mutate:      func(flags *Flags) { flags.MaxBranchingFactor = 0.99 },
			errContains: "maxbranchingfactor",
		},
		{
			name:        "zero ancestors request depth",
			mutate:      func(flags *Flags) { flags.MaxDepthAncestorsRequest = 0 },
			errContains: "maxdepthancestorsrequest",
		},
	}

	for _, test := range tests {
		flags := defaultFlags()
		test.mutate(flags)

		err := validateSyncLimits(flags)
		if test.errContains == "" {
			if err != nil {
				t.Errorf("%s: unexpected error: %s", test.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: expected an error but got none", test.name)
			continue
		}
		if !strings.Contains(err.Error(), test.errContains) {
			t.Errorf("%s: expected error to mention %q, got: %s",
				test.name, test.errContains, err)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Lookup == nil {
		t.Errorf("TestDefaultConfig: default Lookup function is nil")
	}
	if cfg.Dial == nil {
		t.Errorf("TestDefaultConfig: default Dial function is nil")
	}
	if err := validateSyncLimits(cfg.Flags); err != nil {
		t.Errorf("TestDefaultConfig: default sync limits are invalid: %s", err)
	}
}

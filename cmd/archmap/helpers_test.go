package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestFlagOrConfig(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		cfgVal   int
		expected int
	}{
		{
			name:     "unset flag uses config value",
			args:     []string{},
			cfgVal:   7,
			expected: 7,
		},
		{
			name:     "set flag overrides config value",
			args:     []string{"--depth=3"},
			cfgVal:   7,
			expected: 3,
		},
		{
			name:     "explicit zero wins over config value",
			args:     []string{"--depth=0"},
			cfgVal:   7,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var depth int
			cmd := &cobra.Command{Use: "query"}
			cmd.Flags().IntVar(&depth, "depth", 5, "")
			if err := cmd.Flags().Parse(tc.args); err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if got := flagOrConfig(cmd, "depth", depth, tc.cfgVal); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

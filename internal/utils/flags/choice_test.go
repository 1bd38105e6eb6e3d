package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "library",
			choices:        []string{"library", "cli"},
			description:    "Inspect git metadata in-process or via the git executable.",
			expectedOutput: "`<LIBRARY|cli>` Inspect git metadata in-process or via the git executable.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "Log encoding.",
			expectedOutput: "`<structured|CONSOLE>` Log encoding.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "alpha",
			choices:        []string{"alpha", "beta"},
			expectedOutput: "`<ALPHA|beta>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "cli",
			choices:        []string{"cli", "CLI", "library"},
			description:    "Backend.",
			expectedOutput: "`<CLI|library>` Backend.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "library",
			choices:        []string{" library ", " cli "},
			description:    "Backend.",
			expectedOutput: "`<LIBRARY|cli>` Backend.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestMatchChoice(t *testing.T) {
	choices := []string{"library", "cli"}

	matched, matchError := MatchChoice("git backend", "  CLI ", choices)
	require.NoError(t, matchError)
	require.Equal(t, "cli", matched)

	_, matchError = MatchChoice("git backend", "libgit2", choices)
	require.Error(t, matchError)

	var choiceError UnsupportedChoiceError
	require.ErrorAs(t, matchError, &choiceError)
	require.Equal(t, "libgit2", choiceError.Value)
	require.Contains(t, matchError.Error(), "library, cli")
}

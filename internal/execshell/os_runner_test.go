package execshell

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildEnvironmentInheritsWhenNoOverrides(testInstance *testing.T) {
	require.Nil(testInstance, buildEnvironment(nil))
}

func TestBuildEnvironmentAppendsOverridesAfterParentEnvironment(testInstance *testing.T) {
	environment := buildEnvironment(map[string]string{"GIT_TERMINAL_PROMPT": "0", "LC_ALL": "C"})

	require.Len(testInstance, environment, len(os.Environ())+2)
	require.Equal(testInstance, []string{"GIT_TERMINAL_PROMPT=0", "LC_ALL=C"}, environment[len(environment)-2:])
}

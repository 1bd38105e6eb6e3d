package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/transform-readme/cmd/cli"
	"github.com/temirov/transform-readme/internal/repository"
	"github.com/temirov/transform-readme/internal/transform"
	"github.com/temirov/transform-readme/internal/utils/flags"
)

const (
	testReadmeFileNameConstant                = "README.md"
	testConfigurationFileNameConstant         = "config.yaml"
	testReadmeContentConstant                 = "# Mod\n\n![banner](assets/banner.png)\n\n![anim](assets/demo.gif)\n"
	testImageExtensionsEnvironmentKeyConstant = "TRANSFORMREADME_TRANSFORM_IMAGE_EXTENSIONS"
	testRawPrefixConstant                     = "https://raw.githubusercontent.com/foo/bar/main/"
)

type applicationRun struct {
	standardOutput string
	standardError  string
	err            error
}

func runApplication(testInstance *testing.T, arguments ...string) applicationRun {
	testInstance.Helper()

	application := cli.NewApplication()
	standardOutput := &bytes.Buffer{}
	standardError := &bytes.Buffer{}
	rootCommand := application.RootCommand()
	rootCommand.SetOut(standardOutput)
	rootCommand.SetErr(standardError)
	rootCommand.SetArgs(arguments)

	executionError := application.Execute()
	return applicationRun{standardOutput: standardOutput.String(), standardError: standardError.String(), err: executionError}
}

func writeTestFile(testInstance *testing.T, directory string, name string, content string) string {
	testInstance.Helper()
	filePath := filepath.Join(directory, name)
	require.NoError(testInstance, os.WriteFile(filePath, []byte(content), 0o600))
	return filePath
}

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	var rawConfiguration map[string]map[string]any
	require.NoError(testInstance, yaml.Unmarshal(configurationData, &rawConfiguration))
	require.Equal(testInstance, "error", rawConfiguration["common"]["log_level"])
	require.Equal(testInstance, "console", rawConfiguration["common"]["log_format"])

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))
	require.Equal(testInstance, transform.DefaultConfiguration(), configuration.Transform.Sanitize())
}

func TestApplicationTransformsWithExplicitReference(testInstance *testing.T) {
	inputPath := writeTestFile(testInstance, testInstance.TempDir(), testReadmeFileNameConstant, testReadmeContentConstant)

	run := runApplication(testInstance, inputPath, "--repo", "foo/bar", "-b", "main")
	require.NoError(testInstance, run.err)
	require.Equal(testInstance,
		"# Mod\n\n![banner]("+testRawPrefixConstant+"assets/banner.png)\n\n![anim]("+testRawPrefixConstant+"assets/demo.gif)\n",
		run.standardOutput)
}

func TestApplicationRejectsMalformedRepository(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	inputPath := writeTestFile(testInstance, temporaryDirectory, testReadmeFileNameConstant, testReadmeContentConstant)
	outputPath := filepath.Join(temporaryDirectory, "out.md")

	run := runApplication(testInstance, inputPath, "--repo", "foobar", "-b", "main", "-o", outputPath)
	require.ErrorIs(testInstance, run.err, repository.ErrInvalidRepoFormat)
	require.Empty(testInstance, run.standardOutput)
	require.NoFileExists(testInstance, outputPath)
}

func TestApplicationReadsImageExtensionsFromEnvironment(testInstance *testing.T) {
	testInstance.Setenv(testImageExtensionsEnvironmentKeyConstant, ".gif")
	inputPath := writeTestFile(testInstance, testInstance.TempDir(), testReadmeFileNameConstant, testReadmeContentConstant)

	run := runApplication(testInstance, inputPath, "--repo", "foo/bar", "-b", "main")
	require.NoError(testInstance, run.err)
	require.Equal(testInstance,
		"# Mod\n\n![banner](assets/banner.png)\n\n![anim]("+testRawPrefixConstant+"assets/demo.gif)\n",
		run.standardOutput)
}

func TestApplicationValidatesConfiguredGitBackend(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	inputPath := writeTestFile(testInstance, temporaryDirectory, testReadmeFileNameConstant, testReadmeContentConstant)
	configurationPath := writeTestFile(testInstance, temporaryDirectory, testConfigurationFileNameConstant, "transform:\n  git_backend: svn\n")

	run := runApplication(testInstance, inputPath, "--repo", "foo/bar", "-b", "main", "--config", configurationPath)
	var choiceError flags.UnsupportedChoiceError
	require.ErrorAs(testInstance, run.err, &choiceError)
	require.Equal(testInstance, "svn", choiceError.Value)
	require.Empty(testInstance, run.standardOutput)
}

func TestApplicationRejectsUnsupportedLogLevel(testInstance *testing.T) {
	inputPath := writeTestFile(testInstance, testInstance.TempDir(), testReadmeFileNameConstant, testReadmeContentConstant)

	run := runApplication(testInstance, inputPath, "--repo", "foo/bar", "-b", "main", "--log-level", "verbose")
	require.Error(testInstance, run.err)
	require.Contains(testInstance, run.err.Error(), "unsupported log level")
	require.Empty(testInstance, run.standardOutput)
}

package transform

import (
	"strings"

	"github.com/temirov/transform-readme/internal/gitrepo"
	"github.com/temirov/transform-readme/internal/rawlinks"
)

// Git backends: library inspects repositories in-process with go-git, cli
// shells out to the git executable.
const (
	GitBackendLibrary = "library"
	GitBackendCLI     = "cli"
)

const (
	gitBackendConfigurationKeyConstant      = "git_backend"
	remoteNameConfigurationKeyConstant      = "remote_name"
	imageExtensionsConfigurationKeyConstant = "image_extensions"
	configurationKeySeparatorConstant       = "."
)

// Configuration captures settings for the transform command.
type Configuration struct {
	GitBackend      string   `mapstructure:"git_backend"`
	RemoteName      string   `mapstructure:"remote_name"`
	ImageExtensions []string `mapstructure:"image_extensions"`
}

// SupportedGitBackends lists accepted git_backend values.
func SupportedGitBackends() []string {
	return []string{GitBackendLibrary, GitBackendCLI}
}

// DefaultConfiguration supplies baseline values for the transform command.
func DefaultConfiguration() Configuration {
	return Configuration{
		GitBackend:      GitBackendLibrary,
		RemoteName:      gitrepo.DefaultRemoteNameConstant,
		ImageExtensions: rawlinks.DefaultImageExtensions(),
	}
}

// DefaultConfigurationValues returns defaults keyed for the configuration loader under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		qualifyConfigurationKey(prefix, gitBackendConfigurationKeyConstant):      defaults.GitBackend,
		qualifyConfigurationKey(prefix, remoteNameConfigurationKeyConstant):      defaults.RemoteName,
		qualifyConfigurationKey(prefix, imageExtensionsConfigurationKeyConstant): defaults.ImageExtensions,
	}
}

// Sanitize trims values and restores defaults for blank scalar settings.
// An empty extension list is kept empty so the extension filter stays disabled.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.GitBackend = strings.ToLower(strings.TrimSpace(configuration.GitBackend))
	if len(sanitized.GitBackend) == 0 {
		sanitized.GitBackend = defaults.GitBackend
	}

	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaults.RemoteName
	}

	sanitized.ImageExtensions = sanitizeExtensions(configuration.ImageExtensions)
	return sanitized
}

func sanitizeExtensions(rawExtensions []string) []string {
	sanitizedExtensions := make([]string, 0, len(rawExtensions))
	for _, candidate := range rawExtensions {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		sanitizedExtensions = append(sanitizedExtensions, trimmedCandidate)
	}
	return sanitizedExtensions
}

func qualifyConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}

package cli

import (
	_ "embed"

	"github.com/temirov/transform-readme/internal/transform"
	"github.com/temirov/transform-readme/internal/utils"
)

//go:embed default_config.yaml
var defaultConfigurationDocument []byte

// EmbeddedDefaultConfiguration returns a copy of the bundled default_config.yaml and its format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), defaultConfigurationDocument...), configurationTypeConstant
}

// defaultConfigurationValues mirrors default_config.yaml as viper defaults so a
// configuration file that omits a key still decodes to a usable value.
func defaultConfigurationValues() map[string]any {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range transform.DefaultConfigurationValues(transformConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	return defaultValues
}

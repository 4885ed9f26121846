package config

import (
	"fmt"
	"os"
)

// APIKeyEnvVar is the environment variable holding the backend credential.
const APIKeyEnvVar = "OPENAI_API_KEY"

// ResolveAPIKey reads the backend credential from the environment. The key
// never appears in the config file and is only logged at debug verbosity.
func ResolveAPIKey() (string, error) {
	val := os.Getenv(APIKeyEnvVar)
	if val == "" {
		return "", fmt.Errorf("environment variable %s is not set", APIKeyEnvVar)
	}
	return val, nil
}

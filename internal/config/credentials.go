package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/genforge/genforge/internal/errors"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// CredentialManager resolves the LLM API key using a priority chain:
// environment variable, then OS keychain, then config file, then an
// interactive prompt in packaged mode.
type CredentialManager struct {
	mode       DeploymentMode
	keyring    *KeyringManager
	configPath string
}

// Credentials holds the user's stored LLM credential.
type Credentials struct {
	LLMAPIKey string `yaml:"llm_api_key"`
}

// NewCredentialManager creates a new credential manager.
func NewCredentialManager() *CredentialManager {
	mode := DetectMode()
	homeDir, _ := os.UserHomeDir()
	configPath := filepath.Join(homeDir, ".config", "genforge", "config.yaml")

	return &CredentialManager{
		mode:       mode,
		keyring:    NewKeyringManager(),
		configPath: configPath,
	}
}

// GetAPIKey retrieves the LLM API key using the priority chain.
func (cm *CredentialManager) GetAPIKey(provider string) (string, error) {
	envVar := "OPENAI_API_KEY"
	if provider == "gemini" {
		envVar = "GEMINI_API_KEY"
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}

	if cm.keyring.IsAvailable() {
		if key, err := cm.keyring.GetAPIKey(); err == nil && key != "" {
			return key, nil
		}
	}

	if creds, err := cm.loadConfigFile(); err == nil && creds.LLMAPIKey != "" {
		return creds.LLMAPIKey, nil
	}

	if cm.mode.AllowsInteractivePrompts() && isInteractive() {
		fmt.Printf("\nNo %s API key found.\n", provider)
		fmt.Println("Enter it now to continue, or Ctrl-C to abort.")
		fmt.Println()
		return cm.promptForAPIKey(provider)
	}

	return "", errors.ConfigErrorf(
		"%s not found. Set it via:\n"+
			"  1. environment variable: export %s=...\n"+
			"  2. OS keychain entry for genforge\n"+
			"  3. config file: %s", envVar, envVar, cm.configPath)
}

// SaveCredentials saves the API key to keychain (preferred) or config file.
func (cm *CredentialManager) SaveCredentials(creds Credentials) error {
	if cm.keyring.IsAvailable() {
		if creds.LLMAPIKey != "" {
			if err := cm.keyring.SetAPIKey(creds.LLMAPIKey); err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh,
					"failed to save LLM API key to keychain")
			}
		}
		return nil
	}

	return cm.saveConfigFile(creds)
}

func (cm *CredentialManager) loadConfigFile() (*Credentials, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

func (cm *CredentialManager) saveConfigFile(creds Credentials) error {
	dir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return err
	}

	return nil
}

// promptForAPIKey prompts the user for an LLM API key.
func (cm *CredentialManager) promptForAPIKey(provider string) (string, error) {
	fmt.Printf("Enter %s API Key: ", provider)
	key, err := cm.readSecurely()
	if err != nil {
		return "", err
	}

	if key == "" {
		return "", errors.ConfigError("an API key is required")
	}

	if provider == "openai" && !strings.HasPrefix(key, "sk-") {
		return "", errors.ValidationError("OpenAI API keys should start with 'sk-'")
	}

	if cm.keyring.IsAvailable() {
		if err := cm.keyring.SetAPIKey(key); err == nil {
			fmt.Println("saved to keychain")
		}
	} else {
		creds := Credentials{LLMAPIKey: key}
		if err := cm.saveConfigFile(creds); err == nil {
			fmt.Printf("saved to %s\n", cm.configPath)
		}
	}

	return key, nil
}

// readSecurely reads a password/token from stdin without echoing.
func (cm *CredentialManager) readSecurely() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		bytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// isInteractive returns true if stdin is a terminal (not piped).
func isInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// GetMode returns the current deployment mode.
func (cm *CredentialManager) GetMode() DeploymentMode {
	return cm.mode
}

// GetConfigPath returns the path to the config file.
func (cm *CredentialManager) GetConfigPath() string {
	return cm.configPath
}

// HasCredentials checks if an LLM API key is configured anywhere.
func (cm *CredentialManager) HasCredentials(provider string) bool {
	envVar := "OPENAI_API_KEY"
	if provider == "gemini" {
		envVar = "GEMINI_API_KEY"
	}
	if os.Getenv(envVar) != "" {
		return true
	}

	if cm.keyring.IsAvailable() {
		if key, err := cm.keyring.GetAPIKey(); err == nil && key != "" {
			return true
		}
	}

	if creds, err := cm.loadConfigFile(); err == nil && creds.LLMAPIKey != "" {
		return true
	}

	return false
}

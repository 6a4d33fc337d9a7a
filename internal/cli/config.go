package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "ACCESSCTL"
	configDirName  = ".accessctl"
	configName     = "config"
	configType     = "yaml"
	logFileName    = "accessctl.log"
	defaultHost    = "http://localhost:8080"
	keyHost        = "host"
	keyToken       = "token"
	keyOrg         = "org"
	configDirPerm  = 0o700
	configFilePerm = 0o600
)

var (
	ErrLoginRequired = errors.New("login required - run 'accessctl login'")
	ErrOrgRequired   = errors.New("organization required - pass --org or set ACCESSCTL_ORG")
)

// Settings is the resolved CLI configuration: flags over env over file.
type Settings struct {
	Host  string
	Token string
	Org   string
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// newViper reads cfgFile, or ~/.accessctl/config.yaml when empty. A missing
// file is not an error.
func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault(keyHost, defaultHost)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName(configName)
		v.SetConfigType(configType)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

func settingsFrom(v *viper.Viper) Settings {
	return Settings{
		Host:  v.GetString(keyHost),
		Token: v.GetString(keyToken),
		Org:   v.GetString(keyOrg),
	}
}

// OrgID parses the configured organization.
func (s Settings) OrgID() (uuid.UUID, error) {
	if s.Org == "" {
		return uuid.Nil, ErrOrgRequired
	}
	id, err := uuid.Parse(s.Org)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid organization id %q: %w", s.Org, err)
	}
	return id, nil
}

// saveToken persists token to the config file viper read from, creating
// ~/.accessctl/config.yaml when there was none. Only host and token are
// written.
func saveToken(v *viper.Viper, token string) (string, error) {
	path := v.ConfigFileUsed()
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, configName+"."+configType)
	}

	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	out := viper.New()
	out.SetConfigType(configType)
	out.Set(keyHost, v.GetString(keyHost))
	out.Set(keyToken, token)
	if err := out.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(path, configFilePerm); err != nil {
		return "", fmt.Errorf("failed to restrict config permissions: %w", err)
	}

	v.Set(keyToken, token)
	return path, nil
}

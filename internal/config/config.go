// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

// ConfigJSONEnv overrides the file based configuration with a JSON blob.
const ConfigJSONEnv = "GO_AUTH_BRIDGE_CONFIG_JSON"

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if jsonConfigEnv := os.Getenv(ConfigJSONEnv); jsonConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, jsonConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to merge config from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings for the bridge. Invalid combinations are
// fatal to startup, never recovered.
func validate(c Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.Provider.Kind {
	case "token":
		if c.Provider.Token.Secret == "" {
			return errors.Wrap(ErrTokenSecretRequired, invalidErrMessage)
		}
	case "oidc":
		if c.Provider.OIDC.Issuer == "" {
			return errors.Wrap(ErrOIDCIssuerRequired, invalidErrMessage)
		}

		if c.Provider.OIDC.ClientID == "" {
			return errors.Wrap(ErrOIDCClientIDRequired, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownProviderKind, invalidErrMessage)
	}

	switch c.Storage.Backend {
	case "", "memory", "redis", "mysql", "postgres":
	default:
		return errors.Wrap(ErrUnknownStorageBackend, invalidErrMessage)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var gitSHA string
var buildDate string

func GetDataDir() string {
	value, exists := os.LookupEnv("CHALKCAST_DATA_DIR")
	if exists {
		return value
	}
	return "data"
}

// defaults to GetDataDir() / config
func GetConfigDir() string {
	value, exists := os.LookupEnv("CHALKCAST_CONFIG_DIR")
	if exists {
		return value
	}
	return filepath.Join(GetDataDir(), "config")
}

func GetAdminInitialPassword() (string, error) {
	key := "CHALKCAST_ADMIN_INITIAL_PASSWORD"
	value, exists := os.LookupEnv(key)
	if exists {
		return value, nil
	}
	return "", fmt.Errorf("please set %s", key)
}

func GetSessionAuthKey() ([]byte, error) {
	key := "CHALKCAST_SESSION_AUTH_KEY"
	value, exists := os.LookupEnv(key)
	if exists {
		return []byte(value), nil
	}
	return []byte{}, fmt.Errorf("please set %s", key)
}

func GetOpenAIKey() (string, error) {
	key := "OPENAI_API_KEY"
	value, exists := os.LookupEnv(key)
	if exists {
		return value, nil
	}
	return "", fmt.Errorf("please set %s", key)
}

func GetElevenLabsKey() (string, error) {
	key := "ELEVENLABS_API_KEY"
	value, exists := os.LookupEnv(key)
	if exists {
		return value, nil
	}
	return "", fmt.Errorf("please set %s", key)
}

func GetVoiceID() string {
	value, exists := os.LookupEnv("ELEVENLABS_VOICE_ID")
	if exists {
		return value
	}
	return "WzMnDIgiICcj1oXbUBO0"
}

func getBool(key string) bool {
	if value, exists := os.LookupEnv(key); exists {
		lower := strings.ToLower(value)
		if lower == "on" || lower == "1" || lower == "true" || lower == "yes" {
			return true
		}
	}
	return false
}

func GetSecure() bool {
	return getBool("CHALKCAST_SECURE")
}

// GetEphemeral reports whether the data dir does not survive the process.
// When set, generated videos are returned inline instead of by URL.
func GetEphemeral() bool {
	return getBool("CHALKCAST_EPHEMERAL")
}

func GetGitSHA() string {
	if gitSHA == "" {
		return "<not provided>"
	} else {
		return gitSHA
	}
}

func GetBuildDate() string {
	if buildDate == "" {
		return "<not provided>"
	} else {
		return buildDate
	}
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const APIKeyEnv = "HUGGINGFACE_API_KEY"

var ErrMissingAPIKey = errors.New(APIKeyEnv + " not found")

// CredentialSource resolves the inference API key. Lookup replaces
// os.LookupEnv and EnvFile is a dotenv file consulted when the variable is
// unset; both are injectable so tests never touch the process environment.
type CredentialSource struct {
	Key     string
	EnvFile string
	Lookup  func(string) (string, bool)
}

func DefaultCredentialSource() CredentialSource {
	return CredentialSource{
		Key:     APIKeyEnv,
		EnvFile: ".env",
		Lookup:  os.LookupEnv,
	}
}

// APIKey returns the trimmed secret or ErrMissingAPIKey.
func (s CredentialSource) APIKey() (string, error) {
	key := s.Key
	if key == "" {
		key = APIKeyEnv
	}

	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if value, ok := lookup(key); ok {
		if value = strings.TrimSpace(value); value != "" {
			return value, nil
		}
	}

	if s.EnvFile == "" {
		return "", ErrMissingAPIKey
	}

	data, err := os.ReadFile(s.EnvFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrMissingAPIKey
		}
		return "", fmt.Errorf("failed to read %s: %w", s.EnvFile, err)
	}

	// Editors on Windows like to prepend a byte order mark.
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	values, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", s.EnvFile, err)
	}

	if v := strings.TrimSpace(values[key]); v != "" {
		return v, nil
	}

	return "", ErrMissingAPIKey
}

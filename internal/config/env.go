package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SEALCHECK_"

// LoadDotEnv loads variables from the given .env files (".env" when none)
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays SEALCHECK_* variables onto s. lookup is usually
// os.LookupEnv.
func ApplyEnv(s *Settings, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get("ROOT"); ok {
		s.Root = v
	}
	if v, ok := get("PROJECT"); ok {
		s.Project = v
	}
	if v, ok := get("VERSION"); ok {
		s.Version = v
	}
	if v, ok := get("MANIFEST"); ok {
		s.Manifest = v
	}
	if v, ok := get("CHECK_ONLY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sCHECK_ONLY: %q", EnvPrefix, v)
		}
		s.CheckOnly = b
	}
	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sWORKERS: %q", EnvPrefix, v)
		}
		s.Workers = n
	}
	if v, ok := get("LOG_LEVEL"); ok {
		s.Log.Level = strings.ToLower(v)
	}
	if v, ok := get("LOG_FORMAT"); ok {
		s.Log.Format = strings.ToLower(v)
	}
	if v, ok := get("S3_ENDPOINT"); ok {
		s.S3.Endpoint = v
	}
	if v, ok := get("S3_REGION"); ok {
		s.S3.Region = v
	}
	if v, ok := get("S3_USE_SSL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sS3_USE_SSL: %q", EnvPrefix, v)
		}
		s.S3.UseSSL = b
	}
	s.S3.AccessKey = firstNonEmpty(envValue(get, "S3_ACCESS_KEY"), rawValue(lookup, "MINIO_ROOT_USER"), s.S3.AccessKey)
	s.S3.SecretKey = firstNonEmpty(envValue(get, "S3_SECRET_KEY"), rawValue(lookup, "MINIO_ROOT_PASSWORD"), s.S3.SecretKey)
	return nil
}

func envValue(get func(string) (string, bool), name string) string {
	v, _ := get(name)
	return v
}

func rawValue(lookup func(string) (string, bool), name string) string {
	v, _ := lookup(name)
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

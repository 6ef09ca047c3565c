package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		key  string
		val  string
		ok   bool
	}{
		{"plain", "PORT=8080", "PORT", "8080", true},
		{"export prefix", "export DATABASE_URL=postgres://x", "DATABASE_URL", "postgres://x", true},
		{"double quoted", `LLM_MODEL="gpt-4o-mini"`, "LLM_MODEL", "gpt-4o-mini", true},
		{"single quoted", "ENV='dev'", "ENV", "dev", true},
		{"comment", "# PORT=9090", "", "", false},
		{"blank", "   ", "", "", false},
		{"no equals", "JUSTAKEY", "", "", false},
		{"empty key", "=value", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, val, ok := parseEnvLine(tc.line)
			if key != tc.key || val != tc.val || ok != tc.ok {
				t.Fatalf("parseEnvLine(%q) = %q, %q, %v", tc.line, key, val, ok)
			}
		})
	}
}

func TestLoadEnvFilesDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "PRESET_KEY=from_file\nFILE_ONLY_KEY=file_value\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("PRESET_KEY", "from_env")
	t.Setenv("FILE_ONLY_KEY", "")
	os.Unsetenv("FILE_ONLY_KEY")

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("PRESET_KEY"); got != "from_env" {
		t.Fatalf("PRESET_KEY = %q, real environment must win", got)
	}
	if got := os.Getenv("FILE_ONLY_KEY"); got != "file_value" {
		t.Fatalf("FILE_ONLY_KEY = %q, want file_value", got)
	}
}

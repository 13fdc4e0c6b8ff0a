package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv_NotExist(t *testing.T) {
	m, err := LoadDotEnv(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, ".env"), []byte("# comment\nA=1\nB=two\n=skip\nnoequals\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadDotEnv(home)
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(m) != 2 || m["A"] != "1" || m["B"] != "two" {
		t.Fatalf("unexpected map: %v", m)
	}
}

func TestLookup_EnvOverridesDotEnv(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, ".env"), []byte(EnvFileManager+"=fromdotenv\n"+EnvLogLevel+"=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFileManager, "fromenv")

	if got := Lookup(home, EnvFileManager); got != "fromenv" {
		t.Fatalf("Lookup = %q, want fromenv", got)
	}
	if got := Lookup(home, EnvLogLevel); got != "debug" {
		t.Fatalf("Lookup = %q, want debug", got)
	}
	if got := Lookup(home, "ZEARCH_UNSET_KEY"); got != "" {
		t.Fatalf("Lookup = %q, want empty", got)
	}
}

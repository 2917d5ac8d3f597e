package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Port    int           `env:"TESTCFG_SERVER_PORT" default:"8080"`
		Timeout time.Duration `env:"TESTCFG_SERVER_TIMEOUT" default:"5s"`
	}
	Name    string   `env:"TESTCFG_NAME"`
	Enabled bool     `env:"TESTCFG_ENABLED" default:"false"`
	Hosts   []string `env:"TESTCFG_HOSTS" default:"a, b"`
	skipped string
}

func TestParseEnv_Defaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Timeout != 5*time.Second {
		t.Fatalf("defaults not applied: %+v", cfg.Server)
	}
	if len(cfg.Hosts) != 2 || cfg.Hosts[1] != "b" {
		t.Fatalf("unexpected hosts %v", cfg.Hosts)
	}
	if cfg.Name != "" {
		t.Fatalf("name without default must stay empty, got %q", cfg.Name)
	}
}

func TestParseEnv_EnvOverrides(t *testing.T) {
	t.Setenv("TESTCFG_SERVER_PORT", "9090")
	t.Setenv("TESTCFG_ENABLED", "true")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Server.Port != 9090 || !cfg.Enabled {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("TESTCFG_SERVER_PORT", "nope")

	var cfg testConfig
	if err := ParseEnv(&cfg); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	if err := ParseEnv(testConfig{}); err != ErrNotStructPointer {
		t.Fatalf("expected ErrNotStructPointer, got %v", err)
	}
}

func TestLoadYamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "testyaml:\n  backend:\n    base_url: \"http://example.test\"\n  name: demo\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("TESTYAML_BACKEND_BASE_URL")
		os.Unsetenv("TESTYAML_NAME")
	})

	if err := LoadYamlFile(path); err != nil {
		t.Fatalf("LoadYamlFile: %v", err)
	}
	if got := os.Getenv("TESTYAML_BACKEND_BASE_URL"); got != "http://example.test" {
		t.Fatalf("unexpected base url %q", got)
	}
	if got := os.Getenv("TESTYAML_NAME"); got != "demo" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestLoadYamlFile_NoPath(t *testing.T) {
	if err := LoadYamlFile(""); err != ErrNoFilePath {
		t.Fatalf("expected ErrNoFilePath, got %v", err)
	}
}

func TestLoadYamlFile_ExpandsReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "expandyaml:\n" +
		"  # comment\n" +
		"  url: ${EXPANDYAML_SOURCE:-redis://localhost:6379/0}\n" +
		"  port: 3000 # inline\n" +
		"  nested:\n" +
		"    deep: 'x'\n" +
		"  after: y\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	keys := []string{"EXPANDYAML_URL", "EXPANDYAML_PORT", "EXPANDYAML_NESTED_DEEP", "EXPANDYAML_AFTER"}
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})

	if err := LoadYamlFile(path); err != nil {
		t.Fatalf("LoadYamlFile: %v", err)
	}

	want := map[string]string{
		"EXPANDYAML_URL":         "redis://localhost:6379/0",
		"EXPANDYAML_PORT":        "3000",
		"EXPANDYAML_NESTED_DEEP": "x",
		"EXPANDYAML_AFTER":       "y",
	}
	for k, v := range want {
		if got := os.Getenv(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	cfg "github.com/yadem01/backend-survey-tool/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	cwd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(cwd)

	got, err := cfg.LoadConfig(nil, "")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "sqlite" {
		t.Fatalf("expected sqlite default, got %q", got.Database.Type)
	}
	if got.Server.Addr != ":8000" {
		t.Fatalf("expected :8000 default, got %q", got.Server.Addr)
	}
	if got.Uploads.MaxBytes != 10<<20 {
		t.Fatalf("expected 10MiB default, got %d", got.Uploads.MaxBytes)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "database:\n  type: postgres\n  dsn: postgresql://user@/db\nserver:\n  addr: \":9000\"\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig(nil, file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected postgres, got %q", got.Database.Type)
	}
	if got.Server.Addr != ":9000" {
		t.Fatalf("expected :9000, got %q", got.Server.Addr)
	}
}

func TestLoadConfig_DatabaseURLEnvFallback(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	os.Setenv("DATABASE_URL", "postgresql://svc@db/surveys")
	defer os.Unsetenv("XDG_CONFIG_HOME")
	defer os.Unsetenv("DATABASE_URL")

	cwd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(cwd)

	got, err := cfg.LoadConfig(nil, "")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.URL != "postgresql://svc@db/surveys" {
		t.Fatalf("expected DATABASE_URL to be picked up, got %q", got.Database.URL)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.DSN = "./surveytool.db"
	c.Server.Addr = ":8000"

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
}

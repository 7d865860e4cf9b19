package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnv_LoadsExistingFiles(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "PAYROLL_CONSOLE_TEST_ENV_LOAD=ok\n")

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("PAYROLL_CONSOLE_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("PAYROLL_CONSOLE_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded, got %q", got)
	}
}

func TestPayrollAPIOptions_Validate(t *testing.T) {
	valid := PayrollAPIOptions{BaseURL: "http://payroll.internal:8080", Timeout: 10 * time.Second}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid options, got %v", err)
	}

	badURL := PayrollAPIOptions{BaseURL: "not a url", Timeout: time.Second}
	if err := badURL.Validate(); err == nil {
		t.Fatal("expected error for invalid base URL")
	}

	badTimeout := PayrollAPIOptions{BaseURL: "http://payroll.internal:8080", Timeout: 0}
	if err := badTimeout.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

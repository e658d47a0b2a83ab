package commands

import (
	"path/filepath"
	"runtime"
	"testing"

	"KeyVault/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы токен и логин создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// testConfig — конфиг клиента с токеном во временном каталоге.
func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{ServerURL: serverURL, TokenFile: filepath.Join(t.TempDir(), "auth_token")}
}

package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitlit/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()

	old := userConfigDirFunc
	defer func() { userConfigDirFunc = old }()
	userConfigDirFunc = func() (string, error) { return tempDir, nil }

	trayDir := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != trayDir {
		t.Errorf("expected %s, got %s", trayDir, dir)
	}

	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	settings := `{"settings": {"lockfile_dir": "/custom/habitlit/dir"}}`
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/custom/habitlit/dir" {
		t.Errorf("expected custom dir, got %s", dir)
	}

	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(`{"settings": {"lockfile_dir": ""}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, _ := GetTrayAppConfigDir(); dir != trayDir {
		t.Errorf("expected default dir for empty setting, got %s", dir)
	}
}

func TestParseLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "outside valid range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
		{"ok", "8080|12345|s3cret\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := parseLockfile(tt.content)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ep.Port != 8080 || ep.PID != 12345 || ep.Secret != "s3cret" {
				t.Errorf("unexpected endpoint: %+v", ep)
			}
		})
	}
}

func TestFindTray(t *testing.T) {
	old := findProcessFunc
	defer func() { findProcessFunc = old }()

	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
	if _, err := findTray(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning for missing lockfile, got %v", err)
	}

	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret"), 0600); err != nil {
		t.Fatal(err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) { return nil, nil }
	if _, err := findTray(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning for dead process, got %v", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, err := findTray(lockfile); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayExecutablePrefix}, nil
	}
	ep, err := findTray(lockfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.Port != 8080 || ep.Secret != "s3cret" {
		t.Errorf("unexpected endpoint: %+v", ep)
	}
}

func serverEndpoint(t *testing.T, server *httptest.Server, secret string) endpoint {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return endpoint{Port: port, Secret: secret}
}

func TestSend(t *testing.T) {
	var got WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(secretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := New()
	ctx := context.Background()

	payload := WebhookPayload{Text: "hello", DurationMs: constants.NotificationDurationMs}
	if err := n.send(ctx, serverEndpoint(t, server, "test-secret"), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != payload {
		t.Errorf("server received %+v, want %+v", got, payload)
	}

	err := n.send(ctx, serverEndpoint(t, server, "wrong"), payload)
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected 401 error, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := n.send(cancelled, serverEndpoint(t, server, "test-secret"), payload); err == nil {
		t.Error("expected error for cancelled context")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	tun := DefaultTunables()
	if tun.ChunkSize != 1024 {
		t.Errorf("chunk size = %d, want 1024", tun.ChunkSize)
	}
	if tun.MailboxCapacity != 1 {
		t.Errorf("mailbox capacity = %d, want 1", tun.MailboxCapacity)
	}
	if tun.GracePeriod != 5*time.Second {
		t.Errorf("grace period = %v, want 5s", tun.GracePeriod)
	}
	if err := tun.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tun := DefaultTunables()
	tun.ChunkSize = -1
	if err := tun.Validate(); err == nil {
		t.Fatal("expected error for negative chunk size")
	}
}

func TestLoadEmpty(t *testing.T) {
	tun, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if tun.ChunkSize != 1024 || tun.MailboxCapacity != 1 {
		t.Fatalf("defaults not applied: %+v", tun)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipes.yml")
	content := "chunk_size: 4096\nmailbox_capacity: 8\ngrace_period: 2s\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tun, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatal(err)
	}
	if tun.ChunkSize != 4096 {
		t.Errorf("chunk size = %d, want 4096", tun.ChunkSize)
	}
	if tun.MailboxCapacity != 8 {
		t.Errorf("mailbox capacity = %d, want 8", tun.MailboxCapacity)
	}
	if tun.GracePeriod != 2*time.Second {
		t.Errorf("grace period = %v, want 2s", tun.GracePeriod)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PIPECLIFF_CHUNK_SIZE", "256")
	tun, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if tun.ChunkSize != 256 {
		t.Errorf("chunk size = %d, want 256 from env", tun.ChunkSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(WithConfigFile("/nonexistent/pipes.yml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PIPECLIFF_MAILBOX_CAPACITY=4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PIPECLIFF_MAILBOX_CAPACITY") })

	tun, err := Load(WithEnvFile(path))
	if err != nil {
		t.Fatal(err)
	}
	if tun.MailboxCapacity != 4 {
		t.Errorf("mailbox capacity = %d, want 4 from .env", tun.MailboxCapacity)
	}
}

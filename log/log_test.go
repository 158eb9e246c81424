package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetLogFilePath(t *testing.T) {
	tests := []struct {
		day        int
		wantSuffix int
	}{
		{1, 0}, {9, 0}, {10, 1}, {19, 1}, {20, 2}, {31, 2},
	}
	for _, tt := range tests {
		d := time.Date(2026, time.January, tt.day, 12, 0, 0, 0, time.UTC)
		path, suffix := getLogFilePath("logs", "stdlog", d)
		if suffix != tt.wantSuffix {
			t.Errorf("day %d: suffix = %d, want %d", tt.day, suffix, tt.wantSuffix)
		}
		want := filepath.Join("logs", "stdlog-"+string(rune('0'+tt.wantSuffix))+".log")
		if path != want {
			t.Errorf("day %d: path = %q, want %q", tt.day, path, want)
		}
	}
}

func TestLogMessageWritesFileAndRotates(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	SetOutput(&stdout, &stderr)
	t.Cleanup(func() {
		SetOutput(os.Stdout, os.Stderr)
		Setup("", false)
		now = time.Now
	})

	if err := Setup(dir, false); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	stale := filepath.Join(dir, "stdlog-2.log")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	now = func() time.Time { return time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC) }

	LogMessage(INFO, "hello")
	LogMessage(DEBUG, "hidden")

	data, err := os.ReadFile(filepath.Join(dir, "stdlog-1.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] hello") {
		t.Errorf("log file = %q, want INFO line", data)
	}
	if strings.Contains(stdout.String(), "hidden") {
		t.Errorf("debug message printed without verbose mode")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("next-period file was not rotated away")
	}
}

func TestSetupWhileLogging(t *testing.T) {
	var stdout, stderr bytes.Buffer
	SetOutput(&stdout, &stderr)
	t.Cleanup(func() {
		SetOutput(os.Stdout, os.Stderr)
		Setup("", false)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			Debugf("tick %d", i)
		}
	}()
	for i := 0; i < 100; i++ {
		if err := Setup("", i%2 == 0); err != nil {
			t.Fatal(err)
		}
	}
	<-done

	if err := Setup("", true); err != nil {
		t.Fatal(err)
	}
	Debugf("visible")
	if !strings.Contains(stdout.String(), "[DEBUG] visible") {
		t.Errorf("stdout = %q, want the debug line once verbose", stdout.String())
	}
}

func TestPrintIfErr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	SetOutput(&stdout, &stderr)
	t.Cleanup(func() { SetOutput(os.Stdout, os.Stderr) })

	var nilErr error
	PrintIfErr("nothing", &nilErr)
	if stderr.Len() != 0 {
		t.Fatalf("nil error logged: %q", stderr.String())
	}

	err := errors.New("boom")
	PrintIfErr("print", &err)
	if !strings.Contains(stderr.String(), "print: boom") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

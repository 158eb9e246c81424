package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		args   []string
		env    string
		target string
	}{
		{nil, "", defaultAddr},
		{nil, "10.1.1.1", "10.1.1.1"},
		{[]string{"--ip", "10.2.2.2"}, "10.1.1.1", "10.2.2.2"},
		{[]string{"-i", "10.2.2.2", "-d", "serial:///dev/ttyUSB0"}, "", "serial:///dev/ttyUSB0"},
	}
	for _, tt := range tests {
		c, err := parseFlags(tt.args, func(string) string { return tt.env })
		if err != nil {
			t.Fatalf("parseFlags(%q): %v", tt.args, err)
		}
		if got := c.target(); got != tt.target {
			t.Errorf("parseFlags(%q) target = %q, want %q", tt.args, got, tt.target)
		}
	}
	if _, err := parseFlags([]string{"--timeout", "soon"}, func(string) string { return "" }); err == nil {
		t.Error("bad duration accepted")
	}
}

func TestRunOverTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			got <- nil
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(bufio.NewReader(conn))
		got <- data
	}()

	c := &config{device: "tcp://" + ln.Addr().String(), timeout: time.Second}
	if err := run(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	select {
	case data := <-got:
		if !bytes.HasPrefix(data, []byte("\x1b@")) {
			t.Errorf("job does not start with ESC @: %q", data[:min(len(data), 8)])
		}
		if !bytes.Contains(data, []byte("RECEIPT PRINTER TEST")) || !bytes.HasSuffix(data, []byte("\x1dVA0")) {
			t.Errorf("unexpected job, %d bytes", len(data))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("printer received nothing")
	}
}

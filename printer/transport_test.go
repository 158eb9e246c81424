package printer

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

type lpdJob struct {
	queue   string
	control string
	data    []byte
	err     error
}

// serveLPD plays the daemon side of one RFC 1179 "receive job".
func serveLPD(conn net.Conn, done chan<- lpdJob) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	var job lpdJob
	fail := func(err error) {
		job.err = err
		done <- job
	}

	line, err := r.ReadString('\n')
	if err != nil {
		fail(err)
		return
	}
	job.queue = strings.TrimSuffix(line[1:], "\n")
	conn.Write([]byte{0})

	for i := 0; i < 2; i++ {
		header, err := r.ReadString('\n')
		if err != nil {
			fail(err)
			return
		}
		size, _ := strconv.Atoi(strings.Fields(header[1:])[0])
		conn.Write([]byte{0})

		payload := make([]byte, size+1)
		if _, err := io.ReadFull(r, payload); err != nil {
			fail(err)
			return
		}
		if header[0] == 0x02 {
			job.control = string(payload[:size])
		} else {
			job.data = payload[:size]
		}
		conn.Write([]byte{0})
	}
	done <- job
}

func TestLPDTransportSubmitsJobOnClose(t *testing.T) {
	client, server := net.Pipe()
	done := make(chan lpdJob, 1)
	go serveLPD(server, done)

	p := newPrinter(NewLPDTransport(client, "raw"))
	if err := p.Init(); err != nil {
		t.Fatal(err)
	}
	if err := p.Cut(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case job := <-done:
		if job.err != nil {
			t.Fatalf("daemon: %v", job.err)
		}
		if job.queue != "raw" {
			t.Errorf("queue = %q, want raw", job.queue)
		}
		if !strings.Contains(job.control, "\nl") || !strings.HasPrefix(job.control, "H") {
			t.Errorf("control file = %q", job.control)
		}
		if want := []byte("\x1b@\x1dVA0"); !bytes.Equal(job.data, want) {
			t.Errorf("data = %q, want %q", job.data, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not receive the job")
	}
}

func TestLPDTransportWriteAfterClose(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	tr := NewLPDTransport(client, "")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Write([]byte("x")); err != io.ErrClosedPipe {
		t.Errorf("Write after Close = %v, want io.ErrClosedPipe", err)
	}
}

func TestLPDTransportNack(t *testing.T) {
	client, server := net.Pipe()
	go func() {
		defer server.Close()
		bufio.NewReader(server).ReadString('\n')
		server.Write([]byte{1})
	}()
	tr := NewLPDTransport(client, "lp")
	tr.AckTimeout = time.Second
	tr.Write([]byte("data"))
	if err := tr.Close(); err == nil || !strings.Contains(err.Error(), "stage 1") {
		t.Errorf("Close error = %v, want stage 1 failure", err)
	}
}

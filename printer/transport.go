package printer

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	logInternal "github.com/AlexStarov/escpos-landscape/log"
)

type Transport interface {
	Write([]byte) (int, error)
	Read([]byte) (int, error)
	Close() error
}

// -------------------- RAW --------------------

type RawTransport struct {
	conn io.ReadWriteCloser
}

func (r *RawTransport) Write(b []byte) (int, error) { return r.conn.Write(b) }
func (r *RawTransport) Read(b []byte) (int, error)  { return r.conn.Read(b) }
func (r *RawTransport) Close() error                { return r.conn.Close() }

// -------------------- LPD --------------------

// LPDTransport buffers the whole job and submits it as one RFC 1179 print job
// on Close.
type LPDTransport struct {
	conn   net.Conn
	queue  string
	jobBuf bytes.Buffer
	closed bool
	mu     sync.Mutex

	// AckTimeout bounds each wait for the daemon's acknowledgement byte.
	AckTimeout time.Duration
}

func NewLPDTransport(conn net.Conn, queue string) *LPDTransport {
	if queue == "" {
		queue = "lp"
	}
	return &LPDTransport{
		conn:       conn,
		queue:      queue,
		AckTimeout: 5 * time.Second,
	}
}

func (l *LPDTransport) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, io.ErrClosedPipe
	}
	return l.jobBuf.Write(data)
}

func (l *LPDTransport) Read(b []byte) (int, error) {
	return 0, fmt.Errorf("%w: read over LPD", ErrUnsupported)
}

func (l *LPDTransport) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true

	if l.jobBuf.Len() == 0 {
		return l.conn.Close()
	}

	logInternal.Debugf("LPD: submitting %d bytes to queue %q", l.jobBuf.Len(), l.queue)
	if err := l.flushJob(); err != nil {
		_ = l.conn.Close()
		return err
	}
	return l.conn.Close()
}

func (l *LPDTransport) flushJob() error {
	host, _ := os.Hostname()
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "escpos"
	}

	jobID := int(time.Now().UnixNano() % 1000)
	hostShort := host
	if i := strings.IndexByte(hostShort, '.'); i > 0 {
		hostShort = hostShort[:i]
	}
	jobName := fmt.Sprintf("escpos-%03d", jobID)
	cfName := fmt.Sprintf("cfA%03d%s", jobID, hostShort)
	dfName := fmt.Sprintf("dfA%03d%s", jobID, hostShort)

	// H host, P user, J job name, N source file name, l print the data file
	// without filtering control characters.
	control := fmt.Sprintf("H%s\nP%s\nJ%s\nN%s\nl%s\nU%s\n",
		host, user, jobName, dfName, dfName, dfName)

	if err := l.requestPrintJob(); err != nil {
		return fmt.Errorf("LPD: stage 1 failed: %w", err)
	}
	if err := l.sendSubcommand(0x02, cfName, []byte(control), "stage 2"); err != nil {
		return fmt.Errorf("LPD: stage 2 failed: %w", err)
	}
	if err := l.sendSubcommand(0x03, dfName, l.jobBuf.Bytes(), "stage 3"); err != nil {
		return fmt.Errorf("LPD: stage 3 failed: %w", err)
	}

	logInternal.Debugf("LPD: job %s accepted", jobName)
	l.jobBuf.Reset()
	return nil
}

// requestPrintJob sends "\x02<queue>\n".
func (l *LPDTransport) requestPrintJob() error {
	if err := writeAll(l.conn, append([]byte{0x02}, l.queue+"\n"...)); err != nil {
		return err
	}
	return l.readAck("stage 1")
}

// sendSubcommand sends "<code><size> <name>\n<payload>\x00".
func (l *LPDTransport) sendSubcommand(code byte, name string, payload []byte, stage string) error {
	header := append([]byte{code}, strconv.Itoa(len(payload))+" "+name+"\n"...)
	if err := writeAll(l.conn, header); err != nil {
		return err
	}
	if err := l.readAck(stage + " header"); err != nil {
		return err
	}
	if err := writeAll(l.conn, payload); err != nil {
		return err
	}
	if err := writeAll(l.conn, []byte{0x00}); err != nil {
		return err
	}
	return l.readAck(stage)
}

func (l *LPDTransport) readAck(stage string) error {
	_ = l.conn.SetReadDeadline(time.Now().Add(l.AckTimeout))
	defer l.conn.SetReadDeadline(time.Time{})

	ack := make([]byte, 1)
	n, err := l.conn.Read(ack)
	if err != nil {
		return fmt.Errorf("reading ACK on %s: %w", stage, err)
	}
	if n != 1 || ack[0] != 0x00 {
		return fmt.Errorf("LPD request not acknowledged on %s (0x%02x)", stage, ack[0])
	}
	return nil
}

func writeAll(conn net.Conn, b []byte) error {
	sent := 0
	for sent < len(b) {
		n, err := conn.Write(b[sent:])
		if err != nil {
			return err
		}
		sent += n
	}
	return nil
}

// -------------------- helpers --------------------

type nopCloser struct {
	io.ReadWriter
}

func (n nopCloser) Close() error { return nil }

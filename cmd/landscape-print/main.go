// landscape-print renders lines of text as an image turned on its side and
// prints it on an ESC/POS receipt printer.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/AlexStarov/escpos-landscape/job"
	"github.com/AlexStarov/escpos-landscape/landscape"
	logInternal "github.com/AlexStarov/escpos-landscape/log"
	"github.com/AlexStarov/escpos-landscape/printer"
)

const defaultAddr = "10.23.22.96"

var errNoText = errors.New("no text provided")

type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ", ") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

type config struct {
	addr        string
	device      string
	fontSize    int
	lineSpacing int
	texts       stringList
	file        string
	rotate      string
	fonts       stringList
	timeout     time.Duration
	logDir      string
	out         string
	verbose     bool
}

// target is the printer to open: --device wins over --ip.
func (c *config) target() string {
	if c.device != "" {
		return c.device
	}
	return c.addr
}

func (c *config) style() (landscape.Style, error) {
	rot, err := landscape.ParseRotation(c.rotate)
	if err != nil {
		return landscape.Style{}, err
	}
	s := landscape.Style{FontSize: c.fontSize, LineSpacing: c.lineSpacing, Rotation: rot}
	return s, s.Validate()
}

func parseFlags(args []string, getenv func(string) string) (*config, error) {
	c := &config{}
	fs := flag.NewFlagSet("landscape-print", flag.ContinueOnError)

	addr := defaultAddr
	if env := getenv("ESCPOS_PRINTER"); env != "" {
		addr = env
	}
	fs.StringVar(&c.addr, "i", addr, "printer address (host[:port])")
	fs.StringVar(&c.addr, "ip", addr, "printer address (host[:port])")
	fs.StringVar(&c.device, "d", "", "printer URI: tcp://, lpd://, serial://, usb://, spooler://")
	fs.StringVar(&c.device, "device", "", "printer URI: tcp://, lpd://, serial://, usb://, spooler://")
	fs.IntVar(&c.fontSize, "f", landscape.DefaultFontSize, "font size in pixels")
	fs.IntVar(&c.fontSize, "font-size", landscape.DefaultFontSize, "font size in pixels")
	fs.IntVar(&c.lineSpacing, "l", landscape.DefaultLineSpacing, "spacing between lines in pixels")
	fs.IntVar(&c.lineSpacing, "line-spacing", landscape.DefaultLineSpacing, "spacing between lines in pixels")
	fs.Var(&c.texts, "t", "line of text to print (repeatable)")
	fs.Var(&c.texts, "text", "line of text to print (repeatable)")
	fs.StringVar(&c.file, "file", "", "file with the text to print")
	fs.StringVar(&c.rotate, "rotate", "ccw", "rotation: ccw or cw")
	fs.Var(&c.fonts, "font", "system font to try before the bundled one (repeatable)")
	fs.DurationVar(&c.timeout, "timeout", 10*time.Second, "connection timeout")
	fs.StringVar(&c.logDir, "log-dir", "", "directory for log files")
	fs.StringVar(&c.out, "out", "", "write the PNG here instead of printing")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}
	return c, nil
}

// readLines reads until the first blank line or EOF.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// collectLines picks the text source: --text, then --file, then stdin.
func collectLines(c *config, stdin io.Reader, prompt io.Writer) ([]string, error) {
	if len(c.texts) > 0 {
		return c.texts, nil
	}
	if c.file != "" {
		data, err := os.ReadFile(c.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c.file, err)
		}
		s := strings.ReplaceAll(string(data), "\r\n", "\n")
		return strings.Split(strings.TrimSuffix(s, "\n"), "\n"), nil
	}

	if prompt != nil {
		fmt.Fprintln(prompt, "Enter your text line by line. Enter a blank line to finish:")
	}
	lines, err := readLines(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(lines) == 0 {
		return nil, errNoText
	}
	return lines, nil
}

func run(ctx context.Context, c *config, lines []string) error {
	style, err := c.style()
	if err != nil {
		return err
	}
	r := landscape.NewRenderer(c.fonts...)

	if c.out != "" {
		if err := job.WriteImage(c.out, lines, style, r); err != nil {
			return err
		}
		logInternal.Infof("image written to %s", c.out)
		return nil
	}

	p, err := printer.Open(c.target(), c.timeout)
	if err != nil {
		return fmt.Errorf("open printer %s: %w", c.target(), err)
	}

	err = job.Print(ctx, p, lines, style, job.Options{Renderer: r})
	// LPD submits the job on close
	if cerr := p.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close printer: %w", cerr)
	}
	return err
}

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	c, err := parseFlags(args, os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := logInternal.Setup(c.logDir, c.verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var prompt io.Writer
	if term.IsTerminal(int(os.Stdin.Fd())) {
		prompt = os.Stdout
	}
	lines, err := collectLines(c, os.Stdin, prompt)
	if errors.Is(err, errNoText) {
		fmt.Println("No text provided. Exiting.")
		return 1
	}
	if err != nil {
		logInternal.PrintIfErr("landscape-print", &err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, c, lines); err != nil {
		logInternal.PrintIfErr("failed to print text", &err)
		return 1
	}
	if c.out == "" {
		logInternal.Infof("text printed in landscape orientation on %s", c.target())
	}
	return 0
}

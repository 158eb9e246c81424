// printer-test prints the self-test page: text styles, alignment, barcodes,
// a QR code and a raster image.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/AlexStarov/escpos-landscape/diagnostic"
	logInternal "github.com/AlexStarov/escpos-landscape/log"
	"github.com/AlexStarov/escpos-landscape/printer"
)

const defaultAddr = "10.23.22.96"

type config struct {
	addr    string
	device  string
	timeout time.Duration
	logDir  string
	verbose bool
}

func (c *config) target() string {
	if c.device != "" {
		return c.device
	}
	return c.addr
}

func parseFlags(args []string, getenv func(string) string) (*config, error) {
	c := &config{}
	fs := flag.NewFlagSet("printer-test", flag.ContinueOnError)

	addr := defaultAddr
	if env := getenv("ESCPOS_PRINTER"); env != "" {
		addr = env
	}
	fs.StringVar(&c.addr, "i", addr, "printer address (host[:port])")
	fs.StringVar(&c.addr, "ip", addr, "printer address (host[:port])")
	fs.StringVar(&c.device, "d", "", "printer URI: tcp://, lpd://, serial://, usb://, spooler://")
	fs.StringVar(&c.device, "device", "", "printer URI: tcp://, lpd://, serial://, usb://, spooler://")
	fs.DurationVar(&c.timeout, "timeout", 10*time.Second, "connection timeout")
	fs.StringVar(&c.logDir, "log-dir", "", "directory for log files")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}
	return c, nil
}

func run(ctx context.Context, c *config) (err error) {
	logInternal.Infof("connecting to printer at %s...", c.target())
	p, err := printer.Open(c.target(), c.timeout)
	if err != nil {
		return fmt.Errorf("open printer %s: %w", c.target(), err)
	}
	defer func() {
		if cerr := p.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close printer: %w", cerr)
		}
	}()

	if err := p.Init(); err != nil {
		return err
	}
	return diagnostic.Run(ctx, p, time.Now())
}

func main() {
	c, err := parseFlags(os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if err := logInternal.Setup(c.logDir, c.verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, c); err != nil {
		logInternal.PrintIfErr("printer test", &err)
		stop()
		os.Exit(1)
	}
	logInternal.Infof("test completed successfully")
}

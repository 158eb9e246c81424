// Package job prints text as a landscape image: render, write a temporary
// PNG, hand it to the printer, cut, clean up.
package job

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/AlexStarov/escpos-landscape/landscape"
	logInternal "github.com/AlexStarov/escpos-landscape/log"
)

// Stage sentinels, matched with errors.Is.
var (
	ErrRender   = errors.New("render")
	ErrWrite    = errors.New("write image")
	ErrAlign    = errors.New("select alignment")
	ErrTransmit = errors.New("transmit image")
	ErrCut      = errors.New("cut paper")
)

// StageError records which step of a print job failed.
type StageError struct {
	Stage error
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%v: %v", e.Stage, e.Err) }

// Unwrap exposes both the stage sentinel and the cause.
func (e *StageError) Unwrap() []error { return []error{e.Stage, e.Err} }

func fail(stage, err error) error { return &StageError{Stage: stage, Err: err} }

// Client is the part of the printer a job drives.
type Client interface {
	SetAlign(align string) error
	PrintImage(path string) error
	Cut() error
}

// Options tune a job. The zero value is usable.
type Options struct {
	// TempDir holds the intermediate PNG; os.TempDir when empty.
	TempDir string
	// Renderer overrides the default font chain.
	Renderer *landscape.Renderer
}

// Print renders lines and prints them on client in landscape orientation.
func Print(ctx context.Context, client Client, lines []string, style landscape.Style, opts Options) error {
	r := opts.Renderer
	if r == nil {
		r = landscape.NewRenderer()
	}

	img, err := r.Render(lines, style)
	if err != nil {
		return fail(ErrRender, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(ErrWrite, err)
	}

	path, err := writeTemp(opts.TempDir, img)
	if err != nil {
		return fail(ErrWrite, err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logInternal.Warnf("remove %s: %v", path, err)
		}
	}()
	logInternal.Debugf("job: %d lines -> %s (%v)", len(lines), path, img.Bounds().Size())

	steps := []struct {
		stage error
		run   func() error
	}{
		{ErrAlign, func() error { return client.SetAlign("left") }},
		{ErrTransmit, func() error { return client.PrintImage(path) }},
		{ErrCut, client.Cut},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return fail(s.stage, err)
		}
		if err := s.run(); err != nil {
			return fail(s.stage, err)
		}
	}
	return nil
}

// WriteImage renders lines to a PNG file at path without printing.
func WriteImage(path string, lines []string, style landscape.Style, r *landscape.Renderer) error {
	if r == nil {
		r = landscape.NewRenderer()
	}
	img, err := r.Render(lines, style)
	if err != nil {
		return fail(ErrRender, err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fail(ErrWrite, err)
	}
	return nil
}

func writeTemp(dir string, img *image.NRGBA) (string, error) {
	f, err := os.CreateTemp(dir, "landscape-*.png")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

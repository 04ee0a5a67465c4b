// Command wlinfo lists the globals a compositor advertises, with details
// for outputs and shared memory formats.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/bnema/wlclient"
)

type global struct {
	Name      uint32 `yaml:"name"`
	Interface string `yaml:"interface"`
	Version   uint32 `yaml:"version"`
}

type mode struct {
	Width     int32   `yaml:"width"`
	Height    int32   `yaml:"height"`
	RefreshHz float64 `yaml:"refresh_hz"`
	Flags     string  `yaml:"flags"`
}

type output struct {
	Global      uint32   `yaml:"global"`
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Make        string   `yaml:"make"`
	Model       string   `yaml:"model"`
	X           int32    `yaml:"x"`
	Y           int32    `yaml:"y"`
	PhysicalMM  [2]int32 `yaml:"physical_mm,flow"`
	Subpixel    string   `yaml:"subpixel"`
	Transform   string   `yaml:"transform"`
	Scale       int32    `yaml:"scale"`
	Modes       []mode   `yaml:"modes"`
}

type report struct {
	Globals    []global  `yaml:"globals"`
	Outputs    []*output `yaml:"outputs,omitempty"`
	ShmFormats []string  `yaml:"shm_formats,omitempty"`
}

func main() {
	var (
		display = flag.String("display", "", "socket `name` or path, defaults to $WAYLAND_DISPLAY")
		format  = flag.String("format", "yaml", "output `format`: yaml or text")
		timeout = flag.Duration("timeout", 5*time.Second, "give up after `duration`")
		debug   = flag.Bool("debug", false, "trace protocol messages to stderr")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	log := logrus.New()
	opts := []wlclient.Option{wlclient.WithLogger(log)}
	if *debug {
		opts = append(opts, wlclient.WithDebug(true))
	}
	d, err := wlclient.Connect(*display, opts...)
	if err != nil {
		log.WithError(err).Fatal("connect failed")
	}

	r, err := run(ctx, d)
	_ = d.Close()
	if err != nil {
		log.WithError(err).Fatal("query failed")
	}

	switch *format {
	case "yaml":
		err = writeYAML(os.Stdout, r)
	case "text":
		err = writeText(os.Stdout, r)
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		log.WithError(err).Fatal("output failed")
	}
}

// run collects the report, closing the display if ctx ends first so the
// blocked dispatch returns.
func run(ctx context.Context, d *wlclient.Display) (*report, error) {
	var r *report
	done := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		var err error
		r, err = collect(d)
		return err
	})
	g.Go(func() error {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			_ = d.Close()
			return ctx.Err()
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

func collect(d *wlclient.Display) (*report, error) {
	reg, err := d.GetRegistry()
	if err != nil {
		return nil, err
	}
	globals, err := wlclient.WatchGlobals(reg, nil)
	if err != nil {
		return nil, err
	}
	if err := d.Roundtrip(); err != nil {
		return nil, err
	}

	r := &report{}
	for _, gl := range globals.All() {
		r.Globals = append(r.Globals, global{Name: gl.Name, Interface: gl.Interface, Version: gl.Version})
		switch gl.Interface {
		case wlclient.OutputInterface.Name:
			o, err := wlclient.BindGlobal[wlclient.Output](reg, gl, 0)
			if err != nil {
				return nil, err
			}
			info := &output{Global: gl.Name, Scale: 1}
			r.Outputs = append(r.Outputs, info)
			if err := o.SetHandler(info.handle); err != nil {
				return nil, err
			}
		case wlclient.ShmInterface.Name:
			shm, err := wlclient.BindGlobal[wlclient.Shm](reg, gl, 1)
			if err != nil {
				return nil, err
			}
			err = shm.SetHandler(func(ev wlclient.ShmEvent) {
				if ev, ok := ev.(wlclient.ShmFormatEvent); ok {
					r.ShmFormats = append(r.ShmFormats, ev.Format.String())
				}
			})
			if err != nil {
				return nil, err
			}
		}
	}
	if err := d.Roundtrip(); err != nil {
		return nil, err
	}
	return r, nil
}

func (o *output) handle(ev wlclient.OutputEvent) {
	switch ev := ev.(type) {
	case wlclient.OutputGeometryEvent:
		o.X, o.Y = ev.X, ev.Y
		o.PhysicalMM = [2]int32{ev.PhysicalWidth, ev.PhysicalHeight}
		o.Make, o.Model = ev.Make, ev.Model
		o.Subpixel = ev.Subpixel.String()
		o.Transform = ev.Transform.String()
	case wlclient.OutputModeEvent:
		o.Modes = append(o.Modes, mode{
			Width:     ev.Width,
			Height:    ev.Height,
			RefreshHz: float64(ev.Refresh) / 1000,
			Flags:     ev.Flags.String(),
		})
	case wlclient.OutputScaleEvent:
		o.Scale = ev.Factor
	case wlclient.OutputNameEvent:
		o.Name = ev.Name
	case wlclient.OutputDescriptionEvent:
		o.Description = ev.Description
	}
}

func writeYAML(w io.Writer, r *report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func writeText(w io.Writer, r *report) error {
	for _, g := range r.Globals {
		if _, err := fmt.Fprintf(w, "%4d  %-40s v%d\n", g.Name, g.Interface, g.Version); err != nil {
			return err
		}
	}
	for _, o := range r.Outputs {
		fmt.Fprintf(w, "\noutput %d %s (%s %s) at %d,%d scale %d %s\n", o.Global, o.Name, o.Make, o.Model, o.X, o.Y, o.Scale, o.Transform)
		for _, m := range o.Modes {
			fmt.Fprintf(w, "  %dx%d@%.3f %s\n", m.Width, m.Height, m.RefreshHz, m.Flags)
		}
	}
	if len(r.ShmFormats) > 0 {
		fmt.Fprintf(w, "\nshm formats:")
		for _, f := range r.ShmFormats {
			fmt.Fprintf(w, " %s", f)
		}
		fmt.Fprintln(w)
	}
	return nil
}

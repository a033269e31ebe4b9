package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/trailpace/internal/export"
	"github.com/julianstephens/trailpace/internal/simulator"
)

type ExportGeoJSONCmd struct {
	GPX    string   `arg:"" help:"GPX track file." type:"existingfile"`
	Output string   `short:"o" help:"Output file, stdout when empty." type:"path"`
	Flags  RunFlags `embed:""`
	Course bool     `help:"Export only the course line without simulating."`
}

func (c *ExportGeoJSONCmd) Run(ctx *Context) error {
	profile, err := ctx.runnerProfile(c.Flags)
	if err != nil {
		return err
	}
	trk, course, err := ctx.loadCourse(c.GPX, profile, false)
	if err != nil {
		return err
	}

	var res *simulator.Result
	if !c.Course {
		in, err := simulator.InputFromProfile(profile, course)
		if err != nil {
			return err
		}
		if res, err = ctx.session().Run(in); err != nil {
			return err
		}
	}

	name := trk.Name
	if name == "" {
		name = trk.FileName
	}
	fc, err := export.GeoJSON(name, course, res)
	if err != nil {
		return err
	}
	return ctx.writeOutput(c.Output, func(w io.Writer) error {
		return export.WriteGeoJSON(w, fc)
	})
}

type ExportJSONCmd struct {
	GPX    string   `arg:"" help:"GPX track file." type:"existingfile"`
	Output string   `short:"o" help:"Output file, stdout when empty." type:"path"`
	Flags  RunFlags `embed:""`
}

func (c *ExportJSONCmd) Run(ctx *Context) error {
	profile, err := ctx.runnerProfile(c.Flags)
	if err != nil {
		return err
	}
	_, course, err := ctx.loadCourse(c.GPX, profile, false)
	if err != nil {
		return err
	}
	in, err := simulator.InputFromProfile(profile, course)
	if err != nil {
		return err
	}
	res, err := ctx.session().Run(in)
	if err != nil {
		return err
	}
	return ctx.writeOutput(c.Output, func(w io.Writer) error {
		return export.WriteJSON(w, res)
	})
}

func (c *Context) writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(c.out())
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	c.printf("Wrote %s\n", path)
	return nil
}

package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/salmonumbrella/xmlcsv/internal/markup"
	"github.com/salmonumbrella/xmlcsv/internal/table"
)

// Direction names which way a conversion runs.
type Direction string

const (
	// DirectionExport converts markup into a table.
	DirectionExport Direction = "export"
	// DirectionImport converts a table into markup.
	DirectionImport Direction = "import"
)

// StdioPath selects stdin for an input or stdout for an output.
const StdioPath = "-"

// DetectDirection picks a direction from the input file extension.
func DetectDirection(input string) (Direction, error) {
	switch ext := strings.ToLower(filepath.Ext(input)); ext {
	case ".xml":
		return DirectionExport, nil
	case ".csv":
		return DirectionImport, nil
	default:
		return "", fmt.Errorf("cannot infer conversion from extension %q (expected .xml or .csv)", ext)
	}
}

// Options tunes the conversion.
type Options struct {
	Strict  bool `json:"strict" yaml:"strict"`
	PadRows bool `json:"pad_rows" yaml:"pad_rows"`
}

// Request describes one file-to-file conversion.
type Request struct {
	Input  string
	Output string
	Options
}

// Report summarizes a conversion.
type Report struct {
	// ID identifies one conversion in logs and HTTP responses.
	ID        string    `json:"id" yaml:"id"`
	Direction Direction `json:"direction" yaml:"direction"`
	Input     string    `json:"input,omitempty" yaml:"input,omitempty"`
	Output    string    `json:"output,omitempty" yaml:"output,omitempty"`
	Terms     int       `json:"terms" yaml:"terms"`
	Nodes     int       `json:"nodes" yaml:"nodes"`
	Columns   int       `json:"columns" yaml:"columns"`
	Rows      int       `json:"rows" yaml:"rows"`
	Bytes     int       `json:"bytes" yaml:"bytes"`
	Written   bool      `json:"written" yaml:"written"`

	// Content is the rendered output.
	Content string `json:"-" yaml:"-"`
}

// Converter runs conversions and reports their progress. A Converter
// holds no per-conversion state and may be shared.
type Converter struct {
	notify Notifier
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

// New creates a Converter. A nil notifier discards notifications and a
// nil logger discards log records.
func New(notify Notifier, log *slog.Logger) *Converter {
	if notify == nil {
		notify = Nop{}
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{notify: notify, log: log, stdin: os.Stdin, stdout: os.Stdout}
}

// WithStdio sets the streams used for the "-" path.
func (c *Converter) WithStdio(in io.Reader, out io.Writer) *Converter {
	cp := *c
	cp.stdin = in
	cp.stdout = out
	return &cp
}

// ExportText converts markup text into tabular text.
func (c *Converter) ExportText(content string, opts Options) (*Report, error) {
	terms, err := markup.Lex(content)
	if err != nil {
		return nil, fmt.Errorf("lexical analysis failed: %w", err)
	}
	c.notify.Info("Completed lexical analysis")

	tree, err := markup.Parse(terms, markup.ParseOptions{Strict: opts.Strict})
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	c.notify.Info("Completed parsing")

	tbl := table.Project(tree, table.ProjectOptions{PadRows: opts.PadRows})
	out := tbl.Render()
	c.notify.Info("Completed CSV formatting")

	c.log.Debug("exported document",
		"terms", len(terms),
		"nodes", tree.Len(),
		"columns", len(tbl.Headers),
		"rows", len(tbl.Rows),
	)

	return &Report{
		ID:        uuid.NewString(),
		Direction: DirectionExport,
		Terms:     len(terms),
		Nodes:     tree.Len(),
		Columns:   len(tbl.Headers),
		Rows:      len(tbl.Rows),
		Bytes:     len(out),
		Content:   out,
	}, nil
}

// ImportText converts tabular text into markup text.
func (c *Converter) ImportText(content string, _ Options) (*Report, error) {
	tree, err := table.Ingest(content)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV failed: %w", err)
	}

	terms, err := markup.Serialize(tree)
	if err != nil {
		return nil, fmt.Errorf("serializing failed: %w", err)
	}
	c.notify.Info("Completed XML reverse parsing")

	out := markup.Render(terms)
	c.notify.Info("Completed XML formatting")

	inner := tree.Children(tree.Root())[0]
	rows := tree.Children(inner)
	columns := 0
	if len(rows) > 0 {
		columns = len(tree.Children(rows[0]))
	}

	c.log.Debug("imported table",
		"rows", len(rows),
		"columns", columns,
		"terms", len(terms),
	)

	return &Report{
		ID:        uuid.NewString(),
		Direction: DirectionImport,
		Terms:     len(terms),
		Nodes:     tree.Len(),
		Columns:   columns,
		Rows:      len(rows),
		Bytes:     len(out),
		Content:   out,
	}, nil
}

// Export reads markup from req.Input and writes a table to req.Output.
func (c *Converter) Export(ctx context.Context, req Request) (*Report, error) {
	return c.run(ctx, req, DirectionExport)
}

// Import reads a table from req.Input and writes markup to req.Output.
func (c *Converter) Import(ctx context.Context, req Request) (*Report, error) {
	return c.run(ctx, req, DirectionImport)
}

// Convert runs the conversion implied by the input file extension.
func (c *Converter) Convert(ctx context.Context, req Request) (*Report, error) {
	dir, err := DetectDirection(req.Input)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, req, dir)
}

func (c *Converter) run(ctx context.Context, req Request, dir Direction) (*Report, error) {
	if err := validatePaths(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inFormat, outFormat := "XML", "CSV"
	convert := c.ExportText
	if dir == DirectionImport {
		inFormat, outFormat = "CSV", "XML"
		convert = c.ImportText
	}

	log := c.log.With("direction", string(dir), "input", req.Input, "output", req.Output)

	content, err := c.read(req.Input, inFormat)
	if err != nil {
		log.DebugContext(ctx, "read failed", "error", err)
		return nil, err
	}

	report, err := convert(content, req.Options)
	if err != nil {
		log.DebugContext(ctx, "conversion failed", "error", err)
		return nil, err
	}
	report.Input = req.Input
	report.Output = req.Output

	if err := c.write(req.Output, outFormat, report.Content); err != nil {
		c.notify.Error(err.Error())
		return report, err
	}
	report.Written = true
	c.notify.Info(outFormat + " File written successfully")
	log.InfoContext(ctx, "conversion complete", "id", report.ID, "bytes", report.Bytes)

	return report, nil
}

func validatePaths(req Request) error {
	if strings.TrimSpace(req.Input) == "" {
		return ArgumentError{Message: "Please select an input file!"}
	}
	if strings.TrimSpace(req.Output) == "" {
		return ArgumentError{Message: "Please select an output file!"}
	}
	return nil
}

func (c *Converter) read(path, format string) (string, error) {
	var r io.Reader
	if path == StdioPath {
		r = c.stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return "", &ReadError{Path: path, Format: format, Err: err}
		}
		defer file.Close()
		r = file
		c.notify.Info("File opened successfully")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &ReadError{Path: path, Format: format, Err: err}
	}
	c.notify.Info("File read successfully")
	return string(data), nil
}

func (c *Converter) write(path, format, content string) error {
	if path == StdioPath {
		if _, err := io.WriteString(c.stdout, content); err != nil {
			return &WriteError{Path: path, Format: format, Op: "write", Err: err}
		}
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Format: format, Op: "create", Err: err}
	}
	if _, err := io.WriteString(file, content); err != nil {
		_ = file.Close()
		return &WriteError{Path: path, Format: format, Op: "write", Err: err}
	}
	if err := file.Close(); err != nil {
		return &WriteError{Path: path, Format: format, Op: "write", Err: err}
	}
	return nil
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/salmonumbrella/xmlcsv/internal/convert"
	"github.com/salmonumbrella/xmlcsv/internal/markup"
)

const peopleXML = `<?xml version="1.0"?>
<people>
  <person><name>Alice</name><age>30</age></person>
  <person><name>Bob</name><age>25</age></person>
</people>
`

type cliRun struct {
	out *bytes.Buffer
	err *bytes.Buffer
	in  *bytes.Buffer
}

// setupCLI points the root command at in-memory streams and an empty
// config file. The returned func restores global state.
func setupCLI(t *testing.T, stdin string) (*cliRun, string) {
	t.Helper()
	restore := snapshotCLIState()
	t.Cleanup(restore)

	run := &cliRun{out: &bytes.Buffer{}, err: &bytes.Buffer{}, in: bytes.NewBufferString(stdin)}
	rootCmd.SetOut(run.out)
	rootCmd.SetErr(run.err)
	rootCmd.SetIn(run.in)
	rootCmd.SetContext(withIO(context.Background(), run.in, run.out, run.err))

	prevEnvGet := envGet
	envGet = func(key string) string { return "" }
	t.Cleanup(func() { envGet = prevEnvGet })

	return run, filepath.Join(t.TempDir(), "config.yaml")
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCLIHarnessExportJSON(t *testing.T) {
	run, cfgPath := setupCLI(t, "")
	in := writeTempFile(t, "people.xml", peopleXML)
	out := filepath.Join(t.TempDir(), "people.csv")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "export", in, out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "name,age\nAlice,30\nBob,25\n" {
		t.Fatalf("unexpected csv: %q", data)
	}

	var report struct {
		Direction string `json:"direction"`
		Rows      int    `json:"rows"`
		Columns   int    `json:"columns"`
		Written   bool   `json:"written"`
		Output    string `json:"output"`
	}
	if err := json.Unmarshal(run.out.Bytes(), &report); err != nil {
		t.Fatalf("parse output: %v\n%s", err, run.out.String())
	}
	if report.Direction != "export" || report.Rows != 2 || report.Columns != 2 || !report.Written || report.Output != out {
		t.Fatalf("unexpected report: %+v", report)
	}
	// structured output to a pipe defaults to quiet
	if run.err.Len() != 0 {
		t.Fatalf("expected empty stderr, got %q", run.err.String())
	}
}

func TestCLIHarnessImportText(t *testing.T) {
	run, cfgPath := setupCLI(t, "")
	in := writeTempFile(t, "people.csv", "name,age\nAlice,30\nBob,25\n")
	out := filepath.Join(t.TempDir(), "people.xml")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "text", "import", in, out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), markup.Declaration+"<root2>\n  <element>\n    <name>Alice</name>") {
		t.Fatalf("unexpected xml:\n%s", data)
	}

	if want := "Wrote 2 rows, 2 columns to " + out + "\n"; run.out.String() != want {
		t.Fatalf("stdout = %q, want %q", run.out.String(), want)
	}
	for _, msg := range []string{"File opened successfully", "Completed XML reverse parsing", "XML File written successfully"} {
		if !strings.Contains(run.err.String(), msg) {
			t.Fatalf("expected %q on stderr, got %q", msg, run.err.String())
		}
	}
}

func TestCLIHarnessStdio(t *testing.T) {
	run, cfgPath := setupCLI(t, "<a><x>1</x><y>2</y></a>")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--quiet", "export", "-", "-"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if run.out.String() != "x,y\n1,2\n" {
		t.Fatalf("unexpected stdout: %q", run.out.String())
	}
}

func TestCLIHarnessConfigDefaults(t *testing.T) {
	run, cfgPath := setupCLI(t, "<a><r><x>1</x><y>2</y></r><r><y>3</y></r></a>")
	if err := os.WriteFile(cfgPath, []byte("strict: true\npad_rows: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	rootCmd.SetArgs([]string{"--config", cfgPath, "--quiet", "export", "-", "-"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if run.out.String() != "x,y\n1,2\n,3\n" {
		t.Fatalf("expected padded rows from config, got %q", run.out.String())
	}
}

func TestCLIHarnessQuery(t *testing.T) {
	run, cfgPath := setupCLI(t, "")
	in := writeTempFile(t, "people.xml", peopleXML)
	out := filepath.Join(t.TempDir(), "people.csv")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "--query", ".rows", "convert", in, out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(run.out.String()) != "2" {
		t.Fatalf("expected query result 2, got %q", run.out.String())
	}
}

func TestCLIHarnessErrorEnvelope(t *testing.T) {
	run, cfgPath := setupCLI(t, "")
	in := writeTempFile(t, "bad.xml", "<a></b>")
	out := filepath.Join(t.TempDir(), "bad.csv")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "export", in, out})
	err := Execute()
	if err == nil {
		t.Fatal("expected error")
	}
	var treeErr *markup.TreeError
	if !errors.As(err, &treeErr) {
		t.Fatalf("expected *markup.TreeError, got %T", err)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(run.err.Bytes(), &envelope); err != nil {
		t.Fatalf("parse stderr: %v\n%s", err, run.err.String())
	}
	if envelope.Error.Type != "tree" || !strings.Contains(envelope.Error.Message, "expected <a>") {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file, stat err = %v", statErr)
	}
}

func TestCLIHarnessReadErrorTypeMatchesAcrossCommands(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.xml")

	tests := []struct {
		name string
		args []string
	}{
		{"export", []string{"export", missing, filepath.Join(t.TempDir(), "o.csv")}},
		{"terms", []string{"terms", missing}},
		{"tree", []string{"tree", missing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, cfgPath := setupCLI(t, "")
			rootCmd.SetArgs(append([]string{"--config", cfgPath, "--output", "json"}, tt.args...))
			if err := Execute(); err == nil {
				t.Fatal("expected error")
			}

			var envelope struct {
				Error struct {
					Type     string `json:"type"`
					Category string `json:"category"`
				} `json:"error"`
			}
			if err := json.Unmarshal(run.err.Bytes(), &envelope); err != nil {
				t.Fatalf("parse stderr: %v\n%s", err, run.err.String())
			}
			if envelope.Error.Type != "io_read" || envelope.Error.Category != "system" {
				t.Fatalf("unexpected envelope: %+v", envelope)
			}
		})
	}
}

func TestCLIHarnessMissingArguments(t *testing.T) {
	run, cfgPath := setupCLI(t, "")
	in := writeTempFile(t, "doc.xml", "<a><x>1</x></a>")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"export"}, "Please select an input file!"},
		{[]string{"import", in}, "Please select an output file!"},
	}

	for _, tt := range tests {
		run.err.Reset()
		rootCmd.SetArgs(append([]string{"--config", cfgPath, "--output", "text"}, tt.args...))
		err := Execute()
		var argErr convert.ArgumentError
		if !errors.As(err, &argErr) {
			t.Fatalf("%v: expected ArgumentError, got %v", tt.args, err)
		}
		if strings.TrimSpace(run.err.String()) != tt.want {
			t.Fatalf("%v: stderr = %q, want %q", tt.args, run.err.String(), tt.want)
		}
	}
}

func TestCLIHarnessTerms(t *testing.T) {
	run, cfgPath := setupCLI(t, "<a>hi</a>")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "terms", "-"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var views []markup.TermView
	if err := json.Unmarshal(run.out.Bytes(), &views); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	want := []markup.TermView{
		{Index: 0, Kind: "opening_tag", Value: "a"},
		{Index: 1, Kind: "text", Value: "hi"},
		{Index: 2, Kind: "closing_tag", Value: "a"},
	}
	if len(views) != len(want) {
		t.Fatalf("expected %d terms, got %+v", len(want), views)
	}
	for i := range want {
		if views[i] != want[i] {
			t.Fatalf("term %d = %+v, want %+v", i, views[i], want[i])
		}
	}
}

func TestCLIHarnessTreeText(t *testing.T) {
	run, cfgPath := setupCLI(t, "<a><x>1</x></a>")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "text", "tree", "-"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if want := "root\n  a\n    x = \"1\"\n"; run.out.String() != want {
		t.Fatalf("tree output = %q, want %q", run.out.String(), want)
	}
}

func TestCLIHarnessTreeFromCSV(t *testing.T) {
	run, cfgPath := setupCLI(t, "")
	in := writeTempFile(t, "t.csv", "a\n1\n")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "tree", in})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var nodes []treeNode
	if err := json.Unmarshal(run.out.Bytes(), &nodes); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(nodes) != 4 {
		t.Fatalf("expected root, root2, element, a; got %+v", nodes)
	}
	leaf := nodes[3]
	if leaf.Name != "a" || leaf.Data != "1" || leaf.Path != "element/a" || leaf.Depth != 3 {
		t.Fatalf("unexpected leaf: %+v", leaf)
	}
}

func TestCLIHarnessServe(t *testing.T) {
	_, cfgPath := setupCLI(t, "")
	if err := os.WriteFile(cfgPath, []byte("listen_addr: \":9999\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var gotAddr string
	prevListen := listenAndServe
	listenAndServe = func(srv *http.Server) error {
		gotAddr = srv.Addr
		return http.ErrServerClosed
	}
	defer func() { listenAndServe = prevListen }()

	rootCmd.SetArgs([]string{"--config", cfgPath, "serve"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotAddr != ":9999" {
		t.Fatalf("expected config listen address, got %q", gotAddr)
	}

	rootCmd.SetArgs([]string{"--config", cfgPath, "serve", "--addr", "127.0.0.1:0"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotAddr != "127.0.0.1:0" {
		t.Fatalf("expected flag listen address, got %q", gotAddr)
	}
}

func snapshotCLIState() func() {
	prevOutputFmt := outputFmt
	prevOutputType := outputType
	prevDebug := debug
	prevConfig := configFile
	prevQueryExpr := queryExpr
	prevQueryFile := queryFile
	prevErrorFmt := errorFmt
	prevQuiet := quietFlag
	prevStrict := strictFlag
	prevPad := padFlag
	prevTreeStrict := treeStrict
	prevListenAddr := listenAddr
	prevRuntimeConfig := runtimeConfig

	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()
	prevCtx := rootCmd.Context()

	return func() {
		outputFmt = prevOutputFmt
		outputType = prevOutputType
		debug = prevDebug
		configFile = prevConfig
		queryExpr = prevQueryExpr
		queryFile = prevQueryFile
		errorFmt = prevErrorFmt
		quietFlag = prevQuiet
		strictFlag = prevStrict
		padFlag = prevPad
		treeStrict = prevTreeStrict
		listenAddr = prevListenAddr
		runtimeConfig = prevRuntimeConfig

		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
		rootCmd.SetContext(prevCtx)
		rootCmd.SetArgs(nil)
		resetFlagChanges(rootCmd)
	}
}

func resetFlagChanges(c *cobra.Command) {
	if c == nil {
		return
	}
	reset := func(f *pflag.Flag) { f.Changed = false }
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.InheritedFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlagChanges(sub)
	}
}

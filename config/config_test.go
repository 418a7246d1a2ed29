package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func parse(t *testing.T, args ...string) *Options {
	t.Helper()
	o := &Options{}
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	return o
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(fname, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestDefaults(t *testing.T) {
	o := parse(t)
	if err := o.UpdateFromConfig(); err != nil {
		t.Fatal(err)
	}
	if o.OutputDir != "." || o.Connection != "" || !o.Validate() {
		t.Errorf("unexpected defaults %#v", o)
	}
	if errs := o.Check(); len(errs) != 0 {
		t.Error(errs)
	}
}

func TestUpdateFromConfig(t *testing.T) {
	dir := t.TempDir()
	conf := writeConfig(t, `{
		"connection": "sqlite://`+filepath.Join(dir, "dublin.db")+`",
		"outputdir": "/tmp/csv",
		"queries": "queries.yml",
		"validate": false,
		"metrics_addr": "localhost:9100"
	}`)

	o := parse(t, "--config", conf)
	if err := o.UpdateFromConfig(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(o.Connection, "sqlite://") {
		t.Error(o.Connection)
	}
	if o.OutputDir != "/tmp/csv" || o.QueriesFile != "queries.yml" || o.MetricsAddr != "localhost:9100" {
		t.Errorf("config not applied %#v", o)
	}
	if o.Validate() {
		t.Error("validate should be disabled")
	}

	// command line wins
	o = parse(t, "--config", conf, "-o", "out", "--connection", "postgres://localhost/osm", "--queries", "q.yml")
	if err := o.UpdateFromConfig(); err != nil {
		t.Fatal(err)
	}
	if o.OutputDir != "out" || o.Connection != "postgres://localhost/osm" || o.QueriesFile != "q.yml" {
		t.Errorf("command line overwritten %#v", o)
	}
}

func TestUpdateFromConfigErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		config string
	}{
		{"invalid json", `{"connection": `},
		{"unknown field", `{"mapping": "foo.yml"}`},
		{"wrong type", `{"validate": "yes"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			o := parse(t, "--config", writeConfig(t, tc.config))
			if err := o.UpdateFromConfig(); err == nil {
				t.Error("expected error")
			}
		})
	}

	o := parse(t, "--config", filepath.Join(t.TempDir(), "missing.json"))
	if err := o.UpdateFromConfig(); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestCheck(t *testing.T) {
	o := &Options{
		Connection:  "mysql://localhost",
		SchemaFile:  filepath.Join(t.TempDir(), "missing.yml"),
		MetricsAddr: "9100",
	}
	errs := o.Check()
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %v", errs)
	}

	buf := &bytes.Buffer{}
	ReportErrors(buf, errs)
	out := buf.String()
	for _, want := range []string{"errors in config/options:", "missing outputdir", "unsupported connection", "schema file", "metrics-addr"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q not in %q", want, out)
		}
	}

	for _, conn := range []string{"sqlite://foo.db", "sqlite:foo.db", "postgres://localhost/osm", "postgresql://localhost/osm"} {
		o := &Options{OutputDir: ".", Connection: conn}
		if errs := o.Check(); len(errs) != 0 {
			t.Error(conn, errs)
		}
	}
}

func TestDBConnection(t *testing.T) {
	o := &Options{OutputDir: "out"}
	if c := o.DBConnection(); c != "sqlite://out/dublin.db" {
		t.Error(c)
	}
	o.Connection = "postgres://localhost/osm"
	if c := o.DBConnection(); c != o.Connection {
		t.Error(c)
	}
}

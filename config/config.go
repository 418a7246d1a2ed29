package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// Config is the content of the JSON config file.
type Config struct {
	Connection  string `json:"connection"`
	OutputDir   string `json:"outputdir"`
	Schema      string `json:"schema"`
	Queries     string `json:"queries"`
	Streets     string `json:"streets"`
	Validate    *bool  `json:"validate"`
	MetricsAddr string `json:"metrics_addr"`
}

const (
	defaultOutputDir = "."
	defaultDBName    = "dublin.db"
)

var connectionTypes = []string{"sqlite", "postgres", "postgresql"}

type Options struct {
	Connection  string
	OutputDir   string
	SchemaFile  string
	QueriesFile string
	StreetsFile string
	ConfigFile  string
	MetricsAddr string
	NoValidate  bool
	Quiet       bool
}

// AddFlags registers all base options in flags.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Connection, "connection", "", "connection parameters (sqlite://file or postgres://...)")
	flags.StringVarP(&o.OutputDir, "outputdir", "o", defaultOutputDir, "directory of the CSV files")
	flags.StringVar(&o.SchemaFile, "schema", "", "schema file (yaml)")
	flags.StringVar(&o.QueriesFile, "queries", "", "queries file (yaml)")
	flags.StringVar(&o.StreetsFile, "streets", "", "street types and mapping (yaml)")
	flags.StringVar(&o.ConfigFile, "config", "", "config (json)")
	flags.StringVar(&o.MetricsAddr, "metrics-addr", "", "bind address for metrics and profile server")
	flags.BoolVar(&o.NoValidate, "no-validate", false, "do not validate elements against the schema")
	flags.BoolVarP(&o.Quiet, "quiet", "q", false, "quiet log output")
}

// UpdateFromConfig reads ConfigFile and uses its values for all options
// that were not set on the command line.
func (o *Options) UpdateFromConfig() error {
	if o.ConfigFile == "" {
		return nil
	}
	f, err := os.Open(o.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	conf := &Config{}
	decoder := json.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(conf); err != nil && err != io.EOF {
		return fmt.Errorf("decoding %s: %w", o.ConfigFile, err)
	}

	if o.Connection == "" {
		o.Connection = conf.Connection
	}
	if o.OutputDir == defaultOutputDir && conf.OutputDir != "" {
		o.OutputDir = conf.OutputDir
	}
	if o.SchemaFile == "" {
		o.SchemaFile = conf.Schema
	}
	if o.QueriesFile == "" {
		o.QueriesFile = conf.Queries
	}
	if o.StreetsFile == "" {
		o.StreetsFile = conf.Streets
	}
	if o.MetricsAddr == "" {
		o.MetricsAddr = conf.MetricsAddr
	}
	if !o.NoValidate && conf.Validate != nil {
		o.NoValidate = !*conf.Validate
	}
	return nil
}

// Check returns all errors of the options.
func (o *Options) Check() []error {
	errs := []error{}
	if o.OutputDir == "" {
		errs = append(errs, errors.New("missing outputdir"))
	}
	if o.Connection != "" && !knownConnection(o.Connection) {
		errs = append(errs, fmt.Errorf("unsupported connection %q, use one of %s",
			o.Connection, strings.Join(connectionTypes, ", ")))
	}
	for _, file := range []struct{ name, path string }{
		{"schema", o.SchemaFile},
		{"queries", o.QueriesFile},
		{"streets", o.StreetsFile},
	} {
		if file.path == "" {
			continue
		}
		if _, err := os.Stat(file.path); err != nil {
			errs = append(errs, fmt.Errorf("%s file: %w", file.name, err))
		}
	}
	if o.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(o.MetricsAddr); err != nil {
			errs = append(errs, fmt.Errorf("metrics-addr: %w", err))
		}
	}
	return errs
}

// DBConnection returns Connection, or a SQLite database in OutputDir if no
// connection is set.
func (o *Options) DBConnection() string {
	if o.Connection != "" {
		return o.Connection
	}
	return "sqlite://" + filepath.Join(o.OutputDir, defaultDBName)
}

// Validate reports whether elements are validated before they are written.
func (o *Options) Validate() bool {
	return !o.NoValidate
}

func knownConnection(conn string) bool {
	typ := conn
	if i := strings.Index(conn, ":"); i >= 0 {
		typ = conn[:i]
	}
	for _, t := range connectionTypes {
		if typ == t {
			return true
		}
	}
	return false
}

// ReportErrors prints errs to w.
func ReportErrors(w io.Writer, errs []error) {
	fmt.Fprintln(w, "errors in config/options:")
	for _, err := range errs {
		fmt.Fprintf(w, "\t%s\n", err)
	}
}

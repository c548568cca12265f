package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"

	onestore "github.com/kijeong/go-onestore"
)

type options struct {
	file           string
	outputDir      string
	extension      string
	jsonOut        bool
	jsonPath       string
	jsonInclude    []string
	filesNoContent bool
	configPath     string
	verbose        bool
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s -f FILE [options]

  -f FILE                  OneNote file to analyze (.one / .onetoc2)
  -o DIR                   directory for extracted files (default ".")
  -e EXT                   suffix appended to extracted filenames
  -j [PATH]                emit the JSON report (to PATH, or stdout)
  --json-include SECTIONS  comma list of %s
  --json-files-no-content  report SHA-256 digests instead of payload bytes
  -c FILE                  ini config supplying defaults
  -v                       debug logging
`, os.Args[0], strings.Join(onestore.ReportSections, ","))
}

func parseArgs(args []string) (*options, error) {
	opts := &options{outputDir: "."}
	needValue := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}
	for i := 0; i < len(args); i++ {
		var err error
		switch arg := args[i]; arg {
		case "-f", "--file":
			if opts.file, err = needValue(i, arg); err != nil {
				return nil, err
			}
			i++
		case "-o", "--output-dir":
			if opts.outputDir, err = needValue(i, arg); err != nil {
				return nil, err
			}
			i++
		case "-e", "--extension":
			if opts.extension, err = needValue(i, arg); err != nil {
				return nil, err
			}
			i++
		case "-j", "--json":
			opts.jsonOut = true
			// the report path is optional; stdout when absent
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				opts.jsonPath = args[i+1]
				i++
			}
		case "--json-include":
			var sections string
			if sections, err = needValue(i, arg); err != nil {
				return nil, err
			}
			opts.jsonInclude = strings.Split(sections, ",")
			i++
		case "--json-files-no-content":
			opts.filesNoContent = true
		case "-c", "--config":
			if opts.configPath, err = needValue(i, arg); err != nil {
				return nil, err
			}
			i++
		case "-v", "--verbose":
			opts.verbose = true
		case "-h", "--help":
			usage()
			os.Exit(0)
		default:
			return nil, fmt.Errorf("unknown argument %q", arg)
		}
	}
	if opts.file == "" {
		return nil, fmt.Errorf("-f FILE is required")
	}
	return opts, nil
}

func run(opts *options) error {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	onestore.SetLogger(logger)

	cfg, err := onestore.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.outputDir == "." && cfg.OutputDir != "" {
		opts.outputDir = cfg.OutputDir
	}
	if opts.extension == "" {
		opts.extension = cfg.Extension
	}
	if len(opts.jsonInclude) == 0 {
		opts.jsonInclude = cfg.JSONInclude
	}
	opts.filesNoContent = opts.filesNoContent || cfg.JSONFilesNoContent

	if opts.extension != "" && !strings.HasPrefix(opts.extension, ".") {
		opts.extension = "." + opts.extension
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return err
	}
	doc, err := onestore.Parse(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", opts.file, err)
	}
	for _, diag := range doc.Diagnostics {
		logger.Warnf("%s", diag)
	}

	report, err := onestore.BuildReport(doc, onestore.ReportOptions{
		Include:        opts.jsonInclude,
		FilesNoContent: opts.filesNoContent,
	})
	if err != nil {
		return err
	}

	if opts.jsonOut {
		if opts.jsonPath != "" {
			return os.WriteFile(opts.jsonPath, report, 0o644)
		}
		os.Stdout.Write(pretty.Pretty(report))
		return nil
	}

	fmt.Print(onestore.TextReport(report))
	written, err := onestore.ExtractFiles(doc, opts.outputDir, opts.extension)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Printf("extracted: %s\n", path)
	}
	return nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		usage()
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

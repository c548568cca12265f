package onestore

import (
	"strings"

	"github.com/juju/errors"
	"gopkg.in/ini.v1"
)

// Config carries CLI defaults loadable from an ini file. Flags always
// override what the file supplies.
//
//	[output]
//	dir       = ./extracted
//	extension = .bin
//
//	[json]
//	include          = headers,files
//	files_no_content = true
type Config struct {
	OutputDir          string
	Extension          string
	JSONInclude        []string
	JSONFilesNoContent bool
}

// LoadConfig reads a config file. A missing path returns zero defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, errors.Annotatef(err, "load config %s", path)
	}
	output := f.Section("output")
	cfg.OutputDir = output.Key("dir").String()
	cfg.Extension = output.Key("extension").String()

	jsonSec := f.Section("json")
	if include := jsonSec.Key("include").String(); include != "" {
		for _, s := range strings.Split(include, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.JSONInclude = append(cfg.JSONInclude, s)
			}
		}
	}
	cfg.JSONFilesNoContent = jsonSec.Key("files_no_content").MustBool(false)
	return cfg, nil
}

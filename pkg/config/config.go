// Package config loads staffsheet.toml, the optional settings file.
//
// Every key mirrors a command-line flag and only supplies that flag's value
// when it was not given on the command line:
//
//	# ~/.config/staffsheet/config.toml
//	strings = ["SOL", "RÉ"]
//	staves  = 4
//	gap     = 6.5   # cm
//	mode    = "random"
//	clef    = "~/music/treble.png"
//
//	[server]
//	addr    = ":8080"
//	origins = ["http://localhost:5173"]
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/staffsheet/pkg/errors"
)

const (
	appName  = "staffsheet"
	fileName = "config.toml"
)

// File is the decoded settings file. Zero values are unset.
type File struct {
	Pitches  []string `toml:"pitches"`
	Strings  []string `toml:"strings"`
	Staves   int      `toml:"staves"`
	Gap      float64  `toml:"gap"`
	Notes    int      `toml:"notes"`
	Pages    int      `toml:"pages"`
	Mode     string   `toml:"mode"`
	Seed     uint64   `toml:"seed"`
	PageSize string   `toml:"page_size"`
	Clef     string   `toml:"clef"`
	Formats  []string `toml:"formats"`
	Scale    float64  `toml:"scale"`
	NoCache  bool     `toml:"no_cache"`

	Server Server `toml:"server"`

	// Path is where the file was read from; empty when none was found.
	Path string `toml:"-"`
}

// Server holds the [server] table.
type Server struct {
	Addr    string   `toml:"addr"`
	Origins []string `toml:"origins"`
}

// DefaultPath returns $XDG_CONFIG_HOME/staffsheet/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the file at path. An empty path means [DefaultPath], where a
// missing file is not an error; a path given explicitly must exist.
func Load(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &File{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &File{}, nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	f.Path = path
	return f, nil
}

// Parse decodes TOML, rejecting keys it does not know.
func Parse(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return &f, nil
}

// Values returns the set keys as flag name to flag value.
func (f *File) Values() map[string]string {
	v := make(map[string]string)
	setList := func(name string, s []string) {
		if len(s) > 0 {
			v[name] = strings.Join(s, ",")
		}
	}
	setInt := func(name string, n int) {
		if n != 0 {
			v[name] = strconv.Itoa(n)
		}
	}
	setFloat := func(name string, x float64) {
		if x != 0 {
			v[name] = strconv.FormatFloat(x, 'g', -1, 64)
		}
	}
	setString := func(name, s string) {
		if s != "" {
			v[name] = s
		}
	}

	setList("pitches", f.Pitches)
	setList("string", f.Strings)
	setInt("staves", f.Staves)
	setFloat("gap", f.Gap)
	setInt("notes", f.Notes)
	setInt("pages", f.Pages)
	setString("mode", f.Mode)
	if f.Seed != 0 {
		v["seed"] = strconv.FormatUint(f.Seed, 10)
	}
	setString("page-size", f.PageSize)
	setString("clef", expandHome(f.Clef))
	setList("format", f.Formats)
	setFloat("scale", f.Scale)
	if f.NoCache {
		v["no-cache"] = "true"
	}
	setString("addr", f.Server.Addr)
	setList("origin", f.Server.Origins)
	return v
}

// ApplyTo sets every flag in fs that the file configures and the command line
// left alone. Keys without a matching flag are ignored; not every command
// takes every setting.
func (f *File) ApplyTo(fs *pflag.FlagSet) error {
	for name, value := range f.Values() {
		flag := fs.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "config key for --%s", name)
		}
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

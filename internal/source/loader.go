package source

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/angeloszaimis/oms-envcheck/internal/settingserr"
)

// Loader reads configuration documents from a filesystem.
type Loader struct {
	fs  afero.Fs
	log *slog.Logger
}

// NewLoader creates a Loader over fs. A nil fs reads the OS filesystem and
// a nil log discards all records.
func NewLoader(fs afero.Fs, log *slog.Logger) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loader{fs: fs, log: log}
}

// Load reads the base document, then the overlay, and returns overlay
// merged over base. Nothing is returned unless both documents parse and
// merge cleanly.
func (l *Loader) Load(basePath, overlayPath string) (Tree, error) {
	base, err := l.Read(basePath)
	if err != nil {
		return nil, err
	}

	overlay, err := l.Read(overlayPath)
	if err != nil {
		return nil, err
	}

	merged := Tree{}
	if err := Merge(merged, base); err != nil {
		return nil, err
	}
	if err := Merge(merged, overlay); err != nil {
		return nil, err
	}

	l.log.Debug("merged configuration sources",
		slog.String("base", basePath),
		slog.String("overlay", overlayPath),
		slog.Int("sections", len(merged)))

	return merged, nil
}

// Read parses a single document. The format follows the file extension.
// Keys are lower-cased. Empty tables and null values are kept as written.
func (l *Loader) Read(path string) (Tree, error) {
	decoder := &documentDecoder{}
	v := viper.NewWithOptions(viper.WithLogger(l.log), viper.WithDecoderRegistry(decoder))
	v.SetFs(l.fs)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var (
			parseErr       viper.ConfigParseError
			unsupportedErr viper.UnsupportedConfigError
		)
		switch {
		case errors.As(err, &parseErr), errors.As(err, &unsupportedErr):
			return nil, settingserr.Config(fmt.Errorf("%s: %w", path, err))
		default:
			return nil, settingserr.File(path, err)
		}
	}

	doc := Tree(decoder.doc)
	if doc == nil {
		doc = Tree{}
	}
	l.log.Debug("read configuration source",
		slog.String("file", path),
		slog.Int("sections", len(doc)))

	return doc, nil
}

// documentDecoder decodes YAML for viper and keeps the decoded document.
// viper lower-cases its keys in place after decoding. Its own accessors
// flatten the document and lose empty tables, so the document is read from
// here instead.
type documentDecoder struct {
	doc map[string]any
}

func (d *documentDecoder) Decoder(format string) (viper.Decoder, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml", "json":
		return d, nil
	default:
		return nil, fmt.Errorf("no decoder for %s documents", format)
	}
}

func (d *documentDecoder) Decode(b []byte, v map[string]any) error {
	if err := yaml.Unmarshal(b, &v); err != nil {
		return err
	}
	d.doc = v
	return nil
}

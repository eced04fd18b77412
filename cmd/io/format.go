package io

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidal-dl-ng/agentcheck/internal/format"
)

type Options struct {
	OutputFormat string

	customCodecs  map[string]format.Encoder
	defaultFormat string
}

// RegisterCustomCodec makes an additional output format available to the command.
func (opts *Options) RegisterCustomCodec(name string, codec format.Encoder) {
	if opts.customCodecs == nil {
		opts.customCodecs = make(map[string]format.Encoder)
	}

	opts.customCodecs[name] = codec
}

func (opts *Options) DefaultFormat(name string) {
	opts.defaultFormat = name
}

func (opts *Options) BindFlags(flags *pflag.FlagSet) {
	defaultFormat := string(format.YAML)
	if opts.defaultFormat != "" {
		defaultFormat = opts.defaultFormat
	}

	flags.StringVarP(&opts.OutputFormat, "output", "o", defaultFormat, "Output format. One of: "+strings.Join(opts.allowedFormats(), ", "))
}

func (opts *Options) Validate() error {
	if opts.codecFor(opts.OutputFormat) == nil {
		return fmt.Errorf("unknown output format '%s'. Valid formats are: %s", opts.OutputFormat, strings.Join(opts.allowedFormats(), ", "))
	}

	return nil
}

// Codec returns the encoder for the selected output format.
// Validate must be called first.
func (opts *Options) Codec() format.Encoder {
	return opts.codecFor(opts.OutputFormat)
}

func (opts *Options) codecFor(name string) format.Encoder {
	if codec, ok := opts.customCodecs[name]; ok {
		return codec
	}

	if codec, ok := format.Codecs()[format.Format(name)]; ok {
		return codec
	}

	return nil
}

func (opts *Options) allowedFormats() []string {
	allowedFormats := make([]string, 0, len(opts.customCodecs)+2)
	for _, name := range slices.Collect(maps.Keys(format.Codecs())) {
		allowedFormats = append(allowedFormats, string(name))
	}

	for name := range opts.customCodecs {
		allowedFormats = append(allowedFormats, name)
	}

	// the allowed formats are stored in a map: let's sort them to make the
	// return value of this function deterministic
	sort.Strings(allowedFormats)

	return allowedFormats
}

package config

import (
	"fmt"
)

type ValidationError struct {
	// Path refers to the location of the error in the configuration file.
	// It is expressed as a YAMLPath, as described in https://pkg.go.dev/github.com/goccy/go-yaml#PathString
	Path        string
	Message     string
	Suggestions []string

	// File and AnnotatedSource are set by the loader.
	File            string
	AnnotatedSource string
}

func (e ValidationError) Error() string {
	if e.File == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

type UnmarshalError struct {
	File string
	Err  error
}

func (e UnmarshalError) Error() string {
	return fmt.Sprintf("could not parse '%s': %s", e.File, e.Err)
}

func (e UnmarshalError) Unwrap() error {
	return e.Err
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidal-dl-ng/agentcheck/cmd/root"
	"github.com/tidal-dl-ng/agentcheck/internal/config"
	"github.com/tidal-dl-ng/agentcheck/internal/fail"
	"github.com/tidal-dl-ng/agentcheck/internal/integration"
	"github.com/tidal-dl-ng/agentcheck/internal/pysource"
)

var version = "SNAPSHOT"

func main() {
	handleError(root.Command(version).Execute())
}

func handleError(err error) {
	if err == nil {
		return
	}

	exitCode := 1
	detailedErr := errorToDetailedError(err)

	if !detailedErr.Silent {
		fmt.Fprintln(os.Stderr, detailedErr.Error())
	}

	if detailedErr.ExitCode != nil {
		exitCode = *detailedErr.ExitCode
	}

	os.Exit(exitCode)
}

func errorToDetailedError(err error) *fail.DetailedError {
	var converted bool
	detailedErr := &fail.DetailedError{}
	if errors.As(err, detailedErr) {
		return detailedErr
	}

	// Try to convert the error for common error categories
	errorConverters := []func(err error) (*fail.DetailedError, bool){
		convertConfigErrors, // Config-related
		convertSourceErrors, // Python sources-related
		convertFSErrors,     // FS-related
	}

	for _, converter := range errorConverters {
		detailedErr, converted = converter(err)
		if converted {
			return detailedErr
		}
	}

	return &fail.DetailedError{
		Summary: "Unexpected error",
		Parent:  err,
	}
}

func convertConfigErrors(err error) (*fail.DetailedError, bool) {
	validationErr := config.ValidationError{}
	if errors.As(err, &validationErr) {
		message := fmt.Sprintf("Invalid configuration found in '%s':\n%s", validationErr.File, validationErr.Message)
		if validationErr.AnnotatedSource != "" {
			message += "\n\n" + validationErr.AnnotatedSource
		}

		return &fail.DetailedError{
			Summary: "Invalid configuration",
			Details: message,
			Suggestions: append([]string{
				"Review your configuration: agentcheck config view",
			}, validationErr.Suggestions...),
		}, true
	}

	unmarshalErr := config.UnmarshalError{}
	if errors.As(err, &unmarshalErr) {
		return &fail.DetailedError{
			Summary: "Could not parse configuration",
			Details: fmt.Sprintf("Invalid configuration found in '%s'.", unmarshalErr.File),
			Parent:  unmarshalErr.Err,
		}, true
	}

	return nil, false
}

func convertSourceErrors(err error) (*fail.DetailedError, bool) {
	syntaxErr := pysource.SyntaxError{}
	if errors.As(err, &syntaxErr) {
		return &fail.DetailedError{
			Summary: "Invalid Python source",
			Parent:  err,
		}, true
	}

	moduleErr := integration.ModuleNotFoundError{}
	if errors.As(err, &moduleErr) {
		return &fail.DetailedError{
			Summary: "Module not found",
			Parent:  err,
			Suggestions: []string{
				"Make sure that --root points to the root of the project",
			},
		}, true
	}

	return nil, false
}

func convertFSErrors(err error) (*fail.DetailedError, bool) {
	pathErr := &fs.PathError{}

	if errors.Is(err, os.ErrNotExist) && errors.As(err, &pathErr) {
		return &fail.DetailedError{
			Summary: "File not found",
			Details: fmt.Sprintf("could not read '%s'", pathErr.Path),
			Parent:  err,
			Suggestions: []string{
				"Check for typos in the command's arguments",
			},
		}, true
	}

	if errors.Is(err, os.ErrPermission) && errors.As(err, &pathErr) {
		return &fail.DetailedError{
			Summary: "Permission denied",
			Parent:  err,
			Suggestions: []string{
				"Review the permissions on the file",
			},
		}, true
	}

	return nil, false
}

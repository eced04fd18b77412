package integration

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	// KindImport checks that a symbol can be imported from a module.
	KindImport Kind = "import"
	// KindInherits checks that a class inherits, directly or not, from a base class.
	KindInherits Kind = "inherits"
	// KindAttribute checks that a class, or one of its bases, defines an attribute.
	KindAttribute Kind = "attribute"
	// KindContains checks that a file contains a substring.
	KindContains Kind = "contains"
)

// Probe describes a single integration check.
type Probe struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Module is the dotted name of the module holding Symbol or Class.
	Module string `json:"module,omitempty" yaml:"module,omitempty"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Class  string `json:"class,omitempty" yaml:"class,omitempty"`

	Base string `json:"base,omitempty" yaml:"base,omitempty"`
	// BaseModule optionally pins the module Base must be defined in.
	BaseModule string `json:"base-module,omitempty" yaml:"base-module,omitempty"`

	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`

	// File is relative to the project root.
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Contains string `json:"contains,omitempty" yaml:"contains,omitempty"`

	// Success and Failure override the messages reported when the probe
	// passes, or runs but does not find what it looks for.
	Success string `json:"success,omitempty" yaml:"success,omitempty"`
	Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`
}

func (probe Probe) Validate() error {
	var missing []string

	require := func(field string, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	switch probe.Kind {
	case KindImport:
		require("module", probe.Module)
		require("symbol", probe.Symbol)
	case KindInherits:
		require("module", probe.Module)
		require("class", probe.Class)
		require("base", probe.Base)
	case KindAttribute:
		require("module", probe.Module)
		require("class", probe.Class)
		require("attribute", probe.Attribute)
	case KindContains:
		require("file", probe.File)
		require("contains", probe.Contains)
	case "":
		return errors.New("probe kind is required")
	default:
		return fmt.Errorf("unknown probe kind '%s'", probe.Kind)
	}

	if len(missing) != 0 {
		return fmt.Errorf("%s probe requires: %s", probe.Kind, strings.Join(missing, ", "))
	}

	return nil
}

// Describe returns a short human readable description of what the probe checks.
func (probe Probe) Describe() string {
	switch probe.Kind {
	case KindImport:
		return fmt.Sprintf("from %s import %s", probe.Module, probe.Symbol)
	case KindInherits:
		return fmt.Sprintf("%s.%s inherits %s", probe.Module, probe.Class, probe.Base)
	case KindAttribute:
		return fmt.Sprintf("%s.%s has %s", probe.Module, probe.Class, probe.Attribute)
	case KindContains:
		return fmt.Sprintf("%s contains %q", probe.File, probe.Contains)
	default:
		return string(probe.Kind)
	}
}

func (probe Probe) successMessage() string {
	if probe.Success != "" {
		return probe.Success
	}

	switch probe.Kind {
	case KindImport:
		return probe.Symbol + " importable"
	case KindInherits:
		return probe.Class + " has " + probe.Base
	case KindAttribute:
		return probe.Attribute + " exists on " + probe.Class
	default:
		return probe.File + " contains " + probe.Contains
	}
}

func (probe Probe) failureMessage() string {
	if probe.Failure != "" {
		return probe.Failure
	}

	switch probe.Kind {
	case KindInherits:
		return probe.Class + " does not inherit " + probe.Base
	case KindAttribute:
		return probe.Attribute + " not found on " + probe.Class
	default:
		return probe.Contains + " NOT found in " + probe.File
	}
}

func (probe Probe) errorMessage(err error) string {
	switch probe.Kind {
	case KindImport:
		return fmt.Sprintf("%s import failed: %s", probe.Symbol, err)
	case KindInherits:
		return fmt.Sprintf("%s inheritance check failed: %s", probe.Class, err)
	case KindAttribute:
		return fmt.Sprintf("%s check failed: %s", probe.Attribute, err)
	default:
		return fmt.Sprintf("File check failed: %s", err)
	}
}

// DefaultProbes returns the checks verifying that the playlist membership
// feature is wired into the tidal_dl_ng main window.
func DefaultProbes() []Probe {
	return []Probe{
		{Kind: KindImport, Module: "tidal_dl_ng.gui.playlist_membership_mixin", Symbol: "PlaylistMembershipMixin"},
		{Kind: KindImport, Module: "tidal_dl_ng.gui.playlist_membership", Symbol: "PlaylistContextLoader"},
		{Kind: KindImport, Module: "tidal_dl_ng.gui.playlist_membership", Symbol: "ThreadSafePlaylistCache"},
		{Kind: KindImport, Module: "tidal_dl_ng.gui.playlist_membership", Symbol: "PlaylistColumnDelegate"},
		{Kind: KindImport, Module: "tidal_dl_ng.ui.dialog_playlist_manager", Symbol: "PlaylistManagerDialog"},
		{
			Kind:       KindInherits,
			Module:     "tidal_dl_ng.gui.main_window",
			Class:      "MainWindow",
			Base:       "PlaylistMembershipMixin",
			BaseModule: "tidal_dl_ng.gui.playlist_membership_mixin",
		},
		{
			Kind:      KindAttribute,
			Module:    "tidal_dl_ng.gui.main_window",
			Class:     "MainWindow",
			Attribute: "init_playlist_membership_manager",
			Success:   "init_playlist_membership_manager method exists",
			Failure:   "init_playlist_membership_manager method not found",
		},
		{
			Kind:     KindContains,
			File:     "tidal_dl_ng/gui/trees_results.py",
			Contains: "child_playlists",
			Success:  "child_playlists column added to TreesResultsMixin",
			Failure:  "child_playlists column NOT found in TreesResultsMixin",
		},
		{
			Kind:     KindContains,
			File:     "tidal_dl_ng/gui/tidal_session.py",
			Contains: "init_playlist_membership_manager",
			Success:  "init_playlist_membership_manager called in init_tidal",
			Failure:  "init_playlist_membership_manager NOT called in init_tidal",
		},
		{
			Kind:     KindContains,
			File:     "tidal_dl_ng/gui/playlist_membership_mixin.py",
			Contains: "PlaylistCellState",
			Success:  "PlaylistCellState imported in mixin",
			Failure:  "PlaylistCellState NOT imported in mixin",
		},
	}
}

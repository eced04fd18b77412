package testutils

// CompliantModule is a Python module passing every compliance rule.
const CompliantModule = `"""Playlist membership helpers."""

import threading
from enum import Enum

from PySide6 import QtWidgets

from tidal_dl_ng.logger import logger_gui


class PlaylistCellState(Enum):
    """State of a playlist cell."""

    LOADING = 1
    READY = 2


class ThreadSafePlaylistCache:
    """Cache playlist memberships."""

    def __init__(self) -> None:
        """Create the cache."""
        self._lock = threading.RLock()
        self._items: dict[str, str] = {}

    def get(self, key: str) -> str | None:
        """Return a cached value."""
        with self._lock:
            return self._items.get(key)


class PlaylistContextLoader:
    """Load playlists in the background."""

    def load(self, cache: ThreadSafePlaylistCache) -> None:
        """Load every playlist."""
        logger_gui.debug("loading playlists")


class PlaylistColumnDelegate(QtWidgets.QStyledItemDelegate):
    """Paint the playlist column."""
`

// CompliantModulePasses is the number of checks CompliantModule passes.
const CompliantModulePasses = 12

const mixinModule = `"""Playlist membership mixin."""

from tidal_dl_ng.gui.playlist_membership import PlaylistCellState, ThreadSafePlaylistCache


class PlaylistMembershipMixin:
    """Add playlist membership management to the main window."""

    def init_playlist_membership_manager(self) -> None:
        """Create the playlist cache."""
        self.playlist_cache = ThreadSafePlaylistCache()
        self.playlist_state = PlaylistCellState.LOADING
`

const mainWindowModule = `"""Main window."""

from PySide6 import QtWidgets

from tidal_dl_ng.gui.playlist_membership_mixin import PlaylistMembershipMixin
from tidal_dl_ng.gui.trees_results import TreesResultsMixin


class MainWindow(QtWidgets.QMainWindow, TreesResultsMixin, PlaylistMembershipMixin):
    """The application main window."""

    def __init__(self) -> None:
        super().__init__()
`

const treesResultsModule = `"""Result trees."""


class TreesResultsMixin:
    """Populate the result trees."""

    columns = ["title", "artist", "child_playlists"]
`

const tidalSessionModule = `"""Session handling."""


class TidalSessionMixin:
    """Log into the service."""

    def init_tidal(self) -> None:
        """Initialise the session."""
        self.init_playlist_membership_manager()
`

const dialogModule = `"""Playlist manager dialog."""

from PySide6 import QtWidgets


class PlaylistManagerDialog(QtWidgets.QDialog):
    """Add or remove a track from playlists."""

    def accept(self) -> None:
        super().accept()
`

const testModule = `"""Playlist manager tests."""

from tidal_dl_ng.gui.playlist_membership import ThreadSafePlaylistCache


def test_cache_starts_empty() -> None:
    cache = ThreadSafePlaylistCache()
    assert cache.get("missing") is None
`

// IntegratedProject returns the files of a tidal_dl_ng project in which the
// playlist membership feature is fully integrated: every default integration
// probe passes and the default compliance files hold no error.
func IntegratedProject() map[string]string {
	return map[string]string{
		"tidal_dl_ng/__init__.py":                      "",
		"tidal_dl_ng/gui/__init__.py":                  "",
		"tidal_dl_ng/gui/playlist_membership.py":       CompliantModule,
		"tidal_dl_ng/gui/playlist_membership_mixin.py": mixinModule,
		"tidal_dl_ng/gui/main_window.py":               mainWindowModule,
		"tidal_dl_ng/gui/trees_results.py":             treesResultsModule,
		"tidal_dl_ng/gui/tidal_session.py":             tidalSessionModule,
		"tidal_dl_ng/ui/__init__.py":                   "",
		"tidal_dl_ng/ui/dialog_playlist_manager.py":    dialogModule,
		"tests/test_playlist_manager.py":               testModule,
	}
}

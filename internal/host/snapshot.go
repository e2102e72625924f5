package host

import (
	"errors"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/hero-backdrop/internal/backdrop"
	"github.com/iburimskiy/hero-backdrop/internal/draw"
	"github.com/iburimskiy/hero-backdrop/internal/draw/ggsurface"
	"github.com/iburimskiy/hero-backdrop/internal/viewport"
)

// saveSnapshotDialog asks for a target file and writes the frame there.
// Cancelling the dialog is not an error.
func saveSnapshotDialog(l *draw.List, vs viewport.State) error {
	path, err := zenity.SelectFileSave(
		zenity.Title("Save backdrop snapshot"),
		zenity.Filename("backdrop.png"),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "PNG image",
			Patterns: []string{"*.png"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	if err := ggsurface.WritePNG(path, l, vs); err != nil {
		return err
	}
	backdrop.Logger().Info("snapshot saved", "path", path)
	return nil
}

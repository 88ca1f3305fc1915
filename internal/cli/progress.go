package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ytget/audiofixture/internal/model"
)

// trackLogger returns an update callback that logs track stages at debug level.
// Finished tracks also report their folder progress and the overall count.
func trackLogger(log *zap.Logger, roots []*model.Playlist) func(*model.Track) {
	folders := make(map[string]*model.Playlist)
	total := 0
	_ = model.WalkAll(roots, func(playlist *model.Playlist) error {
		folders[playlist.RelPath] = playlist
		total += playlist.Planned
		return nil
	})

	return func(track *model.Track) {
		if !log.Core().Enabled(zap.DebugLevel) {
			return
		}
		if track.Status.IsActive() {
			log.Debug("track "+track.Status.String(),
				zap.String("title", track.GetDisplayTitle()),
				zap.String("file", track.RelPath()))
			return
		}
		if !track.Status.IsFinished() {
			return
		}

		fields := []zap.Field{
			zap.String("title", track.GetDisplayTitle()),
			zap.String("file", track.RelPath()),
			zap.String("status", track.Status.String()),
			zap.String("elapsed", track.GetElapsedString()),
		}
		if folder, ok := folders[track.Folder]; ok {
			fields = append(fields, zap.String("folder_progress", fmt.Sprintf("%.0f%%", folder.GetProgress())))
		}
		completed := 0
		for _, root := range roots {
			completed += root.TotalCompleted()
		}
		fields = append(fields, zap.String("completed", fmt.Sprintf("%d/%d", completed, total)))
		log.Debug("track finished", fields...)
	}
}

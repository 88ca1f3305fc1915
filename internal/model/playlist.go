package model

// FrequencyRange is an inclusive range of sine frequencies in Hz
type FrequencyRange struct {
	Min int
	Max int
}

// Playlist represents one generated folder and the tracks planned for it
type Playlist struct {
	Name      string // folder name, also the player's playlist name
	Path      string // absolute folder path
	RelPath   string // output-relative path using forward slashes
	Depth     int    // 0 for top-level playlists
	Planned   int    // configured track count for this folder only
	Frequency FrequencyRange
	Tracks    []*Track
	Children  []*Playlist
}

// NewPlaylist creates a playlist node
func NewPlaylist(name, path, relPath string, depth, planned int, freq FrequencyRange) *Playlist {
	return &Playlist{
		Name:      name,
		Path:      path,
		RelPath:   relPath,
		Depth:     depth,
		Planned:   planned,
		Frequency: freq,
		Tracks:    make([]*Track, 0, planned),
	}
}

// AddTrack adds a track to the playlist
func (p *Playlist) AddTrack(track *Track) {
	p.Tracks = append(p.Tracks, track)
}

// AddChild attaches a subfolder
func (p *Playlist) AddChild(child *Playlist) {
	p.Children = append(p.Children, child)
}

// TagID returns the custom tag id the player registers for this folder
func (p *Playlist) TagID() string {
	return "playlist_" + p.Name
}

// GetCompletedTracks returns all tracks that were written successfully
func (p *Playlist) GetCompletedTracks() []*Track {
	var completed []*Track
	for _, track := range p.Tracks {
		if track.Status == TaskStatusCompleted {
			completed = append(completed, track)
		}
	}
	return completed
}

// GetFailedTracks returns all tracks the encoder failed on
func (p *Playlist) GetFailedTracks() []*Track {
	var failed []*Track
	for _, track := range p.Tracks {
		if track.Status == TaskStatusError {
			failed = append(failed, track)
		}
	}
	return failed
}

// GetProgress returns folder progress as a percentage of finished tracks
func (p *Playlist) GetProgress() float64 {
	if len(p.Tracks) == 0 {
		return 0
	}

	finished := 0
	for _, track := range p.Tracks {
		if track.Status.IsFinished() {
			finished++
		}
	}
	return float64(finished) / float64(len(p.Tracks)) * 100
}

// HasErrors checks if any track in this folder failed
func (p *Playlist) HasErrors() bool {
	for _, track := range p.Tracks {
		if track.Status == TaskStatusError {
			return true
		}
	}
	return false
}

// Walk visits p and every descendant in pre-order, stopping at the first error
func (p *Playlist) Walk(fn func(*Playlist) error) error {
	if err := fn(p); err != nil {
		return err
	}
	for _, child := range p.Children {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// TotalPlanned returns the planned track count of p and its descendants
func (p *Playlist) TotalPlanned() int {
	total := 0
	_ = p.Walk(func(node *Playlist) error {
		total += node.Planned
		return nil
	})
	return total
}

// TotalCompleted returns the completed track count of p and its descendants
func (p *Playlist) TotalCompleted() int {
	total := 0
	_ = p.Walk(func(node *Playlist) error {
		total += len(node.GetCompletedTracks())
		return nil
	})
	return total
}

// WalkAll walks every root in order
func WalkAll(roots []*Playlist, fn func(*Playlist) error) error {
	for _, root := range roots {
		if err := root.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

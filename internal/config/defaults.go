package config

import "github.com/ytget/audiofixture/internal/model"

// Default values
const (
	DefaultDuration        = 5.0
	DefaultMaxDepth        = 3
	DefaultJobs            = 1
	DefaultFFmpegPath      = "ffmpeg"
	DefaultFFprobePath     = "ffprobe"
	DefaultCoverSize       = 300
	DefaultCoverBlockSize  = 30
	DefaultCoverQuality    = 90
	DefaultFavoriteRatio   = 0.1
	DefaultExcludeRatio    = 0.05
	DefaultReportFileName  = "test_report.txt"
	DefaultFrequencyMinHz  = 440
	DefaultFrequencyMaxHz  = 880
	DefaultOutputDirSuffix = "playlist"
)

// DefaultFormats returns the container/codec matrix
func DefaultFormats() []model.Format {
	return []model.Format{
		{Ext: "mp3", Codec: "libmp3lame", Bitrate: "192k"},
		{Ext: "wav", Codec: "pcm_s16le"},
		{Ext: "ogg", Codec: "libvorbis", Quality: "4"}, // VBR quality mode (0-10)
		{Ext: "flac", Codec: "flac"},
		{Ext: "aiff", Codec: "pcm_s16be"},
	}
}

// DefaultSampleRates returns the sample rates picked from at random
func DefaultSampleRates() []int {
	return []int{22050, 44100, 48000}
}

// DefaultCoverFormats returns the formats that get an embedded cover.
// ogg is supported by the encoder but its attached pictures are unreliable in players.
func DefaultCoverFormats() []string {
	return []string{"mp3", "flac"}
}

// DefaultMetadata returns the pools random tags are drawn from
func DefaultMetadata() Metadata {
	return Metadata{
		Titles: []string{
			"Midnight Dreams", "Summer Breeze", "Neon Lights", "Lost Horizon",
			"Echoes", "Crystalline", "Reflections", "Ascension", "Wanderlust",
			"Serenity", "Pulse", "Aurora", "Inception", "Odyssey", "Cascade",
			"Mirage", "Velocity", "Tranquility", "Nexus", "Elysium",
		},
		Artists: []string{
			"The Soundwaves", "Luna Echo", "Chromatic Shift", "Digital Horizon",
			"Stellar Drift", "Vapor Trail", "Neon Collective", "Echo Chamber",
			"Synth Masters", "The Frequencies", "Audio Spectrum", "Wave Theory",
			"Sound Architects", "Frequency Lab", "Beat Engineers",
		},
		Albums: []string{
			"Night Sessions", "Future Sounds", "Electric Dreams", "Soundscapes",
			"Urban Rhythms", "Digital Age", "Audio Experiments", "Frequency Test",
			"Studio Collection", "Sound Library", "Beat Archive", "Audio Vault",
		},
	}
}

// DefaultPlaylists returns the folder tree generated when no config file is given
func DefaultPlaylists() []PlaylistSpec {
	return []PlaylistSpec{
		{
			Name: "Rock", Count: 200, FreqRange: []int{200, 400},
			Subfolders: []PlaylistSpec{
				{Name: "80s", Count: 100, FreqRange: []int{400, 600}},
				{Name: "Metal", Count: 150, FreqRange: []int{100, 200}},
			},
		},
		{Name: "Jazz", Count: 150, FreqRange: []int{500, 700}},
		{Name: "OST", Count: 300, FreqRange: []int{700, 900}},
		{
			Name: "Classical", Count: 100, FreqRange: []int{900, 1100},
			Subfolders: []PlaylistSpec{
				{Name: "Baroque", Count: 50, FreqRange: []int{1100, 1300}},
				{Name: "Romantic", Count: 80, FreqRange: []int{1300, 1500}},
			},
		},
		{Name: "Electronic", Count: 250, FreqRange: []int{1500, 1700}},
		{
			Name: "Test_Large", Count: 500, FreqRange: []int{1700, 1900},
			Subfolders: []PlaylistSpec{
				{Name: "Sub1", Count: 200, FreqRange: []int{1900, 2100}},
				{Name: "Sub2", Count: 200, FreqRange: []int{2100, 2300}},
				{
					Name: "Sub3", Count: 100, FreqRange: []int{2300, 2500},
					Subfolders: []PlaylistSpec{
						{Name: "Deep", Count: 50, FreqRange: []int{2500, 2700}},
					},
				},
			},
		},
	}
}

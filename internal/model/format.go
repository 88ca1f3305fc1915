package model

import "strings"

// Format describes one output container and the codec settings passed to the encoder
type Format struct {
	Ext     string `yaml:"ext"`
	Codec   string `yaml:"codec"`
	Bitrate string `yaml:"bitrate,omitempty"` // e.g. "192k"; wins over Quality
	Quality string `yaml:"quality,omitempty"` // VBR quality scale, e.g. "4" for vorbis
}

// Extension returns the lower-case extension with a leading dot
func (f Format) Extension() string {
	return "." + strings.ToLower(strings.TrimPrefix(f.Ext, "."))
}

// Name returns the bare lower-case extension used as the format's identifier
func (f Format) Name() string {
	return strings.ToLower(strings.TrimPrefix(f.Ext, "."))
}

// FormatNames returns the identifiers of the given formats in order
func FormatNames(formats []Format) []string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.Name())
	}
	return names
}

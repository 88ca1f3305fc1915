package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// Default output location under the user's home directory
const (
	MusicDirName     = "Music"
	AppDirName       = "audiofixture"
	PlaylistDirName  = "playlist"
	TempInfix        = ".temp"
	TempCoverSuffix  = ".temp_cover.jpg"
	PlaylistJSONName = "playlist.json"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// AudioExtensions are the extensions the player's directory scanner picks up
var (
	AudioExtensions = []string{".mp3", ".wav", ".ogg", ".egg", ".flac", ".aiff", ".aif"}
)

// OpenFileInManager opens path in the system file manager.
// Files are highlighted where the platform supports it; directories are opened directly.
func OpenFileInManager(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("file does not exist: %v", err)
	}

	switch runtime.GOOS {
	case OSDarwin: // macOS
		if info.IsDir() {
			return exec.Command(OpenCommand, absPath).Run()
		}
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		if info.IsDir() {
			return exec.Command(ExplorerCommand, absPath).Run()
		}
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		dir := absPath
		if !info.IsDir() {
			dir = filepath.Dir(absPath)
		}
		return openDirectoryLinux(dir)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openDirectoryLinux opens a directory on Linux.
// File selection is not standardized on Linux, so callers pass the parent directory.
func openDirectoryLinux(dir string) error {
	// Try xdg-open first (most common)
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	// Fallback to common file managers
	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("file does not exist: %v", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath).Run()
	case OSLinux:
		return exec.Command(XDGOpenCommand, absPath).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// CreateDirectoryIfNotExists creates directory (and parents) if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// RemoveIfExists removes a file, treating a missing file as success
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ReplaceFile moves src over dst. dst is left intact when the move fails,
// except on Windows where a locked dst is removed before a second attempt.
func ReplaceFile(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("replacement source missing: %w", err)
	}
	err := os.Rename(src, dst)
	if err != nil && runtime.GOOS == OSWindows {
		if rmErr := RemoveIfExists(dst); rmErr != nil {
			return fmt.Errorf("remove %s: %w", dst, rmErr)
		}
		err = os.Rename(src, dst)
	}
	if err != nil {
		return fmt.Errorf("rename %s: %w", src, err)
	}
	return nil
}

// TempAudioPath returns the path an in-place rewrite of audioPath is written to,
// keeping the extension so the encoder picks the same muxer.
func TempAudioPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + TempInfix + ext
}

// TempCoverPath returns the path the cover image for audioPath is staged at
func TempCoverPath(audioPath string) string {
	return audioPath + TempCoverSuffix
}

// IsAudioFile reports whether the player would list the file
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range AudioExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// IsTempFile reports whether the file is a leftover of an interrupted cover rewrite
func IsTempFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, TempCoverSuffix) {
		return true
	}
	ext := filepath.Ext(base)
	return ext != "" && strings.HasSuffix(strings.TrimSuffix(base, ext), TempInfix)
}

// FileSize returns the size of the file in bytes
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// GetDefaultOutputDir returns ~/Music/audiofixture/playlist
func GetDefaultOutputDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, MusicDirName, AppDirName, PlaylistDirName), nil
}

package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrOutsideAssets is returned when a delete targets a path that does not
// resolve inside the managed assets directory.
var ErrOutsideAssets = errors.New("can only delete files from the assets directory")

// AssetStore manages the assets directory next to the board file. Pasted
// images are normalized to PNG and stored under fresh names.
type AssetStore struct {
	dir string
}

func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{dir: dir}
}

func (a *AssetStore) Dir() string { return a.dir }

func (a *AssetStore) ensureDir() error {
	return os.MkdirAll(a.dir, 0o755)
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

func isImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ImportImage copies an image file into the assets directory, normalized to
// PNG, and reports its pixel dimensions.
func (a *AssetStore) ImportImage(srcPath string) (string, int, int, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", 0, 0, fmt.Errorf("read image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", 0, 0, fmt.Errorf("decode image: %w", err)
	}

	if err := a.ensureDir(); err != nil {
		return "", 0, 0, err
	}
	dest := filepath.Join(a.dir, uuid.NewString()+".png")

	out, err := os.Create(dest)
	if err != nil {
		return "", 0, 0, err
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(dest)
		return "", 0, 0, fmt.Errorf("encode png: %w", err)
	}

	bounds := img.Bounds()
	return dest, bounds.Dx(), bounds.Dy(), nil
}

// ReadDataURL loads a binary asset as a base64 data URL for overlays.
func ReadDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	case ".webp":
		mime = "image/webp"
	case ".bmp":
		mime = "image/bmp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ImageSize reads just the dimensions of an image file.
func ImageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// Delete removes an asset file, refusing any path outside the assets
// directory. Both sides are resolved through symlinks before comparing.
func (a *AssetStore) Delete(path string) error {
	file, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	file, err = filepath.EvalSymlinks(file)
	if err != nil {
		return fmt.Errorf("asset not found: %w", err)
	}
	dir, err := filepath.EvalSymlinks(a.dir)
	if err != nil {
		return fmt.Errorf("assets directory not found: %w", err)
	}
	rel, err := filepath.Rel(dir, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrOutsideAssets
	}
	return os.Remove(file)
}

// Owns reports whether a node text references a file under the assets dir,
// without touching the filesystem.
func (a *AssetStore) Owns(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(a.dir, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// readMarkdownFile loads a local markdown file, accepting ~, file:// and
// percent-encoded paths.
func readMarkdownFile(path string) (string, error) {
	expanded := path
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = home + path[1:]
		}
	} else if strings.HasPrefix(path, "file://") {
		stripped := strings.TrimPrefix(path, "file://")
		if decoded, err := url.PathUnescape(stripped); err == nil {
			expanded = decoded
		} else {
			expanded = stripped
		}
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", expanded, err)
	}
	return string(data), nil
}

// readClipboardText prefers pbpaste on macOS, which copes better with
// styled clipboard flavors, and falls back to the portable path.
func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// openExternally hands a URL to the platform opener. Fire and forget.
func openExternally(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return exec.Command("xdg-open", target).Start()
	}
}

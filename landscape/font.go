package landscape

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontNames are the system fonts tried before the bundled font.
var DefaultFontNames = []string{"Arial", "DejaVuSans"}

// A FaceLoader produces a face at a pixel size or fails.
type FaceLoader struct {
	Name string
	Load func(size float64) (font.Face, error)
}

var errFontNotFound = errors.New("font not found")

// SystemFont finds a TrueType or OpenType file called name (case-insensitive,
// without extension) under dirs, or under FontDirs when dirs is empty.
func SystemFont(name string, dirs ...string) FaceLoader {
	return FaceLoader{
		Name: name,
		Load: func(size float64) (font.Face, error) {
			search := dirs
			if len(search) == 0 {
				search = FontDirs()
			}
			path, err := findFontFile(name, search)
			if err != nil {
				return nil, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return parseFace(data, size)
		},
	}
}

// BundledFont is Go Regular, compiled into the binary.
func BundledFont() FaceLoader {
	return FaceLoader{
		Name: "Go Regular",
		Load: func(size float64) (font.Face, error) {
			return parseFace(goregular.TTF, size)
		},
	}
}

// BasicFont is the 7x13 bitmap face. It ignores size and never fails.
func BasicFont() FaceLoader {
	return FaceLoader{
		Name: "basic 7x13",
		Load: func(float64) (font.Face, error) {
			return basicfont.Face7x13, nil
		},
	}
}

// ResolveFace returns the first face that loads, falling back to the basic
// face when every loader fails.
func ResolveFace(size float64, loaders ...FaceLoader) (font.Face, string) {
	for _, l := range loaders {
		face, err := l.Load(size)
		if err == nil && face != nil {
			return face, l.Name
		}
	}
	return basicfont.Face7x13, BasicFont().Name
}

func parseFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func findFontFile(name string, dirs []string) (string, error) {
	want := strings.ToLower(name)
	for _, dir := range dirs {
		var found string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable subtrees are skipped, not fatal
				if d != nil && d.IsDir() && path != dir {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			if strings.ToLower(strings.TrimSuffix(d.Name(), filepath.Ext(path))) == want {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		if found != "" {
			return found, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errFontNotFound, name)
}

// FontDirs lists the usual font directories of the current platform.
func FontDirs() []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	switch runtime.GOOS {
	case "windows":
		if windir := os.Getenv("WINDIR"); windir != "" {
			dirs = append(dirs, filepath.Join(windir, "Fonts"))
		}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = append(dirs, "/System/Library/Fonts", "/Library/Fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	default:
		dirs = append(dirs, "/usr/share/fonts", "/usr/local/share/fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
	}
	return dirs
}

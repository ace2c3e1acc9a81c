package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	initOnce sync.Once
	initErr  error
	loaded   atomic.Bool
)

// Init loads the FFmpeg shared libraries and binds their symbols. It is safe
// to call from multiple goroutines; the first call does the work and every
// later call returns the same result.
func Init() error {
	initOnce.Do(func() {
		initErr = loadLibraries(defaultSearchEnv())
		if initErr != nil {
			logger().Debug("ffmpeg libraries unavailable", "error", initErr)
			return
		}
		loaded.Store(true)
		RegisterDevices()
		for _, info := range Libraries() {
			logger().Debug("ffmpeg library loaded",
				"library", info.Name,
				"version", info.Version.String(),
				"path", info.Path)
		}
	})
	return initErr
}

// IsLoaded reports whether Init succeeded.
func IsLoaded() bool {
	return loaded.Load()
}

// MustInit is like Init but panics on failure. Intended for main packages.
func MustInit() {
	if err := Init(); err != nil {
		panic(err)
	}
}

// searchEnv holds the inputs of the library search so it can be tested
// without touching the process environment.
type searchEnv struct {
	getenv     func(string) string
	goos       string
	goarch     string
	exeDir     string
	workDir    string
	moduleRoot string
}

func defaultSearchEnv() searchEnv {
	env := searchEnv{
		getenv:     os.Getenv,
		goos:       runtime.GOOS,
		goarch:     runtime.GOARCH,
		moduleRoot: findModuleRoot(),
	}
	if exe, err := os.Executable(); err == nil {
		env.exeDir = filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		env.workDir = wd
	}
	return env
}

// vcpkgTriplet returns the triplet whose lib directory holds the libraries.
func (e searchEnv) vcpkgTriplet() string {
	if t := e.getenv("VCPKG_DEFAULT_TRIPLET"); t != "" {
		return t
	}
	arch := "x64"
	if e.goarch == "arm64" {
		arch = "arm64"
	}
	switch e.goos {
	case "darwin":
		return arch + "-osx"
	case "windows":
		return arch + "-windows"
	default:
		return arch + "-linux"
	}
}

// searchDirs lists the directories probed for the libraries, highest
// priority first.
func (e searchEnv) searchDirs() []string {
	var dirs []string

	// Environment variable overrides (highest priority)
	if dir := e.getenv("FFMPEG_LIB_PATH"); dir != "" {
		dirs = append(dirs, dir)
	}
	if root := e.getenv("VCPKG_ROOT"); root != "" {
		dirs = append(dirs, filepath.Join(root, "installed", e.vcpkgTriplet(), "lib"))
	}

	// Relative to the executable
	if e.exeDir != "" {
		dirs = append(dirs,
			filepath.Join(e.exeDir, "lib"),
			filepath.Join(e.exeDir, "..", "lib"),
		)
	}

	// Development build trees
	if e.workDir != "" {
		dirs = append(dirs, filepath.Join(e.workDir, "build", "lib"))
	}
	if e.moduleRoot != "" && e.moduleRoot != e.workDir {
		dirs = append(dirs, filepath.Join(e.moduleRoot, "build", "lib"))
	}

	// System paths (lowest priority)
	switch e.goos {
	case "darwin":
		dirs = append(dirs, "/opt/homebrew/lib", "/usr/local/lib")
	case "linux":
		dirs = append(dirs, "/usr/local/lib", "/usr/lib")
		switch e.goarch {
		case "amd64":
			dirs = append(dirs, "/usr/lib/x86_64-linux-gnu")
		case "arm64":
			dirs = append(dirs, "/usr/lib/aarch64-linux-gnu")
		}
	}
	return dirs
}

// fileNames returns the shared object names for l, versioned first, for
// each of the given majors.
func (e searchEnv) fileNames(l Library, majors []int) []string {
	name := "lib" + libraryInfo[l].Name
	var names []string
	for _, major := range majors {
		switch e.goos {
		case "darwin":
			names = append(names, fmt.Sprintf("%s.%d.dylib", name, major))
		case "windows":
			names = append(names, fmt.Sprintf("%s-%d.dll", libraryInfo[l].Name, major))
		default:
			names = append(names, fmt.Sprintf("%s.so.%d", name, major))
		}
	}
	switch e.goos {
	case "darwin":
		names = append(names, name+".dylib")
	case "windows":
	default:
		names = append(names, name+".so")
	}
	return names
}

// candidates returns every path tried for l, in order. Bare names come last
// so the dynamic linker's own search path is used as a fallback.
func (e searchEnv) candidates(l Library, majors []int) []string {
	names := e.fileNames(l, majors)
	var paths []string
	for _, dir := range e.searchDirs() {
		for _, name := range names {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return append(paths, names...)
}

// findModuleRoot walks up from the working directory to the nearest go.mod.
func findModuleRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// checkABI returns the release series a library of version v belongs to.
// Once a series is selected (current != nil) every other library must match
// it; before that any supported series is accepted.
func checkABI(l Library, v Version, current *abiSeries) (*abiSeries, error) {
	if current != nil {
		if v.Major() == current.Majors[l] {
			return current, nil
		}
		return nil, fmt.Errorf("lib%s %s does not match FFmpeg %s, need major %d: %w",
			l, v, current.Name, current.Majors[l], ErrUnsupportedVersion)
	}
	for _, s := range abiSeriesList {
		if v.Major() == s.Majors[l] {
			return s, nil
		}
	}
	return nil, fmt.Errorf("lib%s %s, need major %v: %w", l, v, current.majors(l), ErrUnsupportedVersion)
}

//go:build darwin || linux

package ffmpeg

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ebitengine/purego"
)

var libraryHandles [libraryCount]uintptr

// loadLibraries opens each library in dependency order. Required libraries
// abort the load; optional ones are skipped with a debug log.
func loadLibraries(env searchEnv) error {
	for l := Library(0); l < libraryCount; l++ {
		err := loadLibrary(l, env)
		if err == nil {
			continue
		}
		if l.Required() {
			return err
		}
		logger().Debug("optional ffmpeg library skipped", "library", "lib"+l.String(), "error", err)
	}
	return nil
}

// loadLibrary tries each candidate path until one opens, belongs to the
// selected release series and exports every required symbol.
func loadLibrary(l Library, env searchEnv) error {
	var lastErr error
	for _, path := range env.candidates(l, activeABI.Load().majors(l)) {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		series, err := probeABI(l, handle)
		if err == nil {
			err = bindSymbols(l, handle)
		}
		if err != nil {
			purego.Dlclose(handle)
			logger().Debug("ffmpeg library rejected", "path", path, "error", err)
			lastErr = err
			continue
		}
		setActiveABI(series)
		libraryHandles[l] = handle
		setLibraryAvailable(l, path)
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("not found in any standard location")
	}
	return fmt.Errorf("failed to load lib%s: %w", l, lastErr)
}

// probeABI reads the version of the library behind handle without binding
// anything else.
func probeABI(l Library, handle uintptr) (*abiSeries, error) {
	sym, err := purego.Dlsym(handle, l.String()+"_version")
	if err != nil {
		return nil, fmt.Errorf("lib%s: version symbol missing: %w", l, ErrUnsupportedVersion)
	}
	var version func() uint32
	purego.RegisterFunc(&version, sym)
	return checkABI(l, Version(version()), activeABI.Load())
}

// bindSymbols binds the functions of l from handle. On failure the
// functions of l are left unbound.
func bindSymbols(l Library, handle uintptr) error {
	for _, s := range symbols {
		if s.lib != l {
			continue
		}
		sym, err := purego.Dlsym(handle, s.name)
		if err != nil {
			if s.optional {
				unbind(s)
				continue
			}
			unbindSymbols(l)
			return fmt.Errorf("lib%s: symbol %s: %w", l, s.name, err)
		}
		purego.RegisterFunc(s.fn, sym)
	}
	return nil
}

func unbindSymbols(l Library) {
	for _, s := range symbols {
		if s.lib == l {
			unbind(s)
		}
	}
}

// unbind resets the function variable of s to nil.
func unbind(s symbol) {
	reflect.ValueOf(s.fn).Elem().SetZero()
}

package ffmpeg

import (
	"fmt"
	"sync/atomic"
)

// Library identifies one of the FFmpeg shared libraries.
type Library uint8

const (
	LibAVUtil     Library = iota // libavutil
	LibSWResample                // libswresample
	LibSWScale                   // libswscale
	LibAVCodec                   // libavcodec
	LibAVFormat                  // libavformat
	LibAVFilter                  // libavfilter
	LibAVDevice                  // libavdevice
	libraryCount
)

// libraryMeta contains static metadata about a library.
type libraryMeta struct {
	Name     string
	Required bool // Init fails when a required library is missing
}

// Static metadata table - indexed by Library, in load order.
var libraryInfo = [libraryCount]libraryMeta{
	LibAVUtil:     {"avutil", true},
	LibSWResample: {"swresample", false},
	LibSWScale:    {"swscale", false},
	LibAVCodec:    {"avcodec", true},
	LibAVFormat:   {"avformat", true},
	LibAVFilter:   {"avfilter", false},
	LibAVDevice:   {"avdevice", false},
}

// abiSeries is an FFmpeg release series with its library majors and the
// struct layouts that differ between series.
type abiSeries struct {
	Name   string
	Majors [libraryCount]int
	frame  frameLayout
}

// Supported series, newest first. The loader tries versioned file names in
// this order and locks onto the series of the libavutil it loads.
var abiSeriesList = []*abiSeries{
	{
		Name: "8.x",
		Majors: [libraryCount]int{
			LibAVUtil: 60, LibSWResample: 6, LibSWScale: 9,
			LibAVCodec: 62, LibAVFormat: 62, LibAVFilter: 11, LibAVDevice: 62,
		},
		frame: frameLayout8,
	},
	{
		Name: "7.x",
		Majors: [libraryCount]int{
			LibAVUtil: 59, LibSWResample: 5, LibSWScale: 8,
			LibAVCodec: 61, LibAVFormat: 61, LibAVFilter: 10, LibAVDevice: 61,
		},
		frame: frameLayout7,
	},
}

// majors lists the majors of l accepted under s, or under every supported
// series when s is nil.
func (s *abiSeries) majors(l Library) []int {
	if s != nil {
		return []int{s.Majors[l]}
	}
	out := make([]int, 0, len(abiSeriesList))
	for _, series := range abiSeriesList {
		out = append(out, series.Majors[l])
	}
	return out
}

// activeABI is the series selected by the loader; nil until libavutil loads.
var activeABI atomic.Pointer[abiSeries]

func setActiveABI(s *abiSeries) {
	activeABI.Store(s)
	frameOff = s.frame
}

// ReleaseSeries returns the FFmpeg release series of the loaded libraries
// ("7.x", "8.x"), or "" before Init succeeds.
func ReleaseSeries() string {
	if s := activeABI.Load(); s != nil {
		return s.Name
	}
	return ""
}

// Runtime state - set by the loader.
var (
	libraryAvailable [libraryCount]atomic.Bool
	libraryPath      [libraryCount]atomic.Value // string
)

// String returns the library name without the "lib" prefix.
func (l Library) String() string {
	if l >= libraryCount {
		return "unknown"
	}
	return libraryInfo[l].Name
}

// Required reports whether Init fails when the library is missing.
func (l Library) Required() bool {
	if l >= libraryCount {
		return false
	}
	return libraryInfo[l].Required
}

// Available returns true if the library was loaded and its symbols bound.
func (l Library) Available() bool {
	if l >= libraryCount {
		return false
	}
	return libraryAvailable[l].Load()
}

// Path returns the file the library was loaded from, or "".
func (l Library) Path() string {
	if l >= libraryCount {
		return ""
	}
	p, _ := libraryPath[l].Load().(string)
	return p
}

func setLibraryAvailable(l Library, path string) {
	if l < libraryCount {
		libraryPath[l].Store(path)
		libraryAvailable[l].Store(true)
	}
}

// requireLibrary returns ErrNotLoaded (wrapped with the library name) when l
// is not usable.
func requireLibrary(l Library) error {
	if !l.Available() {
		return fmt.Errorf("lib%s: %w", l, ErrNotLoaded)
	}
	return nil
}

// LibraryInfo describes a loaded FFmpeg library.
type LibraryInfo struct {
	Library       Library `json:"-" yaml:"-"`
	Name          string  `json:"name" yaml:"name"`
	Path          string  `json:"path" yaml:"path"`
	Version       Version `json:"version" yaml:"version"`
	License       string  `json:"license" yaml:"license"`
	Configuration string  `json:"configuration,omitempty" yaml:"configuration,omitempty"`
}

// Libraries returns information about every library that is loaded.
func Libraries() []LibraryInfo {
	var out []LibraryInfo
	for l := Library(0); l < libraryCount; l++ {
		if !l.Available() {
			continue
		}
		out = append(out, LibraryInfo{
			Library:       l,
			Name:          "lib" + l.String(),
			Path:          l.Path(),
			Version:       LibraryVersion(l),
			License:       LibraryLicense(l),
			Configuration: LibraryConfiguration(l),
		})
	}
	return out
}

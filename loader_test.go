package ffmpeg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSearchEnv(vars map[string]string) searchEnv {
	return searchEnv{
		getenv:     func(k string) string { return vars[k] },
		goos:       "linux",
		goarch:     "amd64",
		exeDir:     "/opt/app/bin",
		workDir:    "/src/app",
		moduleRoot: "/src",
	}
}

func TestSearchDirsOrder(t *testing.T) {
	env := testSearchEnv(map[string]string{
		"FFMPEG_LIB_PATH": "/custom/lib",
		"VCPKG_ROOT":      "/vcpkg",
	})
	assert.Equal(t, []string{
		"/custom/lib",
		"/vcpkg/installed/x64-linux/lib",
		"/opt/app/bin/lib",
		filepath.Join("/opt/app/bin", "..", "lib"),
		"/src/app/build/lib",
		"/src/build/lib",
		"/usr/local/lib",
		"/usr/lib",
		"/usr/lib/x86_64-linux-gnu",
	}, env.searchDirs())
}

func TestVcpkgTriplet(t *testing.T) {
	env := testSearchEnv(nil)
	assert.Equal(t, "x64-linux", env.vcpkgTriplet())
	env.goos, env.goarch = "darwin", "arm64"
	assert.Equal(t, "arm64-osx", env.vcpkgTriplet())
	env.goos = "windows"
	assert.Equal(t, "arm64-windows", env.vcpkgTriplet())

	env = testSearchEnv(map[string]string{"VCPKG_DEFAULT_TRIPLET": "x64-linux-dynamic"})
	assert.Equal(t, "x64-linux-dynamic", env.vcpkgTriplet())
}

func TestLibraryFileNames(t *testing.T) {
	env := testSearchEnv(nil)
	assert.Equal(t, []string{
		"libavcodec.so.62", "libavcodec.so.61", "libavcodec.so",
	}, env.fileNames(LibAVCodec, (*abiSeries)(nil).majors(LibAVCodec)))
	assert.Equal(t, []string{
		"libavcodec.so.61", "libavcodec.so",
	}, env.fileNames(LibAVCodec, []int{61}))

	env.goos = "darwin"
	assert.Equal(t, []string{
		"libavutil.60.dylib", "libavutil.dylib",
	}, env.fileNames(LibAVUtil, []int{60}))
	env.goos = "windows"
	assert.Equal(t, []string{"avcodec-62.dll"}, env.fileNames(LibAVCodec, []int{62}))
}

func TestCandidatesEndWithBareNames(t *testing.T) {
	env := testSearchEnv(map[string]string{"FFMPEG_LIB_PATH": "/custom/lib"})
	majors := []int{60, 59}
	paths := env.candidates(LibAVUtil, majors)
	names := env.fileNames(LibAVUtil, majors)
	require.Greater(t, len(paths), len(names))
	assert.Equal(t, filepath.Join("/custom/lib", names[0]), paths[0])
	assert.Equal(t, filepath.Join("/custom/lib", names[1]), paths[1])
	assert.Equal(t, names, paths[len(paths)-len(names):])
}

func TestCheckABI(t *testing.T) {
	ffmpeg8, err := checkABI(LibAVUtil, MakeVersion(60, 8, 100), nil)
	require.NoError(t, err)
	assert.Equal(t, "8.x", ffmpeg8.Name)
	assert.Equal(t, frameLayout8, ffmpeg8.frame)

	got, err := checkABI(LibAVCodec, MakeVersion(62, 11, 100), ffmpeg8)
	require.NoError(t, err)
	assert.Same(t, ffmpeg8, got)

	_, err = checkABI(LibAVCodec, MakeVersion(61, 19, 100), ffmpeg8)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.ErrorContains(t, err, "FFmpeg 8.x")

	ffmpeg7, err := checkABI(LibAVUtil, MakeVersion(59, 39, 100), nil)
	require.NoError(t, err)
	assert.Equal(t, "7.x", ffmpeg7.Name)
	assert.Equal(t, frameLayout7, ffmpeg7.frame)
	_, err = checkABI(LibSWScale, MakeVersion(8, 3, 100), ffmpeg7)
	assert.NoError(t, err)

	_, err = checkABI(LibAVUtil, MakeVersion(58, 29, 100), nil)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.ErrorContains(t, err, "[60 59]")
}

func TestFrameLayouts(t *testing.T) {
	// FFmpeg 8 dropped key_frame and three ints before sample_rate, then
	// pkt_pos and pkt_size.
	assert.Equal(t, frameLayout7.pictType-4, frameLayout8.pictType)
	assert.Equal(t, frameLayout7.sampleRate-12, frameLayout8.sampleRate)
	assert.Equal(t, frameLayout7.flags-16, frameLayout8.flags)
	assert.Equal(t, frameLayout7.bestEffort-16, frameLayout8.bestEffort)
	assert.Equal(t, frameLayout7.metadata-24, frameLayout8.metadata)
	assert.Equal(t, frameLayout7.chLayout-24, frameLayout8.chLayout)
	assert.Equal(t, frameLayout8.chLayout+sizeofChannelLayout, frameLayout8.duration)
	assert.Equal(t, frameLayout7.chLayout+sizeofChannelLayout, frameLayout7.duration)
}

func TestLibraryMetadata(t *testing.T) {
	assert.Equal(t, "avformat", LibAVFormat.String())
	assert.True(t, LibAVCodec.Required())
	assert.False(t, LibAVDevice.Required())
	assert.Equal(t, "unknown", Library(200).String())
	assert.False(t, Library(200).Available())
}

func TestInitIsStable(t *testing.T) {
	first := Init()
	assert.Equal(t, first, Init())
	assert.Equal(t, first == nil, IsLoaded())
	if first == nil {
		assert.NotEmpty(t, LibAVUtil.Path())
		series := activeABI.Load()
		require.NotNil(t, series)
		assert.Equal(t, series.Name, ReleaseSeries())
		for _, info := range Libraries() {
			assert.Equal(t, series.Majors[info.Library], info.Version.Major(), info.Name)
		}
		assert.Equal(t, series.frame, frameOff)
	}
}

func TestVersion(t *testing.T) {
	v := MakeVersion(61, 19, 100)
	assert.Equal(t, 61, v.Major())
	assert.Equal(t, 19, v.Minor())
	assert.Equal(t, 100, v.Micro())
	assert.Equal(t, "61.19.100", v.String())

	var got Version
	require.NoError(t, got.UnmarshalText([]byte("61.19.100")))
	assert.Equal(t, v, got)
	assert.Error(t, got.UnmarshalText([]byte("61.19")))
	assert.Error(t, got.UnmarshalText([]byte("61.x.1")))
}

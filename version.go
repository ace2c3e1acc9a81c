package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an FFmpeg library version packed as major<<16 | minor<<8 | micro.
type Version uint32

// MakeVersion packs a version triple.
func MakeVersion(major, minor, micro int) Version {
	return Version(uint32(major)<<16 | uint32(minor&0xff)<<8 | uint32(micro&0xff))
}

func (v Version) Major() int { return int(v >> 16) }
func (v Version) Minor() int { return int(v>>8) & 0xff }
func (v Version) Micro() int { return int(v) & 0xff }

// String returns "major.minor.micro".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Micro())
}

// MarshalText encodes the version as "major.minor.micro".
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses "major.minor.micro".
func (v *Version) UnmarshalText(b []byte) error {
	parts := strings.Split(string(b), ".")
	if len(parts) != 3 {
		return fmt.Errorf("ffmpeg: malformed version %q", b)
	}
	var n [3]int
	for i, p := range parts {
		x, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("ffmpeg: malformed version %q: %w", b, err)
		}
		n[i] = x
	}
	*v = MakeVersion(n[0], n[1], n[2])
	return nil
}

// LibraryVersion returns the runtime version of l, or 0 if it is not loaded.
func LibraryVersion(l Library) Version {
	version, _, _ := versionFuncs(l)
	if !l.Available() || version == nil {
		return 0
	}
	return Version(version())
}

// LibraryConfiguration returns the configure flags l was built with.
func LibraryConfiguration(l Library) string {
	_, config, _ := versionFuncs(l)
	if !l.Available() || config == nil {
		return ""
	}
	return config()
}

// LibraryLicense returns the license l was built under.
func LibraryLicense(l Library) string {
	_, _, license := versionFuncs(l)
	if !l.Available() || license == nil {
		return ""
	}
	return license()
}

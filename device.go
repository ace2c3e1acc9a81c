package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"
)

// DeviceKind represents the type of media device.
type DeviceKind int

const (
	DeviceKindVideoInput  DeviceKind = iota // Camera
	DeviceKindAudioInput                    // Microphone
	DeviceKindVideoOutput                   // Display
	DeviceKindAudioOutput                   // Speaker/headphones
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceKindVideoInput:
		return "videoinput"
	case DeviceKindAudioInput:
		return "audioinput"
	case DeviceKindVideoOutput:
		return "videooutput"
	case DeviceKindAudioOutput:
		return "audiooutput"
	default:
		return "unknown"
	}
}

// DeviceInfo describes a source reported by a capture device format.
type DeviceInfo struct {
	Format      string      `json:"format" yaml:"format"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	MediaTypes  []MediaType `json:"media_types,omitempty" yaml:"media_types,omitempty"`
	Default     bool        `json:"default,omitempty" yaml:"default,omitempty"`
}

// Kind derives the device kind from its media types.
func (d DeviceInfo) Kind() DeviceKind {
	for _, t := range d.MediaTypes {
		if t == MediaTypeVideo {
			return DeviceKindVideoInput
		}
	}
	return DeviceKindAudioInput
}

var registerDevices sync.Once

// RegisterDevices makes the libavdevice formats visible to the demuxer and
// muxer lookups. Init calls it; it does nothing without libavdevice.
func RegisterDevices() {
	registerDevices.Do(func() {
		if requireLibrary(LibAVDevice) != nil || avdeviceRegisterAll == nil {
			return
		}
		avdeviceRegisterAll()
		logger().Debug("capture devices registered")
	})
}

// InputDevices lists the capture device formats (v4l2, alsa, avfoundation…),
// video first.
func InputDevices() []*InputFormat {
	if requireLibrary(LibAVDevice) != nil {
		return nil
	}
	var out []*InputFormat
	for _, next := range []func(unsafe.Pointer) unsafe.Pointer{avInputVideoDeviceNext, avInputAudioDeviceNext} {
		for p := next(nil); p != nil; p = next(p) {
			out = append(out, &InputFormat{p: p})
		}
	}
	return out
}

// OutputDevices lists the playback device formats, video first.
func OutputDevices() []*OutputFormat {
	if requireLibrary(LibAVDevice) != nil {
		return nil
	}
	var out []*OutputFormat
	for _, next := range []func(unsafe.Pointer) unsafe.Pointer{avOutputVideoDeviceNext, avOutputAudioDeviceNext} {
		for p := next(nil); p != nil; p = next(p) {
			out = append(out, &OutputFormat{p: p})
		}
	}
	return out
}

// ListInputSources asks the capture format for its sources. device may be
// empty; some formats need a device name to enumerate sub-sources. Formats
// without enumeration support return an ENOSYS error.
func ListInputSources(format, device string, opts *Dictionary) ([]DeviceInfo, error) {
	if err := requireLibrary(LibAVDevice); err != nil {
		return nil, err
	}
	f, err := FindInputFormat(format)
	if err != nil {
		return nil, err
	}
	var list unsafe.Pointer
	ret, err := passNative(opts, func(m *unsafe.Pointer) int32 {
		return avdeviceListInputSources(f.p, cString(device), *m, &list)
	})
	if err != nil {
		return nil, err
	}
	defer avdeviceFreeListDevices(&list)
	if ret < 0 {
		return nil, fmt.Errorf("%s: %w", format, newError(ret, "avdevice_list_input_sources"))
	}
	return deviceList(format, list), nil
}

// deviceList copies an AVDeviceInfoList.
func deviceList(format string, list unsafe.Pointer) []DeviceInfo {
	if list == nil {
		return nil
	}
	n := int(peekInt32(list, offDevListCount))
	def := int(peekInt32(list, offDevListDefault))
	arr := peekPtr(list, offDevListDevices)
	out := make([]DeviceInfo, 0, n)
	for i := 0; i < n; i++ {
		d := ptrAt(arr, i)
		info := DeviceInfo{
			Format:      format,
			Name:        peekString(d, offDevName),
			Description: peekString(d, offDevDescription),
			Default:     i == def,
		}
		types := peekPtr(d, offDevMediaTypes)
		for j := 0; j < int(peekInt32(d, offDevNbMediaTypes)); j++ {
			info.MediaTypes = append(info.MediaTypes, MediaType(peekInt32(types, uintptr(j)*4)))
		}
		out = append(out, info)
	}
	return out
}

// DefaultCaptureFormats returns the usual video and audio capture formats
// for the current platform.
func DefaultCaptureFormats() (video, audio string) {
	return captureFormats(runtime.GOOS)
}

func captureFormats(goos string) (video, audio string) {
	switch goos {
	case "linux":
		return "v4l2", "alsa"
	case "darwin":
		return "avfoundation", "avfoundation"
	case "windows":
		return "dshow", "dshow"
	}
	return "", ""
}

// EnumerateDevices lists the sources of every capture format that supports
// enumeration. Formats that do not are skipped. It stops early when ctx is
// done.
func EnumerateDevices(ctx context.Context) ([]DeviceInfo, error) {
	if err := requireLibrary(LibAVDevice); err != nil {
		return nil, err
	}
	var all []DeviceInfo
	seen := map[string]bool{}
	for _, f := range InputDevices() {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		name := f.Name()
		if seen[name] {
			continue
		}
		seen[name] = true
		infos, err := ListInputSources(name, "", nil)
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				logger().Debug("device enumeration unsupported", "format", name, "error", err)
				continue
			}
			return all, err
		}
		all = append(all, infos...)
	}
	return all, nil
}

// OpenDevice opens a capture device as an Input, e.g. ("v4l2", "/dev/video0")
// or ("avfoundation", "0:0").
func OpenDevice(format, device string, opts ...InputOption) (*Input, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: no capture format", ErrInvalidArgument)
	}
	return OpenInput(device, append([]InputOption{WithInputFormat(format)}, opts...)...)
}

// Package ffmpeg provides Go bindings for the FFmpeg libraries, loaded at
// runtime with purego so no C toolchain is needed.
//
// Key pieces include:
//   - Input/Output for demuxing and muxing files, URLs and capture devices
//   - Decoder/Encoder over libavcodec, with Scaler, Resampler and AudioFIFO
//   - FilterGraph for libavfilter chains
//   - Probe for a one-call summary of a media file
//   - Transcoder for one input re-encoded into several variants
//   - Compositor for picture-in-picture and grid layouts
//   - RTPPacketizer for sending encoded packets over RTP and WebRTC
//
// # Architecture
//
//	Decode: Input -> Packet -> Decoder -> Frame
//	Encode: Frame -> [FilterGraph] -> [Scaler] -> Encoder -> Packet -> Output
//	Relay:  Input -> Packet -> [Transcoder] -> RTPPacketizer -> rtp.Packet
//
// # Native Libraries
//
// Init loads libavutil, libavcodec and libavformat, plus libswscale,
// libswresample, libavfilter and libavdevice when present. Features that
// need a missing optional library return ErrNotLoaded. The FFmpeg 7.x and
// 8.x series are supported. The loaded libavutil selects the series (see
// ReleaseSeries) and every other library must belong to it; other majors
// are rejected with ErrUnsupportedVersion.
//
// Libraries are searched in FFMPEG_LIB_PATH, the vcpkg tree under
// VCPKG_ROOT, lib directories next to the executable, build/lib in the
// working directory and module root, then the system paths.
//
// Only Linux and macOS are supported; elsewhere Init returns
// ErrUnsupportedPlatform.
//
// # Memory
//
// Values wrapping native objects (Packet, Frame, Encoder, ...) must be
// released with Free or Close. Slices returned by Data are borrowed from
// native buffers and are only valid until the owner is reused or freed.
//
// # Logging
//
// The package reports its own diagnostics through log/slog; SetLogger
// installs the destination, which discards everything by default.
// FFmpeg itself still writes to stderr, filtered by SetLogLevel.
package ffmpeg

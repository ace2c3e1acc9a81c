package ffmpeg

import "unsafe"

// Native function pointers. They are bound by the loader; a nil pointer means
// the owning library (or this particular symbol) is unavailable.
//
// Pointer arguments are unsafe.Pointer, AVRational values returned by value
// are read as uint64 (two packed int32 in one register on amd64/arm64), and
// nullable strings are *byte (see cString).
var (
	// libavutil
	avutilVersion       func() uint32
	avutilConfiguration func() string
	avutilLicense       func() string

	avStrerror func(errnum int32, buf unsafe.Pointer, size uintptr) int32
	avMalloc   func(size uintptr) unsafe.Pointer
	avMallocz  func(size uintptr) unsafe.Pointer
	avFree     func(p unsafe.Pointer)
	avStrdup   func(s string) unsafe.Pointer

	avDictSet   func(pm *unsafe.Pointer, key, value string, flags int32) int32
	avDictGet   func(m unsafe.Pointer, key string, prev unsafe.Pointer, flags int32) unsafe.Pointer
	avDictCount func(m unsafe.Pointer) int32
	avDictFree  func(pm *unsafe.Pointer)

	avFrameAlloc        func() unsafe.Pointer
	avFrameFree         func(f *unsafe.Pointer)
	avFrameUnref        func(f unsafe.Pointer)
	avFrameRef          func(dst, src unsafe.Pointer) int32
	avFrameClone        func(f unsafe.Pointer) unsafe.Pointer
	avFrameGetBuffer    func(f unsafe.Pointer, align int32) int32
	avFrameMakeWritable func(f unsafe.Pointer) int32
	avFrameIsWritable   func(f unsafe.Pointer) int32

	avImageFillPlaneSizes func(sizes *[4]uintptr, f int32, height int32, linesizes *[4]int64) int32

	avGetPixFmtName     func(f int32) string
	avGetPixFmt         func(name string) int32
	avPixFmtCountPlanes func(f int32) int32

	avGetSampleFmtName     func(f int32) string
	avGetSampleFmt         func(name string) int32
	avGetBytesPerSample    func(f int32) int32
	avSampleFmtIsPlanar    func(f int32) int32
	avGetMediaTypeString   func(t int32) string
	avChannelLayoutDefault func(ch unsafe.Pointer, nb int32)
	avChannelLayoutMask    func(ch unsafe.Pointer, mask uint64) int32
	avChannelLayoutDescr   func(ch unsafe.Pointer, buf unsafe.Pointer, size uintptr) int32
	avChannelLayoutUninit  func(ch unsafe.Pointer)
	avChannelLayoutCopy    func(dst, src unsafe.Pointer) int32

	avLogSetLevel func(level int32)
	avLogGetLevel func() int32

	avOptSet          func(obj unsafe.Pointer, name, val string, flags int32) int32
	avOptSetInt       func(obj unsafe.Pointer, name string, val int64, flags int32) int32
	avOptSetQ         func(obj unsafe.Pointer, name string, val uint64, flags int32) int32
	avOptSetImageSize func(obj unsafe.Pointer, name string, w, h int32, flags int32) int32
	avOptSetPixelFmt  func(obj unsafe.Pointer, name string, f int32, flags int32) int32
	avOptSetSampleFmt func(obj unsafe.Pointer, name string, f int32, flags int32) int32
	avOptSetChLayout  func(obj unsafe.Pointer, name string, layout unsafe.Pointer, flags int32) int32
	avOptGetInt       func(obj unsafe.Pointer, name string, flags int32, out *int64) int32
	avOptGetQ         func(obj unsafe.Pointer, name string, flags int32, out *[2]int32) int32
	avOptGetImageSize func(obj unsafe.Pointer, name string, flags int32, w, h *int32) int32
	avOptGetPixelFmt  func(obj unsafe.Pointer, name string, flags int32, out *int32) int32
	avOptGetSampleFmt func(obj unsafe.Pointer, name string, flags int32, out *int32) int32
	avOptGetChLayout  func(obj unsafe.Pointer, name string, flags int32, layout unsafe.Pointer) int32

	avAudioFifoAlloc func(fmt, channels, nbSamples int32) unsafe.Pointer
	avAudioFifoFree  func(f unsafe.Pointer)
	avAudioFifoWrite func(f unsafe.Pointer, data unsafe.Pointer, nbSamples int32) int32
	avAudioFifoRead  func(f unsafe.Pointer, data unsafe.Pointer, nbSamples int32) int32
	avAudioFifoSize  func(f unsafe.Pointer) int32
	avAudioFifoReset func(f unsafe.Pointer)

	avSamplesSetSilence func(data unsafe.Pointer, offset, nbSamples, channels, fmt int32) int32

	// libavcodec
	avcodecVersion       func() uint32
	avcodecConfiguration func() string
	avcodecLicense       func() string

	avcodecFindDecoder       func(id int32) unsafe.Pointer
	avcodecFindEncoder       func(id int32) unsafe.Pointer
	avcodecFindDecoderByName func(name string) unsafe.Pointer
	avcodecFindEncoderByName func(name string) unsafe.Pointer
	avCodecIterate           func(opaque *uintptr) unsafe.Pointer
	avCodecIsEncoder         func(c unsafe.Pointer) int32
	avCodecIsDecoder         func(c unsafe.Pointer) int32
	avcodecGetName           func(id int32) string
	avcodecGetType           func(id int32) int32

	avcodecAllocContext3   func(codec unsafe.Pointer) unsafe.Pointer
	avcodecFreeContext     func(ctx *unsafe.Pointer)
	avcodecOpen2           func(ctx, codec unsafe.Pointer, opts *unsafe.Pointer) int32
	avcodecSendPacket      func(ctx, pkt unsafe.Pointer) int32
	avcodecReceiveFrame    func(ctx, frame unsafe.Pointer) int32
	avcodecSendFrame       func(ctx, frame unsafe.Pointer) int32
	avcodecReceivePacket   func(ctx, pkt unsafe.Pointer) int32
	avcodecFlushBuffers    func(ctx unsafe.Pointer)
	avcodecDecodeSubtitle2 func(ctx, sub unsafe.Pointer, gotSub *int32, pkt unsafe.Pointer) int32
	avsubtitleFree         func(sub unsafe.Pointer)

	avcodecParametersAlloc       func() unsafe.Pointer
	avcodecParametersFree        func(par *unsafe.Pointer)
	avcodecParametersCopy        func(dst, src unsafe.Pointer) int32
	avcodecParametersToContext   func(ctx, par unsafe.Pointer) int32
	avcodecParametersFromContext func(par, ctx unsafe.Pointer) int32

	avPacketAlloc func() unsafe.Pointer
	avPacketFree  func(pkt *unsafe.Pointer)
	avPacketUnref func(pkt unsafe.Pointer)
	avPacketRef   func(dst, src unsafe.Pointer) int32
	avPacketClone func(pkt unsafe.Pointer) unsafe.Pointer
	avNewPacket   func(pkt unsafe.Pointer, size int32) int32

	// libavformat
	avformatVersion       func() uint32
	avformatConfiguration func() string
	avformatLicense       func() string

	avformatAllocContext   func() unsafe.Pointer
	avformatFreeContext    func(ctx unsafe.Pointer)
	avformatOpenInput      func(ps *unsafe.Pointer, url string, fmt unsafe.Pointer, opts *unsafe.Pointer) int32
	avformatFindStreamInfo func(ctx unsafe.Pointer, opts unsafe.Pointer) int32
	avformatCloseInput     func(ps *unsafe.Pointer)
	avReadFrame            func(ctx, pkt unsafe.Pointer) int32
	avformatSeekFile       func(ctx unsafe.Pointer, stream int32, minTS, ts, maxTS int64, flags int32) int32
	avReadPlay             func(ctx unsafe.Pointer) int32
	avReadPause            func(ctx unsafe.Pointer) int32
	avFindBestStream       func(ctx unsafe.Pointer, typ, wanted, related int32, decoder *unsafe.Pointer, flags int32) int32
	avFindInputFormat      func(name string) unsafe.Pointer
	avGuessFormat          func(shortName, filename, mimeType *byte) unsafe.Pointer
	avDemuxerIterate       func(opaque *uintptr) unsafe.Pointer
	avMuxerIterate         func(opaque *uintptr) unsafe.Pointer
	avGuessFrameRate       func(ctx, stream, frame unsafe.Pointer) uint64
	avDumpFormat           func(ctx unsafe.Pointer, index int32, url string, isOutput int32)

	avformatAllocOutputContext2 func(ps *unsafe.Pointer, oformat unsafe.Pointer, formatName, filename *byte) int32
	avformatNewStream           func(ctx, codec unsafe.Pointer) unsafe.Pointer
	avformatWriteHeader         func(ctx unsafe.Pointer, opts *unsafe.Pointer) int32
	avWriteTrailer              func(ctx unsafe.Pointer) int32
	avWriteFrame                func(ctx, pkt unsafe.Pointer) int32
	avInterleavedWriteFrame     func(ctx, pkt unsafe.Pointer) int32
	avioOpen2                   func(pb *unsafe.Pointer, url string, flags int32, cb unsafe.Pointer, opts *unsafe.Pointer) int32
	avioClosep                  func(pb *unsafe.Pointer) int32

	avformatNetworkInit   func() int32
	avformatNetworkDeinit func() int32

	// libavfilter
	avfilterVersion       func() uint32
	avfilterConfiguration func() string
	avfilterLicense       func() string

	avfilterGetByName         func(name string) unsafe.Pointer
	avFilterIterate           func(opaque *uintptr) unsafe.Pointer
	avfilterFilterPadCount    func(f unsafe.Pointer, isOutput int32) uint32
	avfilterPadGetName        func(pads unsafe.Pointer, idx int32) string
	avfilterPadGetType        func(pads unsafe.Pointer, idx int32) int32
	avfilterGraphAlloc        func() unsafe.Pointer
	avfilterGraphFree         func(g *unsafe.Pointer)
	avfilterGraphCreateFilter func(out *unsafe.Pointer, filt unsafe.Pointer, name string, args *byte, opaque, graph unsafe.Pointer) int32
	avfilterLink              func(src unsafe.Pointer, srcPad uint32, dst unsafe.Pointer, dstPad uint32) int32
	avfilterGraphParsePtr     func(g unsafe.Pointer, filters string, inputs, outputs *unsafe.Pointer, logCtx unsafe.Pointer) int32
	avfilterGraphConfig       func(g unsafe.Pointer, logCtx unsafe.Pointer) int32
	avfilterGraphDump         func(g unsafe.Pointer, options *byte) unsafe.Pointer
	avfilterInoutAlloc        func() unsafe.Pointer
	avfilterInoutFree         func(io *unsafe.Pointer)
	avBuffersrcAddFrameFlags  func(ctx, frame unsafe.Pointer, flags int32) int32
	avBuffersinkGetFrameFlags func(ctx, frame unsafe.Pointer, flags int32) int32
	avBuffersinkSetFrameSize  func(ctx unsafe.Pointer, size uint32)

	// libswscale
	swscaleVersion       func() uint32
	swscaleConfiguration func() string
	swscaleLicense       func() string

	swsGetContext  func(srcW, srcH, srcFmt, dstW, dstH, dstFmt, flags int32, srcFilter, dstFilter, param unsafe.Pointer) unsafe.Pointer
	swsScaleFrame  func(c, dst, src unsafe.Pointer) int32
	swsFreeContext func(c unsafe.Pointer)

	// libswresample
	swresampleVersion       func() uint32
	swresampleConfiguration func() string
	swresampleLicense       func() string

	swrAllocSetOpts2 func(ps *unsafe.Pointer, outLayout unsafe.Pointer, outFmt, outRate int32, inLayout unsafe.Pointer, inFmt, inRate int32, logOffset int32, logCtx unsafe.Pointer) int32
	swrInit          func(s unsafe.Pointer) int32
	swrFree          func(s *unsafe.Pointer)
	swrConvertFrame  func(s, out, in unsafe.Pointer) int32
	swrGetDelay      func(s unsafe.Pointer, base int64) int64

	// libavdevice
	avdeviceVersion       func() uint32
	avdeviceConfiguration func() string
	avdeviceLicense       func() string

	avdeviceRegisterAll      func()
	avInputAudioDeviceNext   func(prev unsafe.Pointer) unsafe.Pointer
	avInputVideoDeviceNext   func(prev unsafe.Pointer) unsafe.Pointer
	avOutputAudioDeviceNext  func(prev unsafe.Pointer) unsafe.Pointer
	avOutputVideoDeviceNext  func(prev unsafe.Pointer) unsafe.Pointer
	avdeviceListInputSources func(device unsafe.Pointer, deviceName *byte, opts unsafe.Pointer, list *unsafe.Pointer) int32
	avdeviceFreeListDevices  func(list *unsafe.Pointer)
)

// symbol ties a function pointer to the exported name it is bound from.
type symbol struct {
	lib      Library
	name     string
	fn       any
	optional bool
}

var symbols = []symbol{
	{LibAVUtil, "avutil_version", &avutilVersion, false},
	{LibAVUtil, "avutil_configuration", &avutilConfiguration, false},
	{LibAVUtil, "avutil_license", &avutilLicense, false},
	{LibAVUtil, "av_strerror", &avStrerror, false},
	{LibAVUtil, "av_malloc", &avMalloc, false},
	{LibAVUtil, "av_mallocz", &avMallocz, false},
	{LibAVUtil, "av_free", &avFree, false},
	{LibAVUtil, "av_strdup", &avStrdup, false},
	{LibAVUtil, "av_dict_set", &avDictSet, false},
	{LibAVUtil, "av_dict_get", &avDictGet, false},
	{LibAVUtil, "av_dict_count", &avDictCount, false},
	{LibAVUtil, "av_dict_free", &avDictFree, false},
	{LibAVUtil, "av_frame_alloc", &avFrameAlloc, false},
	{LibAVUtil, "av_frame_free", &avFrameFree, false},
	{LibAVUtil, "av_frame_unref", &avFrameUnref, false},
	{LibAVUtil, "av_frame_ref", &avFrameRef, false},
	{LibAVUtil, "av_frame_clone", &avFrameClone, false},
	{LibAVUtil, "av_frame_get_buffer", &avFrameGetBuffer, false},
	{LibAVUtil, "av_frame_make_writable", &avFrameMakeWritable, false},
	{LibAVUtil, "av_frame_is_writable", &avFrameIsWritable, false},
	{LibAVUtil, "av_image_fill_plane_sizes", &avImageFillPlaneSizes, false},
	{LibAVUtil, "av_get_pix_fmt_name", &avGetPixFmtName, false},
	{LibAVUtil, "av_get_pix_fmt", &avGetPixFmt, false},
	{LibAVUtil, "av_pix_fmt_count_planes", &avPixFmtCountPlanes, false},
	{LibAVUtil, "av_get_sample_fmt_name", &avGetSampleFmtName, false},
	{LibAVUtil, "av_get_sample_fmt", &avGetSampleFmt, false},
	{LibAVUtil, "av_get_bytes_per_sample", &avGetBytesPerSample, false},
	{LibAVUtil, "av_sample_fmt_is_planar", &avSampleFmtIsPlanar, false},
	{LibAVUtil, "av_get_media_type_string", &avGetMediaTypeString, false},
	{LibAVUtil, "av_channel_layout_default", &avChannelLayoutDefault, false},
	{LibAVUtil, "av_channel_layout_from_mask", &avChannelLayoutMask, false},
	{LibAVUtil, "av_channel_layout_describe", &avChannelLayoutDescr, false},
	{LibAVUtil, "av_channel_layout_uninit", &avChannelLayoutUninit, false},
	{LibAVUtil, "av_channel_layout_copy", &avChannelLayoutCopy, false},
	{LibAVUtil, "av_log_set_level", &avLogSetLevel, false},
	{LibAVUtil, "av_log_get_level", &avLogGetLevel, false},
	{LibAVUtil, "av_opt_set", &avOptSet, false},
	{LibAVUtil, "av_opt_set_int", &avOptSetInt, false},
	{LibAVUtil, "av_opt_set_q", &avOptSetQ, false},
	{LibAVUtil, "av_opt_set_image_size", &avOptSetImageSize, false},
	{LibAVUtil, "av_opt_set_pixel_fmt", &avOptSetPixelFmt, false},
	{LibAVUtil, "av_opt_set_sample_fmt", &avOptSetSampleFmt, false},
	{LibAVUtil, "av_opt_set_chlayout", &avOptSetChLayout, false},
	{LibAVUtil, "av_opt_get_int", &avOptGetInt, false},
	{LibAVUtil, "av_opt_get_q", &avOptGetQ, false},
	{LibAVUtil, "av_opt_get_image_size", &avOptGetImageSize, false},
	{LibAVUtil, "av_opt_get_pixel_fmt", &avOptGetPixelFmt, false},
	{LibAVUtil, "av_opt_get_sample_fmt", &avOptGetSampleFmt, false},
	{LibAVUtil, "av_opt_get_chlayout", &avOptGetChLayout, false},
	{LibAVUtil, "av_audio_fifo_alloc", &avAudioFifoAlloc, false},
	{LibAVUtil, "av_audio_fifo_free", &avAudioFifoFree, false},
	{LibAVUtil, "av_audio_fifo_write", &avAudioFifoWrite, false},
	{LibAVUtil, "av_audio_fifo_read", &avAudioFifoRead, false},
	{LibAVUtil, "av_audio_fifo_size", &avAudioFifoSize, false},
	{LibAVUtil, "av_audio_fifo_reset", &avAudioFifoReset, false},
	{LibAVUtil, "av_samples_set_silence", &avSamplesSetSilence, false},

	{LibAVCodec, "avcodec_version", &avcodecVersion, false},
	{LibAVCodec, "avcodec_configuration", &avcodecConfiguration, false},
	{LibAVCodec, "avcodec_license", &avcodecLicense, false},
	{LibAVCodec, "avcodec_find_decoder", &avcodecFindDecoder, false},
	{LibAVCodec, "avcodec_find_encoder", &avcodecFindEncoder, false},
	{LibAVCodec, "avcodec_find_decoder_by_name", &avcodecFindDecoderByName, false},
	{LibAVCodec, "avcodec_find_encoder_by_name", &avcodecFindEncoderByName, false},
	{LibAVCodec, "av_codec_iterate", &avCodecIterate, false},
	{LibAVCodec, "av_codec_is_encoder", &avCodecIsEncoder, false},
	{LibAVCodec, "av_codec_is_decoder", &avCodecIsDecoder, false},
	{LibAVCodec, "avcodec_get_name", &avcodecGetName, false},
	{LibAVCodec, "avcodec_get_type", &avcodecGetType, false},
	{LibAVCodec, "avcodec_alloc_context3", &avcodecAllocContext3, false},
	{LibAVCodec, "avcodec_free_context", &avcodecFreeContext, false},
	{LibAVCodec, "avcodec_open2", &avcodecOpen2, false},
	{LibAVCodec, "avcodec_send_packet", &avcodecSendPacket, false},
	{LibAVCodec, "avcodec_receive_frame", &avcodecReceiveFrame, false},
	{LibAVCodec, "avcodec_send_frame", &avcodecSendFrame, false},
	{LibAVCodec, "avcodec_receive_packet", &avcodecReceivePacket, false},
	{LibAVCodec, "avcodec_flush_buffers", &avcodecFlushBuffers, false},
	{LibAVCodec, "avcodec_decode_subtitle2", &avcodecDecodeSubtitle2, false},
	{LibAVCodec, "avsubtitle_free", &avsubtitleFree, false},
	{LibAVCodec, "avcodec_parameters_alloc", &avcodecParametersAlloc, false},
	{LibAVCodec, "avcodec_parameters_free", &avcodecParametersFree, false},
	{LibAVCodec, "avcodec_parameters_copy", &avcodecParametersCopy, false},
	{LibAVCodec, "avcodec_parameters_to_context", &avcodecParametersToContext, false},
	{LibAVCodec, "avcodec_parameters_from_context", &avcodecParametersFromContext, false},
	{LibAVCodec, "av_packet_alloc", &avPacketAlloc, false},
	{LibAVCodec, "av_packet_free", &avPacketFree, false},
	{LibAVCodec, "av_packet_unref", &avPacketUnref, false},
	{LibAVCodec, "av_packet_ref", &avPacketRef, false},
	{LibAVCodec, "av_packet_clone", &avPacketClone, false},
	{LibAVCodec, "av_new_packet", &avNewPacket, false},

	{LibAVFormat, "avformat_version", &avformatVersion, false},
	{LibAVFormat, "avformat_configuration", &avformatConfiguration, false},
	{LibAVFormat, "avformat_license", &avformatLicense, false},
	{LibAVFormat, "avformat_alloc_context", &avformatAllocContext, false},
	{LibAVFormat, "avformat_free_context", &avformatFreeContext, false},
	{LibAVFormat, "avformat_open_input", &avformatOpenInput, false},
	{LibAVFormat, "avformat_find_stream_info", &avformatFindStreamInfo, false},
	{LibAVFormat, "avformat_close_input", &avformatCloseInput, false},
	{LibAVFormat, "av_read_frame", &avReadFrame, false},
	{LibAVFormat, "avformat_seek_file", &avformatSeekFile, false},
	{LibAVFormat, "av_read_play", &avReadPlay, false},
	{LibAVFormat, "av_read_pause", &avReadPause, false},
	{LibAVFormat, "av_find_best_stream", &avFindBestStream, false},
	{LibAVFormat, "av_find_input_format", &avFindInputFormat, false},
	{LibAVFormat, "av_guess_format", &avGuessFormat, false},
	{LibAVFormat, "av_demuxer_iterate", &avDemuxerIterate, false},
	{LibAVFormat, "av_muxer_iterate", &avMuxerIterate, false},
	{LibAVFormat, "av_guess_frame_rate", &avGuessFrameRate, false},
	{LibAVFormat, "av_dump_format", &avDumpFormat, false},
	{LibAVFormat, "avformat_alloc_output_context2", &avformatAllocOutputContext2, false},
	{LibAVFormat, "avformat_new_stream", &avformatNewStream, false},
	{LibAVFormat, "avformat_write_header", &avformatWriteHeader, false},
	{LibAVFormat, "av_write_trailer", &avWriteTrailer, false},
	{LibAVFormat, "av_write_frame", &avWriteFrame, false},
	{LibAVFormat, "av_interleaved_write_frame", &avInterleavedWriteFrame, false},
	{LibAVFormat, "avio_open2", &avioOpen2, false},
	{LibAVFormat, "avio_closep", &avioClosep, false},
	{LibAVFormat, "avformat_network_init", &avformatNetworkInit, true},
	{LibAVFormat, "avformat_network_deinit", &avformatNetworkDeinit, true},

	{LibAVFilter, "avfilter_version", &avfilterVersion, false},
	{LibAVFilter, "avfilter_configuration", &avfilterConfiguration, false},
	{LibAVFilter, "avfilter_license", &avfilterLicense, false},
	{LibAVFilter, "avfilter_get_by_name", &avfilterGetByName, false},
	{LibAVFilter, "av_filter_iterate", &avFilterIterate, false},
	{LibAVFilter, "avfilter_filter_pad_count", &avfilterFilterPadCount, false},
	{LibAVFilter, "avfilter_pad_get_name", &avfilterPadGetName, false},
	{LibAVFilter, "avfilter_pad_get_type", &avfilterPadGetType, false},
	{LibAVFilter, "avfilter_graph_alloc", &avfilterGraphAlloc, false},
	{LibAVFilter, "avfilter_graph_free", &avfilterGraphFree, false},
	{LibAVFilter, "avfilter_graph_create_filter", &avfilterGraphCreateFilter, false},
	{LibAVFilter, "avfilter_link", &avfilterLink, false},
	{LibAVFilter, "avfilter_graph_parse_ptr", &avfilterGraphParsePtr, false},
	{LibAVFilter, "avfilter_graph_config", &avfilterGraphConfig, false},
	{LibAVFilter, "avfilter_graph_dump", &avfilterGraphDump, false},
	{LibAVFilter, "avfilter_inout_alloc", &avfilterInoutAlloc, false},
	{LibAVFilter, "avfilter_inout_free", &avfilterInoutFree, false},
	{LibAVFilter, "av_buffersrc_add_frame_flags", &avBuffersrcAddFrameFlags, false},
	{LibAVFilter, "av_buffersink_get_frame_flags", &avBuffersinkGetFrameFlags, false},
	{LibAVFilter, "av_buffersink_set_frame_size", &avBuffersinkSetFrameSize, false},

	{LibSWScale, "swscale_version", &swscaleVersion, false},
	{LibSWScale, "swscale_configuration", &swscaleConfiguration, false},
	{LibSWScale, "swscale_license", &swscaleLicense, false},
	{LibSWScale, "sws_getContext", &swsGetContext, false},
	{LibSWScale, "sws_scale_frame", &swsScaleFrame, false},
	{LibSWScale, "sws_freeContext", &swsFreeContext, false},

	{LibSWResample, "swresample_version", &swresampleVersion, false},
	{LibSWResample, "swresample_configuration", &swresampleConfiguration, false},
	{LibSWResample, "swresample_license", &swresampleLicense, false},
	{LibSWResample, "swr_alloc_set_opts2", &swrAllocSetOpts2, false},
	{LibSWResample, "swr_init", &swrInit, false},
	{LibSWResample, "swr_free", &swrFree, false},
	{LibSWResample, "swr_convert_frame", &swrConvertFrame, false},
	{LibSWResample, "swr_get_delay", &swrGetDelay, false},

	{LibAVDevice, "avdevice_version", &avdeviceVersion, false},
	{LibAVDevice, "avdevice_configuration", &avdeviceConfiguration, false},
	{LibAVDevice, "avdevice_license", &avdeviceLicense, false},
	{LibAVDevice, "avdevice_register_all", &avdeviceRegisterAll, false},
	{LibAVDevice, "av_input_audio_device_next", &avInputAudioDeviceNext, false},
	{LibAVDevice, "av_input_video_device_next", &avInputVideoDeviceNext, false},
	{LibAVDevice, "av_output_audio_device_next", &avOutputAudioDeviceNext, false},
	{LibAVDevice, "av_output_video_device_next", &avOutputVideoDeviceNext, false},
	{LibAVDevice, "avdevice_list_input_sources", &avdeviceListInputSources, false},
	{LibAVDevice, "avdevice_free_list_devices", &avdeviceFreeListDevices, false},
}

// versionFuncs maps each library to its version entry points.
func versionFuncs(l Library) (version func() uint32, config, license func() string) {
	switch l {
	case LibAVUtil:
		return avutilVersion, avutilConfiguration, avutilLicense
	case LibAVCodec:
		return avcodecVersion, avcodecConfiguration, avcodecLicense
	case LibAVFormat:
		return avformatVersion, avformatConfiguration, avformatLicense
	case LibAVFilter:
		return avfilterVersion, avfilterConfiguration, avfilterLicense
	case LibSWScale:
		return swscaleVersion, swscaleConfiguration, swscaleLicense
	case LibSWResample:
		return swresampleVersion, swresampleConfiguration, swresampleLicense
	case LibAVDevice:
		return avdeviceVersion, avdeviceConfiguration, avdeviceLicense
	}
	return nil, nil, nil
}

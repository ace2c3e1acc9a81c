package ffmpeg

import (
	"errors"
	"unsafe"
)

// AV_OPT_SEARCH_CHILDREN: also look at the codec/format private options.
const optSearchChildren = 1

func optSet(obj unsafe.Pointer, name, value string) error {
	return newError(avOptSet(obj, name, value, optSearchChildren), "av_opt_set "+name)
}

func optSetInt(obj unsafe.Pointer, name string, v int64) error {
	return newError(avOptSetInt(obj, name, v, optSearchChildren), "av_opt_set_int "+name)
}

func optGetInt(obj unsafe.Pointer, name string) (int64, error) {
	var v int64
	if ret := avOptGetInt(obj, name, optSearchChildren, &v); ret < 0 {
		return 0, newError(ret, "av_opt_get_int "+name)
	}
	return v, nil
}

func optSetQ(obj unsafe.Pointer, name string, q Rational) error {
	return newError(avOptSetQ(obj, name, q.packed(), optSearchChildren), "av_opt_set_q "+name)
}

func optGetQ(obj unsafe.Pointer, name string) (Rational, error) {
	var q [2]int32
	if ret := avOptGetQ(obj, name, optSearchChildren, &q); ret < 0 {
		return Rational{}, newError(ret, "av_opt_get_q "+name)
	}
	return Rational{Num: q[0], Den: q[1]}, nil
}

func optSetImageSize(obj unsafe.Pointer, name string, w, h int) error {
	return newError(avOptSetImageSize(obj, name, int32(w), int32(h), optSearchChildren), "av_opt_set_image_size "+name)
}

func optGetImageSize(obj unsafe.Pointer, name string) (int, int, error) {
	var w, h int32
	if ret := avOptGetImageSize(obj, name, optSearchChildren, &w, &h); ret < 0 {
		return 0, 0, newError(ret, "av_opt_get_image_size "+name)
	}
	return int(w), int(h), nil
}

func optSetPixelFormat(obj unsafe.Pointer, name string, f PixelFormat) error {
	return newError(avOptSetPixelFmt(obj, name, int32(f), optSearchChildren), "av_opt_set_pixel_fmt "+name)
}

func optGetPixelFormat(obj unsafe.Pointer, name string) (PixelFormat, error) {
	var f int32
	if ret := avOptGetPixelFmt(obj, name, optSearchChildren, &f); ret < 0 {
		return PixelFormatNone, newError(ret, "av_opt_get_pixel_fmt "+name)
	}
	return PixelFormat(f), nil
}

func optSetSampleFormat(obj unsafe.Pointer, name string, f SampleFormat) error {
	return newError(avOptSetSampleFmt(obj, name, int32(f), optSearchChildren), "av_opt_set_sample_fmt "+name)
}

func optGetSampleFormat(obj unsafe.Pointer, name string) (SampleFormat, error) {
	var f int32
	if ret := avOptGetSampleFmt(obj, name, optSearchChildren, &f); ret < 0 {
		return SampleFormatNone, newError(ret, "av_opt_get_sample_fmt "+name)
	}
	return SampleFormat(f), nil
}

func optSetChannelLayout(obj unsafe.Pointer, name string, l ChannelLayout) error {
	n := l.native()
	defer n.uninit()
	return newError(avOptSetChLayout(obj, name, n.ptr(), optSearchChildren), "av_opt_set_chlayout "+name)
}

func optGetChannelLayout(obj unsafe.Pointer, name string) (ChannelLayout, error) {
	var n nativeLayout
	if ret := avOptGetChLayout(obj, name, optSearchChildren, n.ptr()); ret < 0 {
		return ChannelLayout{}, newError(ret, "av_opt_get_chlayout "+name)
	}
	defer n.uninit()
	return layoutFromNative(n.ptr()), nil
}

// optGetQOr reads a rational option, falling back to the struct field at off
// on builds that do not expose the field as an option.
func optGetQOr(obj unsafe.Pointer, name string, off uintptr) Rational {
	q, err := optGetQ(obj, name)
	if errors.Is(err, ErrOptionNotFound) {
		return peekRational(obj, off)
	}
	return q
}

// optSetQOr is the setter counterpart of optGetQOr.
func optSetQOr(obj unsafe.Pointer, name string, off uintptr, q Rational) {
	if err := optSetQ(obj, name, q); errors.Is(err, ErrOptionNotFound) {
		pokeRational(obj, off, q)
	}
}

// applyOptions sets each entry of opts on obj, collecting the ones the
// object does not recognise into the returned dictionary.
func applyOptions(obj unsafe.Pointer, opts *Dictionary) (*Dictionary, error) {
	rest := &Dictionary{}
	for k, v := range opts.All() {
		err := optSet(obj, k, v)
		switch {
		case err == nil:
		case errors.Is(err, ErrOptionNotFound):
			rest.Set(k, v, DictMultiKey)
		default:
			return rest, err
		}
	}
	return rest, nil
}

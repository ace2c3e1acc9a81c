package ffmpeg

import "testing"

// BenchmarkCallOverhead measures the cost of crossing into the libraries
// through purego.
func BenchmarkCallOverhead(b *testing.B) {
	requireFFmpeg(b)

	b.Run("Version", func(b *testing.B) {
		for range b.N {
			_ = LibraryVersion(LibAVCodec)
		}
	})

	b.Run("PacketAllocFree", func(b *testing.B) {
		b.ReportAllocs()
		for range b.N {
			p, err := NewPacket()
			if err != nil {
				b.Fatal(err)
			}
			p.Free()
		}
	})

	b.Run("PacketFields", func(b *testing.B) {
		p, err := NewPacket()
		if err != nil {
			b.Fatal(err)
		}
		defer p.Free()
		for i := range b.N {
			p.SetPTS(int64(i))
			_ = p.PTS()
		}
	})

	b.Run("Rescale", func(b *testing.B) {
		from, to := NewRational(1, 25), NewRational(1, 90000)
		for i := range b.N {
			_ = Rescale(int64(i), from, to)
		}
	})
}

func BenchmarkEncodeFrame(b *testing.B) {
	requireFFmpeg(b)
	cfg := DefaultVideoEncoderConfig(CodecIDMPEG4, 320, 240)
	cfg.FPS = 30
	cfg.MaxBFrames = 0
	enc, err := NewVideoEncoder(cfg)
	if err != nil {
		b.Skipf("mpeg4 encoder unavailable: %v", err)
	}
	defer enc.Free()
	f := newTestVideoFrame(b, 320, 240, PixelFormatYUV420P)

	bytes := 0
	b.ResetTimer()
	for i := range b.N {
		f.SetPTS(int64(i))
		err := enc.Encode(f, func(p *Packet) error {
			bytes += p.Size()
			return nil
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()
	b.ReportMetric(float64(bytes)/float64(b.N), "bytes/frame")
}

package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	ErrUnsupportedWAV = errors.New("unsupported wav format")
	ErrInvalidWAV     = errors.New("invalid wav file")
)

const (
	formatPCM   = 1
	formatFloat = 3
)

type SilenceMetrics struct {
	RMSdBFS  float64
	PeakdBFS float64
	Samples  int64
}

// Silent reports whether both RMS and peak levels stay under the threshold.
// The peak gate is 6 dB above the RMS threshold so a single click does not
// count as speech.
func (m SilenceMetrics) Silent(thresholdDBFS float64) bool {
	if m.Samples == 0 {
		return true
	}
	if math.IsInf(m.RMSdBFS, -1) && math.IsInf(m.PeakdBFS, -1) {
		return true
	}
	return m.RMSdBFS <= thresholdDBFS && m.PeakdBFS <= thresholdDBFS+6
}

func IsSilentWAV(path string, thresholdDBFS float64) (bool, SilenceMetrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, SilenceMetrics{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	metrics, err := AnalyzeWAV(f)
	if err != nil {
		return false, SilenceMetrics{}, err
	}
	return metrics.Silent(thresholdDBFS), metrics, nil
}

type sampleDecoder func([]byte) float64

type wavLayout struct {
	decode     sampleDecoder
	sampleSize int
	dataOffset int64
	dataSize   uint32
}

func AnalyzeWAV(r io.ReadSeeker) (SilenceMetrics, error) {
	layout, err := readLayout(r)
	if err != nil {
		return SilenceMetrics{}, err
	}

	if _, err := r.Seek(layout.dataOffset, io.SeekStart); err != nil {
		return SilenceMetrics{}, fmt.Errorf("seek wav data offset: %w", err)
	}

	data := make([]byte, layout.dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return SilenceMetrics{}, fmt.Errorf("read wav data: %w", err)
	}

	var peak, sumSquares float64
	var samples int64
	for off := 0; off+layout.sampleSize <= len(data); off += layout.sampleSize {
		v := layout.decode(data[off : off+layout.sampleSize])
		peak = math.Max(peak, math.Abs(v))
		sumSquares += v * v
		samples++
	}

	if samples == 0 {
		return SilenceMetrics{RMSdBFS: math.Inf(-1), PeakdBFS: math.Inf(-1)}, nil
	}

	return SilenceMetrics{
		RMSdBFS:  toDBFS(math.Sqrt(sumSquares / float64(samples))),
		PeakdBFS: toDBFS(peak),
		Samples:  samples,
	}, nil
}

func readLayout(r io.ReadSeeker) (wavLayout, error) {
	riff := make([]byte, 12)
	if _, err := io.ReadFull(r, riff); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return wavLayout{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		return wavLayout{}, fmt.Errorf("read wav header: %w", err)
	}
	if string(riff[:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return wavLayout{}, ErrInvalidWAV
	}

	var (
		layout  wavLayout
		haveFmt bool
		haveDat bool
		header  = make([]byte, 8)
	)

	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return wavLayout{}, fmt.Errorf("read wav chunk header: %w", err)
		}

		id := string(header[:4])
		size := binary.LittleEndian.Uint32(header[4:8])
		padded := int64(size) + int64(size%2)

		switch id {
		case "fmt ":
			if size < 16 {
				return wavLayout{}, ErrInvalidWAV
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return wavLayout{}, fmt.Errorf("read wav fmt chunk: %w", err)
			}
			if padded > int64(size) {
				if _, err := r.Seek(1, io.SeekCurrent); err != nil {
					return wavLayout{}, fmt.Errorf("seek wav fmt padding: %w", err)
				}
			}
			decode, width, err := decoderFor(binary.LittleEndian.Uint16(body[0:2]), binary.LittleEndian.Uint16(body[14:16]))
			if err != nil {
				return wavLayout{}, err
			}
			layout.decode, layout.sampleSize = decode, width
			haveFmt = true
		case "data":
			offset, err := r.Seek(0, io.SeekCurrent)
			if err != nil {
				return wavLayout{}, fmt.Errorf("seek wav data chunk: %w", err)
			}
			layout.dataOffset, layout.dataSize = offset, size
			haveDat = true
			if _, err := r.Seek(padded, io.SeekCurrent); err != nil {
				return wavLayout{}, fmt.Errorf("seek wav data chunk: %w", err)
			}
		default:
			if _, err := r.Seek(padded, io.SeekCurrent); err != nil {
				return wavLayout{}, fmt.Errorf("seek wav chunk %s: %w", id, err)
			}
		}
	}

	if !haveFmt || !haveDat {
		return wavLayout{}, ErrInvalidWAV
	}
	return layout, nil
}

func decoderFor(format, bits uint16) (sampleDecoder, int, error) {
	switch {
	case format == formatPCM && bits == 8:
		return func(b []byte) float64 { return (float64(b[0]) - 128.0) / 128.0 }, 1, nil
	case format == formatPCM && bits == 16:
		return func(b []byte) float64 {
			return float64(int16(binary.LittleEndian.Uint16(b))) / 32768.0
		}, 2, nil
	case format == formatPCM && bits == 24:
		return func(b []byte) float64 {
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF
			}
			return float64(v) / 8388608.0
		}, 3, nil
	case format == formatPCM && bits == 32:
		return func(b []byte) float64 {
			return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648.0
		}, 4, nil
	case format == formatFloat && bits == 32:
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}, 4, nil
	case format == formatFloat && bits == 64:
		return func(b []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}, 8, nil
	default:
		return nil, 0, ErrUnsupportedWAV
	}
}

func toDBFS(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(amplitude)
}

package audio

const (
	DefaultSampleRate = 16000
	DefaultFormat     = "linear16"

	// DefaultOutputSampleRate is the sample rate requested for synthesized
	// agent speech.
	DefaultOutputSampleRate = 24000
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat)}
}

func GetDefaultOutputEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultOutputSampleRate, Format: EncodingLinear16, Container: ContainerNone}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat

	// Container describes the framing of synthesized output audio. Input
	// audio is always raw and leaves this empty.
	Container containerFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

// BytesFor returns the payload size of the given duration in milliseconds.
func (e EncodingInfo) BytesFor(durationMs int) int {
	return e.SampleRate * e.Format.ByteSize() * durationMs / 1000
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)

type containerFormat string

func (c containerFormat) Name() string {
	return string(c)
}

const (
	ContainerNone containerFormat = "none"
	ContainerWav  containerFormat = "wav"
)

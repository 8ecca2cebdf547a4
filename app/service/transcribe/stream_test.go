package transcribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFFmpegArgs(t *testing.T) {
	args := ffmpegArgs("default", "pulse")
	assert.Equal(t, []string{"-loglevel", "warning", "-f", "pulse", "-i", "default"}, args[:6])
	assert.Contains(t, args, "16000")
	assert.Equal(t, "-", args[len(args)-1])

	probed := ffmpegArgs("https://example.com/stream.m3u8", "")
	assert.Equal(t, []string{"-loglevel", "warning", "-i", "https://example.com/stream.m3u8"}, probed[:4])
}

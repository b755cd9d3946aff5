package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	StdinInput = "pipe:0"
	MP3Codec   = "libmp3lame"
	MP3Format  = "mp3"
)

const maxStderrTail = 512

// BuildMP3Args returns ffmpeg arguments that read a stream from stdin and
// write a constant-bitrate MP3 to outputFile.
func BuildMP3Args(outputFile, bitrate string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", StdinInput,
		"-vn",
		"-c:a", MP3Codec,
		"-b:a", bitrate,
		"-f", MP3Format,
		outputFile,
	}
}

func BuildFFmpegCommand(ctx context.Context, ffmpegPath, outputFile, bitrate string) *exec.Cmd {
	return exec.CommandContext(ctx, ffmpegPath, BuildMP3Args(outputFile, bitrate)...)
}

// FFmpegEncoder transcodes an audio stream to MP3 using an external ffmpeg binary.
type FFmpegEncoder struct {
	Path    string
	Bitrate string
}

func NewFFmpegEncoder(path, bitrate string) *FFmpegEncoder {
	return &FFmpegEncoder{Path: path, Bitrate: bitrate}
}

func (e *FFmpegEncoder) Encode(ctx context.Context, input io.Reader, outputFile string) error {
	cmd := BuildFFmpegCommand(ctx, e.Path, outputFile, e.Bitrate)
	cmd.Stdin = input

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderrTail {
			msg = msg[len(msg)-maxStderrTail:]
		}
		if msg == "" {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, msg)
	}

	return nil
}

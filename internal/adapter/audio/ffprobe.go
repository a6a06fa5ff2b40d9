package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"speakscore/internal/domain"
	"speakscore/internal/logger"
)

const defaultProbeTimeout = 10 * time.Second

type probeFunc func(path string, timeout time.Duration) (string, error)

// ffprobeProber reads container metadata with ffprobe to find the audio length.
type ffprobeProber struct {
	probe   probeFunc
	timeout time.Duration
}

// NewFFProbeProber creates a domain.AudioProber. ffprobe must be on PATH.
func NewFFProbeProber() domain.AudioProber {
	return &ffprobeProber{
		probe: func(path string, timeout time.Duration) (string, error) {
			return ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
		},
		timeout: defaultProbeTimeout,
	}
}

// Duration returns the audio duration in seconds.
func (p *ffprobeProber) Duration(ctx context.Context, audioPath string) (float64, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return 0, domain.NewInvalidInputError("audio file not found")
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	out, err := p.probe(audioPath, timeout)
	if err != nil {
		logger.Get().Error("ffprobe failed", zap.Error(err), zap.String("path", audioPath))
		return 0, domain.NewProviderError("ffprobe", err)
	}

	duration, err := ParseProbeDuration(out)
	if err != nil {
		logger.Get().Error("Failed to read duration from ffprobe output", zap.Error(err))
		return 0, domain.NewProviderError("ffprobe", err)
	}
	return duration, nil
}

// ParseProbeDuration extracts format.duration, falling back to the longest audio stream.
func ParseProbeDuration(probeJSON string) (float64, error) {
	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Duration  string `json:"duration"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &result); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}

	if d, err := strconv.ParseFloat(strings.TrimSpace(result.Format.Duration), 64); err == nil && d > 0 {
		return d, nil
	}

	var longest float64
	for _, stream := range result.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		if d, err := strconv.ParseFloat(strings.TrimSpace(stream.Duration), 64); err == nil && d > longest {
			longest = d
		}
	}
	if longest > 0 {
		return longest, nil
	}
	return 0, fmt.Errorf("no duration in ffprobe output")
}

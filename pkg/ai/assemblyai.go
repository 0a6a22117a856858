package ai

import (
	"context"
	"fmt"
	"io"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// TranscriptionResult is the outcome of one transcription call.
type TranscriptionResult struct {
	Text            string
	DurationSeconds int
}

// Transcriber converts an audio/video stream into text.
type Transcriber interface {
	TranscribeFromReader(ctx context.Context, r io.Reader) (*TranscriptionResult, error)
}

// AssemblyAIClient wraps the official AssemblyAI SDK
type AssemblyAIClient struct {
	sdk *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client
func NewAssemblyAIClient(apiKey string) *AssemblyAIClient {
	return &AssemblyAIClient{
		sdk: aai.NewClient(apiKey),
	}
}

// TranscribeFromReader uploads the stream to AssemblyAI and blocks until the
// transcript reaches a terminal status.
func (c *AssemblyAIClient) TranscribeFromReader(ctx context.Context, r io.Reader) (*TranscriptionResult, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := c.sdk.Transcripts.TranscribeFromReader(ctx, r, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcription failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "assemblyai reported an error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai transcription failed: %s", msg)
	}

	result := &TranscriptionResult{}
	if transcript.Text != nil {
		result.Text = *transcript.Text
	}
	if transcript.AudioDuration != nil {
		result.DurationSeconds = int(*transcript.AudioDuration)
	}
	return result, nil
}

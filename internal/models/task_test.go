package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProcessType(t *testing.T) {
	tests := []struct {
		input   string
		want    ProcessType
		wantErr bool
	}{
		{input: "transcription", want: ProcessTranscription},
		{input: "translation", want: ProcessTranslation},
		{input: "summarization", want: ProcessSummarization},
		{input: "transcribe", wantErr: true},
		{input: "enhance", wantErr: true},
		{input: "", wantErr: true},
		{input: "Transcription", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProcessType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetPipelineFlags() {
	pipelineChannel = ""
	pipelineVertical = ""
	pipelinePayload = ""
	pipelinePayloadFile = ""
	pipelineSourceURL = ""
	pipelineEnqueue = false
}

func TestBuildTask_InlinePayload(t *testing.T) {
	resetPipelineFlags()
	pipelineChannel = "linkedin"
	pipelineVertical = "fintech"
	pipelinePayload = `{"topic":"hiring trends","count":3}`

	task, err := buildTask(pipelineCmd, "content", false)
	require.NoError(t, err)
	assert.Equal(t, "content", task.Step)
	assert.Equal(t, "linkedin", task.Channel)
	assert.Equal(t, "fintech", task.Vertical)
	assert.JSONEq(t, pipelinePayload, string(task.Payload))
}

func TestBuildTask_PayloadFile(t *testing.T) {
	resetPipelineFlags()
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"period":"2026-08"}`), 0o600))
	pipelinePayloadFile = path

	task, err := buildTask(pipelineCmd, "report", false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"period":"2026-08"}`, string(task.Payload))
}

func TestBuildTask_RejectsInvalidJSON(t *testing.T) {
	resetPipelineFlags()
	pipelinePayload = `{broken`

	_, err := buildTask(pipelineCmd, "content", false)
	assert.Error(t, err)
}

func TestBuildTask_RejectsPayloadAndPayloadFile(t *testing.T) {
	resetPipelineFlags()
	pipelinePayload = `{}`
	pipelinePayloadFile = "payload.json"

	_, err := buildTask(pipelineCmd, "content", false)
	assert.Error(t, err)
}

func TestBuildTask_SourceURLOnlyForFindRecruiters(t *testing.T) {
	resetPipelineFlags()
	pipelineSourceURL = "https://example.com/team"

	_, err := buildTask(pipelineCmd, "content", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find_recruiters")
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("ten years of Go"), 0o600))

	text, err := readInput(path, "resume")
	require.NoError(t, err)
	assert.Equal(t, "ten years of Go", text)

	_, err = readInput("", "resume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--resume is required")
}

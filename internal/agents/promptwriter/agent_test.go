package promptwriter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Conceptual-Machines/muse-api/internal/config"
	"github.com/Conceptual-Machines/muse-api/internal/llm"
	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	generateFunc func(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error)
	calls        int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	f.calls++
	if f.generateFunc != nil {
		return f.generateFunc(ctx, request)
	}
	return &llm.GenerationResponse{Text: "A dreamy lo-fi hip hop loop with dusty drums."}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		OpenAIAPIKey:  "test-key",
		PromptModel:   "gpt-5-mini",
		ReasoningMode: "medium",
	}
}

func validSelection() *music.PresetSelection {
	return &music.PresetSelection{
		ProjectBlueprint:   music.BlueprintPodcastVoiceoverLoop,
		SoundProfile:       music.ProfileLofiCozy,
		DeliveryAndControl: music.DeliveryBalancedStudio,
		InstrumentalOnly:   true,
	}
}

func TestAgentGenerate(t *testing.T) {
	provider := &fakeProvider{
		generateFunc: func(_ context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			// The agent sends the instruction document plus the selection as JSON
			assert.Equal(t, "gpt-5-mini", request.Model)
			assert.Contains(t, request.Instructions, "Music Prompt Architect")
			assert.Contains(t, request.UserMessage, "podcast_voiceover_loop")
			assert.Contains(t, request.UserMessage, "lofi_cozy")
			assert.Contains(t, request.UserMessage, "instrumental_only")
			return &llm.GenerationResponse{Text: "  A cozy lo-fi backdrop for spoken word.  "}, nil
		},
	}

	agent := NewAgentWithProvider(testConfig(), provider)

	result, err := agent.Generate(context.Background(), validSelection())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "A cozy lo-fi backdrop for spoken word.", result.Prompt)
}

func TestAgentGenerateValidatesBeforeProviderCall(t *testing.T) {
	provider := &fakeProvider{}
	agent := NewAgentWithProvider(testConfig(), provider)

	selection := validSelection()
	selection.SoundProfile = "wrong_profile"

	_, err := agent.Generate(context.Background(), selection)
	require.Error(t, err)

	var vErr *music.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "sound_profile", vErr.Field)
	assert.Equal(t, 0, provider.calls, "provider must not be called for invalid input")
}

func TestAgentGenerateProviderFailure(t *testing.T) {
	provider := &fakeProvider{
		generateFunc: func(_ context.Context, _ *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return nil, errors.New("upstream exploded")
		},
	}
	agent := NewAgentWithProvider(testConfig(), provider)

	_, err := agent.Generate(context.Background(), validSelection())
	require.Error(t, err)

	var gErr *music.GenerationError
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, "prompt", gErr.Op)
}

func TestAgentGenerateEmptyOutput(t *testing.T) {
	provider := &fakeProvider{
		generateFunc: func(_ context.Context, _ *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return &llm.GenerationResponse{Text: "   \n  "}, nil
		},
	}
	agent := NewAgentWithProvider(testConfig(), provider)

	_, err := agent.Generate(context.Background(), validSelection())
	require.Error(t, err)

	var gErr *music.GenerationError
	require.ErrorAs(t, err, &gErr)
}

func TestAgentGenerateMissingInstructions(t *testing.T) {
	cfg := testConfig()
	cfg.InstructionsPath = filepath.Join(t.TempDir(), "missing.md")

	provider := &fakeProvider{}
	agent := NewAgentWithProvider(cfg, provider)

	_, err := agent.Generate(context.Background(), validSelection())
	require.Error(t, err)

	var cErr *music.ConfigurationError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, 0, provider.calls)
}

func TestAgentReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instructions.md")
	require.NoError(t, os.WriteFile(path, []byte("first version"), 0o644))

	cfg := testConfig()
	cfg.InstructionsPath = path

	var seen []string
	provider := &fakeProvider{
		generateFunc: func(_ context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			seen = append(seen, request.Instructions)
			return &llm.GenerationResponse{Text: "a prompt"}, nil
		},
	}
	agent := NewAgentWithProvider(cfg, provider)

	_, err := agent.Generate(context.Background(), validSelection())
	require.NoError(t, err)

	// The document is cached; an edit alone must not change what the agent sends
	require.NoError(t, os.WriteFile(path, []byte("second version"), 0o644))
	_, err = agent.Generate(context.Background(), validSelection())
	require.NoError(t, err)

	require.NoError(t, agent.Reload())
	_, err = agent.Generate(context.Background(), validSelection())
	require.NoError(t, err)

	require.Len(t, seen, 3)
	assert.Equal(t, "first version", seen[0])
	assert.Equal(t, "first version", seen[1])
	assert.Equal(t, "second version", seen[2])
}

package adapters

import (
	"testing"

	"alertcast/internal/features/overlay/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	cases := []struct {
		name          string
		template      string
		substitutions map[string]string
		extra         string
		want          []string
	}{
		{
			name:          "SubstitutesPlaceholders",
			template:      "mpv --start={start} {url}",
			substitutions: map[string]string{placeholderURL: "https://cdn.example/a.mp4", placeholderStart: "7"},
			want:          []string{"mpv", "--start=7", "https://cdn.example/a.mp4"},
		},
		{
			name:          "TextPlaceholder",
			template:      "espeak {text}",
			substitutions: map[string]string{placeholderText: "hello"},
			extra:         "hello",
			want:          []string{"espeak", "hello"},
		},
		{
			name:     "NoPlaceholderAppendsExtra",
			template: "say",
			extra:    "hello",
			want:     []string{"say", "hello"},
		},
		{
			name:     "NoPlaceholderNoExtra",
			template: "ffplay -nodisp alert.wav",
			want:     []string{"ffplay", "-nodisp", "alert.wav"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, buildArgs(tc.template, tc.substitutions, tc.extra))
		})
	}
}

// TestExecPlayers_EmptyCommand verifies that unconfigured audio and narration
// degrade to no-ops instead of failing the alert.
func TestExecPlayers_EmptyCommand(t *testing.T) {
	audio := NewExecAudioPlayer("")
	assert.NoError(t, audio.Play())

	narrator := NewExecNarrator("")
	assert.NoError(t, narrator.Speak("hello"))
}

func TestExecPlayerFactory_NewPlayer(t *testing.T) {
	t.Run("VideoWithCommand", func(t *testing.T) {
		factory := NewExecPlayerFactory("mpv {url}")

		player, err := factory.NewPlayer(domain.MediaBinding{Kind: domain.MediaKindVideo})

		require.NoError(t, err)
		_, ok := player.(*ExecVideoPlayer)
		assert.True(t, ok)
		assert.NotNil(t, player.Ended())
	})

	t.Run("VideoWithoutCommandIsStatic", func(t *testing.T) {
		factory := NewExecPlayerFactory("")

		player, err := factory.NewPlayer(domain.MediaBinding{Kind: domain.MediaKindVideo})

		require.NoError(t, err)
		_, ok := player.(*StaticPlayer)
		assert.True(t, ok)
	})

	t.Run("EmbedsAreStatic", func(t *testing.T) {
		factory := NewExecPlayerFactory("mpv {url}")

		for _, kind := range []domain.MediaKind{
			domain.MediaKindImage,
			domain.MediaKindYouTube,
			domain.MediaKindTikTok,
			domain.MediaKindInstagram,
		} {
			player, err := factory.NewPlayer(domain.MediaBinding{Kind: kind})

			require.NoError(t, err)
			static, ok := player.(*StaticPlayer)
			require.True(t, ok, string(kind))
			assert.Nil(t, static.Ended(), "no end signal, never loops")
		}
	})
}

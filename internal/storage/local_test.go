package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // empty means "expect the generated fallback"
	}{
		{
			name:  "clean upstream name kept",
			input: "eleven_track_a1b2.mp3",
			want:  "eleven_track_a1b2.mp3",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  song.mp3  ",
			want:  "song.mp3",
		},
		{
			name:  "directory prefix stripped",
			input: "renders/2026/song.mp3",
			want:  "song.mp3",
		},
		{
			name:  "traversal reduced to basename",
			input: "../../etc/passwd.mp3",
			want:  "passwd.mp3",
		},
		{
			name:  "hidden file falls back",
			input: ".bashrc",
		},
		{
			name:  "spaces fall back",
			input: "my song.mp3",
		},
		{
			name:  "empty falls back",
			input: "",
		},
		{
			name:  "bare slash falls back",
			input: "/",
		},
		{
			name:  "null byte falls back",
			input: "song\x00.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.True(t, strings.HasPrefix(got, fallbackPrefix), "expected generated name, got %q", got)
			assert.True(t, strings.HasSuffix(got, audioExt))
			assert.Regexp(t, safeFilenamePattern, got)
		})
	}
}

func TestPersistAndResolve(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	require.NoError(t, err)

	audio := []byte("ID3fake-mp3-bytes")
	name, path, err := store.Persist("take_one.mp3", audio)
	require.NoError(t, err)
	assert.Equal(t, "take_one.mp3", name)
	assert.Equal(t, filepath.Join(store.Dir(), name), path)

	size, err := store.Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(audio)), size)

	resolved, ok := store.Resolve(name)
	assert.True(t, ok)
	assert.Equal(t, path, resolved)

	data, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.Equal(t, audio, data)
}

func TestPersistCollision(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	require.NoError(t, err)

	first, _, err := store.Persist("song.mp3", []byte("first take"))
	require.NoError(t, err)
	second, _, err := store.Persist("song.mp3", []byte("second take"))
	require.NoError(t, err)

	assert.Equal(t, "song.mp3", first)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "song_"))
	assert.True(t, strings.HasSuffix(second, ".mp3"))

	// Both takes stay retrievable.
	firstPath, ok := store.Resolve(first)
	require.True(t, ok)
	secondPath, ok := store.Resolve(second)
	require.True(t, ok)

	firstData, err := os.ReadFile(firstPath)
	require.NoError(t, err)
	secondData, err := os.ReadFile(secondPath)
	require.NoError(t, err)
	assert.Equal(t, "first take", string(firstData))
	assert.Equal(t, "second take", string(secondData))
}

func TestPersistHostileName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewContentStore(dir)
	require.NoError(t, err)

	name, path, err := store.Persist("../escape attempt!!.mp3", []byte("audio"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, fallbackPrefix))

	// The write must land inside the store regardless of the input shape.
	rel, err := filepath.Rel(dir, path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."))
}

func TestResolveAbsent(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Resolve("never_rendered.mp3")
	assert.False(t, ok)
}

func TestResolveRejectsUnsafeNames(t *testing.T) {
	parent := t.TempDir()
	store, err := NewContentStore(filepath.Join(parent, "content"))
	require.NoError(t, err)

	// Plant a file one level above the store; traversal must not reach it.
	outside := filepath.Join(parent, "secret.mp3")
	require.NoError(t, os.WriteFile(outside, []byte("outside"), 0o644))

	for _, input := range []string{
		"../secret.mp3",
		"..",
		".",
		"",
		".hidden",
		"nested/../../secret.mp3",
	} {
		if path, ok := store.Resolve(input); ok {
			assert.Equal(t, filepath.Dir(path), store.Dir(), "resolve(%q) escaped the store", input)
		}
	}
}

func TestResolveIgnoresDirectories(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), "subdir"), 0o755))

	_, ok := store.Resolve("subdir")
	assert.False(t, ok)
}

package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/voc/pkg/voc/internalerr"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSONArray(t *testing.T) {
	path := write(t, t.TempDir(), "reddit_posts.json", `[
	  {"post_id": "abc", "title": "Hooks", "selftext": "They fell off", "url": "https://r/abc",
	   "author": "u1", "subreddit": "DIY", "score": 42, "created_utc": 1704067200},
	  {"title": "Only a title"}
	]`)

	recs, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	r := recs[0]
	assert.Equal(t, "abc", r.ID)
	assert.Equal(t, "reddit_posts", r.Source)
	assert.Equal(t, "They fell off", r.Text)
	assert.Equal(t, "DIY", r.Group)
	assert.Equal(t, 42, r.Score)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.CreatedAt)

	assert.Equal(t, "Only a title", recs[1].Text)
	assert.Equal(t, "reddit_posts:1", recs[1].ID)
}

func TestLoadJSONWrapper(t *testing.T) {
	path := write(t, t.TempDir(), "tiktok.json", `{"platform": "tiktok", "videos": [
	  {"video_id": "v1", "description": "love these <b>lights</b>", "video_url": "https://t/v1"}
	]}`)

	recs, err := Load(path, Options{Source: "tiktok", StripHTML: true})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "v1", recs[0].ID)
	assert.Equal(t, "https://t/v1", recs[0].URL)
	assert.Equal(t, "love these lights", recs[0].Text)
}

func TestLoadJSONWrapperMissingKey(t *testing.T) {
	path := write(t, t.TempDir(), "odd.json", `{"stuff": []}`)
	_, err := Load(path, Options{})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestLoadJSONLSkipsMalformed(t *testing.T) {
	path := write(t, t.TempDir(), "comments.jsonl", `{"id": "1", "text": "first"}
not json
{"id": "2", "text": "second"}
`)
	recs, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "second", recs[1].Text)
}

func TestLoadJSONArraySkipsNonObjects(t *testing.T) {
	path := write(t, t.TempDir(), "posts.json",
		`[{"id":"a","selftext":"the hooks fell off"}, "deleted", 7, null, {"id":"b","title":"garage"}]`)

	recs, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)
	assert.Equal(t, "garage", recs[1].Text)
}

func TestLoadDiscussions(t *testing.T) {
	path := write(t, t.TempDir(), "reddit_demo.json", `{"source": "reddit", "total_discussions": 1, "discussions": [
	  {"id": "d1", "title": "Strip lights keep falling", "selftext": "Tape gave up in July.",
	   "url": "https://reddit.com/d1", "subreddit": "homeautomation", "score": 12,
	   "comments": [
	     {"id": "c1", "author": "sparky", "body": "Use 3M VHB.", "score": 80, "created_utc": 1704067200},
	     "removed",
	     {"id": "c2", "author": "diyer", "body": "Clean with alcohol first.", "score": 25}
	   ]}
	]}`)

	recs, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, "d1", r.ID)
	assert.Equal(t, "homeautomation", r.Group)
	assert.Equal(t, "Strip lights keep falling Tape gave up in July. Use 3M VHB. Clean with alcohol first.", r.Text)
	require.Len(t, r.Comments, 2)
	assert.Equal(t, Comment{
		ID: "c1", Author: "sparky", Body: "Use 3M VHB.", Score: 80,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, r.Comments[0])
	assert.Equal(t, 25, r.Comments[1].Score)
}

func TestLoadEmptyIsError(t *testing.T) {
	path := write(t, t.TempDir(), "empty.jsonl", "garbage\n")
	_, err := Load(path, Options{})
	assert.True(t, errors.Is(err, internalerr.ErrEmptyCorpus))
}

func TestLoadTextFieldsOverride(t *testing.T) {
	path := write(t, t.TempDir(), "posts.json", `[{"title": "T", "selftext": "", "body": "B"}]`)
	recs, err := Load(path, Options{TextFields: []string{"selftext", "title"}})
	require.NoError(t, err)
	assert.Equal(t, "T", recs[0].Text)
}

func TestLoadTextDir(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.txt", "second transcript")
	write(t, dir, "a.txt", "first transcript")
	write(t, dir, "blank.txt", "   ")
	write(t, dir, "notes.md", "ignored")

	recs, err := Load(dir, Options{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "first transcript", recs[0].Text)
}

func TestLoadTranscriptDirs(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "p01_install_under_cabinet_2024_01_05/transcript.json", `{"text": "it fell off"}`)
	write(t, dir, "p02_unbox/transcript.json", `{"text": "easy"}`)
	write(t, dir, "solo/transcript.json", `{"text": "skipped"}`)
	write(t, dir, "p03_bad/transcript.json", `{not json`)
	write(t, dir, ".hidden_x/transcript.json", `{"text": "hidden"}`)

	recs, err := Load(dir, Options{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "p01", recs[0].Participant)
	assert.Equal(t, "install_under_cabinet", recs[0].Activity)
	assert.Equal(t, "p02", recs[1].Participant)
	assert.Equal(t, "unbox", recs[1].Activity)
}

func TestParseFolderName(t *testing.T) {
	tests := []struct {
		name        string
		participant string
		activity    string
		ok          bool
	}{
		{"p1_mount_a_b_c", "p1", "mount", true},
		{"p1_mount_shelf_a_b_c", "p1", "mount_shelf", true},
		{"p1_mount_x", "p1", "mount", true},
		{"p1_mount", "p1", "mount", true},
		{"p1", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, a, ok := ParseFolderName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.participant, p)
			assert.Equal(t, tt.activity, a)
		})
	}
}

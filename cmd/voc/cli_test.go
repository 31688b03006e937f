package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const redditJSON = `{"posts": [
  {"post_id": "r1", "subreddit": "DIY", "score": 40, "url": "https://reddit.com/r1",
   "selftext": "These hooks are sturdy and I love them. One fell off the garage wall though."},
  {"post_id": "r2", "subreddit": "DIY", "score": 3, "url": "https://reddit.com/r2",
   "selftext": "The garage hook came off after a week, adhesive failed."},
  {"post_id": "r3", "subreddit": "Cooking", "score": 90, "url": "https://reddit.com/r3",
   "selftext": "Unrelated garage recipe post that is long enough."}
]}`

// resetFlags restores every package-level flag to its default for one test.
func resetFlags(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	dir := t.TempDir()
	verbose, logFormat = false, "console"
	dbPath, outPath, scopePath, platform = "", "", "", ""
	stripHTML, limit = false, 20
	benefitsPath, painPointsPath, sentimentPath, ladderPath, stoplistPath, themesPath = "", "", "", "", "", ""
	label, markdownPath, reportTitle = "", "", "Insight Ladder"
	phrasePains, minSupport, minDFPercent = false, 2, 5
	consensusScore, controversyScore = 50, 20
	listKind, historyKind = "", "benefits"
	debounce = 50 * time.Millisecond
	t.Cleanup(func() { logger = nil })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestBenefitsCmdSavesRun(t *testing.T) {
	dir := resetFlags(t)
	src := writeFile(t, dir, "reddit.json", redditJSON)
	dbPath = filepath.Join(dir, "runs", "voc.db")
	outPath = filepath.Join(dir, "out", "benefits.json")
	label = "first"

	cmd, buf := testCmd()
	if err := runBenefits(cmd, []string{"reddit=" + src}); err != nil {
		t.Fatalf("runBenefits failed: %v", err)
	}
	if !strings.Contains(buf.String(), "durability") {
		t.Errorf("durability missing from output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "saved") {
		t.Error("run id not printed")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var rpt struct {
		RunID    string `json:"run_id"`
		Combined []struct {
			Benefit string `json:"benefit"`
		} `json:"combined"`
	}
	if err := json.Unmarshal(data, &rpt); err != nil {
		t.Fatal(err)
	}
	if rpt.RunID == "" || len(rpt.Combined) == 0 {
		t.Fatalf("unexpected report %+v", rpt)
	}

	outPath = ""
	listCmd, listBuf := testCmd()
	if err := runRunsList(listCmd, nil); err != nil {
		t.Fatalf("runs list failed: %v", err)
	}
	if !strings.Contains(listBuf.String(), rpt.RunID) {
		t.Errorf("run %s not listed:\n%s", rpt.RunID, listBuf.String())
	}

	histCmd, histBuf := testCmd()
	if err := runRunsHistory(histCmd, []string{"durability"}); err != nil {
		t.Fatalf("runs history failed: %v", err)
	}
	if !strings.Contains(histBuf.String(), "first") {
		t.Errorf("history missing run label:\n%s", histBuf.String())
	}
}

func TestPainPointsCmdWithScope(t *testing.T) {
	dir := resetFlags(t)
	src := writeFile(t, dir, "reddit.json", redditJSON)
	scopePath = writeFile(t, dir, "scope.json", `{
  "project": "hooks",
  "reddit": {"keywords": ["garage"], "subreddits": ["DIY"], "min_score": 10}
}`)
	outPath = filepath.Join(dir, "pains.json")

	cmd, buf := testCmd()
	if err := runPainPoints(cmd, []string{"reddit=" + src}); err != nil {
		t.Fatalf("runPainPoints failed: %v", err)
	}
	if !strings.Contains(buf.String(), "reddit (1 records)") {
		t.Errorf("scope filter not applied:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Review iteration 1") {
		t.Error("review panel missing")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "audit_trail") {
		t.Error("audit trail missing from report")
	}
}

func TestUnknownScopePlatform(t *testing.T) {
	dir := resetFlags(t)
	src := writeFile(t, dir, "reddit.json", redditJSON)
	scopePath = writeFile(t, dir, "scope.json", `{"reddit": {"keywords": ["x"]}}`)
	platform = "tiktok"

	cmd, _ := testCmd()
	if err := runBenefits(cmd, []string{src}); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

func TestLadderCmdWritesMarkdown(t *testing.T) {
	dir := resetFlags(t)
	transcripts := filepath.Join(dir, "interviews")
	folder := filepath.Join(transcripts, "p01_kitchen_install_1_2_3")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, folder, "transcript.json", `{"text": "I wanted lights without wiring. The adhesive fell off in the heat."}`)
	markdownPath = filepath.Join(dir, "report", "ladder.md")
	reportTitle = "Kitchen Lighting"

	cmd, buf := testCmd()
	if err := runLadder(cmd, []string{"interviews=" + transcripts}); err != nil {
		t.Fatalf("runLadder failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Install lighting without electrical work") {
		t.Errorf("job missing:\n%s", buf.String())
	}

	md, err := os.ReadFile(markdownPath)
	if err != nil {
		t.Fatalf("markdown not written: %v", err)
	}
	if !strings.Contains(string(md), "Kitchen Lighting") {
		t.Error("title missing from markdown")
	}
}

func TestThemesCmd(t *testing.T) {
	dir := resetFlags(t)
	src := writeFile(t, dir, "reddit_demo.json", `{"source": "reddit", "discussions": [
  {"id": "d1", "title": "Dimmer flicker on LED strip", "selftext": "Cheap dimmer.",
   "url": "https://reddit.com/d1", "subreddit": "electricians",
   "comments": [
     {"id": "c1", "author": "sparky", "body": "Use a Lutron trailing edge dimmer.", "score": 140},
     {"id": "c2", "author": "volt", "body": "Your driver is the problem, not the dimmer.", "score": 35}
   ]},
  "removed",
  {"id": "d2", "title": "Zigbee strip controller", "selftext": "Works with Home Assistant.",
   "url": "https://reddit.com/d2", "subreddit": "homeautomation", "comments": []}
]}`)
	dbPath = filepath.Join(dir, "voc.db")
	outPath = filepath.Join(dir, "themes.json")

	cmd, buf := testCmd()
	if err := runThemes(cmd, []string{"reddit=" + src}); err != nil {
		t.Fatalf("runThemes failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"2 discussions, 2 comments", "Dimmer Compatibility", "Smart Home Integration", "sparky", "Controversies"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var rpt struct {
		RunID     string `json:"run_id"`
		Consensus []struct {
			URL string `json:"url"`
		} `json:"consensus_patterns"`
	}
	if err := json.Unmarshal(data, &rpt); err != nil {
		t.Fatal(err)
	}
	if rpt.RunID == "" || len(rpt.Consensus) != 1 || rpt.Consensus[0].URL != "https://reddit.com/d1/comments/c1" {
		t.Errorf("unexpected report %+v", rpt)
	}
}

func TestPhrasesCmd(t *testing.T) {
	dir := resetFlags(t)
	src := writeFile(t, dir, "reviews.jsonl", `{"id":"1","text":"shelf bracket wobbles badly"}
{"id":"2","text":"shelf bracket arrived bent"}
not json
`)
	cmd, buf := testCmd()
	if err := runPhrases(cmd, []string{src}); err != nil {
		t.Fatalf("runPhrases failed: %v", err)
	}
	if !strings.Contains(buf.String(), "shelf bracket") {
		t.Errorf("bigram missing:\n%s", buf.String())
	}
}

func TestRunsRequireDB(t *testing.T) {
	resetFlags(t)
	cmd, _ := testCmd()
	if err := runRunsList(cmd, nil); err == nil {
		t.Error("expected error without --db")
	}
}

func TestBadConfigPath(t *testing.T) {
	dir := resetFlags(t)
	src := writeFile(t, dir, "reddit.json", redditJSON)
	benefitsPath = filepath.Join(dir, "missing.yaml")

	cmd, _ := testCmd()
	if err := runBenefits(cmd, []string{src}); err == nil {
		t.Error("expected error for missing benefits file")
	}
}

func TestWatchLoopStopsOnCancel(t *testing.T) {
	dir := resetFlags(t)
	src := writeFile(t, dir, "reddit.json", redditJSON)
	engine, cleanup, err := buildEngine(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var buf bytes.Buffer
	go func() {
		done <- watchLoop(ctx, engine, benefits, []string{"reddit=" + src}, &buf)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watchLoop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchLoop did not stop")
	}
}

func TestWatchUnknownAnalysis(t *testing.T) {
	resetFlags(t)
	cmd, _ := testCmd()
	if err := runWatch(cmd, []string{"sentiment", "x.json"}); err == nil {
		t.Error("expected error for unknown analysis")
	}
}

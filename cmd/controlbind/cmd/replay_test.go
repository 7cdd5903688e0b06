package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/controlbind/cmd/controlbind/internal/config"
	"github.com/go-drift/controlbind/pkg/diag/diagtest"
	"github.com/go-drift/controlbind/pkg/errors"
	"github.com/go-drift/controlbind/pkg/navigation"
	"github.com/go-drift/controlbind/pkg/platform"
)

const sampleEvents = `# recorded from a map session
{"event": "click", "payload": {"x": 10, "y": 20}}
{"event": "click", "payload": {"x": 10}}

{"event": "click", "payload": {"x": 3.5, "y": 4, "target": "zoom-in", "button": 1}}
`

func TestReplay(t *testing.T) {
	for _, codec := range []platform.MessageCodec{platform.JsonCodec{}, platform.CborCodec{}} {
		t.Run(typeName(codec), func(t *testing.T) {
			var out bytes.Buffer
			rec := diagtest.NewRecorder()

			summary, err := replay(strings.NewReader(sampleEvents), replayConfig{
				Out:       &out,
				Options:   navigation.DefaultOptions(),
				Logger:    rec,
				Codec:     codec,
				DropAfter: -1,
			})
			require.NoError(t, err)

			assert.Equal(t, replaySummary{Lines: 3, Delivered: 2}, summary)
			assert.Equal(t, 1, rec.Count(errors.KindDecode))
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.Len(t, lines, 2)
			assert.Contains(t, lines[0], "x=10 y=20")
			assert.Contains(t, lines[1], "x=3.5 y=4 target=zoom-in button=1")
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case platform.CborCodec:
		return "cbor"
	default:
		return "json"
	}
}

func TestReplayDropAfter(t *testing.T) {
	var out bytes.Buffer
	rec := diagtest.NewRecorder()
	events := strings.Repeat(`{"event":"click","payload":{"x":1,"y":1}}`+"\n", 4)

	summary, err := replay(strings.NewReader(events), replayConfig{
		Out:       &out,
		Options:   navigation.DefaultOptions(),
		Logger:    rec,
		DropAfter: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, replaySummary{Lines: 4, Delivered: 2}, summary)
	assert.Equal(t, 2, strings.Count(out.String(), "click"))
	assert.Equal(t, 2, rec.Count(errors.KindGone))
}

func TestReplayDropAfterIsStable(t *testing.T) {
	events := strings.Repeat(`{"event":"click","payload":{"x":1,"y":1}}`+"\n", 4)
	for i := 0; i < 20; i++ {
		rec := diagtest.NewRecorder()
		summary, err := replay(strings.NewReader(events), replayConfig{
			Out:       &bytes.Buffer{},
			Options:   navigation.DefaultOptions(),
			Logger:    rec,
			DropAfter: 2,
		})
		require.NoError(t, err)
		require.Equal(t, 0, summary.Rejected, "run %d", i)
		require.Equal(t, 2, rec.Count(errors.KindGone), "run %d", i)
	}
}

func TestReplayDisposedAcknowledgement(t *testing.T) {
	events := `{"event":"click","payload":{"x":1,"y":1}}
{"event":"click","payload":{"x":2,"y":2}}
{"event":"disposed"}
{"event":"click","payload":{"x":3,"y":3}}
`
	// Without a drop the control is live: the acknowledgement is an
	// ordinary event nobody listens to.
	summary, err := replay(strings.NewReader(events), replayConfig{
		Out:       &bytes.Buffer{},
		Options:   navigation.DefaultOptions(),
		DropAfter: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, replaySummary{Lines: 4, Delivered: 3}, summary)
}

func TestReplayRejectsBadLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", "{not json}\n"},
		{"missing event", `{"payload":{"x":1,"y":1}}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := replay(strings.NewReader(tt.input), replayConfig{Out: &bytes.Buffer{}, DropAfter: -1})
			assert.Error(t, err)
		})
	}
}

func TestReplayConstructionFailure(t *testing.T) {
	_, err := replay(strings.NewReader(""), replayConfig{
		Out:     &bytes.Buffer{},
		Options: navigation.Options{Position: "center"},
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindInit, errors.KindOf(err))
}

func TestCodecByName(t *testing.T) {
	c, err := codecByName("CBOR")
	require.NoError(t, err)
	assert.Equal(t, platform.CborCodec{}, c)

	c, err = codecByName("")
	require.NoError(t, err)
	assert.Equal(t, platform.JsonCodec{}, c)

	_, err = codecByName("xml")
	assert.Error(t, err)
}

func TestRunReplayCommand(t *testing.T) {
	dir := t.TempDir()
	events := filepath.Join(dir, "events.jsonl")
	require.NoError(t, os.WriteFile(events, []byte(sampleEvents), 0o644))
	cfgPath := filepath.Join(dir, "controlbind.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n  format: json\n"), 0o644))

	require.NoError(t, runReplay([]string{"--config", cfgPath, "--codec", "cbor", events}))
	assert.Error(t, runReplay([]string{"--config", cfgPath}))
	assert.Error(t, runReplay([]string{"--config", cfgPath, "--codec", "xml", events}))
	assert.Error(t, runReplay([]string{"--config", cfgPath, filepath.Join(dir, "missing.jsonl")}))
}

func TestRunDispatch(t *testing.T) {
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "controlbind version")

	stdout.Reset()
	require.NoError(t, run(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "replay")

	stdout.Reset()
	require.NoError(t, run([]string{"replay", "--help"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "controlbind replay [flags]")

	assert.Error(t, run([]string{"frobnicate"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown command")
}

func TestReplayTestdata(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "controlbind.yaml"))
	require.NoError(t, err)
	assert.Equal(t, navigation.BottomRight, cfg.Control.Position)
	assert.True(t, cfg.Control.VisualizePitch)

	f, err := os.Open(filepath.Join("testdata", "events.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	rec := diagtest.NewRecorder()
	summary, err := replay(f, replayConfig{Out: &out, Options: cfg.Control, Logger: rec, DropAfter: -1})
	require.NoError(t, err)
	assert.Equal(t, replaySummary{Lines: 4, Delivered: 3}, summary)
	assert.Equal(t, 1, rec.Count(errors.KindDecode))
	assert.Contains(t, out.String(), "target=compass")
}

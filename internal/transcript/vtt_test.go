package transcript

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanVTT(t *testing.T) {
	vtt := `WEBVTT
Kind: captions
Language: en

1
00:00:00.000 --> 00:00:02.500
I think <c>Tesla</c> is a great

2
00:00:02.500 --> 00:00:05.000
I think <c>Tesla</c> is a great
long-term bet .

3
00:00:05.000 --> 00:00:07.000
But NVIDIA looks stretched here`

	got := CleanVTT(vtt)
	want := "I think Tesla is a great long-term bet. But NVIDIA looks stretched here"
	if got != want {
		t.Errorf("CleanVTT:\n got %q\nwant %q", got, want)
	}
}

func TestCleanVTTDropsTimestampsAndNumbering(t *testing.T) {
	got := CleanVTT("42\n00:01:00.000 --> 00:01:02.000\nhello")
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCleanVTTEmpty(t *testing.T) {
	if got := CleanVTT(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestCleanVTTFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caption.vtt")
	if err := os.WriteFile(path, []byte("WEBVTT\n\nhello world"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := CleanVTTFile(path)
	if err != nil {
		t.Fatalf("CleanVTTFile: %v", err)
	}
	if got != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}

	if _, err := CleanVTTFile(filepath.Join(t.TempDir(), "missing.vtt")); err == nil {
		t.Error("missing file should return an error")
	}
}

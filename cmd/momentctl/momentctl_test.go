package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matst80/moment-finder/pkg/storage"
	"github.com/matst80/moment-finder/pkg/types"
)

func TestEncodeMigratesScalarDocument(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetIn(strings.NewReader(`{"selectedTeam":"Lakers","selectedSeries":["3","x"],"selectedSetName":"All","currentPage":4}`))
	rootCmd.SetArgs([]string{"encode", "--scope", "swap", "--config", ""})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "series=3&team=Lakers" {
		t.Errorf("unexpected query %q", got)
	}
}

func TestReadSnapshot(t *testing.T) {
	dir := t.TempDir()
	moments := []types.Moment{{Id: "1", Tier: "common", Series: 2, SerialNumber: 5000}}
	disk := storage.NewDiskStorage("", dir)
	if err := disk.SaveJson(moments, "plain.json"); err != nil {
		t.Fatal(err)
	}
	if err := disk.SaveGzippedJson(moments, "packed.json.gz"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"plain.json", "packed.json.gz"} {
		got, err := readSnapshot(filepath.Join(dir, name))
		if err != nil || len(got) != 1 || got[0].Id != "1" {
			t.Errorf("%s: unexpected snapshot %+v %v", name, got, err)
		}
	}
	if _, err := readSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing snapshot")
	}
}

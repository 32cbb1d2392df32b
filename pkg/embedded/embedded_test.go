package embedded

import (
	"testing"
	"testing/fstest"
)

func TestReadFile(t *testing.T) {
	Init(fstest.MapFS{
		"data/tuning.yaml": &fstest.MapFile{Data: []byte("frameRate: 60\n")},
	})

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain path", "data/tuning.yaml", false},
		{"dot prefix", "./data/tuning.yaml", false},
		{"missing file", "data/missing.yaml", true},
		{"wrong prefix", "assets/tuning.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && string(data) != "frameRate: 60\n" {
				t.Errorf("unexpected content %q", data)
			}
		})
	}
}

func TestExistsAndReadDir(t *testing.T) {
	Init(fstest.MapFS{
		"data/tuning.yaml": &fstest.MapFile{Data: []byte("{}")},
	})

	if !Exists("data/tuning.yaml") {
		t.Error("expected tuning.yaml to exist")
	}
	if Exists("data/nope.yaml") {
		t.Error("nope.yaml should not exist")
	}

	entries, err := ReadDir("data")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "tuning.yaml" {
		t.Errorf("unexpected entries %v", entries)
	}
}

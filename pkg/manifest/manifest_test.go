package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte(`
version: eternadata-v1.0.0
offline: /offline.html
precache:
  - /
  - /offline.html
  - /assets/css/style.css
  - /assets/js/main.js
`)

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Version != "eternadata-v1.0.0" {
		t.Errorf("Version = %q", m.Version)
	}
	if m.Offline != "/offline.html" {
		t.Errorf("Offline = %q", m.Offline)
	}
	if len(m.Precache) != 4 {
		t.Errorf("Precache = %v, want 4 paths", m.Precache)
	}
	// Order is preserved.
	if m.Precache[0] != "/" || m.Precache[3] != "/assets/js/main.js" {
		t.Errorf("Precache order changed: %v", m.Precache)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing version",
			data: "precache:\n  - /\n",
		},
		{
			name: "colon in version",
			data: "version: v:1\nprecache:\n  - /\n",
		},
		{
			name: "relative precache path",
			data: "version: v1\nprecache:\n  - assets/x.css\n",
		},
		{
			name: "relative offline path",
			data: "version: v1\noffline: offline.html\n",
		},
		{
			name: "not yaml",
			data: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Parse should fail")
			}
		})
	}
}

func TestParse_DefaultOffline(t *testing.T) {
	m, err := Parse([]byte("version: v1\nprecache:\n  - /\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Offline != DefaultOfflinePath {
		t.Errorf("Offline = %q, want default %q", m.Offline, DefaultOfflinePath)
	}
}

func TestParse_OfflineAppendedToPrecache(t *testing.T) {
	m, err := Parse([]byte("version: v1\nprecache:\n  - /\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	for _, p := range m.Precache {
		if p == m.Offline {
			found = true
		}
	}
	if !found {
		t.Errorf("Offline page %q missing from precache %v", m.Offline, m.Precache)
	}
}

func TestParse_Dedupe(t *testing.T) {
	m, err := Parse([]byte("version: v1\nprecache:\n  - /\n  - /\n  - /a\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// "/", "/a" plus the appended offline page.
	if len(m.Precache) != 3 {
		t.Errorf("Precache = %v, want deduplicated list of 3", m.Precache)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	data := "version: eternadata-v1.0.0\nprecache:\n  - /\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Version != "eternadata-v1.0.0" {
		t.Errorf("Version = %q", m.Version)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

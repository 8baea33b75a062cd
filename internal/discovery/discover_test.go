package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestDiscover_Directory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "02_seed_kelas.sql"), "INSERT INTO kelas VALUES (1);")
	writeFile(t, filepath.Join(root, "01_schema.sql"), "CREATE TABLE kelas (id INT);")
	writeFile(t, filepath.Join(root, "nested", "03_backup.SQL"), "SELECT 1;")
	writeFile(t, filepath.Join(root, "README.md"), "not sql")

	files, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"01_schema.sql", "02_seed_kelas.sql", filepath.Join("nested", "03_backup.SQL")}
	if len(files) != len(want) {
		t.Fatalf("Discover() found %d files, want %d", len(files), len(want))
	}
	for i, f := range files {
		if f.RelativePath != want[i] {
			t.Errorf("files[%d].RelativePath = %q, want %q", i, f.RelativePath, want[i])
		}
		if !filepath.IsAbs(f.Path) {
			t.Errorf("files[%d].Path = %q, want absolute path", i, f.Path)
		}
	}

	wantKinds := []ScriptKind{KindScript, KindSeed, KindDump}
	for i, f := range files {
		if f.Kind != wantKinds[i] {
			t.Errorf("files[%d].Kind = %v, want %v", i, f.Kind, wantKinds[i])
		}
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.sql")
	writeFile(t, path, "SELECT 1;")

	files, err := Discover(path)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 || files[0].RelativePath != "restore.sql" {
		t.Fatalf("Discover() = %+v, want the single file", files)
	}
	if files[0].Size != int64(len("SELECT 1;")) {
		t.Errorf("Size = %d, want %d", files[0].Size, len("SELECT 1;"))
	}
}

func TestDiscover_Missing(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Discover() error = %v, want not found", err)
	}
}

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name string
		want ScriptKind
	}{
		{"absensi_dump_2026.sql", KindDump},
		{"BACKUP.sql", KindDump},
		{"seed_siswa.sql", KindSeed},
		{"20260101_add_index.sql", KindScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFile(tt.name); got != tt.want {
				t.Errorf("ClassifyFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestReadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.sql")
	writeFile(t, path, "INSERT INTO t VALUES (1);")

	got, err := ReadScript(&DiscoveredFile{Path: path, RelativePath: "seed.sql"})
	if err != nil {
		t.Fatalf("ReadScript() error = %v", err)
	}
	if got != "INSERT INTO t VALUES (1);" {
		t.Errorf("ReadScript() = %q", got)
	}

	_, err = ReadScript(&DiscoveredFile{Path: path + ".missing", RelativePath: "missing.sql"})
	if err == nil {
		t.Error("ReadScript() expected error for missing file")
	}
}

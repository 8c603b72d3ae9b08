package staging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeStageFile(t *testing.T, stage *Stage, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(stage.Dir(), name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func testMeta() RunMeta {
	return RunMeta{
		Seed:        42,
		Users:       100,
		Months:      14,
		WindowStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2025, time.February, 25, 0, 0, 0, 0, time.UTC),
	}
}

func TestStageLifecycle(t *testing.T) {
	root := t.TempDir()

	stage, err := New(root)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if stage.RunID() == "" {
		t.Error("stage has empty run ID")
	}

	writeStageFile(t, stage, "user_profiles.csv", "user_id\nuser_0001\n")
	writeStageFile(t, stage, "transactions.csv", "transaction_id\ntxn_0000001\n")

	counts := map[string]int64{"user_profiles.csv": 1, "transactions.csv": 1}
	if err := stage.WriteManifest(testMeta(), counts); err != nil {
		t.Fatalf("WriteManifest() failed: %v", err)
	}

	if err := stage.Promote(); err != nil {
		t.Fatalf("Promote() failed: %v", err)
	}

	current := filepath.Join(root, CurrentDirName)

	t.Run("stage directory is gone", func(t *testing.T) {
		if _, err := os.Stat(stage.Dir()); !os.IsNotExist(err) {
			t.Error("stage directory still exists after promotion")
		}
	})

	t.Run("manifest describes all files", func(t *testing.T) {
		m, err := ReadManifest(current)
		if err != nil {
			t.Fatalf("ReadManifest() failed: %v", err)
		}
		if m.RunID != stage.RunID() {
			t.Errorf("manifest run ID = %q, want %q", m.RunID, stage.RunID())
		}
		if m.Seed != 42 || m.Users != 100 || m.Months != 14 {
			t.Errorf("manifest meta = %+v", m)
		}
		if len(m.Files) != 2 {
			t.Fatalf("manifest lists %d files, want 2", len(m.Files))
		}
		// sorted by name
		if m.Files[0].Name != "transactions.csv" || m.Files[1].Name != "user_profiles.csv" {
			t.Errorf("manifest file order: %s, %s", m.Files[0].Name, m.Files[1].Name)
		}
		for _, f := range m.Files {
			if f.Rows != 1 {
				t.Errorf("file %s rows = %d, want 1", f.Name, f.Rows)
			}
			if f.SHA256 == "" || f.Bytes == 0 {
				t.Errorf("file %s missing integrity data: %+v", f.Name, f)
			}
		}
	})

	t.Run("verify passes on untouched output", func(t *testing.T) {
		if err := Verify(current); err != nil {
			t.Errorf("Verify() failed: %v", err)
		}
	})

	t.Run("verify catches tampering", func(t *testing.T) {
		path := filepath.Join(current, "transactions.csv")
		if err := os.WriteFile(path, []byte("tampered\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := Verify(current); err == nil {
			t.Error("Verify() passed on a modified file")
		}
	})
}

func TestPromoteReplacesPrevious(t *testing.T) {
	root := t.TempDir()

	first, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	writeStageFile(t, first, "user_profiles.csv", "old\n")
	if err := first.WriteManifest(testMeta(), nil); err != nil {
		t.Fatal(err)
	}
	if err := first.Promote(); err != nil {
		t.Fatal(err)
	}

	second, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	writeStageFile(t, second, "user_profiles.csv", "new\n")
	if err := second.WriteManifest(testMeta(), nil); err != nil {
		t.Fatal(err)
	}
	if err := second.Promote(); err != nil {
		t.Fatalf("second Promote() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, CurrentDirName, "user_profiles.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new\n" {
		t.Errorf("current output = %q, want the second run", data)
	}

	m, err := ReadManifest(filepath.Join(root, CurrentDirName))
	if err != nil {
		t.Fatal(err)
	}
	if m.RunID != second.RunID() {
		t.Errorf("current manifest run ID = %q, want %q", m.RunID, second.RunID())
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("root has %d entries after promotion, want just current", len(entries))
	}
}

func TestDiscard(t *testing.T) {
	root := t.TempDir()
	stage, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	writeStageFile(t, stage, "user_profiles.csv", "partial\n")

	if err := stage.Discard(); err != nil {
		t.Fatalf("Discard() failed: %v", err)
	}
	if _, err := os.Stat(stage.Dir()); !os.IsNotExist(err) {
		t.Error("stage directory still exists after discard")
	}
}

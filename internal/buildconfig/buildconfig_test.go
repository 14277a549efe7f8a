package buildconfig

import "testing"

func TestVersionInfo(t *testing.T) {
	info := VersionInfo()
	for _, key := range []string{"service", "version", "commit", "build_time"} {
		if info[key] == "" {
			t.Fatalf("expected %q to be set, got %v", key, info)
		}
	}
	if info["version"] != Version() {
		t.Fatalf("version mismatch: %q vs %q", info["version"], Version())
	}

	info["status"] = "ok"
	if _, ok := VersionInfo()["status"]; ok {
		t.Fatal("VersionInfo must return a fresh map")
	}
}

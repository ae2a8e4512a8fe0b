package utils

import "testing"

func TestSyncGuardScriptsCompile(t *testing.T) {
	if syncGuardAcquireScript == nil || syncGuardReleaseScript == nil {
		t.Fatalf("expected scripts to be initialized")
	}
}

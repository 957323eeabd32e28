package debug

import "testing"

func TestAssert(t *testing.T) {
	Assert(true, "never fires")

	defer func() {
		r := recover()
		if Enabled && r == nil {
			t.Error("Assert(false) should panic in debug builds")
		}
		if !Enabled && r != nil {
			t.Errorf("Assert(false) should be a no-op in release builds, got %v", r)
		}
	}()
	Assert(false, "index %d out of range", 7)
}

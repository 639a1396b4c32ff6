package animation

import "testing"

func TestStorageLayering(t *testing.T) {
	led := newFakeTarget(map[string]Value{"Opacity": DoubleValue(1)})
	table := NewStorageTable()

	first, err := table.Attach(led, "Opacity")
	if err != nil {
		t.Fatal(err)
	}
	first.Write(DoubleValue(0.5))

	second, _ := table.Attach(led, "Opacity")
	if got := second.Base().Double(); got != 0.5 {
		t.Errorf("second base = %v, want 0.5", got)
	}
	second.Write(DoubleValue(0.2))
	first.Write(DoubleValue(0.9))
	if got := led.double("Opacity"); got != 0.2 {
		t.Errorf("Opacity = %v, want 0.2 (only the top storage writes)", got)
	}
	if table.Depth(led, "Opacity") != 2 || table.Top(led, "Opacity") != second {
		t.Fatalf("stack depth %d, top %p", table.Depth(led, "Opacity"), table.Top(led, "Opacity"))
	}

	second.Detach()
	if got := led.double("Opacity"); got != 0.5 {
		t.Errorf("after detaching the second animation Opacity = %v, want 0.5", got)
	}
	if !first.IsTop() {
		t.Error("first storage did not resume")
	}

	led.props["Opacity"] = DoubleValue(0.7)
	second.Detach()
	if got := led.double("Opacity"); got != 0.7 {
		t.Errorf("second Detach changed Opacity to %v", got)
	}

	first.Detach()
	if got := led.double("Opacity"); got != 1 {
		t.Errorf("after detaching both Opacity = %v, want 1", got)
	}
	if table.Len() != 0 {
		t.Errorf("table still holds %d pairs", table.Len())
	}
}

func TestStorageDetachBelowHandsBaseUp(t *testing.T) {
	led := newFakeTarget(map[string]Value{"Opacity": DoubleValue(1)})
	table := NewStorageTable()

	lower, _ := table.Attach(led, "Opacity")
	lower.Write(DoubleValue(0.5))
	upper, _ := table.Attach(led, "Opacity")
	upper.Write(DoubleValue(0.2))

	lower.Detach()
	if got := led.double("Opacity"); got != 0.2 {
		t.Errorf("detaching a covered storage changed Opacity to %v", got)
	}
	if got := upper.Base().Double(); got != 1 {
		t.Errorf("upper base = %v, want 1", got)
	}
	upper.Detach()
	if got := led.double("Opacity"); got != 1 {
		t.Errorf("Opacity = %v, want the pristine 1", got)
	}
}

func TestStorageAttachUnknownProperty(t *testing.T) {
	led := newFakeTarget(map[string]Value{})
	if _, err := NewStorageTable().Attach(led, "Hue"); err == nil {
		t.Error("Attach to a missing property succeeded")
	}
}

package main

import "testing"

func TestExampleConfig(t *testing.T) {
	a := newApp()
	if err := a.setup("config.yaml"); err != nil {
		t.Fatal(err)
	}
	defer a.Manager.Shutdown()

	list := a.Controller.List()
	if len(list) != 3 {
		t.Fatalf("loaded %d storyboards, want 3", len(list))
	}
	// Binding resolves every target and property path.
	for _, st := range list {
		if err := a.Controller.Begin(st.Name); err != nil {
			t.Errorf("Begin(%s) = %v", st.Name, err)
		}
	}
}

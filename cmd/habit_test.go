package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/rnwolfe/habits/internal/habit"
)

func TestAddAndList(t *testing.T) {
	configTestEnv(t)

	addDescription = "Twenty pages a day"
	out := run(t, runAdd, "Read")
	if !strings.Contains(out, "Now tracking") || !strings.Contains(out, "Read") {
		t.Fatalf("unexpected add output: %q", out)
	}
	addDescription = ""
	run(t, runAdd, "Stretch")

	out = run(t, runList)
	for _, want := range []string{"Read", "Stretch", "2 habit(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q: %q", want, out)
		}
	}

	h, err := mustOpen(t).habits.Get("read")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if h.Description != "Twenty pages a day" {
		t.Errorf("description = %q", h.Description)
	}
}

func TestAdd_Duplicate(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")

	err := runAdd(nil, []string{"read"})
	if err == nil || !strings.Contains(err.Error(), "already track") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestAdd_Color(t *testing.T) {
	configTestEnv(t)
	addColor = "#50C878"
	run(t, runAdd, "Run")

	h, err := mustOpen(t).habits.Get("Run")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if h.Color != "#50C878" {
		t.Errorf("color = %q", h.Color)
	}
}

func TestArchiveHidesFromList(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")
	run(t, runAdd, "Walk")
	run(t, runArchive, "walk")

	out := run(t, runList)
	if strings.Contains(out, "Walk") {
		t.Errorf("archived habit listed: %q", out)
	}

	listAll = true
	out = run(t, runList)
	if !strings.Contains(out, "Walk") || !strings.Contains(out, "archived") {
		t.Errorf("--all should show archived habit: %q", out)
	}

	run(t, runUnarchive, "walk")
	listAll = false
	out = run(t, runList)
	if !strings.Contains(out, "Walk") {
		t.Errorf("unarchived habit missing: %q", out)
	}
}

func TestRename(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")
	run(t, runAdd, "Write")

	out := run(t, runRename, "read", "Read books")
	if !strings.Contains(out, "Read books") {
		t.Errorf("unexpected rename output: %q", out)
	}
	if err := runRename(nil, []string{"Read books", "write"}); err == nil {
		t.Error("renaming onto an existing name should fail")
	}
}

func TestColorCommand(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")

	run(t, runColor, "read", "212")
	if h, _ := mustOpen(t).habits.Get("read"); h.Color != "212" {
		t.Errorf("color = %q, want 212", h.Color)
	}
	out := run(t, runColor, "read", "")
	if !strings.Contains(out, "default color") {
		t.Errorf("reset output: %q", out)
	}
}

func TestDelete(t *testing.T) {
	configTestEnv(t)
	run(t, runAdd, "Read")

	err := runDelete(nil, []string{"read"})
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("non-interactive delete without --yes should fail, got %v", err)
	}

	deleteYes = true
	run(t, runDelete, "read")
	if _, err := mustOpen(t).habits.Get("read"); !errors.Is(err, habit.ErrNotFound) {
		t.Fatalf("habit still present: %v", err)
	}
}

func TestDashboard(t *testing.T) {
	configTestEnv(t)

	out := run(t, runDashboard)
	if !strings.Contains(out, "Nothing tracked yet") {
		t.Errorf("empty dashboard: %q", out)
	}

	run(t, runAdd, "Read")
	run(t, runAdd, "Walk")
	run(t, runDone, "read")

	out = run(t, runDashboard)
	for _, want := range []string{"Read", "Walk", "Monday, March 10", "one habit left today"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}
}

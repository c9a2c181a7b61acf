package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/taskplan/internal/plan"
)

func createTestPlan(t *testing.T) *plan.Plan {
	t.Helper()

	p, err := plan.Build("ship the beta", "", []plan.RawTask{
		{ID: "design", Title: "Design", Description: "Design the system", Duration: 2},
		{ID: "build", Description: "Build it", Duration: 3, DependencyIDs: []string{"design"}},
		{ID: "verify", Description: "Verify the build", Duration: 1, DependencyIDs: []string{"build"}},
	})
	if err != nil {
		t.Fatalf("building test plan: %v", err)
	}
	return p
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestRunPlanReview_EmptyPlan(t *testing.T) {
	emptyPlan := &plan.Plan{
		Tasks: []plan.Task{},
	}

	result, err := RunPlanReview(emptyPlan)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !result.Approved {
		t.Error("Expected empty plan to be auto-approved")
	}

	if result.Reason != "" {
		t.Errorf("Expected empty reason, got: %s", result.Reason)
	}
}

func TestPlanReviewModel_Init(t *testing.T) {
	model := planReviewModel{
		plan:     createTestPlan(t),
		viewMode: "list",
	}

	if cmd := model.Init(); cmd != nil {
		t.Error("Expected Init to return nil cmd")
	}
}

func TestPlanReviewModel_Navigation(t *testing.T) {
	testPlan := createTestPlan(t)
	model := planReviewModel{
		plan:     testPlan,
		cursor:   0,
		viewMode: "list",
	}

	updatedModel, _ := model.Update(keyRune('j'))
	m := updatedModel.(planReviewModel)
	if m.cursor != 1 {
		t.Errorf("Expected cursor at 1, got %d", m.cursor)
	}

	updatedModel, _ = m.Update(keyRune('k'))
	m = updatedModel.(planReviewModel)
	if m.cursor != 0 {
		t.Errorf("Expected cursor at 0, got %d", m.cursor)
	}

	// Can't go below 0
	updatedModel, _ = m.Update(keyRune('k'))
	m = updatedModel.(planReviewModel)
	if m.cursor != 0 {
		t.Errorf("Expected cursor to stay at 0, got %d", m.cursor)
	}

	// Can't exceed task count
	model.cursor = len(testPlan.Tasks) - 1
	updatedModel, _ = model.Update(keyRune('j'))
	m = updatedModel.(planReviewModel)
	if m.cursor != len(testPlan.Tasks)-1 {
		t.Errorf("Expected cursor to stay at max, got %d", m.cursor)
	}
}

func TestPlanReviewModel_ViewModes(t *testing.T) {
	model := planReviewModel{
		plan:     createTestPlan(t),
		cursor:   1,
		viewMode: "list",
	}

	updatedModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := updatedModel.(planReviewModel)
	if m.viewMode != "detail" {
		t.Errorf("Expected detail view, got %s", m.viewMode)
	}
	if m.selectedTask != 1 {
		t.Errorf("Expected selected task 1, got %d", m.selectedTask)
	}

	updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updatedModel.(planReviewModel)
	if m.viewMode != "list" {
		t.Errorf("Expected list view, got %s", m.viewMode)
	}
}

func TestPlanReviewModel_Approve(t *testing.T) {
	model := planReviewModel{
		plan:     createTestPlan(t),
		viewMode: "list",
	}

	updatedModel, cmd := model.Update(keyRune('a'))
	m := updatedModel.(planReviewModel)

	if m.result == nil || !m.result.Approved {
		t.Fatal("Expected plan to be approved")
	}
	if cmd == nil {
		t.Error("Expected quit command after approval")
	}
}

func TestPlanReviewModel_RejectWithReason(t *testing.T) {
	model := planReviewModel{
		plan:     createTestPlan(t),
		viewMode: "list",
	}

	updatedModel, _ := model.Update(keyRune('r'))
	m := updatedModel.(planReviewModel)
	if !m.editingReason {
		t.Fatal("Expected rejection reason editing to start")
	}

	for _, r := range "bad" {
		updatedModel, _ = m.Update(keyRune(r))
		m = updatedModel.(planReviewModel)
	}

	updatedModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updatedModel.(planReviewModel)

	if m.result == nil {
		t.Fatal("Expected result after submitting reason")
	}
	if m.result.Approved {
		t.Error("Expected plan to be rejected")
	}
	if m.result.Reason != "bad" {
		t.Errorf("Expected reason 'bad', got %q", m.result.Reason)
	}
	if cmd == nil {
		t.Error("Expected quit command after rejection")
	}
}

func TestPlanReviewModel_RejectionReasonBackspace(t *testing.T) {
	model := planReviewModel{
		plan:           createTestPlan(t),
		viewMode:       "list",
		editingReason:  true,
		rejectionInput: "abc",
	}

	updatedModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m := updatedModel.(planReviewModel)
	if m.rejectionInput != "ab" {
		t.Errorf("Expected 'ab' after backspace, got %q", m.rejectionInput)
	}
}

func TestPlanReviewModel_CancelRejection(t *testing.T) {
	rejected := false
	model := planReviewModel{
		plan:           createTestPlan(t),
		viewMode:       "list",
		approved:       &rejected,
		editingReason:  true,
		rejectionInput: "half-typed",
	}

	updatedModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m := updatedModel.(planReviewModel)

	if m.editingReason {
		t.Error("Expected editing to stop on esc")
	}
	if m.rejectionInput != "" {
		t.Error("Expected rejection input to be cleared")
	}
	if m.approved != nil {
		t.Error("Expected decision to be reset")
	}
}

func TestPlanReviewModel_QuitWithoutDecision(t *testing.T) {
	model := planReviewModel{
		plan:     createTestPlan(t),
		viewMode: "list",
	}

	updatedModel, cmd := model.Update(keyRune('q'))
	m := updatedModel.(planReviewModel)

	if m.result == nil {
		t.Fatal("Expected result when quitting")
	}
	if m.result.Approved {
		t.Error("Expected undecided quit to reject")
	}
	if m.result.Reason != "Review cancelled" {
		t.Errorf("Unexpected reason: %q", m.result.Reason)
	}
	if cmd == nil {
		t.Error("Expected quit command")
	}
}

func TestPlanReviewModel_View(t *testing.T) {
	p := createTestPlan(t)
	model := planReviewModel{
		plan:     p,
		viewMode: "list",
	}

	out := model.View()

	if !strings.Contains(out, "Plan Review") {
		t.Error("Expected title in view")
	}
	if !strings.Contains(out, "ship the beta") {
		t.Error("Expected goal in view")
	}
	for _, id := range []string{"design", "build", "verify"} {
		if !strings.Contains(out, id) {
			t.Errorf("Expected task %s in list view", id)
		}
	}

	// Detail view lists dependency ids. Tasks are id-sorted, so index 0
	// is "build", which depends on "design".
	model.viewMode = "detail"
	model.selectedTask = 0
	out = model.View()
	if !strings.Contains(out, "Depends On") {
		t.Error("Expected dependency section in detail view")
	}
	if !strings.Contains(out, "design") {
		t.Error("Expected dependency id in detail view")
	}

	// A task without dependencies still renders the section.
	model.selectedTask = 1 // "design"
	out = model.View()
	if !strings.Contains(out, "(none)") {
		t.Error("Expected empty dependency marker in detail view")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(3); got != "3d" {
		t.Errorf("formatDuration(3) = %q, want 3d", got)
	}
	if got := formatDuration(1.5); got != "1.5d" {
		t.Errorf("formatDuration(1.5) = %q, want 1.5d", got)
	}
}

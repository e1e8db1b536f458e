package tui_test

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/antopolskiy/taskboard/internal/task"
)

func TestCreate_DialogOpensAndCloses(t *testing.T) {
	b, _ := setupTestBoard(t)

	b = press(b, "c")
	if !strings.Contains(b.View(), "Create task in To Do") {
		t.Fatalf("expected create form, got:\n%s", b.View())
	}

	b = pressSpecial(b, tea.KeyEsc)
	if strings.Contains(b.View(), "Create task in") {
		t.Error("esc should close the create form")
	}
}

func TestCreate_TypesIntoFocusedField(t *testing.T) {
	b, _ := setupTestBoard(t)

	b = press(b, "c")
	b = typeText(b, "Buy milk")
	b = pressSpecial(b, tea.KeyTab)
	b = typeText(b, "2% organic")

	v := b.View()
	if !strings.Contains(v, "Title: Buy milk") {
		t.Errorf("title field missing typed text:\n%s", v)
	}
	if !strings.Contains(v, "Description: 2% organic") {
		t.Errorf("description field missing typed text:\n%s", v)
	}
}

func TestCreate_SpaceAndLettersDoNotTriggerBoardKeys(t *testing.T) {
	b, h := setupTestBoard(t)

	b = press(b, "c")
	b = typeText(b, "d q N")

	if h.api.count(http.MethodDelete)+h.api.count(http.MethodPut) != 0 {
		t.Error("typing in the form reached board shortcuts")
	}
	if !strings.Contains(b.View(), "Title: d q N") {
		t.Errorf("expected typed text in form:\n%s", b.View())
	}
}

func TestCreate_SubmitCreatesTodoTask(t *testing.T) {
	b, h := setupTestBoard(t)

	b = press(b, "c")
	b = typeText(b, "Buy milk")
	b = pressSpecial(b, tea.KeyTab)
	b = typeText(b, "2%")
	b = pressSpecial(b, tea.KeyEnter)

	created, ok := task.FindByTitle(h.mem.List(), "Buy milk")
	if !ok {
		t.Fatal("task not created on server")
	}
	if created.Description != "2%" || created.Status != task.StatusTodo {
		t.Errorf("created = %+v", created)
	}
	if got := h.api.count(http.MethodPost); got != 1 {
		t.Errorf("POST count = %d, want 1", got)
	}

	v := b.View()
	if strings.Contains(v, "Create task in") {
		t.Error("form should close after a successful create")
	}
	if !strings.Contains(v, "To Do (3)") || !strings.Contains(v, "Buy milk") || !strings.Contains(v, "Task created") {
		t.Errorf("board not refreshed after create:\n%s", v)
	}
}

func TestCreate_SuccessClearsInputs(t *testing.T) {
	b, _ := setupTestBoard(t)

	b = press(b, "c")
	b = typeText(b, "First")
	b = pressSpecial(b, tea.KeyEnter)

	b = press(b, "c")
	if strings.Contains(b.View(), "Title: First") {
		t.Error("inputs should be cleared after a successful create")
	}
}

func TestCreate_EmptyTitleSendsNothing(t *testing.T) {
	b, h := setupTestBoard(t)

	b = press(b, "c")
	b = typeText(b, "   ")
	b = pressSpecial(b, tea.KeyEnter)

	if got := h.api.count(http.MethodPost); got != 0 {
		t.Errorf("POST count = %d, want 0", got)
	}
	if got := h.api.count(http.MethodGet); got != 0 {
		t.Errorf("GET count = %d, want 0", got)
	}
	v := b.View()
	if !strings.Contains(v, "Create task in") {
		t.Error("form should stay open after a rejected create")
	}
	if !strings.Contains(v, "title is required") {
		t.Errorf("expected validation message, got:\n%s", v)
	}
}

func TestCreate_FailureKeepsInputs(t *testing.T) {
	b, h := setupTestBoard(t)
	h.api.setFail(http.MethodPost, true)

	b = press(b, "c")
	b = typeText(b, "Buy milk")
	b = pressSpecial(b, tea.KeyTab)
	b = typeText(b, "2%")
	b = pressSpecial(b, tea.KeyEnter)

	v := b.View()
	if !strings.Contains(v, "Create task in") {
		t.Fatal("form should stay open after a failed create")
	}
	if !strings.Contains(v, "Title: Buy milk") || !strings.Contains(v, "Description: 2%") {
		t.Errorf("inputs should survive a failed create:\n%s", v)
	}
	if !strings.Contains(v, "Error:") {
		t.Errorf("expected error in form:\n%s", v)
	}

	// Retry once the API recovers.
	h.api.setFail(http.MethodPost, false)
	b = pressSpecial(b, tea.KeyEnter)
	if _, ok := task.FindByTitle(h.mem.List(), "Buy milk"); !ok {
		t.Error("retry did not create the task")
	}
	if strings.Contains(b.View(), "Error:") {
		t.Error("error should clear after a successful retry")
	}
}

func TestCreate_AcceptedCreateClosesFormWhenRefreshFails(t *testing.T) {
	b, h := setupTestBoard(t)

	b = press(b, "c")
	b = typeText(b, "Buy milk")
	h.api.setFail(http.MethodGet, true)
	b = pressSpecial(b, tea.KeyEnter)

	if got := h.api.count(http.MethodPost); got != 1 {
		t.Errorf("POST count = %d, want 1", got)
	}
	v := b.View()
	if strings.Contains(v, "Create task in") {
		t.Fatal("form should close once the server accepted the task")
	}
	if strings.Contains(v, "Error:") || !strings.Contains(v, "Task created") {
		t.Errorf("accepted create should be reported as created:\n%s", v)
	}

	b = press(b, "c")
	if strings.Contains(b.View(), "Title: Buy milk") {
		t.Error("inputs should be cleared so a resubmit cannot duplicate the task")
	}
	if got := len(h.mem.List()); got != 5 {
		t.Errorf("server has %d tasks, want 5", got)
	}
}

func TestCreate_CancelKeepsInputs(t *testing.T) {
	b, h := setupTestBoard(t)

	b = press(b, "c")
	b = typeText(b, "Draft")
	b = pressSpecial(b, tea.KeyEsc)
	b = press(b, "c")

	if !strings.Contains(b.View(), "Title: Draft") {
		t.Error("cancelling the form should keep the typed title")
	}
	if h.api.count(http.MethodPost) != 0 {
		t.Error("cancel sent a create request")
	}
}

func TestCreate_BackspaceDeletesCharacter(t *testing.T) {
	b, _ := setupTestBoard(t)

	b = press(b, "c")
	b = typeText(b, "AB")
	b = pressSpecial(b, tea.KeyBackspace)

	v := b.View()
	if strings.Contains(v, "Title: AB") || !strings.Contains(v, "Title: A") {
		t.Errorf("backspace should delete the last character:\n%s", v)
	}
}

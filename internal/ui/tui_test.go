package ui

import (
	"strings"
	"testing"
	"time"

	"todoapp/internal/app"
	"todoapp/internal/client"
	"todoapp/internal/config"
	"todoapp/internal/models"
)

func newTestModel() *model {
	api := client.New("http://127.0.0.1:1", time.Second)
	return newModel(app.NewController(api, nil), &config.Config{APIURL: "http://127.0.0.1:1"})
}

func TestRenderListRows(t *testing.T) {
	view := []models.Todo{
		{ID: 2, Text: "walk the dog", Completed: true},
		{ID: 1, Text: "buy milk"},
	}

	out := renderList(view, 1, app.FilterAll)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("renderList produced %d rows, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "[x]") || !strings.Contains(lines[0], "walk the dog") {
		t.Errorf("completed row = %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ ]") || !strings.Contains(lines[1], "buy milk") {
		t.Errorf("pending row = %q", lines[1])
	}
	if !strings.Contains(lines[1], ">") {
		t.Errorf("cursor row missing marker: %q", lines[1])
	}
}

func TestRenderListEmpty(t *testing.T) {
	if out := renderList(nil, 0, app.FilterAll); !strings.Contains(out, "No tasks found") {
		t.Errorf("empty all view = %q", out)
	}
	if out := renderList(nil, 0, app.FilterCompleted); !strings.Contains(out, "No completed tasks") {
		t.Errorf("empty filtered view = %q", out)
	}
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		name string
		conn app.Connectivity
		want string
	}{
		{name: "offline", conn: app.Connectivity{}, want: "API Offline"},
		{name: "connected", conn: app.Connectivity{APIReachable: true, Database: "connected"}, want: "DB Connected"},
		{name: "db down", conn: app.Connectivity{APIReachable: true, Database: "disconnected"}, want: "DB disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderStatus(tt.conn); !strings.Contains(got, tt.want) {
				t.Errorf("renderStatus() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestCommitEditNoOp(t *testing.T) {
	m := newTestModel()
	m.editing = models.Todo{ID: 1, Text: "buy milk"}

	m.input = "buy milk"
	if cmd := m.commitEdit(); cmd != nil {
		t.Error("unchanged text should not trigger an update")
	}

	m.input = "   "
	if cmd := m.commitEdit(); cmd != nil {
		t.Error("empty text should not trigger an update")
	}

	m.input = "buy oat milk"
	if cmd := m.commitEdit(); cmd == nil {
		t.Error("changed text should trigger an update")
	}
}

package command

import (
	"net/http"
	"testing"
)

func TestStatusCommand(t *testing.T) {
	cmd := StatusCommand()
	if cmd == nil {
		t.Fatal("StatusCommand returned nil")
	}

	if cmd.Name != "status" {
		t.Errorf("Name = %q, want %q", cmd.Name, "status")
	}
	if cmd.Action == nil {
		t.Error("status command should have an action")
	}
}

func TestStatusAction_Success(t *testing.T) {
	gw := newMockGateway(t)

	gw.handle("/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			errorResponse(w, http.StatusMethodNotAllowed, "CG-MGMT-1", "method not allowed")
			return
		}
		jsonResponse(w, http.StatusOK, sampleStatusDoc(false))
	})

	ctx := testContext(gw, "--output", "json")
	if err := statusAction(ctx); err != nil {
		t.Errorf("statusAction() error = %v", err)
	}
}

func TestStatusAction_TableFormat(t *testing.T) {
	gw := newMockGateway(t)

	gw.handle("/status", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, sampleStatusDoc(true))
	})

	ctx := testContext(gw, "--output", "table")
	if err := statusAction(ctx); err != nil {
		t.Errorf("statusAction() table format error = %v", err)
	}
}

func TestStatusAction_ServerError(t *testing.T) {
	gw := newMockGateway(t)

	gw.handle("/status", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusInternalServerError, "CG-MGMT-2", "status unavailable")
	})

	ctx := testContext(gw, "--output", "json")
	if err := statusAction(ctx); err == nil {
		t.Error("statusAction() expected error for server error")
	}
}

func TestStatusAction_NoGateway(t *testing.T) {
	gw := newMockGateway(t)
	gw.server.Close()

	ctx := testContext(gw, "--output", "json")
	if err := statusAction(ctx); err == nil {
		t.Error("statusAction() expected error when gateway is down")
	}
}

func TestFormatUnixMilli(t *testing.T) {
	if got := formatUnixMilli(0); got != "-" {
		t.Errorf("formatUnixMilli(0) = %q, want %q", got, "-")
	}
	if got := formatUnixMilli(-5); got != "-" {
		t.Errorf("formatUnixMilli(-5) = %q, want %q", got, "-")
	}
	if got := formatUnixMilli(1756070000000); got == "-" || len(got) != 19 {
		t.Errorf("formatUnixMilli(1756070000000) = %q, want a timestamp", got)
	}
}

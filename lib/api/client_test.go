// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("NewClient with empty BaseURL should fail")
	}
	if _, err := NewClient(Config{BaseURL: "ftp://backend"}); err == nil {
		t.Error("NewClient with non-http URL should fail")
	}
	if _, err := NewClient(Config{BaseURL: "http://backend:8000/"}); err != nil {
		t.Errorf("NewClient with valid URL failed: %v", err)
	}
}

func TestStatusDecodesSnapshot(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{
			"status": "Running",
			"system_active": true,
			"detections": [
				{"label": "person", "confidence": 0.91, "is_dangerous": false},
				{"label": "knife", "confidence": 0.42, "is_dangerous": true}
			],
			"llm_response": "A person is nearby.",
			"logs": ["[12:00:01] Detected person (0.91)"],
			"fps": 24
		}`)
	})

	snapshot, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if snapshot.Status != "Running" || !snapshot.SystemActive {
		t.Errorf("status fields = %q/%v, want Running/true", snapshot.Status, snapshot.SystemActive)
	}
	if len(snapshot.Detections) != 2 {
		t.Fatalf("got %d detections, want 2", len(snapshot.Detections))
	}
	if !snapshot.Detections[1].IsDangerous {
		t.Error("second detection should be dangerous")
	}
	if snapshot.Guidance != "A person is nearby." {
		t.Errorf("guidance = %q", snapshot.Guidance)
	}
	if snapshot.FPS == nil || *snapshot.FPS != 24 {
		t.Errorf("fps = %v, want 24", snapshot.FPS)
	}
}

func TestSnapshotGuidanceAliasPrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"llm_response only", `{"llm_response": "from llm"}`, "from llm"},
		{"guidance only", `{"guidance": "from guidance"}`, "from guidance"},
		{"both set, llm_response wins", `{"llm_response": "primary", "guidance": "fallback"}`, "primary"},
		{"empty llm_response falls through", `{"llm_response": "", "guidance": "fallback"}`, "fallback"},
		{"neither", `{}`, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var snapshot Snapshot
			if err := json.Unmarshal([]byte(test.body), &snapshot); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if snapshot.Guidance != test.want {
				t.Errorf("guidance = %q, want %q", snapshot.Guidance, test.want)
			}
		})
	}
}

func TestSnapshotAbsentFPS(t *testing.T) {
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(`{"status": "Inactive"}`), &snapshot); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snapshot.FPS != nil {
		t.Errorf("absent fps decoded as %v, want nil", *snapshot.FPS)
	}
}

func TestSetSystemState(t *testing.T) {
	var received map[string]bool
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/system/state" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		io.WriteString(w, `{"status": "success", "active": true}`)
	})

	if err := client.SetSystemState(context.Background(), true); err != nil {
		t.Fatalf("SetSystemState: %v", err)
	}
	if !received["active"] {
		t.Error("request body did not carry active=true")
	}
}

func TestAsk(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["question"] != "where are my keys" {
			t.Errorf("question = %q", body["question"])
		}
		io.WriteString(w, `{"answer": "On the table."}`)
	})

	answer, err := client.Ask(context.Background(), "where are my keys")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "On the table." {
		t.Errorf("answer = %q", answer)
	}
}

func TestCurrentUserUnauthenticated(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.CurrentUser(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestUserSettings(t *testing.T) {
	show := User{SettingsJSON: `{"show_overlays": true}`}
	if got := show.Settings().ShowOverlays; got == nil || !*got {
		t.Error("show_overlays=true did not decode")
	}

	empty := User{}
	if empty.Settings().ShowOverlays != nil {
		t.Error("empty settings should have nil ShowOverlays")
	}

	malformed := User{SettingsJSON: `{not json`}
	if malformed.Settings().ShowOverlays != nil {
		t.Error("malformed settings should decode as zero value")
	}
}

func TestUploadFaceMultipart(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("name"); got != "Alice" {
			t.Errorf("name field = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file field: %v", err)
		}
		defer file.Close()
		if header.Filename != "alice.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "jpegbytes" {
			t.Errorf("file content = %q", content)
		}
		io.WriteString(w, `{"status": "success", "id": 7, "name": "Alice"}`)
	})

	face, err := client.UploadFace(context.Background(), "Alice", "alice.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("UploadFace: %v", err)
	}
	if face.ID != 7 || face.Name != "Alice" {
		t.Errorf("face = %+v", face)
	}
}

func TestDeleteFacePath(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/faces/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"status": "success"}`)
	})

	if err := client.DeleteFace(context.Background(), 3); err != nil {
		t.Fatalf("DeleteFace: %v", err)
	}
}

func TestErrorStatusIncludesBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail": "Face not found"}`)
	})

	err := client.DeleteFace(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "Face not found") {
		t.Errorf("error message missing detail: %v", err)
	}
}

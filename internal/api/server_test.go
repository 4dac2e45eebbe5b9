package api

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lumend/lumend/internal/backlight"
	"github.com/lumend/lumend/internal/events"
	"github.com/lumend/lumend/internal/logging"
)

// stubRunner pretends brightnessctl is installed and records writes.
type stubRunner struct {
	mu   sync.Mutex
	runs [][]string
}

func (r *stubRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func (r *stubRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, nil
}

func (r *stubRunner) Run(name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, append([]string{name}, args...))
	return nil, nil
}

func newTestServer(t *testing.T, raw, maxRaw int) (*Server, *httptest.Server) {
	t.Helper()

	root := t.TempDir()
	device := filepath.Join(root, "intel_backlight")
	if err := os.Mkdir(device, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(device, "brightness"), []byte(strconv.Itoa(raw)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(device, "max_brightness"), []byte(strconv.Itoa(maxRaw)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	bus := events.New()
	ctrl := backlight.New(backlight.Config{
		ForceBackend: "sysfs",
		SysfsRoot:    root,
		Runner:       &stubRunner{},
	}, bus, logging.GetLogger("brightness"))
	t.Cleanup(ctrl.Shutdown)

	server := NewServer(&Options{
		AuthUsername: "test",
		AuthPassword: "test",
		Controller:   ctrl,
		EventBus:     bus,
	})

	ts := httptest.NewServer(server.mux)
	t.Cleanup(ts.Close)
	return server, ts
}

func authedRequest(t *testing.T, method, url, body string) *http.Request {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	credentials := base64.StdEncoding.EncodeToString([]byte("test:test"))
	req.Header.Set("Authorization", "Basic "+credentials)
	return req
}

func TestGetBrightness(t *testing.T) {
	_, ts := newTestServer(t, 40, 80)

	resp, err := http.DefaultClient.Do(authedRequest(t, "GET", ts.URL+"/api/brightness", ""))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var data BrightnessData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if data.Percent != 50 || data.Raw != 40 || data.MaxRaw != 80 {
		t.Errorf("Expected 50%%/40/80, got %d%%/%d/%d", data.Percent, data.Raw, data.MaxRaw)
	}
	if data.Backend != "sysfs" {
		t.Errorf("Expected backend sysfs, got %s", data.Backend)
	}
}

func TestSetBrightnessPercent(t *testing.T) {
	_, ts := newTestServer(t, 40, 80)

	resp, err := http.DefaultClient.Do(authedRequest(t, "PUT", ts.URL+"/api/brightness", `{"percent":75}`))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var data BrightnessData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if data.Raw != 60 || data.Percent != 75 {
		t.Errorf("Expected raw 60 at 75%%, got raw %d at %d%%", data.Raw, data.Percent)
	}
}

func TestSetBrightnessRejectsBothFields(t *testing.T) {
	_, ts := newTestServer(t, 40, 80)

	resp, err := http.DefaultClient.Do(authedRequest(t, "PUT", ts.URL+"/api/brightness", `{"percent":75,"raw":10}`))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", resp.StatusCode)
	}
}

func TestGetBackend(t *testing.T) {
	_, ts := newTestServer(t, 40, 80)

	resp, err := http.DefaultClient.Do(authedRequest(t, "GET", ts.URL+"/api/backend", ""))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	var data BackendData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if data.Backend != "sysfs" {
		t.Errorf("Expected backend sysfs, got %s", data.Backend)
	}
	if data.Device != "intel_backlight" {
		t.Errorf("Expected device intel_backlight, got %s", data.Device)
	}
	if data.MaxRaw != 80 {
		t.Errorf("Expected max_raw 80, got %d", data.MaxRaw)
	}
}

func TestHealthSkipsAuth(t *testing.T) {
	_, ts := newTestServer(t, 40, 80)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 without auth, got %d", resp.StatusCode)
	}
}

func TestBrightnessRequiresAuth(t *testing.T) {
	_, ts := newTestServer(t, 40, 80)

	resp, err := http.Get(ts.URL + "/api/brightness")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", resp.StatusCode)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte("wrong:wrong"))
	req, _ := http.NewRequest("GET", ts.URL+"/api/brightness", nil)
	req.Header.Set("Authorization", "Basic "+credentials)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected status 401 for wrong credentials, got %d", resp.StatusCode)
	}
}

func TestSSEConnectionAndEvents(t *testing.T) {
	server, ts := newTestServer(t, 40, 80)

	credentials := base64.StdEncoding.EncodeToString([]byte("test:test"))
	sseURL := fmt.Sprintf("%s/api/events?auth=%s", ts.URL, credentials)

	resp, err := http.Get(sseURL)
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("Expected SSE content type, got %s", resp.Header.Get("Content-Type"))
	}

	scanner := bufio.NewScanner(resp.Body)
	messageChan := make(chan string, 10)

	go func() {
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data:") {
				messageChan <- line
			}
		}
	}()

	// The stream opens with the current backend state
	timeout := time.After(time.Second)
	select {
	case msg := <-messageChan:
		if !strings.Contains(msg, "sysfs") || !strings.Contains(msg, "intel_backlight") {
			t.Errorf("Expected backend snapshot, got: %s", msg)
		}
	case <-timeout:
		t.Fatal("Timeout waiting for initial SSE message")
	}

	// A published brightness change reaches the stream
	server.eventBus.Publish(events.BrightnessChangedEvent{
		Percent:   60,
		Raw:       48,
		Backend:   "sysfs",
		Origin:    events.OriginWrite,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	timeout = time.After(time.Second)
	select {
	case msg := <-messageChan:
		if !strings.Contains(msg, `"percent":60`) {
			t.Errorf("Expected brightness change event, got: %s", msg)
		}
	case <-timeout:
		t.Fatal("Timeout waiting for brightness change event")
	}
}

func TestLogsHistory(t *testing.T) {
	_, ts := newTestServer(t, 40, 80)

	logging.GetLogger("api-test").Info("history marker")

	resp, err := http.DefaultClient.Do(authedRequest(t, "GET", ts.URL+"/api/logs", ""))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var data LogsData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if data.Count != len(data.Entries) {
		t.Errorf("Count %d does not match %d entries", data.Count, len(data.Entries))
	}
}

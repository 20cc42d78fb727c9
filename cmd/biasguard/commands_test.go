package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/ashureev/biasguard/internal/client"
	"github.com/ashureev/biasguard/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// auditServer records every applicant posted to /predict and answers with
// the decision and audit text chosen by decide.
type auditServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies []domain.ApplicantInput
}

func newAuditServer(t *testing.T, decide func(domain.ApplicantInput) map[string]any) *auditServer {
	t.Helper()
	s := &auditServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != domain.PredictPath {
			http.Error(w, "unexpected request", http.StatusNotFound)
			return
		}
		var in domain.ApplicantInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.bodies = append(s.bodies, in)
		s.mu.Unlock()

		resp := decide(in)
		if resp == nil {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *auditServer) posted() []domain.ApplicantInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ApplicantInput(nil), s.bodies...)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func sexDecides(in domain.ApplicantInput) map[string]any {
	if in.Sex == 0 {
		return map[string]any{"decision": "Denied", "ethical_audit": "Gender flag raised", "raw_score": 0}
	}
	return map[string]any{"decision": "Approved", "ethical_audit": "Audit clean", "raw_score": 1}
}

func TestTwinsDifferOnlyInSex(t *testing.T) {
	srv := newAuditServer(t, sexDecides)

	out, err := runCLI(t, "twins", "--url", srv.URL,
		"--age", "41", "--education-num", "9", "--sex", "1", "--hours-per-week", "50")
	if err != nil {
		t.Fatalf("twins failed: %v\n%s", err, out)
	}

	want := []domain.ApplicantInput{
		{Age: 41, EducationNum: 9, Sex: 0, HoursPerWeek: 50},
		{Age: 41, EducationNum: 9, Sex: 1, HoursPerWeek: 50},
	}
	if diff := cmp.Diff(want, srv.posted()); diff != "" {
		t.Errorf("Posted profiles mismatch (-want +got):\n%s", diff)
	}

	for _, s := range []string{
		"RESULTS FOR FEMALE APPLICANT",
		"RESULTS FOR MALE APPLICANT",
		"Denied",
		"Approved",
		"Gender flag raised",
		"Audit clean",
		"Twin decisions differ",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("Expected output to contain %q, got:\n%s", s, out)
		}
	}
	if strings.Index(out, "FEMALE") > strings.Index(out, "RESULTS FOR MALE") {
		t.Error("Expected female profile rendered first")
	}
}

func TestTwinsMatchingDecisions(t *testing.T) {
	srv := newAuditServer(t, func(domain.ApplicantInput) map[string]any {
		return map[string]any{"decision": "Approved", "ethical_audit": "Audit clean"}
	})

	out, err := runCLI(t, "twins", "--url", srv.URL,
		"--age", "30", "--education-num", "12", "--sex", "1", "--hours-per-week", "40")
	if err != nil {
		t.Fatalf("twins failed: %v", err)
	}
	if !strings.Contains(out, "Twin decisions match.") || strings.Contains(out, "differ") {
		t.Errorf("Expected matching decisions reported, got:\n%s", out)
	}
	if n := len(srv.posted()); n != 2 {
		t.Errorf("Expected 2 requests, got %d", n)
	}
}

func TestTwinsStopsOnFailure(t *testing.T) {
	srv := newAuditServer(t, func(domain.ApplicantInput) map[string]any { return nil })

	_, err := runCLI(t, "twins", "--url", srv.URL,
		"--age", "30", "--education-num", "12", "--sex", "1", "--hours-per-week", "40")
	if !errors.Is(err, client.ErrRequestFailed) {
		t.Fatalf("Expected ErrRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Female Applicant") {
		t.Errorf("Expected failing profile named, got %v", err)
	}
	if n := len(srv.posted()); n != 1 {
		t.Errorf("Expected to stop after 1 request, got %d", n)
	}
}

func TestAuditRendersResultVerbatim(t *testing.T) {
	srv := newAuditServer(t, func(in domain.ApplicantInput) map[string]any {
		return map[string]any{
			"decision":      "Denied",
			"ethical_audit": "Age flag for " + strconv.Itoa(in.Age),
			"audit_id":      "audit-123",
		}
	})

	out, err := runCLI(t, "audit", "--url", srv.URL,
		"--age", "22", "--education-num", "12", "--sex", "1", "--hours-per-week", "40")
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	for _, s := range []string{"AUDIT DECISION", "Denied", `"Age flag for 22"`, "audit audit-123"} {
		if !strings.Contains(out, s) {
			t.Errorf("Expected output to contain %q, got:\n%s", s, out)
		}
	}
}

func TestHistoryAgesCappedNewestFirst(t *testing.T) {
	srv := newAuditServer(t, func(in domain.ApplicantInput) map[string]any {
		return map[string]any{"decision": "Approved", "ethical_audit": "age " + strconv.Itoa(in.Age)}
	})
	historyAges = nil

	out, err := runCLI(t, "history", "--url", srv.URL, "--history-limit", "5",
		"--education-num", "12", "--sex", "0", "--hours-per-week", "40",
		"--ages", "20,21,22,23,24,25,26")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}

	if n := len(srv.posted()); n != 7 {
		t.Errorf("Expected 7 requests, got %d", n)
	}
	if n := strings.Count(out, "● "); n != 5 {
		t.Errorf("Expected 5 history rows, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, `"age 26"`) {
		t.Errorf("Expected latest result for age 26, got:\n%s", out)
	}

	last := -1
	for age := 26; age >= 22; age-- {
		idx := strings.Index(out, "Age: "+strconv.Itoa(age)+" |")
		if idx < 0 {
			t.Fatalf("Expected history row for age %d, got:\n%s", age, out)
		}
		if idx < last {
			t.Errorf("Expected age %d listed after newer entries", age)
		}
		last = idx
	}
	for _, age := range []int{20, 21} {
		if strings.Contains(out, "Age: "+strconv.Itoa(age)+" |") {
			t.Errorf("Expected age %d evicted from history", age)
		}
	}
}

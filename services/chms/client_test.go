package chms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/kundihq/kundi/core"
	"github.com/kundihq/kundi/core/editing"
)

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

func newTestClient(t *testing.T, handler http.Handler, sandbox bool) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &core.Config{}
	conf.Chms.BaseURL = srv.URL
	conf.Chms.AppID = "app"
	conf.Chms.Secret = "secret"
	conf.Chms.Sandbox = sandbox
	conf.Chms.PageSize = 2
	return NewClient(conf, testLogger{}), srv
}

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleepFunc = time.Sleep })
	return &slept
}

func TestListPeoplePagination(t *testing.T) {
	var srv *httptest.Server
	pages := 0
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pwd, ok := r.BasicAuth(); !ok || user != "app" || pwd != "secret" {
			t.Errorf("missing basic auth: %s %s", user, pwd)
		}
		pages++
		switch pages {
		case 1:
			fmt.Fprintf(w, `{
				"data": [
					{"id": "a", "type": "Person", "attributes": {"name": "John Doe", "birthdate": "2018-03-10", "grade": 1}},
					{"id": "b", "type": "Person", "attributes": {"name": "Jane Doe", "birthdate": "2016-05-20", "grade": 3}}
				],
				"links": {"next": %q}
			}`, srv.URL+"/people/v2/people?offset=2")
		case 2:
			fmt.Fprint(w, `{
				"data": [
					{"id": "c", "type": "Person", "attributes": {"name": "Bob Brown", "birthdate": "2014-01-01", "grade": 5}}
				],
				"links": {"next": null}
			}`)
		default:
			t.Errorf("unexpected page %d", pages)
		}
	}), false)

	people, err := client.ListPeople(context.Background())
	if err != nil {
		t.Fatalf("ListPeople() failed: %v", err)
	}
	if len(people) != 3 {
		t.Fatalf("ListPeople() = %d people, want 3", len(people))
	}
	if pages != 2 {
		t.Errorf("pages fetched = %d, want 2", pages)
	}
	// resource ID wins over anything in attributes
	if people[0].ID != "a" || people[2].ID != "c" {
		t.Errorf("IDs = %s, %s", people[0].ID, people[2].ID)
	}
	if people[0].Name.String != "John Doe" || people[0].Grade.Int != 1 {
		t.Errorf("people[0] = %+v", people[0])
	}
}

func TestUpdatePerson(t *testing.T) {
	var gotBody updateRequest
	var gotSandbox string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/people/v2/people/a" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s", ct)
		}
		gotSandbox = r.Header.Get(SandboxHeader)
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}), true)

	attrs := editing.Attributes{"name": "John Doe", "grade": 2}
	if err := client.UpdatePerson(context.Background(), "a", attrs); err != nil {
		t.Fatalf("UpdatePerson() failed: %v", err)
	}

	if gotSandbox != "true" {
		t.Errorf("sandbox header = %q, want \"true\"", gotSandbox)
	}
	if gotBody.Data.Type != "Person" || gotBody.Data.ID != "a" {
		t.Errorf("body data = %+v", gotBody.Data)
	}
	if gotBody.Data.Attributes["name"] != "John Doe" {
		t.Errorf("attributes = %+v", gotBody.Data.Attributes)
	}
}

func TestUpdatePersonNoSandboxHeader(t *testing.T) {
	sandboxSeen := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sandboxSeen = r.Header.Get(SandboxHeader) != ""
	}), false)

	if err := client.UpdatePerson(context.Background(), "a", editing.Attributes{"grade": 1}); err != nil {
		t.Fatalf("UpdatePerson() failed: %v", err)
	}
	if sandboxSeen {
		t.Error("sandbox header sent with sandbox disabled")
	}
}

func TestRateLimitRetryAfter(t *testing.T) {
	slept := stubSleep(t)

	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), false)

	if err := client.UpdatePerson(context.Background(), "a", editing.Attributes{"grade": 1}); err != nil {
		t.Fatalf("UpdatePerson() failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(*slept) != 1 || (*slept)[0] != time.Second {
		t.Errorf("slept = %v, want [1s] from Retry-After", *slept)
	}
}

func TestRateLimitBackoff(t *testing.T) {
	slept := stubSleep(t)

	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		// no Retry-After header: exponential backoff
		w.WriteHeader(http.StatusTooManyRequests)
	}), false)

	err := client.UpdatePerson(context.Background(), "a", editing.Attributes{"grade": 1})
	if err == nil {
		t.Fatal("UpdatePerson() error = nil, want rate-limit failure")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("error = %v, want *APIError 429", err)
	}
	// 1 initial + 3 retries, backing off 1s, 2s, 4s
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4", attempts)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("slept = %v, want %v", *slept, want)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("slept[%d] = %v, want %v", i, (*slept)[i], d)
		}
	}
}

// Non-429 failures are not retried.
func TestServerErrorNoRetry(t *testing.T) {
	slept := stubSleep(t)

	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "boom", http.StatusInternalServerError)
	}), false)

	err := client.UpdatePerson(context.Background(), "a", editing.Attributes{"grade": 1})
	if err == nil {
		t.Fatal("UpdatePerson() error = nil, want failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 500)", attempts)
	}
	if len(*slept) != 0 {
		t.Errorf("slept = %v, want none", *slept)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError || apiErr.Detail != "boom" {
		t.Errorf("error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pwd, _ := r.BasicAuth()
		if user == "app" && pwd == "secret" {
			fmt.Fprint(w, `{"data": []}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}), false)

	if err := client.Verify("app", "secret"); err != nil {
		t.Errorf("Verify() failed: %v", err)
	}
	if err := client.Verify("app", "wrong"); err == nil {
		t.Error("Verify() error = nil for bad credentials")
	}
}

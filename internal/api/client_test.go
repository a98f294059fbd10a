package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/auth"
)

type staticToken struct {
	tok string
	err error
}

func (s staticToken) Token() (string, error) { return s.tok, s.err }

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond, Multiplier: 1.5}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL: srv.URL + "/api/",
		Retry:   fastRetry(),
		Tokens:  staticToken{tok: "jwt-123"},
	})
}

const generateBody = `{
	"assessmentId": "a@b.c_20260301",
	"skill": "Python",
	"questions": [
		{"id": 1, "type": "mcq", "question": "LIFO?", "options": ["Queue", "Stack", "Tree", "Graph"], "correct": 1},
		{"id": "2", "type": "mcq", "question": "Binary search?", "options": ["O(n)", "O(log n)"]},
		{"id": 6, "type": "code", "question": "Reverse a string", "language": "python", "starterCode": "def f(s):\n    pass"}
	]
}`

func TestClient_Generate(t *testing.T) {
	var gotReq generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/assessment/generate", r.URL.Path)
		assert.Equal(t, "Bearer jwt-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "request id is a uuid")

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, generateBody)
	})

	gen, err := client.Generate(context.Background(), "Python")
	require.NoError(t, err)

	assert.Equal(t, "Python", gotReq.Skill)
	assert.Equal(t, "a@b.c_20260301", gen.SessionID)
	assert.Equal(t, "Python", gen.Skill)
	require.Len(t, gen.Questions, 3)

	q := gen.Questions[0]
	assert.Equal(t, "1", q.ID)
	assert.Equal(t, assessment.KindMultipleChoice, q.Kind)
	assert.Equal(t, "LIFO?", q.Prompt)
	assert.Equal(t, []string{"Queue", "Stack", "Tree", "Graph"}, q.Options)

	assert.Equal(t, "2", gen.Questions[1].ID)

	code := gen.Questions[2]
	assert.Equal(t, "6", code.ID)
	assert.Equal(t, assessment.KindCoding, code.Kind)
	assert.Equal(t, "python", code.Language)
	assert.Equal(t, "def f(s):\n    pass", code.StarterCode)
	assert.Nil(t, code.Options)
}

func TestClient_GenerateRejectsSchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing id", `{"assessmentId": "x", "questions": [{"type": "mcq", "question": "q", "options": ["a", "b"]}]}`},
		{"bad type", `{"assessmentId": "x", "questions": [{"id": 1, "type": "essay", "question": "q"}]}`},
		{"mcq without options", `{"assessmentId": "x", "questions": [{"id": 1, "type": "mcq", "question": "q"}]}`},
		{"no assessment id", `{"questions": []}`},
		{"not json", `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				io.WriteString(w, tt.body)
			})

			_, err := client.Generate(context.Background(), "Go")
			var ir *InvalidResponseError
			require.ErrorAs(t, err, &ir)
			assert.Equal(t, "generate", ir.Op)
			assert.Equal(t, int32(1), calls.Load(), "invalid responses are not retried")
		})
	}
}

func TestClient_Submit(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assessment/submit", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"message": "Assessment submitted", "score": 2, "totalMcq": 3, "mcqPercentage": 66.7, "terminated": false}`)
	})

	sub := &assessment.Submission{
		SessionID: "sess-1",
		Answers: map[string]assessment.Answer{
			"1": {Kind: assessment.KindMultipleChoice, Option: 2},
			"6": {Kind: assessment.KindCoding, Text: "print(1)"},
		},
	}
	res, err := client.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, "sess-1", got["assessmentId"])
	assert.Equal(t, false, got["terminated"])
	assert.Equal(t, map[string]any{"1": float64(2), "6": "print(1)"}, got["answers"])

	assert.Equal(t, assessment.Result{Score: 2, TotalMCQ: 3, Percentage: 67}, *res)
}

func TestClient_SubmitSendsTerminated(t *testing.T) {
	var got submitRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"score": 0, "totalMcq": 5, "mcqPercentage": 0, "terminated": true}`)
	})

	res, err := client.Submit(context.Background(), &assessment.Submission{SessionID: "s", Terminated: true})
	require.NoError(t, err)
	assert.True(t, got.Terminated)
	assert.True(t, res.Terminated)
	assert.NotNil(t, got.Answers, "answers is always an object")
}

func TestClient_ErrorBodySurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": "Assessment not found"}`)
	})

	_, err := client.Submit(context.Background(), &assessment.Submission{SessionID: "gone"})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "Assessment not found", se.Message)
	assert.NotEmpty(t, se.RequestID)
	assert.Equal(t, "Assessment not found", assessment.UserMessage(err, "Submit failed"))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"score": 1, "totalMcq": 1, "mcqPercentage": 100}`)
	})

	res, err := client.Submit(context.Background(), &assessment.Submission{SessionID: "s"})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Percentage)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": "Failed to generate assessment", "details": "boom"}`)
	})

	_, err := client.Generate(context.Background(), "Go")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "boom", se.Details)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "assessmentId is required"}`)
	})

	_, err := client.Submit(context.Background(), &assessment.Submission{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Unauthenticated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"msg": "Missing Authorization Header"}`)
	})

	_, err := client.Generate(context.Background(), "Go")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "Failed to generate assessment", assessment.UserMessage(err, "Failed to generate assessment"))
}

func TestClient_NoTokenSendsNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		io.WriteString(w, `{"score": 0, "totalMcq": 0, "mcqPercentage": 0}`)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, Retry: fastRetry(), Tokens: staticToken{err: auth.ErrNoToken}})
	_, err := client.Submit(context.Background(), &assessment.Submission{SessionID: "s"})
	require.NoError(t, err)
}

func TestClient_TokenErrorIsReturned(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:1", Retry: fastRetry(), Tokens: staticToken{err: errors.New("permission denied")}})
	_, err := client.Generate(context.Background(), "Go")
	assert.ErrorContains(t, err, "load token")
}

func TestClient_CanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, "Go")
	assert.Error(t, err)
}

func TestQuestionID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`7`, "7"},
		{`"q-7"`, "q-7"},
		{`12.0`, "12.0"},
	}
	for _, tt := range tests {
		var id questionID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &id), tt.in)
		assert.Equal(t, tt.want, string(id))
	}

	var id questionID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

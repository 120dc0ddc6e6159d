package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Najib632/Polly-API/pkg/polly"
)

func TestPrinterSuccessPrettyPrintsJSON(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "json").Print(polly.Outcome{
		Operation:  polly.OperationListPolls,
		Kind:       polly.KindSuccess,
		StatusCode: 200,
		Body:       []byte(`[{"id":1}]`),
	})

	got := buf.String()
	for _, want := range []string{"Status Code: 200", "Successfully fetched polls!", "Polls Data:", "\"id\": 1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrinterHTTPErrorShowsErrorResponse(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "").Print(polly.Outcome{
		Operation:  polly.OperationRegister,
		Kind:       polly.KindHTTPError,
		StatusCode: 400,
		Body:       []byte(`{"detail":"username taken"}`),
	})

	got := buf.String()
	for _, want := range []string{"Status Code: 400", "Registration failed.", "Error Response:", "username taken"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrinterFallsBackToRawText(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "json").Print(polly.Outcome{
		Operation:   polly.OperationListPolls,
		Kind:        polly.KindHTTPError,
		StatusCode:  500,
		Body:        []byte("Internal Server Error"),
		ContentType: "text/plain",
	})

	got := buf.String()
	if !strings.Contains(got, "Could not decode JSON from error response.") {
		t.Fatalf("missing decode fallback notice:\n%s", got)
	}
	if !strings.Contains(got, "Error Content: Internal Server Error") {
		t.Fatalf("missing raw text:\n%s", got)
	}
}

func TestPrinterSuccessWithTextBody(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "json").Print(polly.Outcome{
		Operation:   polly.OperationRegister,
		Kind:        polly.KindSuccess,
		StatusCode:  200,
		Body:        []byte("<html><head><title>Welcome</title></head></html>"),
		ContentType: "text/html; charset=utf-8",
	})

	got := buf.String()
	for _, want := range []string{"Could not decode JSON from response.", "Page Title: Welcome", "Response Content: <html>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrinterTransportError(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "json").Print(polly.Outcome{
		Operation: polly.OperationRegister,
		Kind:      polly.KindTransportError,
		Err:       errors.New("dial tcp: connection refused"),
	})

	got := buf.String()
	if strings.TrimSpace(got) != noResponseMessage {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrinterYAMLFormat(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "YAML").Print(polly.Outcome{
		Operation:  polly.OperationListPolls,
		Kind:       polly.KindSuccess,
		StatusCode: 200,
		Body:       []byte(`[{"id":9007199254740993,"question":"testuser?"}]`),
	})

	got := buf.String()
	for _, want := range []string{"Polls Data:\n", "id: 9007199254740993", "question: testuser?"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrinterRegistrationBodyOnOneLine(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "json").Print(polly.Outcome{
		Operation:  polly.OperationRegister,
		Kind:       polly.KindSuccess,
		StatusCode: 201,
		Body:       []byte(`{"id": 1, "username": "testuser"}`),
	})

	want := "Status Code: 201\nRegistration successful!\nResponse JSON: {\"id\":1,\"username\":\"testuser\"}\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinterErrorResponseOnOneLine(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "json").Print(polly.Outcome{
		Operation:  polly.OperationListPolls,
		Kind:       polly.KindHTTPError,
		StatusCode: 422,
		Body:       []byte(`{"detail": "bad limit"}`),
	})

	want := "Status Code: 422\nFailed to fetch polls.\nError Response: {\"detail\":\"bad limit\"}\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinterPollsDataKeepsLargeIDs(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, "json").Print(polly.Outcome{
		Operation:  polly.OperationListPolls,
		Kind:       polly.KindSuccess,
		StatusCode: 200,
		Body:       []byte(`[{"id":9007199254740993}]`),
	})

	want := "Status Code: 200\nSuccessfully fetched polls!\nPolls Data:\n[\n  {\n    \"id\": 9007199254740993\n  }\n]\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

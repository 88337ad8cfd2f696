package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendMessagePayload(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := New("TOKEN", "42", 5*time.Second)
	c.BaseURL = server.URL

	if err := c.SendMessage(context.Background(), "hello", "MarkdownV2"); err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}

	if gotPath != "/botTOKEN/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotPayload["chat_id"] != "42" || gotPayload["text"] != "hello" {
		t.Fatalf("unexpected payload: %v", gotPayload)
	}
	if gotPayload["parse_mode"] != "MarkdownV2" {
		t.Fatalf("parse_mode missing: %v", gotPayload)
	}
}

func TestSendMessageOmitsEmptyParseMode(t *testing.T) {
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := New("TOKEN", "42", 5*time.Second)
	c.BaseURL = server.URL

	if err := c.SendMessage(context.Background(), "raw text", ""); err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if _, ok := gotPayload["parse_mode"]; ok {
		t.Fatalf("parse_mode must be omitted for plain messages: %v", gotPayload)
	}
}

func TestRejectionClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"can't parse entities"}`))
	}))
	defer server.Close()

	c := New("TOKEN", "42", 5*time.Second)
	c.BaseURL = server.URL

	err := c.SendMessage(context.Background(), "*bad", "MarkdownV2")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsRejection(err) {
		t.Fatalf("400 should classify as rejection: %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Description != "can't parse entities" {
		t.Fatalf("description not decoded: %v", err)
	}
}

func TestServerErrorIsNotRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := New("TOKEN", "42", 5*time.Second)
	c.BaseURL = server.URL

	err := c.SendPhoto(context.Background(), "https://example.com/p.jpg", "cap", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if IsRejection(err) {
		t.Fatalf("502 must not classify as rejection: %v", err)
	}
}

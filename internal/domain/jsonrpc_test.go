package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRequestSerialization(t *testing.T) {
	req := &Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  map[string]interface{}{"name": "product_list"},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	var decoded Request
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal request: %v", err)
	}

	if decoded.Method != "tools/call" {
		t.Errorf("Expected method 'tools/call', got '%s'", decoded.Method)
	}
	if decoded.ID != float64(1) {
		t.Errorf("Expected ID 1, got %v", decoded.ID)
	}
}

func TestRequestSerialization_Notification(t *testing.T) {
	req := &Request{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal notification: %v", err)
	}

	if strings.Contains(string(data), "\"id\"") {
		t.Error("Expected id to be omitted for a notification")
	}
	if strings.Contains(string(data), "\"params\"") {
		t.Error("Expected params to be omitted when absent")
	}
}

func TestResponseSerialization(t *testing.T) {
	response := &Response{
		JSONRPC: "2.0",
		ID:      1,
		Result:  map[string]interface{}{"tools": []interface{}{}},
	}

	data, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	if strings.Contains(string(data), "\"error\"") {
		t.Error("Expected error to be omitted on a success response")
	}

	var decoded Response
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if decoded.Result == nil {
		t.Error("Expected result to survive the round trip")
	}
}

func TestResponseSerialization_Error(t *testing.T) {
	response := &Response{
		JSONRPC: "2.0",
		ID:      2,
		Error: &Error{
			Code:    MethodNotFound,
			Message: "Method not found",
			Data:    "unsupported method: resources/list",
		},
	}

	data, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to marshal error response: %v", err)
	}

	if strings.Contains(string(data), "\"result\"") {
		t.Error("Expected result to be omitted on an error response")
	}

	var decoded Response
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal error response: %v", err)
	}
	if decoded.Error == nil {
		t.Fatal("Expected error to survive the round trip")
	}
	if decoded.Error.Code != MethodNotFound {
		t.Errorf("Expected code %d, got %d", MethodNotFound, decoded.Error.Code)
	}
}

func TestErrorInterface(t *testing.T) {
	err := &Error{
		Code:    InvalidParams,
		Message: "Invalid params",
	}

	if err.Error() != "Invalid params" {
		t.Errorf("Expected 'Invalid params', got '%s'", err.Error())
	}
}

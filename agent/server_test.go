package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/imkonsowa/foodorder-chatbot/catalog"
	"github.com/imkonsowa/foodorder-chatbot/chatbot"
	"github.com/imkonsowa/foodorder-chatbot/models"
)

type chatReply struct {
	Session string `json:"session"`
	Intent  string `json:"intent"`
	Reply   string `json:"reply"`
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, err := NewHandler(context.Background(), staticLoader(testStore(t, defaultFoods()...)), memoryHistories())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	return NewAgent(h).Router()
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func TestChatEndpoint(t *testing.T) {
	r := testRouter(t)

	w := do(t, r, http.MethodPost, "/chat", `{"session":"abc","message":"Show me the MENU"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var got chatReply
	decode(t, w, &got)
	if got.Session != "abc" {
		t.Errorf("session = %q", got.Session)
	}
	if got.Intent != "menu" {
		t.Errorf("intent = %q, want menu", got.Intent)
	}
	if !strings.Contains(got.Reply, "Margherita") || strings.Contains(got.Reply, "Calzone") {
		t.Errorf("unexpected menu reply: %q", got.Reply)
	}
}

func TestChatEndpointAssignsSession(t *testing.T) {
	r := testRouter(t)

	w := do(t, r, http.MethodPost, "/chat", `{"message":"help"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var got chatReply
	decode(t, w, &got)
	if got.Session == "" {
		t.Error("expected a generated session")
	}
	if got.Intent != "help" {
		t.Errorf("intent = %q, want help", got.Intent)
	}
}

func TestChatEndpointRejectsBadInput(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing message", body: `{"session":"abc"}`},
		{name: "blank message", body: `{"message":"   "}`},
		{name: "not json", body: `message=menu`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/chat", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHistoryEndpoints(t *testing.T) {
	r := testRouter(t)

	do(t, r, http.MethodPost, "/chat", `{"session":"s1","message":"hello"}`)
	do(t, r, http.MethodPost, "/chat", `{"session":"s1","message":"where are you located"}`)

	w := do(t, r, http.MethodGet, "/chat/history?session=s1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var got HistoryResponse
	decode(t, w, &got)
	if len(got.Messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(got.Messages))
	}
	if got.Messages[2] != (models.ChatMessage{Role: models.RoleHuman, Content: "where are you located"}) {
		t.Errorf("third message = %+v", got.Messages[2])
	}

	if w := do(t, r, http.MethodDelete, "/chat/history?session=s1", ""); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/chat/history?session=s1", "")
	decode(t, w, &got)
	if len(got.Messages) != 0 {
		t.Errorf("history not cleared: %+v", got.Messages)
	}

	if w := do(t, r, http.MethodGet, "/chat/history", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing session status = %d, want 400", w.Code)
	}
}

func TestFoodEndpoints(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		target string
		want   int
	}{
		{target: "/foods", want: 3},
		{target: "/foods?available=true", want: 2},
		{target: "/foods?category=1", want: 2},
		{target: "/foods?category=1&available=true", want: 1},
		{target: "/foods?category=7", want: 0},
	}

	for _, tt := range tests {
		w := do(t, r, http.MethodGet, tt.target, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", tt.target, w.Code)
			continue
		}

		var got struct {
			Count int           `json:"count"`
			Foods []models.Food `json:"foods"`
		}
		decode(t, w, &got)
		if got.Count != tt.want || len(got.Foods) != tt.want {
			t.Errorf("%s: count = %d (%d foods), want %d", tt.target, got.Count, len(got.Foods), tt.want)
		}
	}

	if w := do(t, r, http.MethodGet, "/foods?category=pizza", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad category status = %d, want 400", w.Code)
	}

	w := do(t, r, http.MethodGet, "/foods/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("food status = %d", w.Code)
	}
	var food struct {
		Food     models.Food `json:"food"`
		Category string      `json:"category"`
		Location string      `json:"location"`
	}
	decode(t, w, &food)
	if food.Food.Name != "Lemonade" || food.Category != "Drinks" || food.Location != "Downtown" {
		t.Errorf("unexpected food response: %+v", food)
	}

	if w := do(t, r, http.MethodGet, "/foods/42", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing food status = %d, want 404", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/foods/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("invalid id status = %d, want 400", w.Code)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	r := testRouter(t)

	var categories []models.Category
	decode(t, do(t, r, http.MethodGet, "/categories", ""), &categories)
	if len(categories) != 2 || categories[0].Name != "Pizza" {
		t.Errorf("categories = %+v", categories)
	}

	var locations []models.Location
	decode(t, do(t, r, http.MethodGet, "/locations", ""), &locations)
	if len(locations) != 1 || locations[0].Name != "Downtown" {
		t.Errorf("locations = %+v", locations)
	}

	if w := do(t, r, http.MethodPost, "/catalog/reload", ""); w.Code != http.StatusOK {
		t.Errorf("reload status = %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
}

func TestChatWebSocket(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws?session=ws1"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	var hello struct {
		Type string `json:"type"`
		Data string `json:"data"`
	}
	if err := c.ReadJSON(&hello); err != nil {
		t.Fatalf("read session: %v", err)
	}
	if hello.Type != "session" || hello.Data != "ws1" {
		t.Errorf("session message = %+v", hello)
	}

	if err := c.WriteMessage(websocket.TextMessage, []byte("what drinks do you have")); err != nil {
		t.Fatalf("write: %v", err)
	}

	var msg struct {
		Type string    `json:"type"`
		Data chatReply `json:"data"`
	}
	if err := c.ReadJSON(&msg); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if msg.Type != "chat" || msg.Data.Intent != "category" || !strings.Contains(msg.Data.Reply, "Lemonade") {
		t.Errorf("unexpected reply: %+v", msg)
	}
}

func TestEmptyCatalogListsAreArrays(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, err := NewHandler(context.Background(), staticLoader(testStore(t)), memoryHistories())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	empty, err := catalog.New(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h.engine.Store(chatbot.New(empty))
	r := NewAgent(h).Router()

	for _, target := range []string{"/categories", "/locations"} {
		w := do(t, r, http.MethodGet, target, "")
		if got := strings.TrimSpace(w.Body.String()); got != "[]" {
			t.Errorf("%s = %s, want []", target, got)
		}
	}

	w := do(t, r, http.MethodGet, "/foods", "")
	if !strings.Contains(w.Body.String(), `"foods":[]`) {
		t.Errorf("/foods = %s", w.Body.String())
	}
}

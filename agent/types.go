package main

import (
	"fmt"
	"strings"

	"github.com/imkonsowa/foodorder-chatbot/chatbot"
	"github.com/imkonsowa/foodorder-chatbot/models"
)

type ChatRequest struct {
	Session string `json:"session"`
	Message string `json:"message" binding:"required"`
}

func (c *ChatRequest) Validate() error {
	if strings.TrimSpace(c.Message) == "" {
		return fmt.Errorf("message must not be blank")
	}

	return nil
}

type ChatResponse struct {
	Session string         `json:"session"`
	Intent  chatbot.Intent `json:"intent"`
	Reply   string         `json:"reply"`
}

type HistoryResponse struct {
	Session  string               `json:"session"`
	Messages []models.ChatMessage `json:"messages"`
}

type WebSocketsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

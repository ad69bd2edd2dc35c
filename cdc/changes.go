package main

import (
	"encoding/json"
	"fmt"

	"github.com/imkonsowa/foodorder-chatbot/config"
	"github.com/imkonsowa/foodorder-chatbot/models"
)

const (
	KindInsert = "insert"
	KindUpdate = "update"
	KindDelete = "delete"
)

// walMessage is one wal2json (format v1) transaction.
type walMessage struct {
	Change []walChange `json:"change"`
}

type walChange struct {
	Kind         string        `json:"kind"`
	Table        string        `json:"table"`
	ColumnNames  []string      `json:"columnnames,omitempty"`
	ColumnValues []interface{} `json:"columnvalues,omitempty"`
	OldKeys      *struct {
		KeyNames  []string      `json:"keynames"`
		KeyValues []interface{} `json:"keyvalues"`
	} `json:"oldkeys,omitempty"`
}

// Change is the notification published for every catalog row change.
type Change struct {
	Table string `json:"table"`
	Kind  string `json:"kind"`
	ID    int    `json:"id"`
}

func (c walChange) id() (int, bool) {
	names, values := c.ColumnNames, c.ColumnValues
	if c.Kind == KindDelete {
		if c.OldKeys == nil {
			return 0, false
		}
		names, values = c.OldKeys.KeyNames, c.OldKeys.KeyValues
	}

	for i, name := range names {
		if name != "id" || i >= len(values) {
			continue
		}
		if v, ok := values[i].(float64); ok {
			return int(v), true
		}
	}

	return 0, false
}

// Router maps catalog tables to the subjects their changes go to.
type Router map[string]string

func NewRouter(cfg config.Nats) Router {
	return Router{
		(&models.Food{}).TableName():     cfg.FoodsSubject,
		(&models.Category{}).TableName(): cfg.CategoriesSubject,
		(&models.Location{}).TableName(): cfg.LocationsSubject,
	}
}

// Tables lists the watched tables in a stable order.
func (r Router) Tables() []string {
	return []string{
		(&models.Category{}).TableName(),
		(&models.Location{}).TableName(),
		(&models.Food{}).TableName(),
	}
}

type routedChange struct {
	Subject string
	Change  Change
}

// Route decodes a wal2json payload and keeps the changes of watched tables.
// Rows without a readable id are skipped.
func (r Router) Route(payload []byte) ([]routedChange, error) {
	var msg walMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode wal2json: %w", err)
	}

	var routed []routedChange
	for _, c := range msg.Change {
		switch c.Kind {
		case KindInsert, KindUpdate, KindDelete:
		default:
			continue
		}

		subject, ok := r[c.Table]
		if !ok {
			continue
		}

		id, ok := c.id()
		if !ok {
			continue
		}

		routed = append(routed, routedChange{
			Subject: subject,
			Change:  Change{Table: c.Table, Kind: c.Kind, ID: id},
		})
	}

	return routed, nil
}

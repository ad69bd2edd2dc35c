package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imkonsowa/foodorder-chatbot/config"

	"github.com/jackc/pglogrepl"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgproto3"
)

const (
	outputPlugin   = "wal2json"
	standbyTimeout = 10 * time.Second
)

// Listener streams catalog row changes from the postgres WAL and publishes a
// notification per changed row.
type Listener struct {
	config    *config.Config
	router    Router
	publisher Publisher

	conn     *pgx.Conn
	replConn *pgconn.PgConn
	position pglogrepl.LSN
}

func NewListener(cfg *config.Config, router Router, publisher Publisher) *Listener {
	return &Listener{
		config:    cfg,
		router:    router,
		publisher: publisher,
	}
}

func (l *Listener) Run(ctx context.Context) error {
	var err error
	l.conn, err = pgx.Connect(ctx, l.config.Postgres.ConnStr())
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}

	if err := l.ensurePublication(ctx); err != nil {
		return err
	}

	slotLSN, slotFound, err := l.slotPosition(ctx)
	if err != nil {
		return fmt.Errorf("check replication slot: %w", err)
	}

	l.replConn, err = pgconn.Connect(ctx, l.config.Postgres.ReplicationConnStr())
	if err != nil {
		return fmt.Errorf("connect for replication: %w", err)
	}

	start := slotLSN
	if !slotFound {
		if start, err = l.createSlot(ctx); err != nil {
			return err
		}
	} else if start == 0 {
		sysident, err := pglogrepl.IdentifySystem(ctx, l.replConn)
		if err != nil {
			return fmt.Errorf("identify system: %w", err)
		}
		start = sysident.XLogPos
	}

	err = pglogrepl.StartReplication(ctx, l.replConn, l.config.Replication.Slot, start,
		pglogrepl.StartReplicationOptions{PluginArgs: l.pluginArgs()},
	)
	if err != nil {
		return fmt.Errorf("start replication: %w", err)
	}

	slog.Info("watching catalog tables", "slot", l.config.Replication.Slot, "lsn", start, "tables", l.router.Tables())

	l.position = start
	return l.stream(ctx)
}

func (l *Listener) pluginArgs() []string {
	tables := make([]string, 0, len(l.router))
	for _, t := range l.router.Tables() {
		tables = append(tables, "public."+t)
	}

	return []string{
		"\"pretty-print\" 'false'",
		"\"include-xids\" 'false'",
		"\"include-timestamp\" 'false'",
		"\"add-tables\" '" + strings.Join(tables, ",") + "'",
	}
}

func (l *Listener) stream(ctx context.Context) error {
	deadline := time.Now().Add(standbyTimeout)

	for {
		if time.Now().After(deadline) {
			if err := l.confirm(ctx); err != nil {
				return err
			}
			deadline = time.Now().Add(standbyTimeout)
		}

		receiveCtx, cancel := context.WithDeadline(ctx, deadline)
		raw, err := l.replConn.ReceiveMessage(receiveCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if pgconn.Timeout(err) {
				continue
			}
			return fmt.Errorf("receive message: %w", err)
		}

		if pgErr, ok := raw.(*pgproto3.ErrorResponse); ok {
			return fmt.Errorf("postgres WAL error: %+v", pgErr)
		}

		msg, ok := raw.(*pgproto3.CopyData)
		if !ok || len(msg.Data) == 0 {
			continue
		}

		switch msg.Data[0] {
		case pglogrepl.PrimaryKeepaliveMessageByteID:
			pkm, err := pglogrepl.ParsePrimaryKeepaliveMessage(msg.Data[1:])
			if err != nil {
				return fmt.Errorf("parse keepalive: %w", err)
			}
			l.advance(pkm.ServerWALEnd)
			if pkm.ReplyRequested {
				deadline = time.Time{}
			}

		case pglogrepl.XLogDataByteID:
			xld, err := pglogrepl.ParseXLogData(msg.Data[1:])
			if err != nil {
				return fmt.Errorf("parse xlog: %w", err)
			}

			if len(xld.WALData) > 0 {
				l.publish(xld.WALData)
			}
			l.advance(xld.WALStart + pglogrepl.LSN(len(xld.WALData)))
		}
	}
}

// publish forwards the watched changes of one transaction. Undecodable
// payloads are logged and skipped so the slot keeps advancing.
func (l *Listener) publish(payload []byte) int {
	changes, err := l.router.Route(payload)
	if err != nil {
		slog.Error("skipping WAL payload", "err", err)
		return 0
	}

	published := 0
	for _, c := range changes {
		if err := l.publisher.Publish(c.Subject, c.Change); err != nil {
			slog.Error("publish catalog change", "err", err, "subject", c.Subject, "table", c.Change.Table, "id", c.Change.ID)
			continue
		}
		published++
		slog.Debug("published catalog change", "subject", c.Subject, "kind", c.Change.Kind, "id", c.Change.ID)
	}

	return published
}

func (l *Listener) advance(lsn pglogrepl.LSN) {
	if lsn > l.position {
		l.position = lsn
	}
}

func (l *Listener) confirm(ctx context.Context) error {
	return pglogrepl.SendStandbyStatusUpdate(ctx, l.replConn, pglogrepl.StandbyStatusUpdate{
		WALWritePosition: l.position,
		WALFlushPosition: l.position,
		WALApplyPosition: l.position,
	})
}

func (l *Listener) Close(ctx context.Context) {
	if l.conn != nil {
		l.conn.Close(ctx)
	}
	if l.replConn != nil {
		l.replConn.Close(ctx)
	}
}

func (l *Listener) ensurePublication(ctx context.Context) error {
	name := l.config.Replication.Name

	var exists bool
	err := l.conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_publication WHERE pubname = $1)", name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check publication: %w", err)
	}
	if exists {
		return nil
	}

	tables := make([]string, 0, len(l.router))
	for _, t := range l.router.Tables() {
		tables = append(tables, pgx.Identifier{t}.Sanitize())
	}

	stmt := fmt.Sprintf("CREATE PUBLICATION %s FOR TABLE %s", pgx.Identifier{name}.Sanitize(), strings.Join(tables, ", "))
	if _, err := l.conn.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create publication: %w", err)
	}

	slog.Info("created publication", "name", name)
	return nil
}

// slotPosition reports the confirmed position of the replication slot and
// whether the slot exists at all.
func (l *Listener) slotPosition(ctx context.Context) (pglogrepl.LSN, bool, error) {
	var lsn *string
	err := l.conn.QueryRow(ctx,
		"SELECT confirmed_flush_lsn FROM pg_replication_slots WHERE slot_name = $1",
		l.config.Replication.Slot).Scan(&lsn)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if lsn == nil {
		return 0, true, nil
	}

	pos, err := pglogrepl.ParseLSN(*lsn)
	return pos, true, err
}

func (l *Listener) createSlot(ctx context.Context) (pglogrepl.LSN, error) {
	result, err := pglogrepl.CreateReplicationSlot(ctx, l.replConn, l.config.Replication.Slot, outputPlugin,
		pglogrepl.CreateReplicationSlotOptions{Temporary: false})
	if err != nil {
		return 0, fmt.Errorf("create replication slot: %w", err)
	}

	slog.Info("created replication slot", "name", l.config.Replication.Slot)
	return pglogrepl.ParseLSN(result.ConsistentPoint)
}

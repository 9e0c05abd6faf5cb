package warehouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// NativeExecutor speaks the ClickHouse native protocol.
type NativeExecutor struct {
	conn driver.Conn
}

func NewNativeExecutor(addr, database, username, password string) (*NativeExecutor, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &NativeExecutor{conn: conn}, nil
}

func (e *NativeExecutor) Execute(ctx context.Context, statement string) error {
	return e.conn.Exec(ctx, statement)
}

func (e *NativeExecutor) Close() error { return e.conn.Close() }

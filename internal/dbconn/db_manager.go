// Package dbconn manages SQL database connections opened from Scheme code
// via (import (base sql)). Connections are kept server-side and handed
// back to Scheme as an opaque integer handle (package primitives' db-*
// procedures), the same indirection a Port cell uses to keep Go pointers
// out of Scheme-visible data.
package dbconn

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Manager tracks open connections keyed by an incrementing handle id.
type Manager struct {
	mu      sync.RWMutex
	conns   map[int64]*Conn
	nextID  int64
}

// Conn is one open database connection.
type Conn struct {
	ID       int64
	Type     string
	DB       *sql.DB
	DSN      string
	Created  time.Time
	LastUsed time.Time
}

// NewManager creates an empty connection manager.
func NewManager() *Manager {
	return &Manager{conns: make(map[int64]*Conn)}
}

func driverFor(dbType string) (string, bool) {
	switch dbType {
	case "sqlite", "sqlite3":
		return "sqlite", true
	case "postgres", "postgresql":
		return "postgres", true
	case "mysql":
		return "mysql", true
	case "mssql", "sqlserver":
		return "sqlserver", true
	default:
		return "", false
	}
}

// Open connects to dsn using dbType's driver and returns the new
// connection's handle id.
func (m *Manager) Open(dbType, dsn string) (int64, error) {
	driver, ok := driverFor(dbType)
	if !ok {
		return 0, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return 0, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.conns[id] = &Conn{ID: id, Type: dbType, DB: db, DSN: dsn, Created: time.Now(), LastUsed: time.Now()}
	return id, nil
}

func (m *Manager) get(id int64) (*Conn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.conns[id]
	if !ok {
		return nil, fmt.Errorf("no open connection with handle %d", id)
	}
	return conn, nil
}

// Exec runs a query that doesn't return rows (INSERT, UPDATE, DELETE).
func (m *Manager) Exec(id int64, query string, args ...interface{}) (int64, error) {
	conn, err := m.get(id)
	if err != nil {
		return 0, err
	}
	conn.LastUsed = time.Now()
	result, err := conn.DB.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("execution failed: %w", err)
	}
	return result.RowsAffected()
}

// Query runs a query that returns rows, materializing each row as a
// column-name -> value map in the order rows.Columns() reports.
func (m *Manager) Query(id int64, query string, args ...interface{}) ([]string, []map[string]interface{}, error) {
	conn, err := m.get(id)
	if err != nil {
		return nil, nil, err
	}
	conn.LastUsed = time.Now()

	rows, err := conn.DB.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var results []map[string]interface{}
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range columns {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return columns, results, rows.Err()
}

// Close closes and forgets a connection.
func (m *Manager) Close(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.conns[id]
	if !ok {
		return fmt.Errorf("no open connection with handle %d", id)
	}
	delete(m.conns, id)
	return conn.DB.Close()
}

// CloseAll closes every tracked connection, used at interpreter shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, conn := range m.conns {
		conn.DB.Close()
		delete(m.conns, id)
	}
}

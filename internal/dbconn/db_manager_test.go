package dbconn

import "testing"

func TestDriverFor(t *testing.T) {
	cases := map[string]string{
		"sqlite":     "sqlite",
		"sqlite3":    "sqlite",
		"postgres":   "postgres",
		"postgresql": "postgres",
		"mysql":      "mysql",
		"mssql":      "sqlserver",
		"sqlserver":  "sqlserver",
	}
	for in, want := range cases {
		got, ok := driverFor(in)
		if !ok || got != want {
			t.Errorf("driverFor(%q) = %q, %v; want %q, true", in, got, ok, want)
		}
	}
	if _, ok := driverFor("oracle"); ok {
		t.Error("driverFor(\"oracle\") should report not-ok")
	}
}

func TestManagerUnknownHandle(t *testing.T) {
	m := NewManager()
	if _, err := m.get(99); err == nil {
		t.Error("get on unknown handle should error")
	}
	if err := m.Close(99); err == nil {
		t.Error("Close on unknown handle should error")
	}
}

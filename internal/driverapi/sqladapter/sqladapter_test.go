package sqladapter

import "testing"

func TestOpen_UnknownDriverNameErrors(t *testing.T) {
	if _, err := Open("not-a-registered-driver", "dsn"); err == nil {
		t.Fatalf("Open(unregistered driver) = nil error, want error")
	}
}

func TestOpen_RegisteredDriverNamesSucceed(t *testing.T) {
	// sql.Open does not dial; it only validates the driver is registered
	// and the DSN is syntactically acceptable to the driver's parser.
	for _, name := range []string{DriverSQLite} {
		d, err := Open(name, ":memory:")
		if err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
		if d == nil {
			t.Fatalf("Open(%s) returned nil driver", name)
		}
		_ = d.Close()
	}
}

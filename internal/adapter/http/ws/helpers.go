package wshandler

import (
	ws "github.com/Temutjin2k/safebike-web/pkg/wsHub"
)

// errorResponse tells the tab why its socket is being closed. Tabs ignore
// messages carrying an error instead of reloading.
func errorResponse(conn *ws.Conn, message string) error {
	return conn.Send(map[string]string{"error": message})
}

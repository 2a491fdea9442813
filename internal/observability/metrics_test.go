package observability

import (
	"testing"
	"time"

	"github.com/voidwell/scenectl/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)

	RegisterMetrics()
	RegisterMetrics()

	RecordCommand("spawn_actor", "success")
	RecordBytesReceived(128)
	ConnectionOpened()
	ConnectionClosed()
	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
}

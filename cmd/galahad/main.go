// Command galahad runs the galahad annotation-recommender server.
//
// Optional environment variables (see internal/config for the full list):
//
//	GALAHAD_DATA_ROOT      - filesystem root for datasets/models/locks (default: ./galahad_data)
//	GALAHAD_PORT           - HTTP listen port (default: 8080)
//	GALAHAD_LOG_LEVEL      - debug, info, warn, error (default: info)
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "galahad: %v\n", err)
		os.Exit(1)
	}
}

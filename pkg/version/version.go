package version

import (
	"fmt"
	"strconv"
	"time"
)

// Set at build time using ldflags.
var (
	version   = "unknown"
	buildTime = ""
)

func Version() string {
	return version
}

func BuildTime() (time.Time, error) {
	epoch, err := strconv.ParseInt(buildTime, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("build time not set")
	}
	return time.Unix(epoch, 0), nil
}

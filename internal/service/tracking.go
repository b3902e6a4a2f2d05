package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTrackingID formats CIV-<base36 unix millis>-<4 random chars>, uppercase.
func NewTrackingID(now time.Time) string {
	stamp := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := uuid.NewString()[:4]
	return strings.ToUpper("CIV-" + stamp + "-" + suffix)
}

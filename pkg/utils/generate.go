package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.New().String()
}

// GenerateOrderRef returns a customer facing booking reference.
// Format: BK-YYYYMMDD-XXXXXXXX
func GenerateOrderRef(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("BK-%s-%s", now.UTC().Format("20060102"), random)
}

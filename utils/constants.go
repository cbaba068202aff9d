// File: utils/constants.go
package utils

import "time"

// StatsCachePrefix is the prefix used for Redis statistics cache keys.
const StatsCachePrefix = "stats:"

// AdminTokenTTL is the lifetime of a back-office token.
const AdminTokenTTL = 12 * time.Hour

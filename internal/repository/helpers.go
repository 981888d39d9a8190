package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// ensureRecordID prefixes a bare id with its table name. Catalog ids arrive
// from clients as "12345"; stored references come back as "book:12345".
func ensureRecordID(table, id string) string {
	if strings.HasPrefix(id, table+":") {
		return id
	}
	return table + ":" + id
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		// Handle {"tb": "table", "id": "xxx"} format
		tb, _ := v["tb"].(string)
		if tb == "" {
			tb, _ = v["Table"].(string)
		}
		inner := v["id"]
		if inner == nil {
			inner = v["ID"]
		}
		if s, ok := inner.(string); ok && tb != "" {
			return tb + ":" + s
		}
		if tb != "" {
			return fmt.Sprintf("%s:%v", tb, inner)
		}
	}
	return ""
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getIDSlice extracts a slice of record ids (owner sets) from a map,
// converting each element through convertSurrealID.
func getIDSlice(m map[string]interface{}, key string) []string {
	v, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(v))
	for _, item := range v {
		if id := convertSurrealID(item); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) time.Time {
	switch t := m[key].(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// extractQueryResults extracts the records array from a SurrealDB response
func extractQueryResults(result []interface{}) []interface{} {
	records := make([]interface{}, 0)
	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				records = append(records, resultData...)
				continue
			}
		}
		records = append(records, res)
	}
	return records
}
